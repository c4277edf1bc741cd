package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/michaelanot/GameList/internal/catalog"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Fresh file
// 1 - records table, created_at index
// 2 - name_key column, (name_key, console) index, duplicates removed
const currentSchemaVersion = 2

// Store provides durable storage for game records.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	// Version 1 is the base table, created by schema.sql.
	if version < 2 {
		if err := migrateToV2(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV2 introduces the (name_key, console) index.
//
// Files created at v1 lack the name_key column: it is added and backfilled.
// Rows that collide on (name_key, console) are then deleted, keeping the
// oldest one of each group, before the index is created. Surviving ids are
// untouched.
func migrateToV2(db *sql.DB) error {
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate to v2: begin tx: %w", err)
	}
	defer tx.Rollback()

	has, err := hasColumn(ctx, tx, "records", "name_key")
	if err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}
	if !has {
		if _, err := tx.ExecContext(ctx, `ALTER TABLE records ADD COLUMN name_key TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("migrate to v2: add name_key: %w", err)
		}
	}

	// Backfill in Go: SQLite's lower() only folds ASCII.
	rows, err := tx.QueryContext(ctx, `
		SELECT id, name, console FROM records
		ORDER BY created_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return fmt.Errorf("migrate to v2: scan names: %w", err)
	}
	type row struct{ id, key string }
	var all []row
	seen := make(map[string]bool)
	var duplicates []string
	for rows.Next() {
		var id, name, console string
		if err := rows.Scan(&id, &name, &console); err != nil {
			rows.Close()
			return fmt.Errorf("migrate to v2: scan row: %w", err)
		}
		key := catalog.NameKey(name)
		all = append(all, row{id: id, key: key})
		group := key + "|" + console
		if seen[group] {
			duplicates = append(duplicates, id)
			continue
		}
		seen[group] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("migrate to v2: iterate rows: %w", err)
	}
	rows.Close()

	for _, r := range all {
		if _, err := tx.ExecContext(ctx, `UPDATE records SET name_key = ? WHERE id = ?`, r.key, r.id); err != nil {
			return fmt.Errorf("migrate to v2: backfill %s: %w", r.id, err)
		}
	}

	if len(duplicates) > 0 {
		slog.Warn("removing duplicate records before indexing", "count", len(duplicates))
		for _, id := range duplicates {
			if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
				return fmt.Errorf("migrate to v2: delete duplicate %s: %w", id, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_records_name_console
		ON records(name_key, console)
	`); err != nil {
		return fmt.Errorf("migrate to v2: create index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate to v2: commit: %w", err)
	}
	return nil
}

// hasColumn reports whether table has a column named column.
func hasColumn(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("table info %s: %w", table, err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
