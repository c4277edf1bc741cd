package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/michaelanot/GameList/internal/catalog"
)

// Add inserts a new record.
// Returns catalog.ErrDuplicateID if a record with the same id exists.
func (s *Store) Add(ctx context.Context, rec catalog.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("add record: empty id")
	}
	cols := recordColumns(rec)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records
		(id, name, name_key, console, jacket, jacket_mime, jacket_url, price_buy, price_sell, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, cols...)
	if err != nil {
		if isPrimaryKeyViolation(err) {
			return fmt.Errorf("add record %s: %w", rec.ID, catalog.ErrDuplicateID)
		}
		return fmt.Errorf("add record %s: %w", rec.ID, err)
	}
	return nil
}

// Put inserts the record, or replaces every column of an existing record
// with the same id.
func (s *Store) Put(ctx context.Context, rec catalog.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("put record: empty id")
	}
	cols := recordColumns(rec)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records
		(id, name, name_key, console, jacket, jacket_mime, jacket_url, price_buy, price_sell, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			name_key = excluded.name_key,
			console = excluded.console,
			jacket = excluded.jacket,
			jacket_mime = excluded.jacket_mime,
			jacket_url = excluded.jacket_url,
			price_buy = excluded.price_buy,
			price_sell = excluded.price_sell,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, cols...)
	if err != nil {
		return fmt.Errorf("put record %s: %w", rec.ID, err)
	}
	return nil
}

// Update merges patch into the record with the given id.
// Returns catalog.ErrNotFound if the record does not exist.
//
// The read-modify-write runs in a single transaction.
func (s *Store) Update(ctx context.Context, id string, patch catalog.Patch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update record %s: begin tx: %w", id, err)
	}
	defer tx.Rollback() // No-op if committed

	rec, err := scanRecord(tx.QueryRowContext(ctx, selectRecord+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update record %s: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update record %s: %w", id, err)
	}

	patch.Apply(&rec)
	cols := recordColumns(rec)

	_, err = tx.ExecContext(ctx, `
		UPDATE records SET
			name = ?, name_key = ?, console = ?, jacket = ?, jacket_mime = ?, jacket_url = ?,
			price_buy = ?, price_sell = ?, created_at = ?, updated_at = ?
		WHERE id = ?
	`, append(cols[1:], rec.ID)...)
	if err != nil {
		return fmt.Errorf("update record %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update record %s: commit: %w", id, err)
	}
	return nil
}

// Delete removes the record with the given id. Deleting a missing id is a
// no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	return nil
}

// recordColumns returns the insert arguments in column order:
// id, name, name_key, console, jacket, jacket_mime, jacket_url, price_buy,
// price_sell, created_at, updated_at.
func recordColumns(rec catalog.Record) []any {
	var jacket []byte
	var mime sql.NullString
	if rec.Jacket != nil {
		jacket = rec.Jacket.Data
		mime = sql.NullString{String: rec.Jacket.MIME, Valid: true}
	}
	url := sql.NullString{String: rec.JacketURL, Valid: rec.JacketURL != ""}

	return []any{
		rec.ID,
		rec.Name,
		catalog.NameKey(rec.Name),
		string(rec.Console),
		jacket,
		mime,
		url,
		rec.PriceBuy,
		rec.PriceSell,
		rec.CreatedAt.UnixMilli(),
		rec.UpdatedAt.UnixMilli(),
	}
}

// isPrimaryKeyViolation reports whether err is SQLite rejecting a duplicate
// primary key.
func isPrimaryKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
