package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/michaelanot/GameList/internal/catalog"
)

const selectRecord = `
	SELECT id, name, console, jacket, jacket_mime, jacket_url, price_buy, price_sell, created_at, updated_at
	FROM records`

// Get retrieves a single record by id.
// Returns catalog.ErrNotFound if the record does not exist.
func (s *Store) Get(ctx context.Context, id string) (catalog.Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectRecord+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Record{}, fmt.Errorf("get record %s: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return catalog.Record{}, fmt.Errorf("get record %s: %w", id, err)
	}
	return rec, nil
}

// ListAll returns every record, newest first.
// Ties on created_at are broken by id so the order is deterministic.
//
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListAll(ctx context.Context) ([]catalog.Record, error) {
	return s.queryRecords(ctx, selectRecord+`
		ORDER BY created_at DESC, id COLLATE BINARY DESC
	`)
}

// FindByNameConsole returns the records whose name matches
// case-insensitively on the given console, oldest first.
func (s *Store) FindByNameConsole(ctx context.Context, name string, console catalog.Console) ([]catalog.Record, error) {
	return s.queryRecords(ctx, selectRecord+`
		WHERE name_key = ? AND console = ?
		ORDER BY created_at ASC, id COLLATE BINARY ASC
	`, catalog.NameKey(name), string(console))
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]catalog.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []catalog.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans one row selected with selectRecord.
func scanRecord(row rowScanner) (catalog.Record, error) {
	var (
		rec       catalog.Record
		console   string
		jacket    []byte
		mime      sql.NullString
		url       sql.NullString
		priceBuy  decimal.NullDecimal
		priceSell decimal.NullDecimal
		created   int64
		updated   int64
	)

	if err := row.Scan(
		&rec.ID, &rec.Name, &console, &jacket, &mime, &url,
		&priceBuy, &priceSell, &created, &updated,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Record{}, err
		}
		return catalog.Record{}, fmt.Errorf("scan record: %w", err)
	}

	rec.Console = catalog.Console(console)
	if len(jacket) > 0 {
		rec.Jacket = &catalog.Image{MIME: mime.String, Data: jacket}
	}
	rec.JacketURL = url.String
	rec.PriceBuy = priceBuy
	rec.PriceSell = priceSell
	rec.CreatedAt = time.UnixMilli(created)
	rec.UpdatedAt = time.UnixMilli(updated)
	return rec, nil
}
