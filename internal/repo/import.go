package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/michaelanot/GameList/internal/catalog"
)

// ErrNotArray is returned when an import document is not a JSON array.
var ErrNotArray = errors.New("document must be a JSON array")

// ImportResult reports the outcome of a best-effort batch import.
type ImportResult struct {
	OK   int
	Fail int

	// Errors holds one entry per failed element, in document order.
	Errors []ItemError
}

// ItemError describes why one element of an import was rejected.
type ItemError struct {
	Index int
	ID    string
	Err   error
}

func (e ItemError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("item %d (%s): %v", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e ItemError) Unwrap() error {
	return e.Err
}

func (res *ImportResult) record(index int, id string, err error) {
	if err == nil {
		res.OK++
		return
	}
	res.Fail++
	res.Errors = append(res.Errors, ItemError{Index: index, ID: id, Err: err})
}

// ImportReader reads a whole document from rd and imports it.
func (r *Repository) ImportReader(ctx context.Context, rd io.Reader) (ImportResult, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import: read: %w", err)
	}
	return r.ImportJSON(ctx, data)
}

// ImportJSON parses a document produced by ExportAll (or a hand-written
// array of objects with at least name and console) and upserts every
// element by id.
//
// Only a document that is not a JSON array is an error. Elements are
// applied independently: one that fails to decode, validate or store is
// counted in Fail and the import moves on.
func (r *Repository) ImportJSON(ctx context.Context, data []byte) (ImportResult, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return ImportResult{}, fmt.Errorf("import: %w: %v", ErrNotArray, err)
	}
	if elems == nil {
		return ImportResult{}, fmt.Errorf("import: %w: got null", ErrNotArray)
	}

	var res ImportResult
	for i, raw := range elems {
		var doc DocumentRecord
		if err := json.Unmarshal(raw, &doc); err != nil {
			res.record(i, "", fmt.Errorf("decode: %w", err))
			continue
		}
		id, err := r.importOne(ctx, doc)
		res.record(i, id, err)
	}

	return r.finishImport(ctx, res)
}

// ImportRecords upserts already-decoded elements with the same per-item
// isolation as ImportJSON.
func (r *Repository) ImportRecords(ctx context.Context, docs []DocumentRecord) (ImportResult, error) {
	var res ImportResult
	for i, doc := range docs {
		id, err := r.importOne(ctx, doc)
		res.record(i, id, err)
	}
	return r.finishImport(ctx, res)
}

func (r *Repository) finishImport(ctx context.Context, res ImportResult) (ImportResult, error) {
	for _, itemErr := range res.Errors {
		r.log.Warn("import item rejected", "index", itemErr.Index, "id", itemErr.ID, "error", itemErr.Err)
	}
	r.log.Info("import finished", "ok", res.OK, "fail", res.Fail)

	if err := r.Refresh(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// importOne rebuilds a record from doc and stores it. Returns the id used.
func (r *Repository) importOne(ctx context.Context, doc DocumentRecord) (string, error) {
	rec, err := r.fromDocument(doc)
	if err != nil {
		return doc.ID, err
	}
	if err := r.store.Put(ctx, rec); err != nil {
		return rec.ID, err
	}
	return rec.ID, nil
}

// fromDocument validates doc and converts it into a record. Missing ids and
// timestamps are filled in.
func (r *Repository) fromDocument(doc DocumentRecord) (catalog.Record, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return catalog.Record{}, errors.New("name is required")
	}
	console, err := catalog.ParseConsole(doc.Console)
	if err != nil {
		return catalog.Record{}, err
	}
	if err := checkPrice("priceBuy", doc.PriceBuy); err != nil {
		return catalog.Record{}, err
	}
	if err := checkPrice("priceSell", doc.PriceSell); err != nil {
		return catalog.Record{}, err
	}

	rec := catalog.Record{
		ID: doc.ID,
		Fields: catalog.Fields{
			Name:      doc.Name,
			Console:   console,
			PriceBuy:  doc.PriceBuy,
			PriceSell: doc.PriceSell,
		},
	}
	if doc.JacketURL != nil {
		rec.JacketURL = *doc.JacketURL
	}
	if doc.Jacket != nil && *doc.Jacket != "" {
		if catalog.IsDataURL(*doc.Jacket) {
			img, err := catalog.DecodeDataURL(*doc.Jacket)
			if err != nil {
				return catalog.Record{}, fmt.Errorf("jacket: %w", err)
			}
			rec.Jacket = img
		} else if rec.JacketURL == "" {
			rec.JacketURL = *doc.Jacket
		}
	}
	// Binary artwork wins: a record never carries both representations.
	if rec.Jacket != nil {
		rec.JacketURL = ""
	}

	if rec.ID == "" {
		rec.ID = r.ids.NewID()
	}
	var now time.Time
	if doc.CreatedAt == nil || doc.UpdatedAt == nil {
		now = r.clock.Now()
	}
	rec.CreatedAt = now
	if doc.CreatedAt != nil {
		rec.CreatedAt = time.UnixMilli(*doc.CreatedAt)
	}
	rec.UpdatedAt = rec.CreatedAt
	if doc.UpdatedAt != nil {
		rec.UpdatedAt = time.UnixMilli(*doc.UpdatedAt)
	}
	return rec, nil
}

func checkPrice(field string, p decimal.NullDecimal) error {
	if p.Valid && p.Decimal.IsNegative() {
		return fmt.Errorf("%s must not be negative", field)
	}
	return nil
}
