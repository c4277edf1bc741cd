package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/michaelanot/GameList/internal/catalog"
)

// ExportAll writes every record as a single JSON array to w, newest first.
//
// The document is self-contained: binary artwork is inlined as base64 data
// URLs carrying the original MIME type, so ImportJSON can rebuild the exact
// bytes.
func (r *Repository) ExportAll(ctx context.Context, w io.Writer) error {
	all, err := r.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	docs := toDocuments(all)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !r.compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}

	r.log.Info("collection exported", "records", len(docs))
	return nil
}

// ExportJSON is ExportAll into a byte slice.
func (r *Repository) ExportJSON(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.ExportAll(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toDocuments converts records in order.
func toDocuments(records []catalog.Record) []DocumentRecord {
	docs := make([]DocumentRecord, 0, len(records))
	for _, rec := range records {
		docs = append(docs, toDocument(rec))
	}
	return docs
}
