package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/michaelanot/GameList/internal/catalog"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a record with minimal required fields.
func createTestRecord(id, name string, console catalog.Console, createdMillis int64) catalog.Record {
	ts := time.UnixMilli(createdMillis)
	return catalog.Record{
		ID:        id,
		Fields:    catalog.Fields{Name: name, Console: console},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}
