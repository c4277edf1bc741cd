package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelanot/GameList/internal/catalog"
	"github.com/michaelanot/GameList/internal/store"
	"github.com/michaelanot/GameList/internal/testutil"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

// createTestStore opens a fresh SQLite file in a temp dir.
func createTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// createTestRepo returns a repository with a deterministic clock and ids.
func createTestRepo(t *testing.T) (*Repository, *testutil.StepClock) {
	t.Helper()
	clock := testutil.NewStepClock()
	r := New(createTestStore(t), Options{
		Clock: clock,
		IDs:   testutil.NewSequentialIDs("game"),
	})
	return r, clock
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// assertSameRecord compares records field by field. Decimal and time values
// are compared by value rather than by internal representation.
func assertSameRecord(t *testing.T, want, got catalog.Record) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID, "id")
	assert.Equal(t, want.Name, got.Name, "name")
	assert.Equal(t, want.Console, got.Console, "console")
	assert.True(t, want.Jacket.Equal(got.Jacket), "jacket of %s", want.ID)
	assert.Equal(t, want.JacketURL, got.JacketURL, "jacketUrl")
	assertSamePrice(t, want.PriceBuy, got.PriceBuy)
	assertSamePrice(t, want.PriceSell, got.PriceSell)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "createdAt %v != %v", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updatedAt %v != %v", want.UpdatedAt, got.UpdatedAt)
}

func assertSamePrice(t *testing.T, want, got decimal.NullDecimal) {
	t.Helper()
	require.Equal(t, want.Valid, got.Valid, "price validity")
	if want.Valid {
		assert.True(t, want.Decimal.Equal(got.Decimal), "price %s != %s", want.Decimal, got.Decimal)
	}
}

func snapshotIDs(records []catalog.Record) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

var errBroken = errors.New("disk on fire")

// brokenStore fails every read and write.
type brokenStore struct{}

func (brokenStore) Add(context.Context, catalog.Record) error { return errBroken }
func (brokenStore) Put(context.Context, catalog.Record) error { return errBroken }
func (brokenStore) Get(context.Context, string) (catalog.Record, error) {
	return catalog.Record{}, errBroken
}
func (brokenStore) Update(context.Context, string, catalog.Patch) error { return errBroken }
func (brokenStore) Delete(context.Context, string) error               { return errBroken }
func (brokenStore) ListAll(context.Context) ([]catalog.Record, error)  { return nil, errBroken }
