package view

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/michaelanot/GameList/internal/catalog"
)

// DefaultPageSize is the reveal window increment when none is configured.
const DefaultPageSize = 20

// Filter returns the records matching q's text and console, in input order.
// The input slice is not modified.
func Filter(records []catalog.Record, q Query) []catalog.Record {
	m := newMatcher(q)
	out := make([]catalog.Record, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a stably sorted copy of records. An inactive spec returns the
// records in input order. Null prices order before any value.
func Sort(records []catalog.Record, spec SortSpec) []catalog.Record {
	out := slices.Clone(records)
	if out == nil {
		out = []catalog.Record{}
	}
	if !spec.Active() {
		return out
	}

	compare := comparator(spec.Field)
	sign := 1
	if spec.Dir == Desc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b catalog.Record) int {
		return sign * compare(a, b)
	})
	return out
}

// Window returns the first k records, or all of them when k exceeds the
// length. A non-positive k yields an empty window.
func Window(records []catalog.Record, k int) []catalog.Record {
	k = clampWindow(k, len(records))
	return records[:k:k]
}

// Derive runs the full pipeline and returns the visible records together
// with the length of the sorted result.
func Derive(snapshot []catalog.Record, q Query, k int) (visible []catalog.Record, total int) {
	sorted := Sort(Filter(snapshot, q), q.Sort)
	return Window(sorted, k), len(sorted)
}

func clampWindow(k, n int) int {
	return max(0, min(k, n))
}

func comparator(f SortField) func(a, b catalog.Record) int {
	switch f {
	case SortName:
		return func(a, b catalog.Record) int { return cmp.Compare(a.Name, b.Name) }
	case SortConsole:
		return func(a, b catalog.Record) int { return cmp.Compare(a.Console, b.Console) }
	case SortPriceBuy:
		return func(a, b catalog.Record) int { return compareNullDecimal(a.PriceBuy, b.PriceBuy) }
	case SortPriceSell:
		return func(a, b catalog.Record) int { return compareNullDecimal(a.PriceSell, b.PriceSell) }
	case SortCreatedAt:
		return func(a, b catalog.Record) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortUpdatedAt:
		return func(a, b catalog.Record) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	default:
		return func(catalog.Record, catalog.Record) int { return 0 }
	}
}

func compareNullDecimal(a, b decimal.NullDecimal) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return -1
	case !b.Valid:
		return 1
	default:
		return a.Decimal.Cmp(b.Decimal)
	}
}
