package view

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/michaelanot/GameList/internal/catalog"
	"github.com/michaelanot/GameList/internal/observe"
	"github.com/michaelanot/GameList/internal/testutil"
)

// fakeSource is an in-memory Source.
type fakeSource struct {
	*observe.Value[[]catalog.Record]
}

func newFakeSource(records []catalog.Record) *fakeSource {
	return &fakeSource{observe.NewValue(records)}
}

func (s *fakeSource) Snapshot() []catalog.Record {
	return s.Get()
}

// rec builds a record with only a name and console.
func rec(id, name string, console catalog.Console) catalog.Record {
	return catalog.Record{
		ID:     id,
		Fields: catalog.Fields{Name: name, Console: console},
	}
}

func withPrices(r catalog.Record, buy, sell string) catalog.Record {
	if buy != "" {
		r.PriceBuy = decimal.NewNullDecimal(decimal.RequireFromString(buy))
	}
	if sell != "" {
		r.PriceSell = decimal.NewNullDecimal(decimal.RequireFromString(sell))
	}
	return r
}

// collection builds n records alternating between the given consoles, newest
// first as the repository publishes them.
func collection(n int, consoles ...catalog.Console) []catalog.Record {
	clock := testutil.NewStepClockAt(testutil.DefaultEpoch, time.Minute)
	out := make([]catalog.Record, n)
	for i := range n {
		r := rec(fmt.Sprintf("game-%04d", i+1), fmt.Sprintf("Game %02d", i+1), consoles[i%len(consoles)])
		r.CreatedAt = clock.Now()
		r.UpdatedAt = r.CreatedAt
		out[n-1-i] = r
	}
	return out
}

// withConsoleCounts builds a collection with exactly the requested number of
// records per console.
func withConsoleCounts(counts map[catalog.Console]int) []catalog.Record {
	var out []catalog.Record
	i := 0
	for _, c := range catalog.Consoles {
		for range counts[c] {
			i++
			out = append(out, rec(fmt.Sprintf("game-%04d", i), fmt.Sprintf("Game %02d", i), c))
		}
	}
	return out
}

func ids(records []catalog.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
