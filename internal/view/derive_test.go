package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelanot/GameList/internal/catalog"
)

func TestFilter(t *testing.T) {
	records := []catalog.Record{
		rec("1", "Super Mario World", catalog.SNES),
		rec("2", "Super Metroid", catalog.SNES),
		rec("3", "Zelda", catalog.NES),
		rec("4", "Sonic", catalog.MegaDrive),
		rec("5", "Mario Kart 64", catalog.N64),
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"empty query keeps all", Query{}, []string{"1", "2", "3", "4", "5"}},
		{"text matches name case-insensitively", Query{Text: "MARIO"}, []string{"1", "5"}},
		{"text is trimmed", Query{Text: "  metroid "}, []string{"2"}},
		{"text matches console", Query{Text: "snes"}, []string{"1", "2"}},
		{"text matches accented console", Query{Text: "méga"}, []string{"4"}},
		{"console filter is exact", Query{Console: "NES"}, []string{"3"}},
		{"console filter ignores case", Query{Console: "mégadrive"}, []string{"4"}},
		{"text and console combine", Query{Text: "super", Console: "SNES"}, []string{"1", "2"}},
		{"no match", Query{Text: "halo"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(records, tt.query)))
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	records := collection(25, catalog.NES, catalog.SNES)
	q := Query{Text: "game 1", Console: "SNES"}

	once := Filter(records, q)
	twice := Filter(once, q)
	assert.Equal(t, ids(once), ids(twice))
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	records := collection(5, catalog.NES, catalog.SNES)
	before := ids(records)
	Filter(records, Query{Console: "NES"})
	assert.Equal(t, before, ids(records))
}

func TestSort_ByName(t *testing.T) {
	records := []catalog.Record{
		rec("1", "Zelda", catalog.NES),
		rec("2", "Contra", catalog.NES),
		rec("3", "Metroid", catalog.NES),
	}
	assert.Equal(t, []string{"2", "3", "1"}, ids(Sort(records, SortSpec{Field: SortName, Dir: Asc})))
	assert.Equal(t, []string{"1", "3", "2"}, ids(Sort(records, SortSpec{Field: SortName, Dir: Desc})))
}

func TestSort_InactiveKeepsOrder(t *testing.T) {
	records := collection(5, catalog.NES)
	for _, spec := range []SortSpec{{}, {Field: SortName}, {Dir: Desc}} {
		assert.Equal(t, ids(records), ids(Sort(records, spec)), "spec %+v", spec)
	}
}

func TestSort_NullPricesFirst(t *testing.T) {
	records := []catalog.Record{
		withPrices(rec("1", "A", catalog.NES), "30", ""),
		withPrices(rec("2", "B", catalog.NES), "", ""),
		withPrices(rec("3", "C", catalog.NES), "5.5", ""),
		withPrices(rec("4", "D", catalog.NES), "", ""),
	}
	assert.Equal(t, []string{"2", "4", "3", "1"}, ids(Sort(records, SortSpec{Field: SortPriceBuy, Dir: Asc})))
	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(Sort(records, SortSpec{Field: SortPriceBuy, Dir: Desc})))
}

func TestSort_Stable(t *testing.T) {
	// Twenty records on two consoles: equal keys must keep input order.
	records := collection(20, catalog.NES, catalog.SNES)
	spec := SortSpec{Field: SortConsole, Dir: Asc}

	sorted := Sort(records, spec)
	require.Len(t, sorted, 20)

	var nes, snes []string
	for _, r := range records {
		if r.Console == catalog.NES {
			nes = append(nes, r.ID)
		} else {
			snes = append(snes, r.ID)
		}
	}
	assert.Equal(t, append(nes, snes...), ids(sorted))
	assert.Equal(t, ids(sorted), ids(Sort(sorted, spec)), "re-sorting is a no-op")
}

func TestSort_ByTimestamps(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)
	a := rec("a", "A", catalog.NES)
	a.CreatedAt, a.UpdatedAt = base, base.Add(3*time.Second)
	b := rec("b", "B", catalog.NES)
	b.CreatedAt, b.UpdatedAt = base.Add(time.Second), base.Add(2*time.Second)

	records := []catalog.Record{b, a}
	assert.Equal(t, []string{"a", "b"}, ids(Sort(records, SortSpec{Field: SortCreatedAt, Dir: Asc})))
	assert.Equal(t, []string{"a", "b"}, ids(Sort(records, SortSpec{Field: SortUpdatedAt, Dir: Desc})))
}

func TestSort_EmptyInput(t *testing.T) {
	out := Sort(nil, SortSpec{Field: SortName, Dir: Asc})
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestWindow(t *testing.T) {
	records := collection(5, catalog.NES)
	assert.Len(t, Window(records, 3), 3)
	assert.Len(t, Window(records, 10), 5)
	assert.Empty(t, Window(records, 0))
	assert.Empty(t, Window(records, -1))
}

func TestDerive_ConsoleFilterScenario(t *testing.T) {
	// 25 records on NES and SNES, 12 of them SNES.
	records := collection(25, catalog.NES, catalog.SNES)
	visible, total := Derive(records, Query{Console: "SNES"}, 20)
	assert.Equal(t, 12, total)
	assert.Len(t, visible, 12)
	for _, r := range visible {
		assert.Equal(t, catalog.SNES, r.Console)
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in      string
		want    SortSpec
		wantErr bool
	}{
		{"", SortSpec{}, false},
		{"name", SortSpec{Field: SortName, Dir: Asc}, false},
		{"priceBuy:desc", SortSpec{Field: SortPriceBuy, Dir: Desc}, false},
		{"PRICESELL:ASC", SortSpec{Field: SortPriceSell, Dir: Asc}, false},
		{"createdAt:", SortSpec{Field: SortCreatedAt}, false},
		{"rating", SortSpec{}, true},
		{"name:sideways", SortSpec{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSort(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortSpec_String(t *testing.T) {
	assert.Equal(t, "name:desc", SortSpec{Field: SortName, Dir: Desc}.String())
	assert.Empty(t, SortSpec{Field: SortName}.String())
}
