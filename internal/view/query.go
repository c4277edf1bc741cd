// Package view derives the visible listing from a repository snapshot.
//
// The derivation has three stages, each a pure function:
//
//	snapshot → Filter → Sort → Window(k) → visible
//
// Pipeline wires the stages to a live snapshot and keeps the reveal window.
package view

import (
	"fmt"
	"strings"

	"github.com/michaelanot/GameList/internal/catalog"
)

// SortField names a sortable record attribute.
type SortField string

const (
	SortNone      SortField = ""
	SortName      SortField = "name"
	SortConsole   SortField = "console"
	SortPriceBuy  SortField = "priceBuy"
	SortPriceSell SortField = "priceSell"
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
)

// SortFields lists the accepted fields, excluding SortNone.
var SortFields = []SortField{SortName, SortConsole, SortPriceBuy, SortPriceSell, SortCreatedAt, SortUpdatedAt}

// Direction is the sort order. The zero value means "unsorted".
type Direction string

const (
	DirNone Direction = ""
	Asc     Direction = "asc"
	Desc    Direction = "desc"
)

// SortSpec selects a field and direction. Either part being empty leaves the
// filter order untouched.
type SortSpec struct {
	Field SortField
	Dir   Direction
}

// Active reports whether s reorders anything.
func (s SortSpec) Active() bool {
	return s.Field != SortNone && s.Dir != DirNone
}

// ParseSort parses "field" or "field:dir". A bare field sorts ascending;
// the empty string yields the inactive spec.
func ParseSort(s string) (SortSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortSpec{}, nil
	}
	name, dir, hasDir := strings.Cut(s, ":")

	var spec SortSpec
	for _, f := range SortFields {
		if strings.EqualFold(string(f), name) {
			spec.Field = f
			break
		}
	}
	if spec.Field == SortNone {
		return SortSpec{}, fmt.Errorf("unknown sort field %q: must be one of %v", name, SortFields)
	}

	spec.Dir = Asc
	if hasDir {
		switch Direction(strings.ToLower(dir)) {
		case Asc:
		case Desc:
			spec.Dir = Desc
		case DirNone:
			spec.Dir = DirNone
		default:
			return SortSpec{}, fmt.Errorf("unknown sort direction %q: must be asc or desc", dir)
		}
	}
	return spec, nil
}

func (s SortSpec) String() string {
	if !s.Active() {
		return ""
	}
	return string(s.Field) + ":" + string(s.Dir)
}

// Query is the consumer-controlled input of the pipeline.
type Query struct {
	// Text matches case-insensitively anywhere in the name or console.
	Text string

	// Console restricts results to one platform. Empty means all.
	Console string

	Sort SortSpec
}

// matcher precomputes the folded query terms.
type matcher struct {
	text    string
	console string
}

func newMatcher(q Query) matcher {
	return matcher{
		text:    catalog.Fold(strings.TrimSpace(q.Text)),
		console: catalog.Fold(strings.TrimSpace(q.Console)),
	}
}

func (m matcher) match(r catalog.Record) bool {
	if m.text != "" &&
		!strings.Contains(catalog.Fold(r.Name), m.text) &&
		!strings.Contains(catalog.Fold(string(r.Console)), m.text) {
		return false
	}
	if m.console != "" && catalog.Fold(string(r.Console)) != m.console {
		return false
	}
	return true
}
