package catalog

import (
	"bytes"
	"time"

	"github.com/shopspring/decimal"
)

// Image is a locally stored cover picture.
type Image struct {
	MIME string
	Data []byte
}

// Clone returns a deep copy of the image. A nil receiver yields nil.
func (img *Image) Clone() *Image {
	if img == nil {
		return nil
	}
	return &Image{MIME: img.MIME, Data: bytes.Clone(img.Data)}
}

// Equal reports whether two images carry the same MIME type and bytes.
func (img *Image) Equal(other *Image) bool {
	if img == nil || other == nil {
		return img == other
	}
	return img.MIME == other.MIME && bytes.Equal(img.Data, other.Data)
}

// Fields are the user-editable attributes of a record.
type Fields struct {
	Name    string
	Console Console

	// Jacket and JacketURL are mutually exclusive.
	Jacket    *Image
	JacketURL string

	PriceBuy  decimal.NullDecimal
	PriceSell decimal.NullDecimal
}

// HasLocalArtwork reports whether the record carries a binary cover.
func (f Fields) HasLocalArtwork() bool {
	return f.Jacket != nil && len(f.Jacket.Data) > 0
}

// Record is one catalogued game.
type Record struct {
	ID string
	Fields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy of the record that shares no mutable state.
func (r Record) Clone() Record {
	r.Jacket = r.Jacket.Clone()
	return r
}

// Field is an optional assignment inside a Patch. The zero value leaves the
// target untouched.
type Field[T any] struct {
	Set   bool
	Value T
}

// Set returns a Field that assigns v.
func Set[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Patch is a partial update. Only fields with Set == true are applied.
type Patch struct {
	Name      Field[string]
	Console   Field[Console]
	Jacket    Field[*Image]
	JacketURL Field[string]
	PriceBuy  Field[decimal.NullDecimal]
	PriceSell Field[decimal.NullDecimal]
	UpdatedAt Field[time.Time]
}

// IsEmpty reports whether the patch assigns nothing.
func (p Patch) IsEmpty() bool {
	return !p.Name.Set && !p.Console.Set && !p.Jacket.Set && !p.JacketURL.Set &&
		!p.PriceBuy.Set && !p.PriceSell.Set && !p.UpdatedAt.Set
}

// Apply merges the patch into r.
func (p Patch) Apply(r *Record) {
	if p.Name.Set {
		r.Name = p.Name.Value
	}
	if p.Console.Set {
		r.Console = p.Console.Value
	}
	if p.Jacket.Set {
		r.Jacket = p.Jacket.Value.Clone()
	}
	if p.JacketURL.Set {
		r.JacketURL = p.JacketURL.Value
	}
	if p.PriceBuy.Set {
		r.PriceBuy = p.PriceBuy.Value
	}
	if p.PriceSell.Set {
		r.PriceSell = p.PriceSell.Value
	}
	if p.UpdatedAt.Set {
		r.UpdatedAt = p.UpdatedAt.Value
	}
}
