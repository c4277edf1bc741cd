package repo

import (
	"github.com/shopspring/decimal"

	"github.com/michaelanot/GameList/internal/catalog"
)

// DocumentRecord is one element of an export document.
//
// The same shape is accepted on import, where every field except name and
// console may be missing:
//   - jacket: a "data:<mime>;base64,..." string, or any other string which is
//     then taken as a URL
//   - jacketUrl: remote artwork URL
//   - priceBuy/priceSell: decimal strings or JSON numbers
//   - createdAt/updatedAt: Unix milliseconds
type DocumentRecord struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Console   string              `json:"console"`
	Jacket    *string             `json:"jacket"`
	JacketURL *string             `json:"jacketUrl"`
	PriceBuy  decimal.NullDecimal `json:"priceBuy"`
	PriceSell decimal.NullDecimal `json:"priceSell"`
	CreatedAt *int64              `json:"createdAt,omitempty"`
	UpdatedAt *int64              `json:"updatedAt,omitempty"`
}

// toDocument converts a stored record into its portable form. Binary
// artwork is inlined as a data URL.
func toDocument(rec catalog.Record) DocumentRecord {
	doc := DocumentRecord{
		ID:        rec.ID,
		Name:      rec.Name,
		Console:   string(rec.Console),
		PriceBuy:  rec.PriceBuy,
		PriceSell: rec.PriceSell,
	}
	if rec.HasLocalArtwork() {
		s := catalog.EncodeDataURL(rec.Jacket)
		doc.Jacket = &s
	}
	if rec.JacketURL != "" {
		u := rec.JacketURL
		doc.JacketURL = &u
	}
	created := rec.CreatedAt.UnixMilli()
	updated := rec.UpdatedAt.UnixMilli()
	doc.CreatedAt = &created
	doc.UpdatedAt = &updated
	return doc
}
