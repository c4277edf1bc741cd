package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/michaelanot/GameList/internal/catalog"
)

// recordSummary is a record as shown to the user. Binary artwork is
// described, not dumped.
type recordSummary struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Console   string              `json:"console"`
	Artwork   string              `json:"artwork,omitempty"`
	PriceBuy  decimal.NullDecimal `json:"priceBuy"`
	PriceSell decimal.NullDecimal `json:"priceSell"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func summarize(r catalog.Record) recordSummary {
	return recordSummary{
		ID:        r.ID,
		Name:      r.Name,
		Console:   string(r.Console),
		Artwork:   describeArtwork(r.Fields),
		PriceBuy:  r.PriceBuy,
		PriceSell: r.PriceSell,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func summarizeAll(records []catalog.Record) []recordSummary {
	out := make([]recordSummary, 0, len(records))
	for _, r := range records {
		out = append(out, summarize(r))
	}
	return out
}

func describeArtwork(f catalog.Fields) string {
	switch {
	case f.HasLocalArtwork():
		return fmt.Sprintf("%s, %d bytes", f.Jacket.MIME, len(f.Jacket.Data))
	case f.JacketURL != "":
		return f.JacketURL
	default:
		return ""
	}
}

func formatPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return "-"
	}
	return p.Decimal.StringFixed(2)
}

func writeRecord(w io.Writer, s recordSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	artwork := s.Artwork
	if artwork == "" {
		artwork = "-"
	}
	fmt.Fprintf(tw, "ID:\t%s\n", s.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", s.Name)
	fmt.Fprintf(tw, "Console:\t%s\n", s.Console)
	fmt.Fprintf(tw, "Artwork:\t%s\n", artwork)
	fmt.Fprintf(tw, "Bought:\t%s\n", formatPrice(s.PriceBuy))
	fmt.Fprintf(tw, "Sells:\t%s\n", formatPrice(s.PriceSell))
	fmt.Fprintf(tw, "Created:\t%s\n", s.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "Updated:\t%s\n", s.UpdatedAt.Format(time.RFC3339))
	_ = tw.Flush()
}

func writeTable(w io.Writer, records []catalog.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCONSOLE\tCOVER\tBOUGHT\tSELLS")
	for _, r := range records {
		cover := "-"
		if r.HasLocalArtwork() {
			cover = "image"
		} else if r.JacketURL != "" {
			cover = "url"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Console, cover, formatPrice(r.PriceBuy), formatPrice(r.PriceSell))
	}
	_ = tw.Flush()
}
