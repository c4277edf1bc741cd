package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the case-folded NFC form of s, suitable for case-insensitive
// comparison and substring search.
//
// Casers and transformers are stateful, so a fresh one is built per call.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// StripAccents removes combining marks: "MégaDrive" becomes "MegaDrive".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NameKey is the normalized name used by the (name, console) index.
func NameKey(name string) string {
	return Fold(strings.TrimSpace(name))
}
