package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldName lowercases s, strips diacritics and collapses inner whitespace,
// so that "Em  Produção" and "em producao" compare equal.
func FoldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// NameMatches reports whether name folds to any of the candidates
func NameMatches(name string, candidates ...string) bool {
	f := FoldName(name)
	for _, c := range candidates {
		if f == FoldName(c) {
			return true
		}
	}
	return false
}
