// Package textmatch normalizes Spanish free text and matches it against
// declarative patterns. Patterns are written in folded form: lower case,
// without accents.
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s, removes diacritics and drops the opening "¿" and "¡"
// marks, so "¿Qué es?" becomes "que es?".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), runes.Remove(runes.Predicate(isOpeningMark)), norm.NFC)
	folded, _, err := transform.String(t, cases.Lower(language.Spanish).String(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.TrimSpace(folded)
}

func isOpeningMark(r rune) bool {
	return r == '¿' || r == '¡'
}

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields("el la los las un una de del en y o a con por para que me mi tu su es son esta estan hay tengo tienes tiene") {
		stopWords[w] = struct{}{}
	}
}

// Keywords splits s on whitespace after folding, trims punctuation around
// each token and drops stop words and tokens of two runes or fewer.
func Keywords(s string) []string {
	var out []string
	for _, tok := range strings.Fields(Fold(s)) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if len([]rune(tok)) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// AnyKeywordIn reports whether any keyword is a substring of one of the
// folded fields.
func AnyKeywordIn(keywords []string, fields ...string) bool {
	for _, field := range fields {
		f := Fold(field)
		if f == "" {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(f, kw) {
				return true
			}
		}
	}
	return false
}
