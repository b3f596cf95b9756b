package normalize

import (
	"strings"
	"unicode"
)

// Turkish letters with no direct ASCII counterpart, both cases, mapped to
// their closest ASCII equivalent. 'I' is included because the Turkish
// lowercase of 'I' is 'ı', which folds to 'i' as well.
var turkishFold = map[rune]rune{
	'ç': 'c', 'Ç': 'c',
	'ğ': 'g', 'Ğ': 'g',
	'ı': 'i', 'I': 'i',
	'i': 'i', 'İ': 'i',
	'ö': 'o', 'Ö': 'o',
	'ş': 's', 'Ş': 's',
	'ü': 'u', 'Ü': 'u',
}

// Fold lower-cases s and strips Turkish diacritics, producing the API-safe
// lookup key used for both directory names and query path segments. Pure and
// total; Fold(Fold(s)) == Fold(s) for every s.
func Fold(s string) string {
	if s == "" {
		return ""
	}

	return strings.Map(func(r rune) rune {
		if mapped, ok := turkishFold[r]; ok {
			return mapped
		}
		return unicode.ToLower(r)
	}, s)
}
