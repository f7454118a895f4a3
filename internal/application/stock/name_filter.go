package stock

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldName normaliza para comparar: sin tildes y sin mayúsculas ("Secador Eléctrico" -> "secador electrico").
func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(strings.TrimSpace(stripped))
}

func nameContains(name, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(foldName(name), foldName(needle))
}
