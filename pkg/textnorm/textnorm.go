// Package textnorm normaliza texto para búsquedas insensibles a mayúsculas y tildes.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold pasa a minúsculas y elimina diacríticos: "Café Molido" -> "cafe molido".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Contains informa si substr aparece en s ignorando mayúsculas y tildes.
func Contains(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}
