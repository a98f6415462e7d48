// Package slug derives URL-friendly identifiers from display names.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Letters that do not decompose into an ASCII base plus combining marks.
var special = strings.NewReplacer(
	"ı", "i", "ß", "ss", "æ", "ae", "ø", "o", "đ", "d", "ł", "l", "œ", "oe",
)

// Generate creates a URL-friendly slug from the given name. Accented letters
// are folded to their ASCII base.
//
// Examples:
//   - "Fresh Vegetables" → "fresh-vegetables"
//   - "Crème Fraîche & Dairy" → "creme-fraiche-dairy"
//   - "  Jalapeño   Peppers!" → "jalapeno-peppers"
func Generate(name string) string {
	s := special.Replace(strings.ToLower(strings.TrimSpace(name)))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	return strings.Trim(nonAlnum.ReplaceAllString(s, "-"), "-")
}

// Unique returns base, or base suffixed with -2, -3, ... until taken reports
// false.
func Unique(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}
