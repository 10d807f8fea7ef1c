package guess

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize reduces a title to a canonical matching form: lowercased,
// accents stripped, punctuation removed, whitespace collapsed.
func Normalize(title string) string {
	s := strings.ToLower(title)
	s = stripAccents(s)
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'':
			// dropped, so "don't" matches "dont"
		case r == '-' || r == ':' || r == '.' || unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, _ := transform.String(t, s)
	return out
}
