package names

import (
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Transliterate maps text in any script to a Latin-letter approximation.
// Combining marks are removed first so accented Latin letters keep their
// base letter; everything else goes through the unidecode tables. The
// result is plain ASCII. Characters without a transliteration are dropped.
func Transliterate(s string) string {
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		stripped = s
	}
	return unidecode.Unidecode(stripped)
}
