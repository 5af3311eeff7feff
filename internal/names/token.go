package names

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Distances charged when at least one side of a token comparison is an initial.
const (
	InitialExactDistance    = 0.0
	InitialPrefixDistance   = 0.05
	InitialMismatchDistance = 1.0
)

// Token is one normalized word of a parsed name. Text holds only lowercase
// ASCII letters, apostrophes and hyphens.
type Token struct {
	Text    string
	Initial bool
}

// NewToken normalizes a name phrase into a Token. A phrase whose normalized
// form is a single character becomes an initial.
func NewToken(phrase string) Token {
	text := normalizeToken(phrase)
	return Token{
		Text:    text,
		Initial: utf8.RuneCountInString(text) == 1,
	}
}

func normalizeToken(s string) string {
	s = strings.ToLower(s)

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || c == '\'' || c == '-' {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Equal reports token equality. Full tokens compare exactly; an initial
// equals any token whose text starts with the initial.
func Equal(a, b Token) bool {
	if a.Initial && strings.HasPrefix(b.Text, a.Text) {
		return true
	}
	if b.Initial && strings.HasPrefix(a.Text, b.Text) {
		return true
	}
	return a.Text == b.Text
}

// TokenDistance returns the distance between two tokens in [0, 1].
//
// If either token is an initial the distance is 0 for identical text, 0.05
// when the initial is a prefix of the other token and 1 otherwise. Two full
// tokens are compared by edit distance normalized by the longer length.
func TokenDistance(a, b Token) float64 {
	if a.Initial || b.Initial {
		switch {
		case a.Text == b.Text:
			return InitialExactDistance
		case Equal(a, b):
			return InitialPrefixDistance
		default:
			return InitialMismatchDistance
		}
	}
	return NormalizedEditDistance(a.Text, b.Text)
}

// NormalizedEditDistance is the Levenshtein distance divided by the length
// of the longer string, with a floor of 1 on the denominator.
func NormalizedEditDistance(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b), 1)
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}
