// Package names turns raw author-name strings into ordered, typed tokens.
//
// A name is first transliterated to Latin letters, then scanned into
// last-name and non-last-name phrases, and finally converted into Tokens.
// Single-letter phrases become initials, which compare by prefix rather
// than by exact equality. Parsing is deterministic, so a Parser caches
// results per raw input string in a bounded LRU cache.
package names

import (
	"strings"
	"unicode"
)

// Phrases is the result of scanning a personal name.
type Phrases struct {
	LastNames    []string
	NonLastNames []string
}

// particles are lowercase name prefixes that belong to the family name
// when a name is written "First particle Last".
var particles = map[string]bool{
	"van": true, "von": true, "de": true, "der": true, "den": true,
	"da": true, "di": true, "du": true, "del": true, "della": true,
	"dos": true, "das": true, "le": true, "la": true, "ten": true, "ter": true,
}

var suffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true,
}

// Scan splits a name into last-name phrases and non-last-name phrases.
//
// "Last, First Middle" splits on the first comma. Without a comma the final
// word is the last name, together with any lowercase particles directly in
// front of it. Generational suffixes are dropped in both forms. Periods
// separate phrases, so "J.K. Rowling" yields the initials "J" and "K".
func Scan(name string) Phrases {
	name = strings.TrimSpace(name)
	if name == "" {
		return Phrases{}
	}

	if idx := strings.IndexByte(name, ','); idx >= 0 {
		last := dropSuffixes(splitPhrases(name[:idx]))
		rest := dropSuffixes(splitPhrases(name[idx+1:]))
		if len(last) == 0 {
			return scanNatural(rest)
		}
		return Phrases{LastNames: last, NonLastNames: rest}
	}

	return scanNatural(dropSuffixes(splitPhrases(name)))
}

func scanNatural(words []string) Phrases {
	switch len(words) {
	case 0:
		return Phrases{}
	case 1:
		return Phrases{LastNames: words}
	}

	cut := len(words) - 1
	for cut > 1 && isParticle(words[cut-1]) {
		cut--
	}

	return Phrases{
		LastNames:    words[cut:],
		NonLastNames: words[:cut],
	}
}

func splitPhrases(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == ','
	})

	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "-'")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func dropSuffixes(words []string) []string {
	if len(words) < 2 {
		return words
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		if suffixes[strings.ToLower(w)] {
			continue
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return words
	}
	return out
}

// isParticle only accepts particles written in lowercase; "Van" is more
// likely a given name than a prefix.
func isParticle(w string) bool {
	return particles[w]
}
