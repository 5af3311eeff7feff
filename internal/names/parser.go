package names

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of parsed names a Parser keeps by default.
const DefaultCacheSize = 10000

// ParsedName is the ordered token sequence of a name: last-name tokens
// first, followed by the remaining tokens. The first LastNames entries of
// Tokens come from last-name phrases.
type ParsedName struct {
	Tokens    []Token
	LastNames int
}

// Last returns the tokens that came from last-name phrases.
func (p ParsedName) Last() []Token {
	return p.Tokens[:p.LastNames]
}

// Rest returns the tokens that came from non-last-name phrases.
func (p ParsedName) Rest() []Token {
	return p.Tokens[p.LastNames:]
}

// Len returns the number of tokens.
func (p ParsedName) Len() int {
	return len(p.Tokens)
}

// String renders the tokens as "last... | rest...", marking initials with a dot.
func (p ParsedName) String() string {
	render := func(tokens []Token) string {
		parts := make([]string, len(tokens))
		for i, t := range tokens {
			parts[i] = t.Text
			if t.Initial {
				parts[i] += "."
			}
		}
		return strings.Join(parts, " ")
	}
	return render(p.Last()) + " | " + render(p.Rest())
}

// CacheObserver receives parse cache hit and miss notifications.
type CacheObserver interface {
	RecordParseCacheHit()
	RecordParseCacheMiss()
}

// Parser parses names and caches the results by raw input string.
// It is safe for concurrent use.
type Parser struct {
	cache    *lru.Cache[string, ParsedName]
	observer CacheObserver
}

// NewParser creates a Parser holding up to size parsed names; the least
// recently used entry is evicted once the cache is full. A size <= 0 selects
// DefaultCacheSize. observer may be nil.
func NewParser(size int, observer CacheObserver) (*Parser, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, ParsedName](size)
	if err != nil {
		return nil, fmt.Errorf("creating parse cache: %w", err)
	}
	return &Parser{cache: cache, observer: observer}, nil
}

// Parse transliterates and tokenizes name. The returned ParsedName is shared
// with the cache and must not be modified.
func (p *Parser) Parse(name string) ParsedName {
	if parsed, ok := p.cache.Get(name); ok {
		if p.observer != nil {
			p.observer.RecordParseCacheHit()
		}
		return parsed
	}
	if p.observer != nil {
		p.observer.RecordParseCacheMiss()
	}

	parsed := Parse(name)
	p.cache.Add(name, parsed)
	return parsed
}

// Len returns the number of cached names.
func (p *Parser) Len() int {
	return p.cache.Len()
}

// Purge empties the cache.
func (p *Parser) Purge() {
	p.cache.Purge()
}

// Parse transliterates and tokenizes name without caching.
func Parse(name string) ParsedName {
	phrases := Scan(Transliterate(name))

	tokens := make([]Token, 0, len(phrases.LastNames)+len(phrases.NonLastNames))
	tokens = appendTokens(tokens, phrases.LastNames)
	lastNames := len(tokens)
	tokens = appendTokens(tokens, phrases.NonLastNames)

	return ParsedName{Tokens: tokens, LastNames: lastNames}
}

func appendTokens(dst []Token, phrases []string) []Token {
	for _, phrase := range phrases {
		tok := NewToken(phrase)
		if tok.Text == "" {
			continue
		}
		dst = append(dst, tok)
	}
	return dst
}
