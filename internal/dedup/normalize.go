package dedup

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/helixir/author-match/internal/domain"
	"github.com/helixir/author-match/internal/names"
)

// Names of the built-in normalizers.
const (
	NormalizerFullName         = "full_name"
	NormalizerLastInitials     = "last_initials"
	NormalizerLastFirstInitial = "last_first_initial"
	NormalizerLastName         = "last_name"
)

// DefaultCascade orders the built-in normalizers from the most to the least
// collision-prone key.
var DefaultCascade = []string{
	NormalizerLastName,
	NormalizerLastFirstInitial,
	NormalizerLastInitials,
	NormalizerFullName,
}

// Normalizer maps a record to a bucketing key. Keys are only used to find
// unambiguous candidate pairs; the distance function still decides every
// match. An empty key keeps the record out of the bucketing for that stage.
type Normalizer interface {
	Name() string
	Key(rec domain.Record) (string, error)
}

type normalizerFunc struct {
	name string
	fn   func(domain.Record) (string, error)
}

func (n normalizerFunc) Name() string { return n.name }

func (n normalizerFunc) Key(rec domain.Record) (string, error) { return n.fn(rec) }

// NewNormalizer wraps fn as a Normalizer called name.
func NewNormalizer(name string, fn func(domain.Record) (string, error)) Normalizer {
	return normalizerFunc{name: name, fn: fn}
}

// NormalizerRegistry resolves normalizer names to implementations.
// It is safe for concurrent use.
type NormalizerRegistry struct {
	mu          sync.RWMutex
	normalizers map[string]Normalizer
}

// NewNormalizerRegistry creates a registry holding the built-in normalizers,
// which parse names through parser (nil parses without caching).
func NewNormalizerRegistry(parser *names.Parser) *NormalizerRegistry {
	parse := names.Parse
	if parser != nil {
		parse = parser.Parse
	}

	r := &NormalizerRegistry{normalizers: make(map[string]Normalizer)}
	r.Register(nameKey(NormalizerFullName, parse, fullNameKey))
	r.Register(nameKey(NormalizerLastInitials, parse, lastInitialsKey))
	r.Register(nameKey(NormalizerLastFirstInitial, parse, lastFirstInitialKey))
	r.Register(nameKey(NormalizerLastName, parse, lastNameKey))
	return r
}

// Register adds a normalizer, replacing any existing one with the same name.
func (r *NormalizerRegistry) Register(n Normalizer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalizers[n.Name()] = n
}

// Get returns the normalizer registered under name, or nil.
func (r *NormalizerRegistry) Get(name string) Normalizer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.normalizers[name]
}

// Names returns the registered names in sorted order.
func (r *NormalizerRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.normalizers))
	for name := range r.normalizers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Cascade resolves an ordered list of names. Unknown names are reported
// with domain.ErrInvalidInput.
func (r *NormalizerRegistry) Cascade(order ...string) ([]Normalizer, error) {
	out := make([]Normalizer, 0, len(order))
	for _, name := range order {
		n := r.Get(name)
		if n == nil {
			return nil, fmt.Errorf("%w: unknown normalizer %q (known: %s)",
				domain.ErrInvalidInput, name, strings.Join(r.Names(), ", "))
		}
		out = append(out, n)
	}
	return out, nil
}

func nameKey(name string, parse func(string) names.ParsedName, key func(names.ParsedName) string) Normalizer {
	return NewNormalizer(name, func(rec domain.Record) (string, error) {
		parsed := parse(rec.FullName)
		if len(parsed.Last()) == 0 {
			return "", nil
		}
		return key(parsed), nil
	})
}

func joinTokens(tokens []names.Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

func initials(tokens []names.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteByte(t.Text[0])
	}
	return sb.String()
}

func fullNameKey(p names.ParsedName) string {
	return joinTokens(p.Last()) + "|" + joinTokens(p.Rest())
}

func lastInitialsKey(p names.ParsedName) string {
	return joinTokens(p.Last()) + "|" + initials(p.Rest())
}

func lastFirstInitialKey(p names.ParsedName) string {
	rest := p.Rest()
	if len(rest) > 1 {
		rest = rest[:1]
	}
	return joinTokens(p.Last()) + "|" + initials(rest)
}

func lastNameKey(p names.ParsedName) string {
	return joinTokens(p.Last())
}
