package dedup

import (
	"fmt"

	"github.com/helixir/author-match/internal/assign"
	"github.com/helixir/author-match/internal/domain"
	"github.com/helixir/author-match/internal/names"
)

// NameDistance compares records by their full names. Both names are
// tokenized, every token of one name is compared with every token of the
// other, and the cheapest one-to-one token alignment decides the score.
type NameDistance struct {
	parser *names.Parser
}

// NewNameDistance creates a NameDistance that parses names through parser.
// A nil parser parses every name without caching.
func NewNameDistance(parser *names.Parser) *NameDistance {
	return &NameDistance{parser: parser}
}

// Distance implements Distance over Record.FullName.
func (d *NameDistance) Distance(a, b domain.Record) (float64, error) {
	return d.Between(a.FullName, b.FullName)
}

// Between returns the distance between two raw name strings.
func (d *NameDistance) Between(x, y string) (float64, error) {
	return ParsedNameDistance(d.parse(x), d.parse(y))
}

func (d *NameDistance) parse(name string) names.ParsedName {
	if d.parser == nil {
		return names.Parse(name)
	}
	return d.parser.Parse(name)
}

// ParsedNameDistance aligns the tokens of two parsed names with a minimum
// cost assignment and returns the aligned cost divided by the shorter
// token count.
//
// When no aligned pair consists of two full tokens the names agree only on
// initials, which is too little evidence, and MaxDistance is returned
// whatever the cost. The same holds when either name has no tokens.
func ParsedNameDistance(x, y names.ParsedName) (float64, error) {
	if x.Len() == 0 || y.Len() == 0 {
		return MaxDistance, nil
	}

	costs := make([][]float64, x.Len())
	for i, tx := range x.Tokens {
		costs[i] = make([]float64, y.Len())
		for j, ty := range y.Tokens {
			costs[i][j] = names.TokenDistance(tx, ty)
		}
	}

	alignment, err := assign.Solve(costs)
	if err != nil {
		return 0, fmt.Errorf("aligning name tokens: %w", err)
	}

	fullTokenMatch := false
	for _, a := range alignment {
		if !x.Tokens[a.Row].Initial && !y.Tokens[a.Col].Initial {
			fullTokenMatch = true
			break
		}
	}
	if !fullTokenMatch {
		return MaxDistance, nil
	}

	return assign.TotalCost(alignment) / float64(max(min(x.Len(), y.Len()), 1)), nil
}
