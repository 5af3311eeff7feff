// Package dedup resolves two author lists into matched pairs and records
// unique to either list.
//
// Matching runs in two stages. A cascade of normalizers first buckets both
// lists by a cheap key and accepts every unambiguous one-to-one bucket whose
// distance is within the threshold. Whatever remains is compared pairwise,
// split into connected components of sub-threshold edges, and each
// component is resolved by an optimal assignment.
package dedup

import (
	"github.com/helixir/author-match/internal/domain"
)

// MaxDistance is the distance reported when two records share no evidence.
const MaxDistance = 1.0

// Distance scores how different two records are. Lower values mean more
// similar. Implementations must be deterministic and return finite values;
// an error aborts the match run and is returned to the caller.
type Distance interface {
	Distance(a, b domain.Record) (float64, error)
}

// DistanceFunc adapts an ordinary function to the Distance interface.
type DistanceFunc func(a, b domain.Record) (float64, error)

// Distance calls f(a, b).
func (f DistanceFunc) Distance(a, b domain.Record) (float64, error) {
	return f(a, b)
}
