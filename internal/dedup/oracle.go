package dedup

import (
	"fmt"

	"github.com/helixir/author-match/internal/domain"
)

// GroundTruth is GroundTruthDistance as a Distance.
var GroundTruth Distance = DistanceFunc(GroundTruthDistance)

// GroundTruthDistance decides whether two records are the same person from
// their identifiers alone. It is meant for evaluating other distances, not
// for production matching.
//
// Identifier schemes are checked in domain.IdentifierSchemes order and the
// first scheme present on both records decides: 0 if the values agree,
// 1 otherwise. Records without a common scheme score 1.
//
// GroundTruthDistance panics with a *domain.ContractError when neither
// record carries any recognized identifier: that is a setup bug in the
// caller's data, not a condition to score.
func GroundTruthDistance(a, b domain.Record) (float64, error) {
	for _, scheme := range domain.IdentifierSchemes {
		x, okA := a.ID(scheme)
		y, okB := b.ID(scheme)
		if !okA || !okB {
			continue
		}
		if x == y {
			return 0, nil
		}
		return MaxDistance, nil
	}

	if !a.HasAnyID(domain.IdentifierSchemes...) && !b.HasAnyID(domain.IdentifierSchemes...) {
		panic(&domain.ContractError{
			Op:      "ground truth distance",
			Message: fmt.Sprintf("neither %q nor %q carries a recognized identifier", a.FullName, b.FullName),
			Cause:   domain.ErrNoIdentifier,
		})
	}

	return MaxDistance, nil
}
