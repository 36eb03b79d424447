package resolver

import (
	"github.com/agext/levenshtein"

	"github.com/vk/tfkit/internal/model"
)

// suggest returns the declared address closest to the failed symbol, when
// the edit distance is small enough to be a plausible typo.
func (idx *index) suggest(symbol string) string {
	cleaned := model.BaseName(symbol)

	best := ""
	bestDist := 4 // only distances 0..3 are worth suggesting
	for candidate := range idx.nodes {
		d := levenshtein.Distance(cleaned, candidate, nil)
		// Ties break lexicographically so suggestions do not depend on map
		// iteration order.
		if d < bestDist || (d == bestDist && best != "" && candidate < best) {
			best, bestDist = candidate, d
		}
	}
	return best
}
