// Package ranker holds the interchangeable implementations of domain.Ranker.
package ranker

import (
	"sort"

	"github.com/Gthulhu/smoothtask/domain"
)

type scoredGroup struct {
	id    string
	score float64
}

// rankScores orders groups by descending score, keeping input order on ties, and
// derives batch relative percentiles: the best group gets 1.0 and the worst 0.0.
func rankScores(scored []scoredGroup) map[string]domain.RankingResult {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	total := len(scored)
	results := make(map[string]domain.RankingResult, total)
	for idx, g := range scored {
		percentile := 1.0
		if total > 1 {
			percentile = 1.0 - float64(idx)/float64(total-1)
		}
		results[g.id] = domain.RankingResult{
			Score:      g.score,
			Percentile: percentile,
			Rank:       idx + 1,
		}
	}
	return results
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
