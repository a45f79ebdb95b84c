// Package ranking orders candidate properties by similarity to a target.
package ranking

import (
	"sort"

	"github.com/arijit3111w/estateai/internal/domain/model"
	"github.com/arijit3111w/estateai/internal/domain/scoring"
)

// DefaultK is the usual number of similar properties shown.
const DefaultK = 10

// Rank scores every candidate and returns the k best, most similar first.
// The sort is stable, so equal scores keep dataset order. k <= 0 returns
// every candidate. A nil scorer uses the default weights.
func Rank(candidates []model.PropertyRecord, target model.TargetFeatureVector, k int, scorer scoring.Scorer) []model.ScoredCandidate {
	if len(candidates) == 0 {
		return []model.ScoredCandidate{}
	}
	if scorer == nil {
		scorer = scoring.NewSimilarityScorer()
	}

	scored := make([]model.ScoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = model.ScoredCandidate{
			PropertyRecord: c,
			Similarity:     scorer.Score(c, target),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Without returns candidates minus the record with the given id, keeping order.
func Without(candidates []model.PropertyRecord, id string) []model.PropertyRecord {
	out := make([]model.PropertyRecord, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// IsOrdered reports whether scored is non-increasing by similarity.
func IsOrdered(scored []model.ScoredCandidate) bool {
	for i := 1; i < len(scored); i++ {
		if scored[i].Similarity > scored[i-1].Similarity {
			return false
		}
	}
	return true
}

// ByInvestment stably reorders scored by investment score, highest first.
// Candidates without a score sort after scored ones. The input is not modified.
func ByInvestment(scored []model.ScoredCandidate) []model.ScoredCandidate {
	out := make([]model.ScoredCandidate, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].InvestmentScore, out[j].InvestmentScore
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
	return out
}
