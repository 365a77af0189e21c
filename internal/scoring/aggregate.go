package scoring

import (
	"math"

	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

// WeightedMean returns Σ(w·s)/Σw over the pairs, clamped to [0,1]. Non-positive
// or non-finite weights contribute nothing; the result is 0 when Σw is 0.
func WeightedMean(weights, scores []float64) float64 {
	var sumW, sumWS float64
	for i, w := range weights {
		if i >= len(scores) || !(w > 0) || math.IsInf(w, 0) {
			continue
		}
		sumW += w
		sumWS += w * clamp01(scores[i])
	}
	if sumW == 0 {
		return 0
	}
	return clamp01(sumWS / sumW)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// dedupe keeps the first occurrence of every code.
func dedupe(lists ...[]suggestions.Code) []suggestions.Code {
	seen := make(map[suggestions.Code]bool)
	out := []suggestions.Code{}
	for _, list := range lists {
		for _, c := range list {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
