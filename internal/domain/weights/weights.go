// Package weights converts an ordinal criteria ranking into normalized
// Rank Order Centroid (ROC) weights.
package weights

import "math"

// SumTolerance is the accepted deviation of a weight vector's sum from 1.0.
const SumTolerance = 1e-3

// Compute returns one normalized ROC weight per criterion.
//
// rankOf holds, for criterion i, its 0-based position in the priority order
// (0 = highest priority) and must be a permutation of [0, count-1]. For the
// 1-based rank r = rankOf[i]+1 the raw weight is (sum_{j=r}^{count} 1/j)/count,
// so better ranks receive strictly larger weights. The raw weights are then
// normalized to sum to exactly 1.
//
// Compute is a pure total function: count 0 yields an empty slice and no
// error states exist for valid permutations.
func Compute(count int, rankOf []int) []float64 {
	if count == 0 {
		return []float64{}
	}

	ws := make([]float64, count)
	for i := 0; i < count; i++ {
		rank := rankOf[i] + 1
		var w float64
		for j := rank; j <= count; j++ {
			w += 1.0 / float64(j)
		}
		ws[i] = w / float64(count)
	}

	var total float64
	for _, w := range ws {
		total += w
	}
	if total > 0 {
		for i := range ws {
			ws[i] /= total
		}
	}
	return ws
}

// Sum returns the total of a weight vector.
func Sum(ws []float64) float64 {
	var total float64
	for _, w := range ws {
		total += w
	}
	return total
}

// Normalized reports whether the weight vector sums to 1.0 within SumTolerance.
// An empty vector is considered normalized (degenerate session).
func Normalized(ws []float64) bool {
	if len(ws) == 0 {
		return true
	}
	return math.Abs(Sum(ws)-1.0) <= SumTolerance
}
