package evaluation

import "math"

// Result is the derived score of one vendor. Sums are rounded to display
// precision (raw 2, weighted 3, normalized 1 decimals); the underlying
// computation runs at full float precision.
type Result struct {
	Vendor          string  `json:"vendor"`
	RawSum          float64 `json:"raw_sum"`
	WeightedSum     float64 `json:"weighted_sum"`
	NormalizedScore float64 `json:"normalized_score"`
}

// ComputeResults combines the ratings matrix with ROC weights into one
// Result per vendor, in registry order. weights is aligned by index with
// criteria. The normalized score is weightedSum/RatingMax on a 0-100 scale,
// which assumes the weights sum to 1.
//
// An empty vendor or criteria list degenerates to an empty slice; no error
// states exist over validated inputs.
func ComputeResults(vendors, criteria []string, weights []float64, m *Matrix) []Result {
	if len(vendors) == 0 || len(criteria) == 0 || m.Empty() {
		return []Result{}
	}

	results := make([]Result, 0, len(vendors))
	for _, vendor := range vendors {
		var rawSum, weightedSum float64
		for i, criterion := range criteria {
			rating, err := m.Get(vendor, criterion)
			if err != nil {
				// Stale matrix; the caller reconciles before computing.
				continue
			}
			rawSum += float64(rating)
			weightedSum += float64(rating) * weights[i]
		}
		normalized := weightedSum / float64(RatingMax) * 100

		results = append(results, Result{
			Vendor:          vendor,
			RawSum:          round(rawSum, 2),
			WeightedSum:     round(weightedSum, 3),
			NormalizedScore: round(normalized, 1),
		})
	}
	return results
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
