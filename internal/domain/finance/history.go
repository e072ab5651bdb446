package finance

// PricePoint is one closing price in a ticker's history.
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// PriceMetrics summarizes a price history: latest close, percent change
// over the window, and the window's high and low.
type PriceMetrics struct {
	CurrentPrice  float64 `json:"current_price"`
	PercentChange float64 `json:"percent_change"`
	HighestPrice  float64 `json:"highest_price"`
	LowestPrice   float64 `json:"lowest_price"`
}

// SummarizePrices derives PriceMetrics from a history. Returns false when
// the history is empty or starts at zero (percent change undefined).
func SummarizePrices(points []PricePoint) (PriceMetrics, bool) {
	if len(points) == 0 {
		return PriceMetrics{}, false
	}
	start := points[0].Close
	if start == 0 {
		return PriceMetrics{}, false
	}

	m := PriceMetrics{
		CurrentPrice: points[len(points)-1].Close,
		HighestPrice: points[0].Close,
		LowestPrice:  points[0].Close,
	}
	for _, p := range points {
		if p.Close > m.HighestPrice {
			m.HighestPrice = p.Close
		}
		if p.Close < m.LowestPrice {
			m.LowestPrice = p.Close
		}
	}
	m.PercentChange = (m.CurrentPrice - start) / start * 100
	return m, true
}
