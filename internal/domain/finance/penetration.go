package finance

import "github.com/shopspring/decimal"

// ApplyPenetration derives the market penetration percentage for each record:
// revenue / totalIndustryRevenue * 100, rounded to two decimals. The input
// slice is not modified; an empty input is returned unchanged. The caller
// validates totalIndustryRevenue against [IndustryRevenueMin,
// IndustryRevenueMax], so it is always positive here.
func ApplyPenetration(records []Record, totalIndustryRevenue float64) []Record {
	if len(records) == 0 {
		return records
	}

	total := decimal.NewFromFloat(totalIndustryRevenue)
	hundred := decimal.NewFromInt(100)

	out := make([]Record, len(records))
	for i, r := range records {
		pct := decimal.NewFromFloat(r.RevenueBillions).
			Div(total).
			Mul(hundred).
			Round(2)
		r.Penetration, _ = pct.Float64()
		out[i] = r
	}
	return out
}
