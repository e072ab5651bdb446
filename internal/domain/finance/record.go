// Package finance holds company financial records and the market
// penetration calculation derived from them.
package finance

// Bounds for the configurable total industry revenue (billions USD).
const (
	IndustryRevenueMin = 1
	IndustryRevenueMax = 10_000
)

// DefaultIndustryRevenue is the reference market size in billions USD.
const DefaultIndustryRevenue = 500

// Record is one company's financial snapshot. Records are sourced from the
// market data provider or an uploaded file, are immutable once fetched, and
// are replaced wholesale on re-fetch.
type Record struct {
	Ticker          string  `json:"ticker"`
	Company         string  `json:"company"`
	RevenueBillions float64 `json:"revenue_billions_usd"`
	Employees       int     `json:"employees"`
	PERatio         float64 `json:"pe_ratio"`
	Country         string  `json:"country"`
	CountryCode     string  `json:"country_code"`
	Penetration     float64 `json:"market_penetration_pct"`
}

// countryCodes maps provider country names to ISO-3 codes for the
// geographic visualization.
var countryCodes = map[string]string{
	"United States":  "USA",
	"United Kingdom": "GBR",
	"Sweden":         "SWE",
	"Germany":        "DEU",
	"France":         "FRA",
	"Canada":         "CAN",
}

// CountryCode converts a country name to its ISO-3 code, or "N/A" when the
// country is unknown.
func CountryCode(country string) string {
	if code, ok := countryCodes[country]; ok {
		return code
	}
	return "N/A"
}
