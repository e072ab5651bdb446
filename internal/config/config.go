// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/mlindq/cpmd/internal/domain/evaluation"
	"github.com/mlindq/cpmd/internal/domain/finance"
)

// Bounds re-exported from the domain packages for validation. The 1-4
// rating scale is fixed; only the default cell value is configurable.
const (
	RatingMin = evaluation.RatingMin
	RatingMax = evaluation.RatingMax

	IndustryRevenueMin = finance.IndustryRevenueMin
	IndustryRevenueMax = finance.IndustryRevenueMax
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DefaultCriteria seeds the criteria registry at startup, in priority
	// order (first entry gets rank 0, the highest priority).
	DefaultCriteria []string `koanf:"default_criteria"`

	// DefaultVendors seeds the vendor registry at startup.
	DefaultVendors []string `koanf:"default_vendors"`

	// DefaultRating is assigned to new (vendor, criterion) cells.
	DefaultRating int `koanf:"default_rating"`

	// TotalIndustryRevenue is the market size in billions USD used for the
	// penetration ratio. Range [1, 10000].
	TotalIndustryRevenue float64 `koanf:"total_industry_revenue"`

	// Tickers seeds the market data ticker list.
	Tickers []string `koanf:"tickers"`

	// MarketDataBaseURL points at the market data provider.
	MarketDataBaseURL string `koanf:"market_data_base_url"`

	// MarketDataTimeoutMS bounds each per-ticker provider request.
	MarketDataTimeoutMS int `koanf:"market_data_timeout_ms"`

	// MaxUploadBytes caps the size of uploaded CSV files.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// New creates a Config with the built-in defaults. The criteria and vendor
// seeds mirror the ILS comparison this service was built for; override them
// via file or env for other evaluations.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Addr:     ":9080",
		DefaultCriteria: []string{
			"Efterlevnad av ILS-ramverk",
			"Pris för kund",
			"Tidsbesparing",
			"Skalbarhet drift",
			"Informationssäkerhetsklassning",
			"Skalbarhet AI",
			"Funktionell bredd inom ILS",
			"Förmåga att tolka och hantera olika indataformat",
			"Supportkostnad",
			"Output - Struktur",
			"Grad av automation",
			"Time-to-deploy",
			"Systemintegration",
			"Robusthet",
			"Output - Filformat",
			"Användarvänlighet (UI/UX)",
			"Kundbas",
			"Utbildningsbehov",
			"Övrig funktionalitet",
		},
		DefaultVendors:       []string{"Combitech", "Konkurrent A", "Konkurrent B"},
		DefaultRating:        1,
		TotalIndustryRevenue: finance.DefaultIndustryRevenue,
		Tickers:              []string{"SAAB-B.ST", "BA.L", "BA"},
		MarketDataBaseURL:    "http://localhost:9605",
		MarketDataTimeoutMS:  10_000,
		MaxUploadBytes:       4 << 20,
	}
}
