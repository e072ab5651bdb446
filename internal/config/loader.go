package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CPMD_CONFIG is set
//  3. env (prefix CPMD_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CPMD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CPMD_ADDR, CPMD_DEFAULT_RATING, ...
	// Map env keys like CPMD_DEFAULT_RATING -> default_rating (flat keys).
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("CPMD_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "cpmd_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy.
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the domain invariants cannot absorb.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.DefaultRating < RatingMin || c.DefaultRating > RatingMax {
		return fmt.Errorf("%w: default_rating %d outside [%d,%d]",
			ErrInvalidConfig, c.DefaultRating, RatingMin, RatingMax)
	}
	if c.TotalIndustryRevenue < IndustryRevenueMin || c.TotalIndustryRevenue > IndustryRevenueMax {
		return fmt.Errorf("%w: total_industry_revenue %.1f outside [%d,%d]",
			ErrInvalidConfig, c.TotalIndustryRevenue, IndustryRevenueMin, IndustryRevenueMax)
	}
	if c.MarketDataBaseURL == "" {
		return fmt.Errorf("%w: market_data_base_url must not be empty", ErrInvalidConfig)
	}
	if c.MarketDataTimeoutMS <= 0 {
		return fmt.Errorf("%w: market_data_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
