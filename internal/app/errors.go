package service

import "errors"

// Sentinel errors for registry guards and financial state.
var (
	// ErrLastCriterion is returned when removing the only remaining criterion.
	ErrLastCriterion = errors.New("cannot remove the last criterion")

	// ErrLastVendor is returned when removing the only remaining vendor.
	ErrLastVendor = errors.New("cannot remove the last vendor")

	// ErrDuplicateTicker is returned when adding a ticker already watched.
	ErrDuplicateTicker = errors.New("ticker already in watch list")

	// ErrUnknownTicker is returned when removing a ticker not in the list.
	ErrUnknownTicker = errors.New("ticker not in watch list")

	// ErrRevenueOutOfRange is returned when the industry revenue total is
	// outside the accepted interval.
	ErrRevenueOutOfRange = errors.New("industry revenue out of range")

	// ErrNoFinancialData is returned when an operation needs financial
	// records but none have been fetched or uploaded yet.
	ErrNoFinancialData = errors.New("no financial data available")

	// ErrNoProvider is returned when a market data operation is requested
	// but no provider is configured.
	ErrNoProvider = errors.New("no market data provider configured")
)
