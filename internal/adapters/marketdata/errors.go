package marketdata

import "errors"

// Sentinel kinds for market data errors.
var (
	ErrTickerNotFound = errors.New("ticker not found")
	ErrProvider       = errors.New("market data provider error")
	ErrInvalidPeriod  = errors.New("unrecognized history period")
)
