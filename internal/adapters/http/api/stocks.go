// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/mlindq/cpmd/internal/adapters/marketdata"
)

// defaultHistoryPeriod is used when the period query parameter is absent.
const defaultHistoryPeriod = "1mo"

// StocksDependencies defines the interface for price history operations.
type StocksDependencies interface {
	History(ctx context.Context, ticker, period string) (StockHistory, error)
}

// StocksHandler handles price history requests.
type StocksHandler struct {
	deps StocksDependencies
}

// NewStocksHandler creates a new stocks handler.
func NewStocksHandler(deps StocksDependencies) *StocksHandler {
	return &StocksHandler{deps: deps}
}

// HandleGetHistory handles GET /api/stocks/{ticker}?period=1mo requests.
func (h *StocksHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ticker, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/api/stocks/"))
	if err != nil || ticker == "" || strings.Contains(ticker, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = defaultHistoryPeriod
	}
	if !marketdata.ValidPeriod(period) {
		writeError(w, http.StatusBadRequest, "bad_request", marketdata.ErrInvalidPeriod)
		return
	}

	history, err := h.deps.History(r.Context(), ticker, period)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
