// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mlindq/cpmd/internal/adapters/fileimport"
	"github.com/mlindq/cpmd/internal/adapters/marketdata"
	service "github.com/mlindq/cpmd/internal/app"
	"github.com/mlindq/cpmd/internal/domain/evaluation"
	"github.com/mlindq/cpmd/internal/domain/finance"
	"github.com/mlindq/cpmd/internal/domain/report"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Criteria registry with derived weights.
	Criteria(ctx context.Context) []report.WeightedCriterion
	AddCriterion(ctx context.Context, name string) error
	RemoveCriterion(ctx context.Context, name string) error
	SetCriterionRank(ctx context.Context, name string, rank int) error

	// Vendor registry.
	Vendors(ctx context.Context) []string
	AddVendor(ctx context.Context, name string) error
	RemoveVendor(ctx context.Context, name string) error

	// Rating matrix.
	GetRatings(ctx context.Context) Ratings
	SetRating(ctx context.Context, vendor, criterion string, value int) error

	// Analysis reads.
	Results(ctx context.Context) []evaluation.Result
	ExportCPM(ctx context.Context) string

	// Financial data.
	FetchFinancial(ctx context.Context) (marketdata.Batch, error)
	Financial(ctx context.Context) ([]finance.Record, bool)
	ImportFinancialCSV(ctx context.Context, r io.Reader) fileimport.Result
	ExportFinancialCSV(ctx context.Context) (string, error)
	Tickers(ctx context.Context) []string
	AddTicker(ctx context.Context, ticker string) error
	RemoveTicker(ctx context.Context, ticker string) error
	IndustryRevenue(ctx context.Context) float64
	SetIndustryRevenue(ctx context.Context, total float64) error
	History(ctx context.Context, ticker, period string) (StockHistory, error)
}

// Ratings mirrors the read shape of the rating matrix.
type Ratings = service.Ratings

// StockHistory mirrors the read shape of ticker price history.
type StockHistory = service.StockHistory

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *dashboardHandler
	criteriaHandler  *CriteriaHandler
	vendorsHandler   *VendorsHandler
	ratingsHandler   *RatingsHandler
	resultsHandler   *ResultsHandler
	exportHandler    *ExportHandler
	financialHandler *FinancialHandler
	stocksHandler    *StocksHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxUploadBytes int64) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: newdashboardHandler(),
		criteriaHandler:  NewCriteriaHandler(deps),
		vendorsHandler:   NewVendorsHandler(deps),
		ratingsHandler:   NewRatingsHandler(deps),
		resultsHandler:   NewResultsHandler(deps),
		exportHandler:    NewExportHandler(deps),
		financialHandler: NewFinancialHandler(deps, maxUploadBytes),
		stocksHandler:    NewStocksHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/api/criteria", MetricsMiddleware(s.criteriaHandler.HandleCollection, "criteria"))
	mux.HandleFunc("/api/criteria/", MetricsMiddleware(s.criteriaHandler.HandleItem, "criteria"))
	mux.HandleFunc("/api/vendors", MetricsMiddleware(s.vendorsHandler.HandleCollection, "vendors"))
	mux.HandleFunc("/api/vendors/", MetricsMiddleware(s.vendorsHandler.HandleItem, "vendors"))
	mux.HandleFunc("/api/ratings", MetricsMiddleware(s.ratingsHandler.HandleRatings, "ratings"))
	mux.HandleFunc("/api/results", MetricsMiddleware(s.resultsHandler.HandleGetResults, "results"))
	mux.HandleFunc("/api/export", MetricsMiddleware(s.exportHandler.HandleExport, "export"))

	mux.HandleFunc("/api/financial", MetricsMiddleware(s.financialHandler.HandleGetFinancial, "financial"))
	mux.HandleFunc("/api/financial/fetch", MetricsMiddleware(s.financialHandler.HandleFetch, "financial_fetch"))
	mux.HandleFunc("/api/financial/upload", MetricsMiddleware(s.financialHandler.HandleUpload, "financial_upload"))
	mux.HandleFunc("/api/financial/export.csv", MetricsMiddleware(s.financialHandler.HandleExportCSV, "financial_export"))
	mux.HandleFunc("/api/financial/tickers", MetricsMiddleware(s.financialHandler.HandleTickers, "tickers"))
	mux.HandleFunc("/api/financial/tickers/", MetricsMiddleware(s.financialHandler.HandleTickerItem, "tickers"))
	mux.HandleFunc("/api/financial/industry-revenue", MetricsMiddleware(s.financialHandler.HandleIndustryRevenue, "industry_revenue"))

	mux.HandleFunc("/api/stocks/", MetricsMiddleware(s.stocksHandler.HandleGetHistory, "stocks"))
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates upstream sentinel errors into HTTP responses.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, evaluation.ErrDuplicateName),
		errors.Is(err, service.ErrDuplicateTicker):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, service.ErrLastCriterion),
		errors.Is(err, service.ErrLastVendor):
		return http.StatusConflict, "last_item"
	case errors.Is(err, evaluation.ErrNotFound),
		errors.Is(err, evaluation.ErrUnknownKey),
		errors.Is(err, service.ErrUnknownTicker),
		errors.Is(err, service.ErrNoFinancialData),
		errors.Is(err, marketdata.ErrTickerNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, evaluation.ErrInvalidRating),
		errors.Is(err, evaluation.ErrInvalidRank),
		errors.Is(err, service.ErrRevenueOutOfRange),
		errors.Is(err, marketdata.ErrInvalidPeriod),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNoProvider):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, marketdata.ErrProvider):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
