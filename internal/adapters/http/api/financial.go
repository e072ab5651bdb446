// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mlindq/cpmd/internal/adapters/fileimport"
	"github.com/mlindq/cpmd/internal/adapters/marketdata"
	"github.com/mlindq/cpmd/internal/domain/finance"
)

// FinancialDependencies defines the interface for financial data operations.
type FinancialDependencies interface {
	FetchFinancial(ctx context.Context) (marketdata.Batch, error)
	Financial(ctx context.Context) ([]finance.Record, bool)
	ImportFinancialCSV(ctx context.Context, r io.Reader) fileimport.Result
	ExportFinancialCSV(ctx context.Context) (string, error)
	Tickers(ctx context.Context) []string
	AddTicker(ctx context.Context, ticker string) error
	RemoveTicker(ctx context.Context, ticker string) error
	IndustryRevenue(ctx context.Context) float64
	SetIndustryRevenue(ctx context.Context, total float64) error
}

// FinancialHandler handles financial data requests.
type FinancialHandler struct {
	deps           FinancialDependencies
	maxUploadBytes int64
}

// NewFinancialHandler creates a new financial handler.
func NewFinancialHandler(deps FinancialDependencies, maxUploadBytes int64) *FinancialHandler {
	return &FinancialHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

type financialResponse struct {
	Available bool             `json:"available"`
	Records   []finance.Record `json:"records"`
}

type tickerRequest struct {
	Ticker string `json:"ticker"`
}

type revenueRequest struct {
	Value *float64 `json:"value"`
}

type revenueResponse struct {
	Value float64 `json:"value"`
}

// HandleGetFinancial handles GET /api/financial requests. Market
// penetration in the records reflects the current industry revenue total.
func (h *FinancialHandler) HandleGetFinancial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	records, ok := h.deps.Financial(r.Context())
	if records == nil {
		records = []finance.Record{}
	}
	writeJSON(w, http.StatusOK, financialResponse{Available: ok, Records: records})
}

// HandleFetch handles POST /api/financial/fetch requests. The returned
// batch includes per-ticker soft failures.
func (h *FinancialHandler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	batch, err := h.deps.FetchFinancial(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// HandleUpload handles POST /api/financial/upload requests with a
// multipart CSV under the "file" field. A file that fails validation is
// not an HTTP error: the response carries no records and a message.
func (h *FinancialHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	writeJSON(w, http.StatusOK, h.deps.ImportFinancialCSV(r.Context(), file))
}

// HandleExportCSV handles GET /api/financial/export.csv requests.
func (h *FinancialHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	out, err := h.deps.ExportFinancialCSV(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="finansiell_data.csv"`)
	_, _ = w.Write([]byte(out))
}

// HandleTickers handles GET and POST /api/financial/tickers requests.
func (h *FinancialHandler) HandleTickers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Tickers(r.Context()))
	case http.MethodPost:
		var req tickerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Ticker) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if err := h.deps.AddTicker(r.Context(), req.Ticker); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ackResponse{Status: "created"})
	default:
		http.NotFound(w, r)
	}
}

// HandleTickerItem handles DELETE /api/financial/tickers/{ticker} requests.
func (h *FinancialHandler) HandleTickerItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	ticker, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/api/financial/tickers/"))
	if err != nil || ticker == "" || strings.Contains(ticker, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.RemoveTicker(r.Context(), ticker); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "deleted"})
}

// HandleIndustryRevenue handles GET and PUT /api/financial/industry-revenue
// requests.
func (h *FinancialHandler) HandleIndustryRevenue(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, revenueResponse{Value: h.deps.IndustryRevenue(r.Context())})
	case http.MethodPut:
		var req revenueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if err := h.deps.SetIndustryRevenue(r.Context(), *req.Value); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, revenueResponse{Value: *req.Value})
	default:
		http.NotFound(w, r)
	}
}
