// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mlindq/cpmd/internal/adapters/fileimport"
	"github.com/mlindq/cpmd/internal/adapters/marketdata"
	"github.com/mlindq/cpmd/internal/domain/evaluation"
	"github.com/mlindq/cpmd/internal/domain/finance"
	"github.com/mlindq/cpmd/internal/domain/report"
	"github.com/mlindq/cpmd/internal/domain/weights"
	"github.com/mlindq/cpmd/pkg/logger"
	"github.com/mlindq/cpmd/pkg/metrics"
)

// Ratings is the full rating matrix in row-major form. Rows follow the
// vendor order and each row follows the criterion order.
type Ratings struct {
	Criteria []string         `json:"criteria"`
	Vendors  []string         `json:"vendors"`
	Rows     map[string][]int `json:"rows"`
}

// StockHistory is the price history of one ticker together with the
// derived summary metrics.
type StockHistory struct {
	Ticker  string                `json:"ticker"`
	Period  string                `json:"period"`
	Points  []finance.PricePoint  `json:"points"`
	Metrics *finance.PriceMetrics `json:"metrics,omitempty"`
}

// Service implements the API dependencies for the decision analysis system.
// All session state lives here; every registry mutation is followed by a
// matrix reconcile so ratings and registries never drift apart.
type Service struct {
	mu sync.RWMutex

	// Evaluation state
	criteria *evaluation.CriterionSet
	vendors  *evaluation.VendorSet
	matrix   *evaluation.Matrix

	// Financial state
	market          marketdata.Provider
	batch           *marketdata.Batch
	tickers         []string
	industryRevenue float64

	// Configuration
	defaultCriteria []string
	defaultVendors  []string
	defaultRating   int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDefaultCriteria sets the criteria seeded at construction.
func WithDefaultCriteria(names []string) Option {
	return func(s *Service) {
		if len(names) > 0 {
			s.defaultCriteria = names
		}
	}
}

// WithDefaultVendors sets the vendors seeded at construction.
func WithDefaultVendors(names []string) Option {
	return func(s *Service) {
		if len(names) > 0 {
			s.defaultVendors = names
		}
	}
}

// WithDefaultRating sets the rating assigned to new matrix cells.
func WithDefaultRating(rating int) Option {
	return func(s *Service) {
		if rating >= evaluation.RatingMin && rating <= evaluation.RatingMax {
			s.defaultRating = rating
		}
	}
}

// WithIndustryRevenue sets the initial industry revenue total in billions.
func WithIndustryRevenue(total float64) Option {
	return func(s *Service) {
		if total >= finance.IndustryRevenueMin && total <= finance.IndustryRevenueMax {
			s.industryRevenue = total
		}
	}
}

// WithTickers sets the initial ticker watch list.
func WithTickers(tickers []string) Option {
	return func(s *Service) {
		s.tickers = nil
		for _, t := range tickers {
			s.tickers = append(s.tickers, strings.ToUpper(strings.TrimSpace(t)))
		}
	}
}

// WithMarketData sets the market data provider.
func WithMarketData(p marketdata.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.market = p
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultCriteria: []string{"Kvalitet", "Pris", "Leveransförmåga"},
		defaultVendors:  []string{"Vendor A", "Vendor B"},
		defaultRating:   evaluation.RatingMin,
		industryRevenue: finance.DefaultIndustryRevenue,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.criteria = evaluation.NewCriterionSet(s.defaultCriteria...)
	s.vendors = evaluation.NewVendorSet(s.defaultVendors...)
	s.matrix = evaluation.NewMatrix(evaluation.WithDefaultRating(s.defaultRating))
	s.reconcile()

	return s
}

// Start marks the service ready and wires the logger.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.started = true
	s.logger.Info(ctx, "analysis service started",
		logger.Int("criteria", s.criteria.Len()),
		logger.Int("vendors", s.vendors.Len()),
		logger.Int("tickers", len(s.tickers)),
	)

	return nil
}

// Stop shuts the service down. All state is in memory, so this only flips
// the started flag.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "analysis service stopped")
}

// reconcile rebuilds the matrix against the current registries. Callers
// must hold the write lock.
func (s *Service) reconcile() {
	s.matrix.Reconcile(s.vendors.Names(), s.criteria.Names())
	metrics.RecordReconcile()
	metrics.UpdateCriteriaCount(s.criteria.Len())
	metrics.UpdateVendorCount(s.vendors.Len())
}

// AddCriterion registers a new criterion at the lowest priority.
func (s *Service) AddCriterion(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.criteria.Add(strings.TrimSpace(name)); err != nil {
		return err
	}
	s.reconcile()
	metrics.RecordRegistryMutation("criterion_add")
	s.logger.Info(ctx, "criterion added", logger.String("name", name))
	return nil
}

// RemoveCriterion deletes a criterion. The last criterion cannot be
// removed.
func (s *Service) RemoveCriterion(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.criteria.Len() <= 1 {
		return ErrLastCriterion
	}
	if err := s.criteria.Remove(strings.TrimSpace(name)); err != nil {
		return err
	}
	s.reconcile()
	metrics.RecordRegistryMutation("criterion_remove")
	s.logger.Info(ctx, "criterion removed", logger.String("name", name))
	return nil
}

// SetCriterionRank moves a criterion to a new priority rank, shifting the
// criteria in between.
func (s *Service) SetCriterionRank(ctx context.Context, name string, rank int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.criteria.SetRank(strings.TrimSpace(name), rank); err != nil {
		return err
	}
	metrics.RecordRegistryMutation("criterion_rank")
	s.logger.Info(ctx, "criterion rank changed",
		logger.String("name", name),
		logger.Int("rank", rank),
	)
	return nil
}

// AddVendor registers a new vendor.
func (s *Service) AddVendor(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.vendors.Add(strings.TrimSpace(name)); err != nil {
		return err
	}
	s.reconcile()
	metrics.RecordRegistryMutation("vendor_add")
	s.logger.Info(ctx, "vendor added", logger.String("name", name))
	return nil
}

// RemoveVendor deletes a vendor. The last vendor cannot be removed.
func (s *Service) RemoveVendor(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vendors.Len() <= 1 {
		return ErrLastVendor
	}
	if err := s.vendors.Remove(strings.TrimSpace(name)); err != nil {
		return err
	}
	s.reconcile()
	metrics.RecordRegistryMutation("vendor_remove")
	s.logger.Info(ctx, "vendor removed", logger.String("name", name))
	return nil
}

// SetRating stores one rating cell.
func (s *Service) SetRating(ctx context.Context, vendor, criterion string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.matrix.Set(vendor, criterion, value); err != nil {
		return err
	}
	metrics.RecordRatingSet()
	s.logger.Debug(ctx, "rating set",
		logger.String("vendor", vendor),
		logger.String("criterion", criterion),
		logger.Int("value", value),
	)
	return nil
}

// Criteria returns the criteria with their current weights, ordered by
// priority. Priority is 1-based with 1 as the most important.
func (s *Service) Criteria(ctx context.Context) []report.WeightedCriterion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weightedCriteria()
}

// registryCriteria computes the weighted view under a held lock, in
// registration order.
func (s *Service) registryCriteria() []report.WeightedCriterion {
	ws := weights.Compute(s.criteria.Len(), s.criteria.Ranks())
	out := make([]report.WeightedCriterion, 0, s.criteria.Len())
	for i, c := range s.criteria.Criteria() {
		out = append(out, report.WeightedCriterion{
			Name:     c.Name,
			Weight:   ws[i],
			Priority: c.Rank + 1,
		})
	}
	return out
}

// weightedCriteria reorders the view by priority with the most important
// first.
func (s *Service) weightedCriteria() []report.WeightedCriterion {
	out := s.registryCriteria()
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// Vendors returns the vendor names in registration order.
func (s *Service) Vendors(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vendors.Names()
}

// GetRatings returns the full rating matrix.
func (s *Service) GetRatings(ctx context.Context) Ratings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := Ratings{
		Criteria: s.criteria.Names(),
		Vendors:  s.vendors.Names(),
		Rows:     make(map[string][]int, s.vendors.Len()),
	}
	for _, v := range r.Vendors {
		row, err := s.matrix.Row(v)
		if err != nil {
			continue
		}
		r.Rows[v] = row
	}
	return r
}

// Results computes the ranked vendor scores from the current session state.
func (s *Service) Results(ctx context.Context) []evaluation.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws := weights.Compute(s.criteria.Len(), s.criteria.Ranks())
	results := evaluation.ComputeResults(s.vendors.Names(), s.criteria.Names(), ws, s.matrix)
	metrics.RecordResultsComputed()
	return results
}

// ExportCPM renders the full analysis as a semicolon separated report.
func (s *Service) ExportCPM(ctx context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws := weights.Compute(s.criteria.Len(), s.criteria.Ranks())
	results := evaluation.ComputeResults(s.vendors.Names(), s.criteria.Names(), ws, s.matrix)
	out := report.CPM(s.registryCriteria(), s.matrix, results)
	metrics.RecordExport("cpm")
	return out
}

// FetchFinancial pulls fresh company profiles for the watched tickers and
// replaces the cached records wholesale. Per-ticker failures are reported
// in the batch, never fatal.
func (s *Service) FetchFinancial(ctx context.Context) (marketdata.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.market == nil {
		return marketdata.Batch{}, ErrNoProvider
	}

	batch := s.market.FetchBatch(ctx, s.tickers)
	s.batch = &batch
	metrics.UpdateCachedRecords(len(batch.Records))
	s.logger.Info(ctx, "financial data fetched",
		logger.String("batchID", batch.ID),
		logger.Int("records", len(batch.Records)),
		logger.Int("failures", len(batch.Errors)),
	)

	view := batch
	view.Records = finance.ApplyPenetration(batch.Records, s.industryRevenue)
	return view, nil
}

// Financial returns the cached financial records with market penetration
// recomputed against the current industry revenue total. The second return
// reports whether any data has been fetched or uploaded.
func (s *Service) Financial(ctx context.Context) ([]finance.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.batch == nil {
		return nil, false
	}
	return finance.ApplyPenetration(s.batch.Records, s.industryRevenue), true
}

// ImportFinancialCSV validates an uploaded CSV and, when accepted, replaces
// the cached records wholesale. A rejected upload leaves the cache intact.
func (s *Service) ImportFinancialCSV(ctx context.Context, r io.Reader) fileimport.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := fileimport.ReadRecords(r, fileimport.RequiredColumns)
	if len(res.Records) == 0 {
		metrics.RecordUpload("rejected")
		s.logger.Warn(ctx, "upload rejected", logger.String("reason", res.Message))
		return res
	}

	s.batch = &marketdata.Batch{
		ID:        uuid.NewString(),
		FetchedAt: time.Now().UTC(),
		Records:   res.Records,
		Errors:    []marketdata.TickerError{},
	}
	metrics.RecordUpload("accepted")
	metrics.UpdateCachedRecords(len(res.Records))
	s.logger.Info(ctx, "upload accepted", logger.Int("records", len(res.Records)))
	return res
}

// ExportFinancialCSV renders the cached financial records as CSV.
func (s *Service) ExportFinancialCSV(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.batch == nil {
		return "", ErrNoFinancialData
	}
	out, err := report.FinancialCSV(finance.ApplyPenetration(s.batch.Records, s.industryRevenue))
	if err != nil {
		return "", err
	}
	metrics.RecordExport("financial")
	return out, nil
}

// Tickers returns the ticker watch list.
func (s *Service) Tickers(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.tickers...)
}

// AddTicker adds an upper-cased ticker to the watch list.
func (s *Service) AddTicker(ctx context.Context, ticker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := strings.ToUpper(strings.TrimSpace(ticker))
	for _, have := range s.tickers {
		if have == t {
			return ErrDuplicateTicker
		}
	}
	s.tickers = append(s.tickers, t)
	s.logger.Info(ctx, "ticker added", logger.String("ticker", t))
	return nil
}

// RemoveTicker drops a ticker from the watch list. The list may become
// empty; a subsequent fetch then yields an empty batch.
func (s *Service) RemoveTicker(ctx context.Context, ticker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := strings.ToUpper(strings.TrimSpace(ticker))
	for i, have := range s.tickers {
		if have == t {
			s.tickers = append(s.tickers[:i], s.tickers[i+1:]...)
			s.logger.Info(ctx, "ticker removed", logger.String("ticker", t))
			return nil
		}
	}
	return ErrUnknownTicker
}

// IndustryRevenue returns the current industry revenue total in billions.
func (s *Service) IndustryRevenue(ctx context.Context) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.industryRevenue
}

// SetIndustryRevenue updates the industry revenue total used for market
// penetration. Cached records are not touched; penetration is recomputed
// on every read.
func (s *Service) SetIndustryRevenue(ctx context.Context, total float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if total < finance.IndustryRevenueMin || total > finance.IndustryRevenueMax {
		return ErrRevenueOutOfRange
	}
	s.industryRevenue = total
	s.logger.Info(ctx, "industry revenue updated", logger.Float64("total", total))
	return nil
}

// History fetches the closing price history for one ticker and summarizes
// it. The metrics are omitted when the series is too degenerate to
// summarize.
func (s *Service) History(ctx context.Context, ticker, period string) (StockHistory, error) {
	s.mu.RLock()
	market := s.market
	s.mu.RUnlock()

	if market == nil {
		return StockHistory{}, ErrNoProvider
	}

	t := strings.ToUpper(strings.TrimSpace(ticker))
	points, err := market.History(ctx, t, period)
	if err != nil {
		return StockHistory{}, err
	}

	h := StockHistory{Ticker: t, Period: period, Points: points}
	if m, ok := finance.SummarizePrices(points); ok {
		h.Metrics = &m
	}
	return h, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"criteria":        s.criteria.Len(),
		"vendors":         s.vendors.Len(),
		"tickers":         len(s.tickers),
		"industryRevenue": s.industryRevenue,
	}

	cached := 0
	if s.batch != nil {
		cached = len(s.batch.Records)
		stats["lastFetchAt"] = s.batch.FetchedAt
	}
	stats["cachedRecords"] = cached

	// Update metrics
	metrics.UpdateCriteriaCount(s.criteria.Len())
	metrics.UpdateVendorCount(s.vendors.Len())
	metrics.UpdateCachedRecords(cached)

	return stats
}
