package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/mlindq/cpmd/internal/adapters/marketdata"
	service "github.com/mlindq/cpmd/internal/app"
	"github.com/mlindq/cpmd/internal/domain/evaluation"
	"github.com/mlindq/cpmd/internal/domain/finance"
	"github.com/mlindq/cpmd/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// stubProvider is a canned market data source for tests.
type stubProvider struct {
	batch      marketdata.Batch
	points     []finance.PricePoint
	historyErr error
	gotTickers []string
}

func (p *stubProvider) FetchBatch(ctx context.Context, tickers []string) marketdata.Batch {
	p.gotTickers = tickers
	return p.batch
}

func (p *stubProvider) History(ctx context.Context, ticker, period string) ([]finance.PricePoint, error) {
	if p.historyErr != nil {
		return nil, p.historyErr
	}
	return p.points, nil
}

func newStarted(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestServiceLifecycle(t *testing.T) {
	convey.Convey("Given a new service with default options", t, func() {
		svc := service.New()
		defer svc.Stop()

		convey.Convey("When the service is started", func() {
			err := svc.Start(context.Background())

			convey.Convey("Then it reports started with the seeded registries", func() {
				convey.So(err, convey.ShouldBeNil)
				stats := svc.GetStats()
				convey.So(stats["started"], convey.ShouldEqual, true)
				convey.So(stats["criteria"], convey.ShouldEqual, 3)
				convey.So(stats["vendors"], convey.ShouldEqual, 2)
			})
		})
	})
}

func TestServiceCriteria(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a started service with three criteria", t, func() {
		svc := newStarted(t,
			service.WithDefaultCriteria([]string{"A", "B", "C"}),
			service.WithDefaultVendors([]string{"X", "Y"}),
		)

		convey.Convey("When listing criteria", func() {
			cs := svc.Criteria(ctx)

			convey.Convey("Then weights follow rank order centroids and priorities are 1-based", func() {
				convey.So(cs, convey.ShouldHaveLength, 3)
				convey.So(cs[0].Weight, convey.ShouldAlmostEqual, 11.0/18.0, 1e-9)
				convey.So(cs[1].Weight, convey.ShouldAlmostEqual, 5.0/18.0, 1e-9)
				convey.So(cs[2].Weight, convey.ShouldAlmostEqual, 2.0/18.0, 1e-9)
				convey.So(cs[0].Priority, convey.ShouldEqual, 1)
				convey.So(cs[2].Priority, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When adding a criterion", func() {
			err := svc.AddCriterion(ctx, "D")

			convey.Convey("Then it joins at the lowest priority and weights recompute", func() {
				convey.So(err, convey.ShouldBeNil)
				cs := svc.Criteria(ctx)
				convey.So(cs, convey.ShouldHaveLength, 4)
				convey.So(cs[3].Name, convey.ShouldEqual, "D")
				convey.So(cs[3].Priority, convey.ShouldEqual, 4)
			})

			convey.Convey("Then the matrix gains default cells for it", func() {
				convey.So(err, convey.ShouldBeNil)
				r := svc.GetRatings(ctx)
				convey.So(r.Criteria, convey.ShouldContain, "D")
				convey.So(r.Rows["X"], convey.ShouldHaveLength, 4)
			})
		})

		convey.Convey("When adding a duplicate criterion", func() {
			err := svc.AddCriterion(ctx, "B")

			convey.Convey("Then the duplicate is rejected", func() {
				convey.So(err, convey.ShouldWrap, evaluation.ErrDuplicateName)
			})
		})

		convey.Convey("When removing a criterion", func() {
			err := svc.RemoveCriterion(ctx, "A")

			convey.Convey("Then the remaining ranks compact", func() {
				convey.So(err, convey.ShouldBeNil)
				cs := svc.Criteria(ctx)
				convey.So(cs, convey.ShouldHaveLength, 2)
				convey.So(cs[0].Name, convey.ShouldEqual, "B")
				convey.So(cs[0].Priority, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When names carry surrounding whitespace", func() {
			convey.So(svc.AddCriterion(ctx, " D "), convey.ShouldBeNil)

			convey.Convey("Then the stored name is trimmed and addressable either way", func() {
				cs := svc.Criteria(ctx)
				convey.So(cs[3].Name, convey.ShouldEqual, "D")
				convey.So(svc.SetCriterionRank(ctx, " D ", 0), convey.ShouldBeNil)
				convey.So(svc.RemoveCriterion(ctx, " D "), convey.ShouldBeNil)
				convey.So(svc.Criteria(ctx), convey.ShouldHaveLength, 3)
			})
		})

		convey.Convey("When a rating is set and an unrelated criterion is removed", func() {
			convey.So(svc.SetRating(ctx, "X", "B", 4), convey.ShouldBeNil)
			convey.So(svc.RemoveCriterion(ctx, "C"), convey.ShouldBeNil)

			convey.Convey("Then the rating survives the reconcile", func() {
				r := svc.GetRatings(ctx)
				convey.So(r.Criteria, convey.ShouldResemble, []string{"A", "B"})
				convey.So(r.Rows["X"], convey.ShouldResemble, []int{1, 4})
			})
		})

		convey.Convey("When reordering with SetCriterionRank", func() {
			err := svc.SetCriterionRank(ctx, "C", 0)

			convey.Convey("Then the priorities shift and weights follow", func() {
				convey.So(err, convey.ShouldBeNil)
				cs := svc.Criteria(ctx)
				convey.So(cs[0].Name, convey.ShouldEqual, "C")
				convey.So(cs[0].Weight, convey.ShouldAlmostEqual, 11.0/18.0, 1e-9)
				convey.So(cs[1].Name, convey.ShouldEqual, "A")
				convey.So(cs[2].Name, convey.ShouldEqual, "B")
			})
		})
	})

	convey.Convey("Given a service with a single criterion", t, func() {
		svc := newStarted(t, service.WithDefaultCriteria([]string{"Only"}))

		convey.Convey("When removing it", func() {
			err := svc.RemoveCriterion(ctx, "Only")

			convey.Convey("Then the removal is refused", func() {
				convey.So(err, convey.ShouldWrap, service.ErrLastCriterion)
			})
		})
	})
}

func TestServiceVendors(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a started service", t, func() {
		svc := newStarted(t,
			service.WithDefaultCriteria([]string{"A", "B"}),
			service.WithDefaultVendors([]string{"X", "Y"}),
		)

		convey.Convey("When a vendor is added", func() {
			err := svc.AddVendor(ctx, "Z")

			convey.Convey("Then it appears with a default rating row", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.Vendors(ctx), convey.ShouldResemble, []string{"X", "Y", "Z"})
				r := svc.GetRatings(ctx)
				convey.So(r.Rows["Z"], convey.ShouldResemble, []int{1, 1})
			})
		})

		convey.Convey("When a duplicate vendor is added", func() {
			convey.So(svc.AddVendor(ctx, "Y"), convey.ShouldWrap, evaluation.ErrDuplicateName)
		})

		convey.Convey("When a vendor name carries surrounding whitespace", func() {
			convey.So(svc.AddVendor(ctx, " Z "), convey.ShouldBeNil)
			convey.So(svc.Vendors(ctx), convey.ShouldResemble, []string{"X", "Y", "Z"})
			convey.So(svc.RemoveVendor(ctx, " Z "), convey.ShouldBeNil)
			convey.So(svc.Vendors(ctx), convey.ShouldResemble, []string{"X", "Y"})
		})

		convey.Convey("When a vendor is removed", func() {
			convey.So(svc.SetRating(ctx, "X", "A", 3), convey.ShouldBeNil)
			convey.So(svc.RemoveVendor(ctx, "Y"), convey.ShouldBeNil)

			convey.Convey("Then its row is gone and the rest survive", func() {
				r := svc.GetRatings(ctx)
				convey.So(r.Vendors, convey.ShouldResemble, []string{"X"})
				convey.So(r.Rows["X"], convey.ShouldResemble, []int{3, 1})
			})
		})

		convey.Convey("When only one vendor remains", func() {
			convey.So(svc.RemoveVendor(ctx, "Y"), convey.ShouldBeNil)

			convey.Convey("Then removing the last one is refused", func() {
				convey.So(svc.RemoveVendor(ctx, "X"), convey.ShouldWrap, service.ErrLastVendor)
			})
		})
	})
}

func TestServiceResults(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a service with all-default ratings", t, func() {
		svc := newStarted(t,
			service.WithDefaultCriteria([]string{"A", "B", "C"}),
			service.WithDefaultVendors([]string{"X", "Y"}),
		)

		convey.Convey("When results are computed", func() {
			results := svc.Results(ctx)

			convey.Convey("Then every vendor normalizes to 25.0", func() {
				convey.So(results, convey.ShouldHaveLength, 2)
				for _, r := range results {
					convey.So(r.NormalizedScore, convey.ShouldEqual, 25.0)
				}
			})
		})

		convey.Convey("When one vendor is rated top marks everywhere", func() {
			for _, c := range []string{"A", "B", "C"} {
				convey.So(svc.SetRating(ctx, "X", c, 4), convey.ShouldBeNil)
			}
			results := svc.Results(ctx)

			convey.Convey("Then it normalizes to 100", func() {
				byVendor := map[string]float64{}
				for _, r := range results {
					byVendor[r.Vendor] = r.NormalizedScore
				}
				convey.So(byVendor["X"], convey.ShouldEqual, 100.0)
				convey.So(byVendor["Y"], convey.ShouldEqual, 25.0)
			})
		})

		convey.Convey("When a rating outside the scale is set", func() {
			convey.So(svc.SetRating(ctx, "X", "A", 5), convey.ShouldWrap, evaluation.ErrInvalidRating)
			convey.So(svc.SetRating(ctx, "X", "A", 0), convey.ShouldWrap, evaluation.ErrInvalidRating)
		})

		convey.Convey("When the analysis is exported", func() {
			out := svc.ExportCPM(ctx)

			convey.Convey("Then all three report sections are present", func() {
				convey.So(out, convey.ShouldContainSubstring, "CSF-vikter (ROC-metoden)")
				convey.So(out, convey.ShouldContainSubstring, "Detaljerade betyg")
				convey.So(out, convey.ShouldContainSubstring, "Sammanfattning av resultat")
			})
		})

		convey.Convey("When the criteria are reordered and the analysis is exported", func() {
			convey.So(svc.SetCriterionRank(ctx, "C", 0), convey.ShouldBeNil)
			out := svc.ExportCPM(ctx)
			lines := strings.Split(out, "\n")

			convey.Convey("Then the weight section keeps registration order with shifted priorities", func() {
				convey.So(lines[2], convey.ShouldStartWith, "A;")
				convey.So(lines[2], convey.ShouldEndWith, ";2")
				convey.So(lines[3], convey.ShouldStartWith, "B;")
				convey.So(lines[3], convey.ShouldEndWith, ";3")
				convey.So(lines[4], convey.ShouldStartWith, "C;")
				convey.So(lines[4], convey.ShouldEndWith, ";1")
			})
		})
	})
}

func TestServiceFinancial(t *testing.T) {
	ctx := context.Background()

	record := finance.Record{
		Ticker:          "BA",
		Company:         "Boeing",
		RevenueBillions: 66.61,
		Employees:       171000,
		Country:         "United States",
		CountryCode:     "USA",
	}

	convey.Convey("Given a service with a stub provider", t, func() {
		stub := &stubProvider{
			batch: marketdata.Batch{
				ID:        "batch-1",
				FetchedAt: time.Now().UTC(),
				Records:   []finance.Record{record},
				Errors:    []marketdata.TickerError{{Ticker: "MISSING", Message: "ticker not found"}},
			},
		}
		svc := newStarted(t,
			service.WithMarketData(stub),
			service.WithTickers([]string{"ba", " missing "}),
			service.WithIndustryRevenue(500),
		)

		convey.Convey("Then the watch list is normalized to upper case", func() {
			convey.So(svc.Tickers(ctx), convey.ShouldResemble, []string{"BA", "MISSING"})
		})

		convey.Convey("When financial data is fetched", func() {
			batch, err := svc.FetchFinancial(ctx)

			convey.Convey("Then the batch carries records, errors and penetration", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(batch.Records, convey.ShouldHaveLength, 1)
				convey.So(batch.Errors, convey.ShouldHaveLength, 1)
				convey.So(batch.Records[0].Penetration, convey.ShouldEqual, 13.32)
			})

			convey.Convey("Then the cache serves reads with recomputed penetration", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.SetIndustryRevenue(ctx, 1000), convey.ShouldBeNil)
				records, ok := svc.Financial(ctx)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(records[0].Penetration, convey.ShouldEqual, 6.66)
			})

			convey.Convey("Then a fractional revenue total is accepted as-is", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.SetIndustryRevenue(ctx, 750.5), convey.ShouldBeNil)
				convey.So(svc.IndustryRevenue(ctx), convey.ShouldEqual, 750.5)
				records, ok := svc.Financial(ctx)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(records[0].Penetration, convey.ShouldEqual, 8.88)
			})

			convey.Convey("Then the CSV export includes the record", func() {
				convey.So(err, convey.ShouldBeNil)
				out, exportErr := svc.ExportFinancialCSV(ctx)
				convey.So(exportErr, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Boeing")
			})
		})

		convey.Convey("When no data has been fetched", func() {
			_, ok := svc.Financial(ctx)
			convey.So(ok, convey.ShouldBeFalse)
			_, err := svc.ExportFinancialCSV(ctx)
			convey.So(err, convey.ShouldWrap, service.ErrNoFinancialData)
		})

		convey.Convey("When the watch list is edited", func() {
			convey.So(svc.AddTicker(ctx, "saab-b.st"), convey.ShouldBeNil)
			convey.So(svc.Tickers(ctx), convey.ShouldContain, "SAAB-B.ST")
			convey.So(svc.AddTicker(ctx, "BA"), convey.ShouldWrap, service.ErrDuplicateTicker)
			convey.So(svc.RemoveTicker(ctx, "missing"), convey.ShouldBeNil)
			convey.So(svc.RemoveTicker(ctx, "NOPE"), convey.ShouldWrap, service.ErrUnknownTicker)
		})

		convey.Convey("When the industry revenue is set out of range", func() {
			convey.So(svc.SetIndustryRevenue(ctx, 0), convey.ShouldWrap, service.ErrRevenueOutOfRange)
			convey.So(svc.SetIndustryRevenue(ctx, 10_001), convey.ShouldWrap, service.ErrRevenueOutOfRange)
		})
	})

	convey.Convey("Given a service without a provider", t, func() {
		svc := newStarted(t)

		convey.Convey("Then fetch and history fail with the provider sentinel", func() {
			_, err := svc.FetchFinancial(ctx)
			convey.So(err, convey.ShouldWrap, service.ErrNoProvider)
			_, err = svc.History(ctx, "BA", "1mo")
			convey.So(err, convey.ShouldWrap, service.ErrNoProvider)
		})
	})
}

func TestServiceUpload(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a started service", t, func() {
		svc := newStarted(t)

		convey.Convey("When a valid CSV is uploaded", func() {
			data := "Company,Revenue,Employees,CountryCode\nSaab AB,5200000000,18500,SWE\n"
			res := svc.ImportFinancialCSV(ctx, strings.NewReader(data))

			convey.Convey("Then the records replace the cache", func() {
				convey.So(res.Message, convey.ShouldBeEmpty)
				records, ok := svc.Financial(ctx)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(records, convey.ShouldHaveLength, 1)
				convey.So(records[0].RevenueBillions, convey.ShouldEqual, 5.2)
				convey.So(records[0].Penetration, convey.ShouldEqual, 1.04)
			})
		})

		convey.Convey("When a CSV with missing columns is uploaded", func() {
			res := svc.ImportFinancialCSV(ctx, strings.NewReader("Company\nSaab AB\n"))

			convey.Convey("Then the upload is rejected and the cache stays empty", func() {
				convey.So(res.Records, convey.ShouldBeEmpty)
				convey.So(res.Message, convey.ShouldNotBeEmpty)
				_, ok := svc.Financial(ctx)
				convey.So(ok, convey.ShouldBeFalse)
			})
		})
	})
}

func TestServiceHistory(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a provider with a rising price series", t, func() {
		stub := &stubProvider{
			points: []finance.PricePoint{
				{Date: "2026-01-02", Close: 100},
				{Date: "2026-01-03", Close: 90},
				{Date: "2026-01-04", Close: 120},
			},
		}
		svc := newStarted(t, service.WithMarketData(stub))

		convey.Convey("When history is requested", func() {
			h, err := svc.History(ctx, "ba", "1mo")

			convey.Convey("Then the points and summary metrics are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(h.Ticker, convey.ShouldEqual, "BA")
				convey.So(h.Points, convey.ShouldHaveLength, 3)
				convey.So(h.Metrics, convey.ShouldNotBeNil)
				convey.So(h.Metrics.CurrentPrice, convey.ShouldEqual, 120.0)
				convey.So(h.Metrics.PercentChange, convey.ShouldEqual, 20.0)
				convey.So(h.Metrics.HighestPrice, convey.ShouldEqual, 120.0)
				convey.So(h.Metrics.LowestPrice, convey.ShouldEqual, 90.0)
			})
		})
	})

	convey.Convey("Given a provider that rejects the ticker", t, func() {
		stub := &stubProvider{historyErr: marketdata.ErrTickerNotFound}
		svc := newStarted(t, service.WithMarketData(stub))

		convey.Convey("Then the error passes through", func() {
			_, err := svc.History(ctx, "NOPE", "1mo")
			convey.So(err, convey.ShouldWrap, marketdata.ErrTickerNotFound)
		})
	})
}
