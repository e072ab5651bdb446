package marketdata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mlindq/cpmd/internal/adapters/marketdata"
	. "github.com/smartystreets/goconvey/convey"
)

// newProviderStub serves a fixed set of ticker profiles and histories.
func newProviderStub() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/profile/BA", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "The Boeing Company",
			"total_revenue": 66610000000,
			"employees": 170000,
			"pe_ratio": 41.238,
			"country": "United States"
		}`))
	})
	mux.HandleFunc("/v1/profile/SPARSE", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/v1/profile/BROKEN", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/v1/history/BA", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"points": [
			{"date": "2026-08-01", "close": 100},
			{"date": "2026-08-02", "close": 105}
		]}`))
	})
	return httptest.NewServer(mux)
}

func TestClientProfile(t *testing.T) {
	Convey("Given a provider stub", t, func() {
		srv := newProviderStub()
		defer srv.Close()
		client := marketdata.NewClient(srv.URL)
		ctx := context.Background()

		Convey("When fetching a known ticker", func() {
			record, err := client.Profile(ctx, "BA")

			Convey("Then the record is converted to billions and ISO country code", func() {
				So(err, ShouldBeNil)
				So(record.Ticker, ShouldEqual, "BA")
				So(record.Company, ShouldEqual, "The Boeing Company")
				So(record.RevenueBillions, ShouldEqual, 66.61)
				So(record.Employees, ShouldEqual, 170000)
				So(record.PERatio, ShouldEqual, 41.24)
				So(record.CountryCode, ShouldEqual, "USA")
			})
		})

		Convey("When the provider returns 404", func() {
			_, err := client.Profile(ctx, "NOPE")

			Convey("Then the error is ticker-not-found", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, marketdata.ErrTickerNotFound)
			})
		})

		Convey("When the provider returns a sparse body", func() {
			_, err := client.Profile(ctx, "SPARSE")

			Convey("Then it is treated as no data", func() {
				So(err, ShouldWrap, marketdata.ErrTickerNotFound)
			})
		})

		Convey("When the provider errors", func() {
			_, err := client.Profile(ctx, "BROKEN")

			Convey("Then the error is a provider error", func() {
				So(err, ShouldWrap, marketdata.ErrProvider)
			})
		})
	})
}

func TestClientFetchBatch(t *testing.T) {
	Convey("Given a provider stub", t, func() {
		srv := newProviderStub()
		defer srv.Close()
		client := marketdata.NewClient(srv.URL)

		Convey("When fetching a batch with failing tickers in the middle", func() {
			batch := client.FetchBatch(context.Background(), []string{"BROKEN", "BA", "NOPE"})

			Convey("Then failures are collected and the batch continues", func() {
				So(batch.ID, ShouldNotBeEmpty)
				So(batch.Records, ShouldHaveLength, 1)
				So(batch.Records[0].Ticker, ShouldEqual, "BA")
				So(batch.Errors, ShouldHaveLength, 2)
				So(batch.Errors[0].Ticker, ShouldEqual, "BROKEN")
				So(batch.Errors[1].Ticker, ShouldEqual, "NOPE")
			})
		})

		Convey("When fetching an empty ticker list", func() {
			batch := client.FetchBatch(context.Background(), nil)

			Convey("Then the batch is empty but well-formed", func() {
				So(batch.Records, ShouldBeEmpty)
				So(batch.Errors, ShouldBeEmpty)
			})
		})
	})
}

func TestClientHistory(t *testing.T) {
	Convey("Given a provider stub", t, func() {
		srv := newProviderStub()
		defer srv.Close()
		client := marketdata.NewClient(srv.URL)
		ctx := context.Background()

		Convey("When fetching history for a known ticker", func() {
			points, err := client.History(ctx, "BA", "1mo")

			Convey("Then the points come back in order", func() {
				So(err, ShouldBeNil)
				So(points, ShouldHaveLength, 2)
				So(points[0].Close, ShouldEqual, 100)
				So(points[1].Close, ShouldEqual, 105)
			})
		})

		Convey("When the period is not recognized", func() {
			_, err := client.History(ctx, "BA", "2w")

			Convey("Then the call is rejected locally", func() {
				So(err, ShouldWrap, marketdata.ErrInvalidPeriod)
			})
		})

		Convey("When the ticker has no history", func() {
			_, err := client.History(ctx, "NOPE", "1d")
			So(err, ShouldWrap, marketdata.ErrTickerNotFound)
		})
	})
}

func TestValidPeriod(t *testing.T) {
	Convey("Given the recognized periods", t, func() {
		for _, p := range []string{"1d", "7d", "1mo", "3mo", "1y", "5y"} {
			So(marketdata.ValidPeriod(p), ShouldBeTrue)
		}
		So(marketdata.ValidPeriod("2w"), ShouldBeFalse)
		So(marketdata.ValidPeriod(""), ShouldBeFalse)
	})
}
