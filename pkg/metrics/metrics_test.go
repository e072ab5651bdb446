package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics manager options", t, func() {
		Convey("When creating a manager with a custom namespace and subsystem", func() {
			m := NewManager(
				WithPrometheusRegistry(prometheus.NewRegistry()),
				WithNamespace("custom"),
				WithSubsystem("sub"),
			)

			Convey("Then the options should be applied", func() {
				So(m.namespace, ShouldEqual, "custom")
				So(m.subsystem, ShouldEqual, "sub")
			})
		})

		Convey("When creating a manager with empty option values", func() {
			m := NewManager(
				WithPrometheusRegistry(prometheus.NewRegistry()),
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(0),
			)

			Convey("Then defaults should be kept", func() {
				So(m.namespace, ShouldEqual, "cpmd")
				So(m.subsystem, ShouldEqual, "analysis")
				So(m.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When disabling metrics and customizing buckets", func() {
			buckets := []float64{1, 5, 10}
			m := NewManager(
				WithPrometheusRegistry(prometheus.NewRegistry()),
				WithMetricsEnabled(false),
				WithHistogramBuckets(buckets),
				WithRefreshInterval(time.Minute),
			)

			Convey("Then the options should be applied", func() {
				So(m.enabled, ShouldBeFalse)
				So(m.histogramBuckets, ShouldResemble, buckets)
				So(m.refreshInterval, ShouldEqual, time.Minute)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics helpers", t, func() {
		Convey("When recording domain metrics", func() {
			So(func() {
				RecordRegistryMutation("criterion_add")
				RecordRegistryMutation("vendor_remove")
				RecordRatingSet()
				RecordReconcile()
				RecordResultsComputed()
				RecordExport("cpm")
				RecordExport("csv")
				UpdateCriteriaCount(19)
				UpdateVendorCount(3)
			}, ShouldNotPanic)
		})

		Convey("When recording market data metrics", func() {
			So(func() {
				RecordMarketFetchSuccess()
				RecordMarketFetchFailure()
				RecordMarketFetchDuration(42.5)
				RecordUpload("accepted")
				RecordUpload("rejected")
				UpdateCachedRecords(3)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("results", "GET", "200")
				RecordHTTPRequestDuration("results", "GET", "200", 1.2)
				RecordErrorByEndpoint("ratings", "PUT", "client_error")
				RecordErrorByType("client_error", "medium")
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the metrics package", t, func() {
		Convey("When getting the registry", func() {
			r := GetRegistry()

			Convey("Then it should be the custom registry", func() {
				So(r, ShouldNotBeNil)
				So(r, ShouldEqual, customRegistry)
			})

			Convey("And it should gather without error", func() {
				_, err := r.Gather()
				So(err, ShouldBeNil)
			})
		})
	})
}
