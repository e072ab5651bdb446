package finance_test

import (
	"testing"

	"github.com/mlindq/cpmd/internal/domain/finance"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSummarizePrices(t *testing.T) {
	Convey("Given a price history", t, func() {
		points := []finance.PricePoint{
			{Date: "2026-08-01", Close: 100},
			{Date: "2026-08-02", Close: 120},
			{Date: "2026-08-03", Close: 90},
			{Date: "2026-08-04", Close: 110},
		}

		Convey("When summarizing", func() {
			m, ok := finance.SummarizePrices(points)

			Convey("Then the window metrics come out", func() {
				So(ok, ShouldBeTrue)
				So(m.CurrentPrice, ShouldEqual, 110)
				So(m.HighestPrice, ShouldEqual, 120)
				So(m.LowestPrice, ShouldEqual, 90)
				So(m.PercentChange, ShouldAlmostEqual, 10.0, 1e-9)
			})
		})
	})

	Convey("Given a degenerate history", t, func() {
		Convey("When the history is empty", func() {
			_, ok := finance.SummarizePrices(nil)
			So(ok, ShouldBeFalse)
		})

		Convey("When the window starts at zero", func() {
			_, ok := finance.SummarizePrices([]finance.PricePoint{{Close: 0}, {Close: 5}})
			So(ok, ShouldBeFalse)
		})
	})
}
