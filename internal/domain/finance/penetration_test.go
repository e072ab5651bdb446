package finance_test

import (
	"testing"

	"github.com/mlindq/cpmd/internal/domain/finance"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApplyPenetration(t *testing.T) {
	Convey("Given financial records", t, func() {
		records := []finance.Record{
			{Ticker: "SAAB-B.ST", Company: "Saab AB", RevenueBillions: 5.5},
			{Ticker: "BA.L", Company: "BAE Systems", RevenueBillions: 27.3},
			{Ticker: "BA", Company: "Boeing", RevenueBillions: 66.6},
		}

		Convey("When applying the default industry revenue", func() {
			out := finance.ApplyPenetration(records, finance.DefaultIndustryRevenue)

			Convey("Then penetration is revenue/total*100 rounded to 2 decimals", func() {
				So(out[0].Penetration, ShouldEqual, 1.1)
				So(out[1].Penetration, ShouldEqual, 5.46)
				So(out[2].Penetration, ShouldEqual, 13.32)
			})

			Convey("And the input slice is left untouched", func() {
				So(records[0].Penetration, ShouldEqual, 0)
			})
		})

		Convey("When revenue doubles", func() {
			doubled := make([]finance.Record, len(records))
			copy(doubled, records)
			for i := range doubled {
				doubled[i].RevenueBillions *= 2
			}

			base := finance.ApplyPenetration(records, 500)
			twice := finance.ApplyPenetration(doubled, 500)

			Convey("Then penetration doubles for a fixed total", func() {
				for i := range base {
					So(twice[i].Penetration, ShouldAlmostEqual, 2*base[i].Penetration, 0.01)
				}
			})
		})

		Convey("When rounding is needed", func() {
			out := finance.ApplyPenetration([]finance.Record{{RevenueBillions: 1}}, 3)

			Convey("Then two decimals survive", func() {
				So(out[0].Penetration, ShouldEqual, 33.33)
			})
		})
	})

	Convey("Given an empty record set", t, func() {
		Convey("When applying penetration", func() {
			out := finance.ApplyPenetration(nil, 500)

			Convey("Then the call is a no-op", func() {
				So(out, ShouldBeEmpty)
			})
		})
	})
}

func TestCountryCode(t *testing.T) {
	Convey("Given the country code mapping", t, func() {
		cases := map[string]string{
			"United States":  "USA",
			"United Kingdom": "GBR",
			"Sweden":         "SWE",
			"Germany":        "DEU",
			"France":         "FRA",
			"Canada":         "CAN",
		}
		for country, code := range cases {
			So(finance.CountryCode(country), ShouldEqual, code)
		}

		Convey("Then unknown countries map to N/A", func() {
			So(finance.CountryCode("Unknown"), ShouldEqual, "N/A")
			So(finance.CountryCode(""), ShouldEqual, "N/A")
		})
	})
}
