// Package fileimport validates uploaded tabular data as an alternative
// source of financial records. Failures never escape the import boundary:
// an unparsable file or a missing column yields an empty result and a
// user-visible message, not an error.
package fileimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mlindq/cpmd/internal/domain/finance"
)

// RequiredColumns is the default column set expected in uploads.
var RequiredColumns = []string{"Company", "Revenue", "Employees", "CountryCode"}

// Result is the outcome of an import attempt. Records is empty when the
// file was rejected; Message explains why in that case.
type Result struct {
	Records []finance.Record `json:"records"`
	Message string           `json:"message,omitempty"`
}

// ReadRecords parses a CSV stream and validates that every required column
// is present. Numeric cells that fail to parse are coerced to zero rather
// than rejecting the row; revenue is taken as absolute USD and converted to
// billions.
func ReadRecords(r io.Reader, required []string) Result {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{Records: []finance.Record{}, Message: "filen kunde inte tolkas som CSV"}
	}

	index := map[string]int{}
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return Result{
			Records: []finance.Record{},
			Message: fmt.Sprintf("saknade kolumner: %s", strings.Join(missing, ", ")),
		}
	}

	var records []finance.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{Records: []finance.Record{}, Message: "filen kunde inte tolkas som CSV"}
		}

		record := finance.Record{
			Company:     cell(row, index, "Company"),
			Employees:   int(parseNumber(cell(row, index, "Employees"))),
			CountryCode: cell(row, index, "CountryCode"),
		}
		// Optional columns enrich the record when present.
		record.Ticker = cell(row, index, "Ticker")
		record.Country = cell(row, index, "Country")
		record.RevenueBillions = toBillions(parseNumber(cell(row, index, "Revenue")))
		records = append(records, record)
	}

	if len(records) == 0 {
		return Result{Records: []finance.Record{}, Message: "filen innehåller inga datarader"}
	}
	return Result{Records: records}
}

// cell returns the named column of a row, or "" when the column is absent
// or the row is short.
func cell(row []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseNumber coerces a cell to a float, treating unparsable input as 0.
func parseNumber(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// toBillions converts absolute USD to billions at two decimals.
func toBillions(revenue float64) float64 {
	if revenue <= 0 {
		return 0
	}
	out, _ := decimal.NewFromFloat(revenue).
		Div(decimal.NewFromInt(1_000_000_000)).
		Round(2).
		Float64()
	return out
}
