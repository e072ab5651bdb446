// Package report serializes the CPM analysis and financial tables into the
// downloadable text formats.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/mlindq/cpmd/internal/domain/evaluation"
	"github.com/mlindq/cpmd/internal/domain/finance"
)

// Section headers of the CPM report. Kept verbatim from the original
// analysis sheet, so downstream spreadsheets keep importing unchanged.
const (
	headerWeights = "CSF-vikter (ROC-metoden)"
	headerRatings = "Detaljerade betyg"
	headerResults = "Sammanfattning av resultat"
)

// WeightedCriterion is one row of the weight table handed to CPM. It is
// also the read shape of the criteria API.
type WeightedCriterion struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	// Priority is 1-based for display.
	Priority int `json:"priority"`
}

// CPM renders the semicolon-delimited analysis report with three sections:
// the ROC weight table (criteria in registration order, priority as a
// column), the full ratings matrix, and the vendor results. Sections are
// separated by a blank line. This is pure serialization; all numbers
// arrive precomputed.
func CPM(criteria []WeightedCriterion, m *evaluation.Matrix, results []evaluation.Result) string {
	var b strings.Builder

	b.WriteString(headerWeights + "\n")
	b.WriteString("CSF;Vikt;Prioritet\n")
	for _, c := range criteria {
		fmt.Fprintf(&b, "%s;%.4f;%d\n", c.Name, c.Weight, c.Priority)
	}
	b.WriteString("\n")

	b.WriteString(headerRatings + "\n")
	b.WriteString(";" + strings.Join(m.Criteria(), ";") + "\n")
	for _, vendor := range m.Vendors() {
		row, err := m.Row(vendor)
		if err != nil {
			continue
		}
		cells := make([]string, len(row)+1)
		cells[0] = vendor
		for i, v := range row {
			cells[i+1] = strconv.Itoa(v)
		}
		b.WriteString(strings.Join(cells, ";") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(headerResults + "\n")
	b.WriteString("Vendor;Raw Sum;Weighted Sum;Normalized (0-100)\n")
	for _, r := range results {
		fmt.Fprintf(&b, "%s;%.2f;%.3f;%.1f\n", r.Vendor, r.RawSum, r.WeightedSum, r.NormalizedScore)
	}

	return b.String()
}

// FinancialCSV renders the financial records as comma-separated UTF-8 with a
// header row, suitable for download.
func FinancialCSV(records []finance.Record) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Ticker", "Company", "Revenue (B USD)", "Employees",
		"P/E Ratio", "Country", "CountryCode", "Market Penetration (%)",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Ticker,
			r.Company,
			strconv.FormatFloat(r.RevenueBillions, 'f', 2, 64),
			strconv.Itoa(r.Employees),
			strconv.FormatFloat(r.PERatio, 'f', 2, 64),
			r.Country,
			r.CountryCode,
			strconv.FormatFloat(r.Penetration, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}
