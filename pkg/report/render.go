package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ogulcanaydogan/oaiusage/pkg/pricing"
)

// Columns are the report table headers.
var Columns = []string{
	"Date",
	"Model",
	"Requests",
	"Input Tokens",
	"Cached Input",
	"Output Tokens",
	"Cost ($)",
}

const totalLabel = "TOTAL"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// Render writes the report as a bordered table with a bold TOTAL row.
func Render(w io.Writer, rep *Report) error {
	rows := make([][]string, 0, len(rep.Rows)+1)
	for _, r := range rep.Rows {
		rows = append(rows, []string{
			r.Date,
			r.Model,
			FormatNumber(r.Requests),
			FormatNumber(r.InputTokens),
			FormatNumber(r.CachedTokens),
			FormatNumber(r.OutputTokens),
			FormatCost(r.CostUSD),
		})
	}
	rows = append(rows, []string{
		totalLabel,
		"",
		FormatNumber(rep.Totals.Requests),
		FormatNumber(rep.Totals.InputTokens),
		FormatNumber(rep.Totals.CachedTokens),
		FormatNumber(rep.Totals.OutputTokens),
		FormatCost(rep.Totals.CostUSD),
	})

	return writeTable(w, Columns, rows, 2, true)
}

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// RenderPricing writes the pricing table in normalization order.
func RenderPricing(w io.Writer, t *pricing.Table) error {
	rows := make([][]string, 0, len(t.Models()))
	for i, m := range t.Models() {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			m.Model,
			fmt.Sprintf("%.3f", m.InputPerMillion),
			fmt.Sprintf("%.3f", m.CachedInputPerMillion),
			fmt.Sprintf("%.3f", m.OutputPerMillion),
		})
	}
	headers := []string{"#", "Base Model", "Input ($/1M)", "Cached Input ($/1M)", "Output ($/1M)"}
	return writeTable(w, headers, rows, 2, false)
}

// writeTable renders rows under headers. Columns from numericFrom onwards are
// right aligned; boldLast emphasizes the final row.
func writeTable(w io.Writer, headers []string, rows [][]string, numericFrom int, boldLast bool) error {
	last := len(rows) - 1

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			s := cellStyle
			if col >= numericFrom {
				s = numberStyle
			}
			if boldLast && row == last {
				s = s.Bold(true)
			}
			return s
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}
