// Package printer writes a resolved session to a plain stream for the
// one-shot console mode.
package printer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/database-playground/query-console/internal/console"
	"github.com/database-playground/query-console/internal/result"
	"github.com/database-playground/query-console/internal/status"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

var Formats = []Format{FormatTable, FormatJSON, FormatCSV}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}

	return "", fmt.Errorf("unknown format %q (want table, json or csv)", s)
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// StatusLine styles a status line by its severity.
func StatusLine(line status.Line) string {
	switch line.Severity {
	case status.SeveritySuccess:
		return successStyle.Render(line.Message)
	case status.SeverityError:
		return errorStyle.Render(line.Message)
	default:
		return line.Message
	}
}

// Session prints the outcome of a resolved session: the result to out, the
// status line and any error text to diag.
func Session(out, diag io.Writer, s console.Session, format Format) error {
	if s.Status != nil {
		if _, err := fmt.Fprintln(diag, StatusLine(*s.Status)); err != nil {
			return err
		}
	}

	if s.Outcome == console.StateFailed {
		_, err := fmt.Fprintln(diag, errorStyle.Render(s.Err))
		return err
	}

	if s.Result == nil {
		return nil
	}

	return Plan(out, result.Render(s.Result), format)
}

// Plan prints a rendered result. Raw plans are printed as their dump in
// every format.
func Plan(w io.Writer, plan result.Plan, format Format) error {
	if plan.Kind == result.KindRaw {
		_, err := fmt.Fprintln(w, plan.Dump)
		return err
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, plan)
	case FormatCSV:
		return writeCSV(w, plan)
	default:
		return writeTable(w, plan)
	}
}

// Grid builds the lipgloss table for a tabular plan.
func Grid(plan result.Plan) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(plan.Titles...).
		Data(plan).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func writeTable(w io.Writer, plan result.Plan) error {
	if plan.Columns() == 0 {
		_, err := fmt.Fprintf(w, "(%d rows)\n", plan.Rows())
		return err
	}

	if _, err := fmt.Fprintln(w, Grid(plan).Render()); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "(%d rows)\n", plan.Rows())
	return err
}

func writeJSON(w io.Writer, plan result.Plan) error {
	rows := make([][]any, plan.Rows())
	for r := range rows {
		rows[r] = make([]any, plan.Columns())
		for c := range rows[r] {
			rows[r][c] = plan.Cell(r, c)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"headers": plan.Titles,
		"rows":    rows,
	})
}

func writeCSV(w io.Writer, plan result.Plan) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(plan.Titles); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for r := 0; r < plan.Rows(); r++ {
		record := make([]string, plan.Columns())
		for c := range record {
			record[c] = plan.At(r, c)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
