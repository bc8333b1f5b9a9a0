package result

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Kind tells the display surface how to present a result.
type Kind int

const (
	KindRaw Kind = iota
	KindTabular
)

func (k Kind) String() string {
	switch k {
	case KindTabular:
		return "tabular"
	default:
		return "raw"
	}
}

// Plan is a ready-to-display result. A tabular plan implements the
// lipgloss table.Data interface, so grids read cells through At.
type Plan struct {
	Kind Kind

	// Titles are the column titles shown to the operator.
	Titles []string

	// Dump is the indented JSON shown for raw plans.
	Dump string

	rows [][]any
}

// Render plans the presentation of a result. It has no side effects.
func Render(r Result) Plan {
	switch r := r.(type) {
	case Tabular:
		return Plan{
			Kind: KindTabular,
			Titles: lo.Map(r.Headers, func(h string, _ int) string {
				return strings.TrimPrefix(h, SynthesizedPrefix)
			}),
			rows: r.Rows,
		}
	case Opaque:
		return Plan{Kind: KindRaw, Dump: dump(r.Payload)}
	default:
		return Plan{Kind: KindRaw, Dump: dump(r)}
	}
}

func dump(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(out)
}

// Cell returns rows[row][col], or nil when the row is shorter than the header.
func (p Plan) Cell(row, col int) any {
	if row < 0 || row >= len(p.rows) {
		return nil
	}
	cells := p.rows[row]
	if col < 0 || col >= len(cells) {
		return nil
	}
	return cells[col]
}

// At returns the display text of a cell.
func (p Plan) At(row, col int) string {
	return FormatCell(p.Cell(row, col))
}

// Rows returns the number of rows in a tabular plan.
func (p Plan) Rows() int {
	return len(p.rows)
}

// Columns returns the number of columns in a tabular plan.
func (p Plan) Columns() int {
	return len(p.Titles)
}

// FormatCell renders a cell value as text. Nested values are shown as compact JSON.
func FormatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any, map[string]any:
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(out)
	default:
		return fmt.Sprint(v)
	}
}
