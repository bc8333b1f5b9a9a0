// Package result interprets query service payloads and plans how they are displayed.
package result

// SynthesizedPrefix marks a header that was generated because the service
// returned rows without naming the columns.
const SynthesizedPrefix = "?"

// Payload is a decoded success body from the query service.
type Payload struct {
	Rows    [][]any
	Headers []string

	// TimeTaken is the server-measured execution time in milliseconds.
	TimeTaken float64

	HasRows      bool
	HasHeaders   bool
	HasTimeTaken bool

	// Fields holds every key of the body, including the ones above.
	Fields map[string]any
}

// Result is the normalized shape of a payload. It is either Tabular or Opaque.
type Result interface {
	// Elapsed returns the server-reported time in milliseconds.
	Elapsed() float64

	isResult()
}

// Tabular is a result that carries rows, and therefore headers.
type Tabular struct {
	Headers   []string
	Rows      [][]any
	TimeTaken float64
}

func (t Tabular) Elapsed() float64 { return t.TimeTaken }
func (Tabular) isResult()          {}

// RowCount returns the number of rows in the result.
func (t Tabular) RowCount() int { return len(t.Rows) }

// Opaque is a result without rows, such as a write acknowledgment.
type Opaque struct {
	Payload   map[string]any
	TimeTaken float64
}

func (o Opaque) Elapsed() float64 { return o.TimeTaken }
func (Opaque) isResult()          {}

var (
	_ Result = Tabular{}
	_ Result = Opaque{}
)
