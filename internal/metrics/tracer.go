package metrics

import (
	"go.opentelemetry.io/otel"
)

// Tracer is shared by the query lifecycle spans.
var Tracer = otel.Tracer("console.query")
