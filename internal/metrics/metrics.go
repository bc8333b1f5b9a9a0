package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueryTotal tracks resolved queries by status (success or failed)
	QueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_query_total",
			Help: "Total number of resolved queries by status (success or failed)",
		},
		[]string{"status"},
	)

	// QueryDuration tracks the reported duration of resolved queries
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_query_duration_milliseconds",
			Help:    "Duration of resolved queries in milliseconds by status",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"status"},
	)

	// QueryRowsTotal tracks the number of rows received
	QueryRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "console_query_rows_total",
			Help: "Total number of result rows received",
		},
	)

	// RejectedSubmissionTotal tracks submissions refused because a query was in flight
	RejectedSubmissionTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "console_rejected_submission_total",
			Help: "Total number of submissions rejected while a query was in flight",
		},
	)
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// RecordQuery records a resolved query with the given status and duration
func RecordQuery(status string, elapsedMs float64) {
	QueryTotal.WithLabelValues(status).Inc()
	QueryDuration.WithLabelValues(status).Observe(elapsedMs)
}

// RecordRows records received result rows
func RecordRows(n int) {
	QueryRowsTotal.Add(float64(n))
}

// RecordRejectedSubmission records a submission refused by single-flight
func RecordRejectedSubmission() {
	RejectedSubmissionTotal.Inc()
}
