package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCount counts HTTP requests
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)

	// SessionCount counts corpus sessions by outcome
	SessionCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeplag_sessions_total",
			Help: "Total number of corpus comparison sessions",
		},
		[]string{"status"},
	)

	// SessionDuration measures corpus session duration
	SessionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codeplag_session_duration_seconds",
			Help:    "Corpus comparison session duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)

	// PairsCompared counts file pairs compared, by algorithm
	PairsCompared = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeplag_pairs_compared_total",
			Help: "Total number of file pairs compared",
		},
		[]string{"algorithm"},
	)

	// NormalizationIssues counts elements a normalization pass skipped
	NormalizationIssues = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codeplag_normalization_issues_total",
			Help: "Total number of elements skipped by normalization passes",
		},
	)

	// SubmissionsIngested counts stored submissions by intake source
	SubmissionsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeplag_submissions_ingested_total",
			Help: "Total number of submissions stored",
		},
		[]string{"source"},
	)

	registerOnce sync.Once
)

// InitPrometheus registers the collectors with the default registry. It is
// safe to call more than once.
func InitPrometheus() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCount,
			RequestDuration,
			SessionCount,
			SessionDuration,
			PairsCompared,
			NormalizationIssues,
			SubmissionsIngested,
		)
	})
}

// Handler returns the Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}
