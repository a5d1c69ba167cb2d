// Package metrics exposes Prometheus counters for the error handling
// framework. The in-process statistics tracker remains the queryable source
// of truth; these counters are ambient export only.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ErrorsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plugin_errors_recorded_total",
			Help: "Total number of errors recorded by the error handler",
		},
		[]string{"kind", "code"},
	)

	RetriesAttempted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plugin_error_retries_total",
			Help: "Total number of retry attempts scheduled by the error handler",
		},
		[]string{"kind"},
	)

	FallbacksApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plugin_error_fallbacks_total",
			Help: "Total number of fallback values substituted for failed operations",
		},
		[]string{"kind"},
	)

	ErrorsEscalated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plugin_errors_escalated_total",
			Help: "Total number of errors escalated for reporting",
		},
		[]string{"kind"},
	)
)
