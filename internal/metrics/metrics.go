package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job lifecycle metrics
var (
	JobsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gfx_engine_jobs_submitted_total",
			Help: "Total number of accepted generation jobs",
		},
	)

	JobsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gfx_engine_jobs_rejected_total",
			Help: "Total number of submissions rejected at validation time",
		},
		[]string{"reason"}, // "unsupported_format", "queue_full", "shutting_down", "invalid_input"
	)

	JobsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gfx_engine_jobs_completed_total",
			Help: "Total number of jobs processed by the worker",
		},
	)

	JobsDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gfx_engine_jobs_delivered_total",
			Help: "Total number of completed jobs handed to the delivery collaborator",
		},
	)

	JobsDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gfx_engine_jobs_discarded_total",
			Help: "Total number of queued jobs dropped at shutdown",
		},
	)
)

// Generation metrics
var (
	GenerateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gfx_engine_generate_duration_seconds",
			Help:    "Wall time of one job's backend generation across all dimensions",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	DimensionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gfx_engine_dimension_failures_total",
			Help: "Total number of per-dimension generation failures (empty result slots)",
		},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gfx_engine_request_queue_depth",
			Help: "Current depth of the request queue",
		},
	)

	ProviderSwaps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gfx_engine_provider_swaps_total",
			Help: "Total number of runtime graphics backend replacements",
		},
	)
)
