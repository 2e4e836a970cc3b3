package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "s3pulse_notifications_total",
			Help: "Total number of notification records received",
		},
		[]string{"status"},
	)

	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "s3pulse_batches_total",
			Help: "Total number of ingestion batches processed",
		},
		[]string{"status"},
	)

	EventsWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "s3pulse_events_written_total",
			Help: "Total number of events accepted by the store",
		},
	)

	EventsUnprocessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "s3pulse_events_unprocessed_total",
			Help: "Total number of events the store returned unapplied",
		},
	)

	BatchWriteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "s3pulse_batch_write_duration_seconds",
			Help:    "Duration of store batch writes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Reporting metrics
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "s3pulse_reports_total",
			Help: "Total number of reporting pipeline runs",
		},
		[]string{"status"},
	)

	ReportGroups = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "s3pulse_report_groups",
			Help:    "Number of groups per dispatched report",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	ReportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "s3pulse_report_duration_seconds",
			Help:    "Duration of full reporting pipeline runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Admission metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "s3pulse_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"source"},
	)

	// Dead letter metrics
	DLQWritesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "s3pulse_dlq_writes_total",
			Help: "Total number of failed batches captured to the DLQ",
		},
	)
)
