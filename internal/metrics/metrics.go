package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hgl_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hgl_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// RecordsAppended counts successful appends by collection (intake, certificates).
	RecordsAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hgl_records_appended_total",
			Help: "Records appended to the store",
		},
		[]string{"collection"},
	)

	CertificatesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hgl_certificates_issued_total",
			Help: "Certificates issued with a committed job number",
		},
	)

	LastJobNumber = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hgl_last_job_number",
			Help: "Most recently committed job number",
		},
	)

	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hgl_storage_errors_total",
			Help: "Substrate failures by operation",
		},
		[]string{"op"},
	)

	DegradedReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hgl_degraded_reads_total",
			Help: "Collection reads that fell back to an empty list",
		},
		[]string{"collection"},
	)

	BackupsUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hgl_backups_total",
			Help: "Snapshot uploads by result",
		},
		[]string{"result"},
	)

	FeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hgl_feed_clients",
			Help: "Connected live record feed clients",
		},
	)
)
