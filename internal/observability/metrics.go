// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Import metrics
	TradesImported *prometheus.CounterVec
	ImportErrors   *prometheus.CounterVec

	// Analytics metrics
	ReportsComputed  *prometheus.CounterVec
	ReportDuration   prometheus.Histogram
	TradesAnalyzed   prometheus.Histogram
	SnapshotsStored  prometheus.Counter
	LastSnapshotTime *prometheus.GaugeVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered with reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "trading_journal"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		TradesImported: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "trades_total",
			Help:      "Total number of journal trades imported by source format",
		}, []string{"format"}),
		ImportErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "errors_total",
			Help:      "Total number of rejected journal rows by reason",
		}, []string{"reason"}),

		ReportsComputed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "reports_total",
			Help:      "Total number of performance reports computed by status",
		}, []string{"status"}),
		ReportDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "report_duration_seconds",
			Help:      "Time spent loading trades and computing a report",
			Buckets:   prometheus.DefBuckets,
		}),
		TradesAnalyzed: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "trades_per_report",
			Help:      "Number of trades included in each computed report",
			Buckets:   []float64{0, 10, 50, 100, 500, 1000, 5000},
		}),
		SnapshotsStored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "snapshots_stored_total",
			Help:      "Total number of analytics snapshots persisted",
		}),
		LastSnapshotTime: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "last_snapshot_timestamp",
			Help:      "Unix timestamp of the last stored snapshot per account",
		}, []string{"account"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor serves the metrics of g, for registries other than the default one.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// RecordImport records imported trades and rejected rows.
func (m *Metrics) RecordImport(format string, imported int, rejected map[string]int) {
	m.TradesImported.WithLabelValues(format).Add(float64(imported))
	for reason, n := range rejected {
		m.ImportErrors.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordReport records a report computation.
func (m *Metrics) RecordReport(status string, trades int, seconds float64) {
	m.ReportsComputed.WithLabelValues(status).Inc()
	m.ReportDuration.Observe(seconds)
	if status == "ok" {
		m.TradesAnalyzed.Observe(float64(trades))
	}
}

// RecordSnapshot records a persisted snapshot.
func (m *Metrics) RecordSnapshot(accountID string, unixSeconds float64) {
	m.SnapshotsStored.Inc()
	m.LastSnapshotTime.WithLabelValues(accountID).Set(unixSeconds)
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, seconds float64, err error) {
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordHTTP records a served HTTP request.
func (m *Metrics) RecordHTTP(route, code string, seconds float64) {
	m.HTTPRequests.WithLabelValues(route, code).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(seconds)
}
