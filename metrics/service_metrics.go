package metrics

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsPrefix is the prefix used for all metrics
const MetricsPrefix = "price_exporter_"

// Service constants
const (
	ServicePrices = "prices"
	ServiceRates  = "rates"
	ServiceReport = "report"
)

var (
	// UpstreamRequestsTotal counts HTTP requests to upstream APIs per service
	// Cardinality: ~10 (3 services x 3-4 statuses)
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "upstream_requests_total",
			Help: "Total number of HTTP requests to upstream APIs per service",
		},
		[]string{"service", "status"},
	)

	// FetchCycleDuration tracks how long a full fetch takes per service
	FetchCycleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "fetch_cycle_duration_seconds",
			Help: "Time taken to complete a full data fetch",
		},
		[]string{"service"},
	)

	// ServiceRetryCounter counts HTTP retry attempts per service
	ServiceRetryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "service_retry_attempts_total",
			Help: "Total number of retry attempts per service",
		},
		[]string{"service"},
	)

	// ReportsGeneratedTotal counts generated reports by outcome
	// Cardinality: 3 (ok, partial, error)
	ReportsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "reports_generated_total",
			Help: "Total number of generated reports by outcome",
		},
		[]string{"outcome"},
	)
)

// MetricsWriter provides a unified interface for recording service
// metrics. It implements upstream.StatusHandler.
type MetricsWriter struct {
	serviceName string
}

// NewMetricsWriter creates a new MetricsWriter for the specified service
func NewMetricsWriter(serviceName string) *MetricsWriter {
	return &MetricsWriter{
		serviceName: serviceName,
	}
}

// OnRequest records an upstream HTTP request with its status
func (mw *MetricsWriter) OnRequest(status string) {
	UpstreamRequestsTotal.WithLabelValues(mw.serviceName, status).Inc()
}

// OnRetry records an upstream HTTP retry attempt
func (mw *MetricsWriter) OnRetry() {
	ServiceRetryCounter.WithLabelValues(mw.serviceName).Inc()
}

// RecordFetchCycle records the duration of a full data fetch
func (mw *MetricsWriter) RecordFetchCycle(start time.Time) {
	duration := time.Since(start)
	FetchCycleDuration.WithLabelValues(mw.serviceName).Observe(duration.Seconds())
	log.Printf("Metrics: %s fetch took %.2fs", mw.serviceName, duration.Seconds())
}

// RecordReportOutcome records a generated report outcome
func RecordReportOutcome(outcome string) {
	ReportsGeneratedTotal.WithLabelValues(outcome).Inc()
}
