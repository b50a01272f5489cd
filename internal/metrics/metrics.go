// Package metrics provides Prometheus metrics for depotview
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for depotview
type Metrics struct {
	// gRPC request metrics
	GrpcRequestsTotal    *prometheus.CounterVec
	GrpcRequestDuration  *prometheus.HistogramVec
	GrpcRequestsInFlight prometheus.Gauge

	// Revision specifier metrics
	RevisionParsesTotal *prometheus.CounterVec
	RevisionMissesTotal prometheus.Counter

	// Projection metrics
	ProjectionsTotal       *prometheus.CounterVec
	ProjectionDuration     *prometheus.HistogramVec
	RecordsProjectedTotal  prometheus.Counter
	ResultErrorsTotal      prometheus.Counter
	HistoryResolvesTotal   *prometheus.CounterVec
	HistoryEntriesReturned prometheus.Counter

	// Server metrics
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time
}

// NewMetrics creates all metrics and registers them with reg. Passing
// prometheus.DefaultRegisterer exposes them through promhttp.Handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	// gRPC request metrics
	m.GrpcRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depotview_grpc_requests_total",
			Help: "Total number of gRPC requests",
		},
		[]string{"method", "status"},
	)

	m.GrpcRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "depotview_grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	m.GrpcRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "depotview_grpc_requests_in_flight",
			Help: "Number of gRPC requests currently being processed",
		},
	)

	// Revision specifier metrics
	m.RevisionParsesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depotview_revision_parses_total",
			Help: "Total number of revision specifiers parsed, by resulting kind",
		},
		[]string{"kind"},
	)

	m.RevisionMissesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "depotview_revision_misses_total",
			Help: "Total number of texts that matched no revision specifier form",
		},
	)

	// Projection metrics
	m.ProjectionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depotview_projections_total",
			Help: "Total number of result sets projected, by shape",
		},
		[]string{"shape"},
	)

	m.ProjectionDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "depotview_projection_duration_seconds",
			Help:    "Duration of projections in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"shape"},
	)

	m.RecordsProjectedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "depotview_records_projected_total",
			Help: "Total number of records projected into nodes",
		},
	)

	m.ResultErrorsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "depotview_result_errors_total",
			Help: "Total number of projected result sets carrying error output",
		},
	)

	m.HistoryResolvesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depotview_history_resolves_total",
			Help: "Total number of specifiers resolved against file history",
		},
		[]string{"kind", "status"},
	)

	m.HistoryEntriesReturned = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "depotview_history_entries_returned_total",
			Help: "Total number of revisions returned by history resolution",
		},
	)

	// Server metrics
	m.ServerUptimeSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "depotview_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	return m
}

// RunUptime updates the uptime gauge until done is closed
func (m *Metrics) RunUptime(done <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
		}
	}
}

// RecordGrpcRequest records a gRPC request with its status
func (m *Metrics) RecordGrpcRequest(method string, status string, duration time.Duration) {
	m.GrpcRequestsTotal.WithLabelValues(method, status).Inc()
	m.GrpcRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordParse records one specifier parse
func (m *Metrics) RecordParse(kind string, matched bool) {
	if !matched {
		m.RevisionMissesTotal.Inc()
		return
	}
	m.RevisionParsesTotal.WithLabelValues(kind).Inc()
}

// RecordProjection records a projection of records through shape
func (m *Metrics) RecordProjection(shape string, records int, hasError bool, duration time.Duration) {
	m.ProjectionsTotal.WithLabelValues(shape).Inc()
	m.ProjectionDuration.WithLabelValues(shape).Observe(duration.Seconds())
	m.RecordsProjectedTotal.Add(float64(records))
	if hasError {
		m.ResultErrorsTotal.Inc()
	}
}

// RecordResolve records a history resolution
func (m *Metrics) RecordResolve(kind, status string, entries int) {
	m.HistoryResolvesTotal.WithLabelValues(kind, status).Inc()
	m.HistoryEntriesReturned.Add(float64(entries))
}
