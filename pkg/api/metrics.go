package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ssargent/pxlassets/pkg/pipeline"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	resultHit  = "hit"
	resultMiss = "miss"
)

// Metrics holds all Prometheus metrics of the asset browser
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Pipeline metrics
	lookupsTotal      *prometheus.CounterVec
	thumbnailsTotal   *prometheus.CounterVec
	shardsLoaded      prometheus.Gauge
	entriesLoaded     prometheus.Gauge
	residentBytes     prometheus.Gauge
	entriesByTypeLoad *prometheus.GaugeVec
}

// NewMetrics creates all metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pxl_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pxl_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pxl_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		lookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pxl_asset_lookups_total",
				Help: "Total number of asset lookups by key",
			},
			[]string{"result"},
		),

		thumbnailsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pxl_thumbnails_total",
				Help: "Total number of texture thumbnails rendered",
			},
			[]string{"status"},
		),

		shardsLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pxl_shards_loaded",
				Help: "Number of shards loaded by the pipeline",
			},
		),

		entriesLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pxl_entries_loaded",
				Help: "Number of entries loaded by the pipeline",
			},
		),

		residentBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pxl_resident_bytes",
				Help: "Bytes of decoded payload held by the pipeline",
			},
		),

		entriesByTypeLoad: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pxl_entries_by_type",
				Help: "Number of loaded entries per entry type",
			},
			[]string{"type"},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordLookup records a key lookup
func (m *Metrics) RecordLookup(found bool) {
	result := resultHit
	if !found {
		result = resultMiss
	}
	m.lookupsTotal.WithLabelValues(result).Inc()
}

// RecordThumbnail records a thumbnail render
func (m *Metrics) RecordThumbnail(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.thumbnailsTotal.WithLabelValues(status).Inc()
}

// UpdatePipelineStats publishes what the pipeline has loaded
func (m *Metrics) UpdatePipelineStats(s pipeline.Stats) {
	m.shardsLoaded.Set(float64(s.Shards))
	m.entriesLoaded.Set(float64(s.Entries))
	m.residentBytes.Set(float64(s.TotalBytes))
	for typ, n := range s.ByType {
		m.entriesByTypeLoad.WithLabelValues(typ).Set(float64(n))
	}
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Record request in flight
		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Create response writer wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
