package middleware

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// VisionMetrics instruments the vision worker's internal HTTP transport.
// The metrics are registered against the Registerer passed to
// NewVisionMetrics; the worker's router serves no /metrics endpoint.
type VisionMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	InferenceLatency *prometheus.HistogramVec
	FallbackTotal   prometheus.Counter
}

// NewVisionMetrics registers and returns the vision worker's metric set.
// workerID is attached as a constant label so a dispatcher scraping
// multiple worker processes can distinguish them.
func NewVisionMetrics(reg prometheus.Registerer, workerID string) *VisionMetrics {
	labels := prometheus.Labels{"worker": workerID}

	return &VisionMetrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name:        "havf_vision_requests_total",
			Help:        "Total inference requests handled by a vision worker.",
			ConstLabels: labels,
		}, []string{"route", "status"}),
		InferenceLatency: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:        "havf_vision_inference_latency_ms",
			Help:        "Inference latency in milliseconds, bucketed around the 33ms championship target.",
			ConstLabels: labels,
			Buckets:     []float64{5, 10, 16, 20, 25, 30, 33, 40, 50, 75, 100, 200},
		}, []string{"sport"}),
		FallbackTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name:        "havf_vision_fallback_detections_total",
			Help:        "Frames served by the functional (non-ML) fallback detector.",
			ConstLabels: labels,
		}),
	}
}

// Metrics wraps a handler to record request counts and status codes,
// labelled by the request's URL path.
func Metrics(m *VisionMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			_ = time.Since(start)
			m.RequestsTotal.WithLabelValues(r.URL.Path, http.StatusText(wrapped.statusCode)).Inc()
		})
	}
}
