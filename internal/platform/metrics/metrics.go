// Package metrics holds the HTTP-level Prometheus metrics shared by all
// listeners. Authorization metrics live with the engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the request counters and latency histogram.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// New creates and registers the HTTP metrics.
func New() *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bola_demo_http_requests_total",
			Help: "HTTP requests by listener, method and status",
		}, []string{"listener", "method", "status"}),
		Duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bola_demo_http_request_duration_seconds",
			Help:    "HTTP request latency by listener",
			Buckets: prometheus.DefBuckets,
		}, []string{"listener"}),
	}
}

// Middleware instruments requests under the given listener label. Nil-safe:
// a nil Metrics passes requests through untouched.
func (m *Metrics) Middleware(listener string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			m.Requests.WithLabelValues(listener, r.Method, strconv.Itoa(ww.Status())).Inc()
			m.Duration.WithLabelValues(listener).Observe(time.Since(start).Seconds())
		})
	}
}
