package obs

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	authFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Authentication and authorization failures by outcome.",
		},
		[]string{"outcome"},
	)
)

// Init registers metrics in the default registry.
func Init() {
	prometheus.MustRegister(httpInFlight, httpRequestsTotal, httpRequestDuration, authFailuresTotal)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// AuthFailure counts a failed authentication or authorization attempt.
// Outcome is a coarse label ("unauthenticated", "forbidden"), never a detail
// that could leak tenant existence.
func AuthFailure(outcome string) {
	authFailuresTotal.WithLabelValues(outcome).Inc()
}

// Instrument wraps a handler with RPS/latency/in-flight measurements.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	})
}

// CanonicalPath collapses resource identifiers so metric labels stay low
// cardinality. Unknown shapes are passed through untouched.
func CanonicalPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[0] != "v1" {
		return path
	}
	switch parts[1] {
	case "agencies":
		if len(parts) == 3 {
			return "/v1/agencies/:slug"
		}
		if len(parts) == 4 {
			return "/v1/agencies/:slug/" + parts[3]
		}
	case "team-members":
		if len(parts) == 3 {
			return "/v1/team-members/:id"
		}
	case "renewals":
		if len(parts) == 4 && parts[3] == "status" {
			return "/v1/renewals/:id/status"
		}
	}
	return path
}

// statusWriter records the response code for labelling.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
