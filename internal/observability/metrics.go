package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	clientRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blockadectl",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total blockade service requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	clientDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blockadectl",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Blockade service request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(clientRequests, clientDuration)
	})
}

// ObserveRequest records one completed or failed service round trip. The
// status label is the numeric HTTP status, or "error" when the round trip
// itself failed.
func ObserveRequest(method, endpoint, status string, duration time.Duration) {
	RegisterMetrics()
	clientRequests.WithLabelValues(method, endpoint, status).Inc()
	clientDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// MetricsHandler serves the prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}
