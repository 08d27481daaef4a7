// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "automate",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "automate",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	gatewaySyncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "automate",
			Subsystem: "gateway",
			Name:      "syncs_total",
			Help:      "Optimistic mutations by operation and outcome.",
		},
		[]string{"op", "status"},
	)

	gatewaySyncDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "automate",
			Subsystem: "gateway",
			Name:      "sync_duration_seconds",
			Help:      "Duration of background gateway calls.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"op"},
	)

	liveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "automate",
			Subsystem: "state",
			Name:      "live_sessions",
			Help:      "Session containers currently held in memory.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		gatewaySyncs,
		gatewaySyncDuration,
		liveSessions,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordSync counts a resolved gateway sync.
func RecordSync(op, status string, duration time.Duration) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	gatewaySyncs.WithLabelValues(op, status).Inc()
	gatewaySyncDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// SetLiveSessions reports the number of containers in memory.
func SetLiveSessions(n int) {
	liveSessions.Set(float64(n))
}
