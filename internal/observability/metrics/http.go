package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics captures low-cardinality HTTP server metrics.
type HTTPMetrics struct {
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewHTTPMetrics creates and registers HTTP metrics instruments.
func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_server_duration_seconds",
			Help:    "HTTP request duration by route and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status_code"}),
		inFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "http_server_in_flight",
			Help: "In-flight HTTP requests.",
		}),
	}
}

// GinMiddleware records request duration and in-flight metrics.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		route := normalizeRoute(c.FullPath())
		m.inFlight.Inc()
		start := time.Now()
		c.Next()
		m.inFlight.Dec()

		m.requestDuration.
			WithLabelValues(route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return "unknown"
	}
	return route
}
