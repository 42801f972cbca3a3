package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Total number of accepted form submissions",
		},
		[]string{"with_resume"},
	)

	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_auth_attempts_total",
			Help: "Total number of admin authentication attempts",
		},
		[]string{"status"}, // success, failure
	)
)

// Middleware records request counters and latencies. The route template is
// used as the endpoint label so ids do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint, status).
			Observe(time.Since(start).Seconds())
	}
}

// RecordSubmission records an accepted form submission.
func RecordSubmission(withResume bool) {
	submissionsTotal.WithLabelValues(strconv.FormatBool(withResume)).Inc()
}

// RecordAuthAttempt records an admin authentication attempt.
func RecordAuthAttempt(success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	authAttemptsTotal.WithLabelValues(status).Inc()
}
