package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
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

	httpRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 1000000, 5000000},
		},
		[]string{"method", "endpoint"},
	)

	// Business metrics
	contactSubmissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Total number of contact form submissions",
		},
	)

	applicationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "job_applications_total",
			Help: "Total number of job applications",
		},
	)

	eventRegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_registrations_total",
			Help: "Total number of event registrations",
		},
	)

	resourceDownloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resource_downloads_total",
			Help: "Total number of resource download requests",
		},
	)

	rateLimitRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"tier"},
	)

	emailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_emails_total",
			Help: "Total number of notification email attempts",
		},
		[]string{"template", "status"}, // status: sent, failed
	)
)

// PrometheusMiddleware creates a middleware that records Prometheus metrics
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip metrics endpoint itself
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		if r.ContentLength > 0 {
			httpRequestSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(r.ContentLength))
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, statusCode).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, statusCode).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RecordContactSubmission records a new contact form submission
func RecordContactSubmission() {
	contactSubmissionsTotal.Inc()
}

// RecordApplication records a new job application
func RecordApplication() {
	applicationsTotal.Inc()
}

// RecordEventRegistration records a new event registration
func RecordEventRegistration() {
	eventRegistrationsTotal.Inc()
}

// RecordResourceDownload records a resource download request
func RecordResourceDownload() {
	resourceDownloadsTotal.Inc()
}

// RecordRateLimitRejection records a request rejected by the rate limiter
func RecordRateLimitRejection(tier string) {
	rateLimitRejectionsTotal.WithLabelValues(tier).Inc()
}

// RecordEmail records a notification email attempt
func RecordEmail(template string, err error) {
	status := "sent"
	if err != nil {
		status = "failed"
	}
	emailsTotal.WithLabelValues(template, status).Inc()
}
