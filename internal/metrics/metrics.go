package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// DueSchedulesFound is the number of due schedules picked up by the last daily check.
	DueSchedulesFound = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "payroll_due_schedules_found",
			Help: "Number of due schedules found by the last check",
		},
	)

	// EmailsSentTotal counts payment-due emails by result (sent, failed, skipped).
	EmailsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payroll_emails_sent_total",
			Help: "Total number of payment due emails by result",
		},
		[]string{"result"},
	)

	// RunsTotal counts payroll run completions by status (paid, failed).
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payroll_runs_total",
			Help: "Total number of payroll runs finished by status",
		},
		[]string{"status"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, DueSchedulesFound, EmailsSentTotal, RunsTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /v1/schedules/123 -> /v1/schedules/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// SetDueSchedulesFound records how many due schedules the last check found.
func SetDueSchedulesFound(n int) {
	DueSchedulesFound.Set(float64(n))
}

// IncEmailsSent increments the email counter for the given result (sent, failed, skipped).
func IncEmailsSent(result string) {
	EmailsSentTotal.WithLabelValues(result).Inc()
}

// IncRuns increments the payroll run counter for the given status (paid, failed).
func IncRuns(status string) {
	RunsTotal.WithLabelValues(status).Inc()
}
