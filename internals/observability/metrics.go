package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "erpr", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "erpr", Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	JobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "erpr", Name: "job_runs_total", Help: "Batch job runs",
	}, []string{"job"})

	JobErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "erpr", Name: "job_errors_total", Help: "Batch job item failures",
	}, []string{"job"})

	JobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "erpr", Name: "job_duration_seconds", Help: "Batch job duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})

	Payments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "erpr", Name: "payments_total", Help: "Payment status transitions from gateway notifications",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, JobRuns, JobErrors, JobDuration, Payments)
}

func MetricsHandler() http.Handler { return promhttp.Handler() }

func ObserveJob(job string, started time.Time, failed int) {
	JobRuns.WithLabelValues(job).Inc()
	if failed > 0 {
		JobErrors.WithLabelValues(job).Add(float64(failed))
	}
	JobDuration.WithLabelValues(job).Observe(time.Since(started).Seconds())
}
