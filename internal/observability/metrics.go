// Package observability provides Prometheus metrics for the application.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bvget"

// Metrics holds all application metrics.
type Metrics struct {
	// Job metrics
	JobsCreated    prometheus.Counter
	JobsCompleted  prometheus.Counter
	JobsFailed     prometheus.Counter
	JobsInProgress prometheus.Gauge
	JobDuration    prometheus.Histogram

	// Downloader metrics
	DownloadBytes    prometheus.Counter
	DownloaderErrors *prometheus.CounterVec

	// API client metrics
	APICallErrors *prometheus.CounterVec

	// Auth metrics
	LoginsTotal  prometheus.Counter
	LogoutsTotal prometheus.Counter

	// Storage metrics
	CleanupJobsTotal  prometheus.Counter
	CleanupFilesTotal prometheus.Counter
	StoredJobsTotal   prometheus.Gauge
	StoredMediaTotal  prometheus.Gauge

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all application metrics.
func New() *Metrics {
	return &Metrics{
		JobsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "created_total",
			Help:      "Total number of jobs created",
		}),
		JobsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "completed_total",
			Help:      "Total number of jobs completed successfully",
		}),
		JobsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "failed_total",
			Help:      "Total number of jobs that failed",
		}),
		JobsInProgress: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "in_progress",
			Help:      "Number of jobs currently in progress",
		}),
		JobDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "duration_seconds",
			Help:      "Histogram of job download duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		}),

		DownloadBytes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "downloader",
			Name:      "bytes_total",
			Help:      "Total bytes downloaded across all jobs",
		}),
		DownloaderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "downloader",
			Name:      "errors_total",
			Help:      "Total number of download errors",
		}, []string{"downloader", "error_type"}),

		APICallErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Total number of platform API errors",
		}, []string{"endpoint"}),

		LoginsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total number of confirmed QR logins",
		}),
		LogoutsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logouts_total",
			Help:      "Total number of logouts",
		}),

		CleanupJobsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "cleanup_jobs_total",
			Help:      "Total number of expired jobs cleaned up",
		}),
		CleanupFilesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "cleanup_files_total",
			Help:      "Total number of expired files cleaned up",
		}),
		StoredJobsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "jobs_current",
			Help:      "Current number of stored jobs",
		}),
		StoredMediaTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "media_current",
			Help:      "Current number of stored media records",
		}),

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Histogram of HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// JobTimer returns a function to record job duration.
func (m *Metrics) JobTimer() func() {
	start := time.Now()

	return func() {
		m.JobDuration.Observe(time.Since(start).Seconds())
	}
}

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordJobCreated increments the jobs created counter.
func (m *Metrics) RecordJobCreated() {
	m.JobsCreated.Inc()
	m.JobsInProgress.Inc()
}

// RecordJobCompleted records a completed job.
func (m *Metrics) RecordJobCompleted() {
	m.JobsCompleted.Inc()
	m.JobsInProgress.Dec()
}

// RecordJobFailed records a failed job.
func (m *Metrics) RecordJobFailed() {
	m.JobsFailed.Inc()
	m.JobsInProgress.Dec()
}

// RecordDownloadBytes adds downloaded bytes to the counter.
func (m *Metrics) RecordDownloadBytes(n int64) {
	m.DownloadBytes.Add(float64(n))
}

// RecordDownloaderError records a download error.
func (m *Metrics) RecordDownloaderError(downloader, errorType string) {
	m.DownloaderErrors.WithLabelValues(downloader, errorType).Inc()
}

// RecordAPIError records a platform API error for an endpoint.
func (m *Metrics) RecordAPIError(endpoint string) {
	m.APICallErrors.WithLabelValues(endpoint).Inc()
}

// RecordLogin records a confirmed QR login.
func (m *Metrics) RecordLogin() {
	m.LoginsTotal.Inc()
}

// RecordLogout records a logout.
func (m *Metrics) RecordLogout() {
	m.LogoutsTotal.Inc()
}

// RecordCleanup records cleanup metrics.
func (m *Metrics) RecordCleanup(jobs, files int) {
	m.CleanupJobsTotal.Add(float64(jobs))
	m.CleanupFilesTotal.Add(float64(files))
}

// SetStoredJobs sets the number of stored jobs.
func (m *Metrics) SetStoredJobs(count int) {
	m.StoredJobsTotal.Set(float64(count))
}

// SetStoredMedia sets the number of stored media records.
func (m *Metrics) SetStoredMedia(count int) {
	m.StoredMediaTotal.Set(float64(count))
}
