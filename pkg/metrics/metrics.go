package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	registry           *prometheus.Registry
	registryOnce       sync.Once
	defaultMetricsPath = "/metrics"
	metricsEnabled     = true

	// Job metrics
	JobsTotal          *prometheus.CounterVec
	JobDuration        *prometheus.HistogramVec
	JobsInFlight       prometheus.Gauge

	// Segmentation metrics
	SegmentationDuration prometheus.Histogram
	SegmentsProduced     prometheus.Histogram
	SpeakersDetected     prometheus.Histogram

	// Provider metrics
	ProviderRequestsTotal *prometheus.CounterVec
	ProviderLatency       *prometheus.HistogramVec

	// Publishing metrics
	RecordsPublished *prometheus.CounterVec
)

// Init initializes all metrics and registers them with Prometheus
func Init(logger *logrus.Logger) {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()

		JobsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetinsight_jobs_total",
				Help: "Total number of processing jobs by final status",
			},
			[]string{"status"},
		)

		JobDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meetinsight_job_duration_seconds",
				Help:    "End-to-end processing time per job",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"status"},
		)

		JobsInFlight = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "meetinsight_jobs_in_flight",
				Help: "Number of jobs currently being processed",
			},
		)

		SegmentationDuration = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "meetinsight_segmentation_duration_seconds",
				Help:    "Time taken to segment a word stream",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 10),
			},
		)

		SegmentsProduced = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "meetinsight_segments_produced",
				Help:    "Number of segments produced per transcript",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		)

		SpeakersDetected = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "meetinsight_speakers_detected",
				Help:    "Number of synthetic speakers detected per transcript",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
		)

		ProviderRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetinsight_provider_requests_total",
				Help: "Total number of analysis provider requests",
			},
			[]string{"provider", "status"},
		)

		ProviderLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meetinsight_provider_latency_seconds",
				Help:    "Latency of analysis provider calls",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
			[]string{"provider"},
		)

		RecordsPublished = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetinsight_records_published_total",
				Help: "Total number of intelligence records published downstream",
			},
			[]string{"queue", "status"},
		)

		registry.MustRegister(
			JobsTotal,
			JobDuration,
			JobsInFlight,
			SegmentationDuration,
			SegmentsProduced,
			SpeakersDetected,
			ProviderRequestsTotal,
			ProviderLatency,
			RecordsPublished,
		)

		logger.Info("Prometheus metrics initialized")
	})
}

// GetRegistry returns the prometheus registry
func GetRegistry() *prometheus.Registry {
	return registry
}

// SetMetricsPath sets the HTTP path for metrics endpoint
func SetMetricsPath(path string) {
	defaultMetricsPath = path
}

// EnableMetrics enables or disables metrics collection
func EnableMetrics(enabled bool) {
	metricsEnabled = enabled
}

// IsMetricsEnabled returns whether metrics are enabled
func IsMetricsEnabled() bool {
	return metricsEnabled
}

// RegisterHandler registers the metrics HTTP handler
func RegisterHandler(mux *http.ServeMux) {
	if metricsEnabled && registry != nil {
		handler := promhttp.HandlerFor(
			registry,
			promhttp.HandlerOpts{
				EnableOpenMetrics: true,
				Registry:          registry,
			},
		)
		mux.Handle(defaultMetricsPath, handler)
	}
}

// StartMetrics initializes the metrics service
func StartMetrics(logger *logrus.Logger, enabled bool) {
	if !enabled {
		EnableMetrics(false)
		logger.Info("Metrics collection is disabled")
		return
	}

	Init(logger)
	EnableMetrics(true)
	logger.WithField("metrics_path", defaultMetricsPath).Info("Metrics endpoint initialized")
}

// RecordJob records the outcome and duration of one processing job
func RecordJob(status string, duration time.Duration) {
	if metricsEnabled && JobsTotal != nil {
		JobsTotal.WithLabelValues(status).Inc()
		JobDuration.WithLabelValues(status).Observe(duration.Seconds())
	}
}

// TrackJobInFlight marks a job as started and returns a function that marks
// it finished
func TrackJobInFlight() func() {
	if !metricsEnabled || JobsInFlight == nil {
		return func() {}
	}

	JobsInFlight.Inc()
	return func() {
		JobsInFlight.Dec()
	}
}

// RecordSegmentation records segmentation shape metrics for one transcript
func RecordSegmentation(duration time.Duration, segments, speakers int) {
	if metricsEnabled && SegmentationDuration != nil {
		SegmentationDuration.Observe(duration.Seconds())
		SegmentsProduced.Observe(float64(segments))
		SpeakersDetected.Observe(float64(speakers))
	}
}

// RecordProviderRequest records metrics for an analysis provider request
func RecordProviderRequest(provider, status string) {
	if metricsEnabled && ProviderRequestsTotal != nil {
		ProviderRequestsTotal.WithLabelValues(provider, status).Inc()
	}
}

// ObserveProviderLatency records provider latency with a timer function
func ObserveProviderLatency(provider string) func() {
	if !metricsEnabled || ProviderLatency == nil {
		return func() {}
	}

	start := time.Now()
	return func() {
		ProviderLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	}
}

// RecordPublish records metrics for one downstream publish attempt
func RecordPublish(queue, status string) {
	if metricsEnabled && RecordsPublished != nil {
		RecordsPublished.WithLabelValues(queue, status).Inc()
	}
}
