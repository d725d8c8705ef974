package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP метрики
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "track_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "track_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "track_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	UploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "track_upload_size_bytes",
			Help:    "Size of uploaded track files in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8), // 1KB .. 16MB
		},
	)

	// Метрики анализа
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "track_analyses_total",
			Help: "Total number of track analyses",
		},
		[]string{"status"}, // success, degenerate, error
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "track_analysis_duration_seconds",
			Help:    "Duration of a single track analysis in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	TrackPoints = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "track_points_per_track",
			Help:    "Number of points in analyzed tracks",
			Buckets: []float64{2, 10, 100, 500, 1000, 5000, 10000, 50000},
		},
	)

	OutliersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "track_outliers_total",
			Help: "Total number of speed samples corrected by the filter chain",
		},
		[]string{"kind"}, // mad_outlier, acceleration_violation, snapped_to_zero
	)

	StopsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "track_stops_detected_total",
			Help: "Total number of detected stop events",
		},
		[]string{"kind"}, // pause, traffic_stop
	)

	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "track_batch_size",
			Help:    "Number of tracks per batch analysis",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)

	// Общие метрики приложения
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "track_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "build_time"},
	)
)

// SetAppInfo устанавливает информацию о версии приложения
func SetAppInfo(version, commit, buildTime string) {
	AppInfo.WithLabelValues(version, commit, buildTime).Set(1)
}
