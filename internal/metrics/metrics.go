package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_portfolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_portfolio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_portfolio_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	HTTPRequestsThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_portfolio_http_requests_throttled_total",
			Help: "Total number of HTTP requests rejected by the rate limiter",
		},
	)
)

// Cache resolution metrics
var (
	CacheResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_portfolio_cache_resolutions_total",
			Help: "Total number of cache resolutions by variant and outcome",
		},
		[]string{"variant", "outcome"}, // outcome: "memo", "disk", "generated", "fallback"
	)

	CacheResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_portfolio_cache_resolve_duration_seconds",
			Help:    "Cache resolution duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"variant"},
	)

	TranscodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_portfolio_transcodes_total",
			Help: "Total number of image transcodes by backend and status",
		},
		[]string{"backend", "status"}, // backend: "imaging", "vips"
	)

	TranscodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_portfolio_transcode_duration_seconds",
			Help:    "Image transcode duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"backend"},
	)

	CacheArtifactCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_portfolio_cache_artifact_count",
			Help: "Number of cache artifacts on disk by variant",
		},
		[]string{"variant"},
	)

	CacheArtifactBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_portfolio_cache_artifact_bytes",
			Help: "Total size of cache artifacts on disk in bytes by variant",
		},
		[]string{"variant"},
	)
)

// Batch scheduler metrics
var (
	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_portfolio_batches_total",
			Help: "Total number of batch resolutions",
		},
		[]string{"variant"},
	)

	BatchItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_portfolio_batch_items_total",
			Help: "Total number of batch items by variant and outcome",
		},
		[]string{"variant", "outcome"}, // outcome: "ok", "timeout"
	)

	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_portfolio_batch_duration_seconds",
			Help:    "Duration of whole batch resolutions in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"variant"},
	)
)

// Gallery metrics
var (
	GalleryListingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_portfolio_gallery_listings_total",
			Help: "Total number of gallery listing operations",
		},
		[]string{"operation", "outcome"}, // operation: "galleries", "images"; outcome: "cached", "scanned", "error"
	)

	GalleryListingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_portfolio_gallery_listing_duration_seconds",
			Help:    "Gallery listing duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	GalleriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_portfolio_galleries_total",
			Help: "Number of galleries with at least one image",
		},
	)

	GalleryImagesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_portfolio_gallery_images_total",
			Help: "Total number of images across all galleries",
		},
	)

	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_portfolio_watcher_events_total",
			Help: "Total number of filesystem watcher events",
		},
		[]string{"event_type"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_portfolio_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)

	WatchedDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_portfolio_watched_directories",
			Help: "Number of directories currently being watched",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_portfolio_filesystem_op_duration_seconds",
			Help:    "Filesystem operation duration in seconds, including retries",
			Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_portfolio_filesystem_retry_attempts_total",
			Help: "Total number of filesystem retry attempts after stale NFS handles",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_portfolio_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retry",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_portfolio_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that exhausted all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_portfolio_filesystem_stale_errors_total",
			Help: "Total number of stale NFS file handle errors observed",
		},
		[]string{"operation", "volume"},
	)
)

// Memory pressure metrics
var (
	MemoryUsageBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_portfolio_memory_usage_bytes",
			Help: "Current heap usage as seen by the memory monitor",
		},
	)

	MemoryLimitBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_portfolio_memory_limit_bytes",
			Help: "Configured soft memory limit (0 = unlimited)",
		},
	)

	MemoryPausesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_portfolio_memory_pauses_total",
			Help: "Total number of times transcoding was paused for memory pressure",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_portfolio_memory_paused",
			Help: "Whether transcoding is currently paused for memory pressure (1 = paused)",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_portfolio_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
