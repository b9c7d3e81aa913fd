// Package metrics provides Prometheus instrumentation for the portfolio server.
//
// All metrics are prefixed with "photo_portfolio_" to avoid naming collisions
// with other applications scraped by the same Prometheus.
//
// # Metric Categories
//
// ## HTTP Metrics
//
// Track request performance and error rates:
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//   - HTTPRequestsThrottled: Counter of requests rejected by the rate limiter
//
// ## Cache Resolution Metrics
//
// Monitor the image cache end to end:
//   - CacheResolutionsTotal: Counter by variant and outcome
//     (memo hit, disk hit, generated, fallback to original)
//   - CacheResolveDuration: Histogram of resolution time by variant
//   - TranscodesTotal: Counter by backend (imaging/vips) and status
//   - TranscodeDuration: Histogram of transcode time by backend
//   - CacheArtifactCount / CacheArtifactBytes: Gauges of on-disk cache state
//
// ## Batch Scheduler Metrics
//
//   - BatchesTotal: Counter of batch resolutions by variant
//   - BatchItemsTotal: Counter of items by variant and outcome (ok/timeout)
//   - BatchDuration: Histogram of whole-batch duration by variant
//
// ## Gallery Metrics
//
//   - GalleryListingsTotal: Counter by operation and outcome (cached/scanned/error)
//   - GalleryListingDuration: Histogram of listing time by operation
//   - GalleriesTotal / GalleryImagesTotal: Gauges of library size
//   - WatcherEventsTotal / WatcherErrors / WatchedDirectories: fsnotify activity
//
// ## Filesystem Metrics
//
// Volume-labelled operation timings and NFS retry activity recorded by the
// filesystem package (see internal/filesystem).
//
// ## Memory Metrics
//
//   - MemoryUsageBytes / MemoryLimitBytes: monitor state
//   - MemoryPausesTotal / MemoryPaused: transcoding backpressure events
//
// # Usage
//
// Metrics register with the default Prometheus registry via promauto. Expose
// them by mounting promhttp.Handler() on the metrics listener:
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// Record from other packages through the exported variables:
//
//	import "photo-portfolio/internal/metrics"
//
//	metrics.CacheResolutionsTotal.WithLabelValues("thumbnail", "disk").Inc()
//	metrics.CacheResolveDuration.WithLabelValues("thumbnail").Observe(0.012)
//
// # Collector
//
// The [Collector] periodically gathers statistics from a [StatsProvider] and
// updates the library and artifact gauges:
//
//	collector := metrics.NewCollector(statsProvider, time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// # Prometheus Queries
//
// Cache hit rate (any kind of hit vs. everything):
//
//	sum(rate(photo_portfolio_cache_resolutions_total{outcome=~"memo|disk"}[5m])) /
//	sum(rate(photo_portfolio_cache_resolutions_total[5m]))
//
// P95 transcode time by backend:
//
//	histogram_quantile(0.95, sum(rate(photo_portfolio_transcode_duration_seconds_bucket[5m])) by (le, backend))
//
// Batch timeout ratio:
//
//	sum(rate(photo_portfolio_batch_items_total{outcome="timeout"}[5m])) /
//	sum(rate(photo_portfolio_batch_items_total[5m]))
package metrics
