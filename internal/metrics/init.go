package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	variants := []string{"thumbnail", "preview"}

	// --- Cache resolution (per variant × outcome) ---
	for _, v := range variants {
		for _, outcome := range []string{"memo", "disk", "generated", "fallback"} {
			CacheResolutionsTotal.WithLabelValues(v, outcome)
		}
		CacheResolveDuration.WithLabelValues(v)
		CacheArtifactCount.WithLabelValues(v)
		CacheArtifactBytes.WithLabelValues(v)
	}

	// --- Transcodes (per backend × status) ---
	for _, backend := range []string{"imaging", "vips"} {
		TranscodesTotal.WithLabelValues(backend, "success")
		TranscodesTotal.WithLabelValues(backend, "error")
		TranscodeDuration.WithLabelValues(backend)
	}

	// --- Batch scheduler ---
	for _, v := range variants {
		BatchesTotal.WithLabelValues(v)
		BatchDuration.WithLabelValues(v)
		for _, outcome := range []string{"ok", "timeout"} {
			BatchItemsTotal.WithLabelValues(v, outcome)
		}
	}

	// --- Gallery listings ---
	for _, op := range []string{"galleries", "images"} {
		for _, outcome := range []string{"cached", "scanned", "error"} {
			GalleryListingsTotal.WithLabelValues(op, outcome)
		}
		GalleryListingDuration.WithLabelValues(op)
	}

	// --- Watcher events ---
	for _, event := range []string{"create", "write", "remove", "rename", "chmod"} {
		WatcherEventsTotal.WithLabelValues(event)
	}

	// --- Filesystem operations (per operation × volume) ---
	volumes := []string{"galleries", "cache", "other"}
	fsOps := []string{"stat", "open", "readdir", "read"}

	for _, op := range fsOps {
		for _, vol := range volumes {
			FilesystemOpDuration.WithLabelValues(op, vol)
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
		}
	}
}
