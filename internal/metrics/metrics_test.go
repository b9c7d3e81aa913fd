package metrics

import (
	"testing"
)

func TestHTTPMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
		{"HTTPRequestsThrottled", HTTPRequestsThrottled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestCacheMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"CacheResolutionsTotal", CacheResolutionsTotal},
		{"CacheResolveDuration", CacheResolveDuration},
		{"TranscodesTotal", TranscodesTotal},
		{"TranscodeDuration", TranscodeDuration},
		{"CacheArtifactCount", CacheArtifactCount},
		{"CacheArtifactBytes", CacheArtifactBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestBatchMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"BatchesTotal", BatchesTotal},
		{"BatchItemsTotal", BatchItemsTotal},
		{"BatchDuration", BatchDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestGalleryMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"GalleryListingsTotal", GalleryListingsTotal},
		{"GalleryListingDuration", GalleryListingDuration},
		{"GalleriesTotal", GalleriesTotal},
		{"GalleryImagesTotal", GalleryImagesTotal},
		{"WatcherEventsTotal", WatcherEventsTotal},
		{"WatcherErrors", WatcherErrors},
		{"WatchedDirectories", WatchedDirectories},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestFilesystemMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"FilesystemOpDuration", FilesystemOpDuration},
		{"FilesystemRetryAttempts", FilesystemRetryAttempts},
		{"FilesystemRetrySuccess", FilesystemRetrySuccess},
		{"FilesystemRetryFailures", FilesystemRetryFailures},
		{"FilesystemStaleErrors", FilesystemStaleErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestMemoryMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"MemoryUsageBytes", MemoryUsageBytes},
		{"MemoryLimitBytes", MemoryLimitBytes},
		{"MemoryPausesTotal", MemoryPausesTotal},
		{"MemoryPaused", MemoryPaused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestSetAppInfo(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("SetAppInfo panicked: %v", r)
		}
	}()
	SetAppInfo("1.0.0-test", "abc1234", "go1.25")
}

func TestInitializeMetrics(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("InitializeMetrics panicked: %v", r)
		}
	}()
	InitializeMetrics()
}

func TestMetricLabelCardinality(t *testing.T) {
	// Wrong label counts panic inside prometheus; exercise each vec once
	tests := []struct {
		name string
		fn   func()
	}{
		{"HTTPRequestsTotal", func() { HTTPRequestsTotal.WithLabelValues("GET", "/api/galleries", "200").Add(0) }},
		{"CacheResolutionsTotal", func() { CacheResolutionsTotal.WithLabelValues("thumbnail", "disk").Add(0) }},
		{"TranscodesTotal", func() { TranscodesTotal.WithLabelValues("imaging", "success").Add(0) }},
		{"BatchItemsTotal", func() { BatchItemsTotal.WithLabelValues("thumbnail", "timeout").Add(0) }},
		{"GalleryListingsTotal", func() { GalleryListingsTotal.WithLabelValues("images", "scanned").Add(0) }},
		{"FilesystemOpDuration", func() { FilesystemOpDuration.WithLabelValues("stat", "galleries").Observe(0) }},
		{"WatcherEventsTotal", func() { WatcherEventsTotal.WithLabelValues("create").Add(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("recording %s panicked: %v", tt.name, r)
				}
			}()
			tt.fn()
		})
	}
}
