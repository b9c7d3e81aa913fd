package metrics

import (
	"time"

	"photo-portfolio/internal/logging"
)

// StatsProvider reports library and cache statistics for export as gauges
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current library and cache statistics
type Stats struct {
	Galleries int
	Images    int
	// Artifacts is keyed by variant name ("thumbnail", "preview")
	Artifacts map[string]ArtifactStats
}

// ArtifactStats describes the on-disk cache for one variant
type ArtifactStats struct {
	Count int
	Bytes int64
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	GalleriesTotal.Set(float64(stats.Galleries))
	GalleryImagesTotal.Set(float64(stats.Images))
	for variant, a := range stats.Artifacts {
		CacheArtifactCount.WithLabelValues(variant).Set(float64(a.Count))
		CacheArtifactBytes.WithLabelValues(variant).Set(float64(a.Bytes))
	}

	logging.Debug("Metrics collected: galleries=%d, images=%d, artifact variants=%d",
		stats.Galleries, stats.Images, len(stats.Artifacts))
}
