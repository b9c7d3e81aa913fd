package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"

	"photo-portfolio/internal/imagecache"
	"photo-portfolio/internal/metrics"
)

// VariantStats describes the cache artifacts for one variant in /api/stats.
type VariantStats struct {
	Count     int    `json:"count"`
	Bytes     int64  `json:"bytes"`
	SizeHuman string `json:"size"`
}

// StatsResponse is the /api/stats envelope.
type StatsResponse struct {
	Galleries   int                     `json:"galleries"`
	Images      int                     `json:"images"`
	Artifacts   map[string]VariantStats `json:"artifacts"`
	MemoEntries int                     `json:"memoEntries"`
	Workers     int                     `json:"workers"`
}

// GetStats reports gallery and cache statistics.
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	galleries := h.library.Galleries()
	images := 0
	for _, g := range galleries {
		images += g.Count
	}

	artifacts := make(map[string]VariantStats)
	for variant, stat := range imagecache.DiskStats(h.resolver.Profiles()) {
		artifacts[string(variant)] = VariantStats{
			Count:     stat.Count,
			Bytes:     stat.Bytes,
			SizeHuman: humanize.Bytes(uint64(stat.Bytes)),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, StatsResponse{
		Galleries:   len(galleries),
		Images:      images,
		Artifacts:   artifacts,
		MemoEntries: h.resolver.MemoCount(),
		Workers:     h.batch.Workers(),
	})
}

// GetStats also feeds the periodic metrics collector.
var _ metrics.StatsProvider = (*statsAdapter)(nil)

// statsAdapter exposes the handler state as the collector's StatsProvider.
type statsAdapter struct {
	h *Handlers
}

// StatsProvider returns an adapter for the metrics collector.
func (h *Handlers) StatsProvider() metrics.StatsProvider {
	return &statsAdapter{h: h}
}

func (s *statsAdapter) GetStats() metrics.Stats {
	galleries := s.h.library.Galleries()
	images := 0
	for _, g := range galleries {
		images += g.Count
	}

	artifacts := make(map[string]metrics.ArtifactStats)
	for variant, stat := range imagecache.DiskStats(s.h.resolver.Profiles()) {
		artifacts[string(variant)] = metrics.ArtifactStats{
			Count: stat.Count,
			Bytes: stat.Bytes,
		}
	}

	return metrics.Stats{
		Galleries: len(galleries),
		Images:    images,
		Artifacts: artifacts,
	}
}
