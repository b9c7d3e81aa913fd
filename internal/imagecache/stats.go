package imagecache

import (
	"os"
	"path/filepath"
	"strings"

	"photo-portfolio/internal/logging"
)

// DiskStat summarizes the on-disk artifacts for one variant.
type DiskStat struct {
	Count int
	Bytes int64
}

// DiskStats walks each profile's artifact directory and counts the artifacts
// and their total size. Unreadable directories count as empty; the stats
// endpoint and the metrics collector both tolerate a cache that is not there
// yet.
func DiskStats(profiles map[Variant]Profile) map[Variant]DiskStat {
	stats := make(map[Variant]DiskStat, len(profiles))
	for variant, profile := range profiles {
		stats[variant] = scanArtifactDir(profile.Dir)
	}
	return stats
}

func scanArtifactDir(dir string) DiskStat {
	var stat DiskStat

	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Debug("Artifact directory %s unreadable: %v", dir, err)
		return stat
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if filepath.Ext(entry.Name()) != ".jpg" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		stat.Count++
		stat.Bytes += info.Size()
	}
	return stat
}
