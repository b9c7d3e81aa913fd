package imagecache

import (
	"path/filepath"
	"time"
)

// Variant names a resize/quality profile applied to a source image.
type Variant string

const (
	// Thumbnail is the small variant shown in gallery grids
	Thumbnail Variant = "thumbnail"
	// Preview is the large variant shown in the full-view modal
	Preview Variant = "preview"
)

// Box is a bounding box in pixels. Resized output fits within it with the
// aspect ratio preserved.
type Box struct {
	Width  int
	Height int
}

// Profile describes how one variant is generated and cached.
type Profile struct {
	// Box is the maximum output size. Sources already within it are
	// re-encoded without resizing.
	Box Box
	// Quality is the JPEG encode quality (1-100)
	Quality int
	// Suffix appears in artifact names: <content-key>_<suffix>.jpg
	Suffix string
	// Dir holds this variant's artifacts
	Dir string
	// TTL bounds how long a resolved path is memoized in-process
	TTL time.Duration
}

// ArtifactName returns the artifact file name for a content key.
func (p Profile) ArtifactName(key string) string {
	return key + "_" + p.Suffix + ".jpg"
}

// ArtifactPath returns the full artifact path for a content key.
func (p Profile) ArtifactPath(key string) string {
	return filepath.Join(p.Dir, p.ArtifactName(key))
}

// DefaultProfiles returns the standard thumbnail and preview profiles rooted
// under cacheDir: 400x300 q85 thumbnails memoized for an hour, 800x600 q90
// previews memoized for two.
func DefaultProfiles(cacheDir string) map[Variant]Profile {
	return map[Variant]Profile{
		Thumbnail: {
			Box:     Box{Width: 400, Height: 300},
			Quality: 85,
			Suffix:  "thumb",
			Dir:     filepath.Join(cacheDir, "thumbnails"),
			TTL:     time.Hour,
		},
		Preview: {
			Box:     Box{Width: 800, Height: 600},
			Quality: 90,
			Suffix:  "preview",
			Dir:     filepath.Join(cacheDir, "previews"),
			TTL:     2 * time.Hour,
		},
	}
}
