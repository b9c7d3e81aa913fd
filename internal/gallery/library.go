package gallery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"photo-portfolio/internal/filesystem"
	"photo-portfolio/internal/logging"
	"photo-portfolio/internal/metrics"
)

// imageExtensions are the file extensions served as gallery images,
// matched case-insensitively against the lowercased extension.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// IsImage reports whether name has a recognized image extension.
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Gallery describes one gallery directory for the index view.
type Gallery struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// Library lists galleries and their images from a root directory, one flat
// subdirectory per gallery. Listings are memoized for listTTL; the watcher
// flushes entries early when the directory changes underneath us.
type Library struct {
	root    string
	listTTL time.Duration
	memo    *gocache.Cache
}

// NewLibrary creates a library over root. Listings are memoized for listTTL.
func NewLibrary(root string, listTTL time.Duration) *Library {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &Library{
		root:    abs,
		listTTL: listTTL,
		memo:    gocache.New(listTTL, 10*time.Minute),
	}
}

// Root returns the absolute galleries root.
func (l *Library) Root() string {
	return l.root
}

// Title derives a display title from a gallery directory name: underscores
// become spaces and each word is title-cased ("bodas_2024" -> "Bodas 2024").
func Title(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Galleries returns every subdirectory of the root holding at least one
// image, sorted by name. A missing root is an empty index, not an error.
func (l *Library) Galleries() []Gallery {
	const memoKey = "galleries"

	start := time.Now()
	defer func() {
		metrics.GalleryListingDuration.WithLabelValues("galleries").Observe(time.Since(start).Seconds())
	}()

	if cached, found := l.memo.Get(memoKey); found {
		metrics.GalleryListingsTotal.WithLabelValues("galleries", "cached").Inc()
		return cached.([]Gallery)
	}

	entries, err := filesystem.ReadDirWithRetry(l.root, filesystem.DefaultRetryConfig())
	if err != nil {
		logging.Warn("Galleries root %s unreadable: %v", l.root, err)
		metrics.GalleryListingsTotal.WithLabelValues("galleries", "error").Inc()
		return nil
	}

	var galleries []Gallery
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		count := len(l.Images(entry.Name()))
		if count == 0 {
			continue
		}
		galleries = append(galleries, Gallery{
			Name:  entry.Name(),
			Title: Title(entry.Name()),
			Count: count,
		})
	}
	sort.Slice(galleries, func(i, j int) bool { return galleries[i].Name < galleries[j].Name })

	metrics.GalleryListingsTotal.WithLabelValues("galleries", "scanned").Inc()
	l.memo.Set(memoKey, galleries, l.listTTL)
	return galleries
}

// Images returns the absolute paths of the images in one gallery, sorted.
// Candidates are collected through a set so a lister that matches extensions
// case-insensitively can never double-count an entry. A missing, empty, or
// invalid gallery is an empty slice; the UI renders that as "no images".
func (l *Library) Images(name string) []string {
	memoKey := "images|" + name

	start := time.Now()
	defer func() {
		metrics.GalleryListingDuration.WithLabelValues("images").Observe(time.Since(start).Seconds())
	}()

	if cached, found := l.memo.Get(memoKey); found {
		metrics.GalleryListingsTotal.WithLabelValues("images", "cached").Inc()
		return cached.([]string)
	}

	dir, err := l.galleryPath(name)
	if err != nil {
		logging.Warn("Rejecting gallery name %q: %v", name, err)
		metrics.GalleryListingsTotal.WithLabelValues("images", "error").Inc()
		return nil
	}

	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	if err != nil {
		logging.Debug("Gallery %q unreadable: %v", name, err)
		metrics.GalleryListingsTotal.WithLabelValues("images", "error").Inc()
		return nil
	}

	set := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if IsImage(entry.Name()) {
			set[filepath.Join(dir, entry.Name())] = struct{}{}
		}
	}

	images := make([]string, 0, len(set))
	for path := range set {
		images = append(images, path)
	}
	sort.Strings(images)

	metrics.GalleryListingsTotal.WithLabelValues("images", "scanned").Inc()
	l.memo.Set(memoKey, images, l.listTTL)
	return images
}

// galleryPath resolves a gallery name to its absolute directory, rejecting
// names that escape the root.
func (l *Library) galleryPath(name string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(l.root, name))
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(abs, l.root+string(filepath.Separator)) {
		return "", os.ErrPermission
	}
	return abs, nil
}

// ValidImagePath reports whether path resolves to a file inside the
// galleries root. Image-serving handlers call this before touching the
// filesystem.
func (l *Library) ValidImagePath(path string) bool {
	abs, err := filepath.Abs(filepath.Join(l.root, path))
	if err != nil {
		return false
	}
	return strings.HasPrefix(abs, l.root+string(filepath.Separator))
}

// Flush drops every memoized listing, forcing the next calls to re-scan.
func (l *Library) Flush() {
	l.memo.Flush()
}
