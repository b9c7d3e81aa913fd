package handlers

import (
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"

	"photo-portfolio/internal/gallery"
	"photo-portfolio/internal/imagecache"
	"photo-portfolio/internal/logging"
)

// GalleryImage is one image entry in a gallery page response.
type GalleryImage struct {
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
	Preview   string `json:"preview"`
	Original  string `json:"original"`
	// Cached is false when the thumbnail degraded to the original file
	Cached bool `json:"cached"`
}

// GalleryPageResponse is the envelope for one page of a gallery.
type GalleryPageResponse struct {
	Name       string         `json:"name"`
	Title      string         `json:"title"`
	Images     []GalleryImage `json:"images"`
	Page       int            `json:"page"`
	PerPage    int            `json:"perPage"`
	TotalItems int            `json:"totalItems"`
	TotalPages int            `json:"totalPages"`
}

// ListGalleries returns the gallery index.
func (h *Handlers) ListGalleries(w http.ResponseWriter, _ *http.Request) {
	galleries := h.library.Galleries()
	if galleries == nil {
		galleries = []gallery.Gallery{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, galleries)
}

// GetGalleryPage returns one page of a gallery with the page's thumbnails
// pre-resolved through the batch scheduler, so the grid's cache artifacts
// exist by the time the browser requests them.
func (h *Handlers) GetGalleryPage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["gallery"]

	images := h.library.Images(name)
	if len(images) == 0 {
		writeJSONError(w, "no images found in gallery", http.StatusNotFound)
		return
	}

	pageNum := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		pageNum = p
	}
	page := gallery.Paginate(images, pageNum, h.perPage)

	// Warm this page's thumbnails in one batch. Individual failures come
	// back as the source path; the entry is still served, just uncached.
	// With the cache disabled there is nothing to warm: every entry serves
	// its original.
	var results []imagecache.Result
	if h.cacheEnabled {
		results = h.batch.ResolveAll(page.Items, imagecache.Thumbnail)
	} else {
		results = make([]imagecache.Result, len(page.Items))
		for i, src := range page.Items {
			results[i] = imagecache.Result{Source: src, Artifact: src}
		}
	}

	entries := make([]GalleryImage, 0, len(results))
	for _, res := range results {
		rel, err := filepath.Rel(h.library.Root(), res.Source)
		if err != nil {
			logging.Warn("Image outside galleries root, skipping: %s", res.Source)
			continue
		}
		slash := filepath.ToSlash(rel)
		entries = append(entries, GalleryImage{
			Name:      filepath.Base(res.Source),
			Thumbnail: imageURL("/api/thumbnail/", slash),
			Preview:   imageURL("/api/preview/", slash),
			Original:  imageURL("/api/image/", slash),
			Cached:    res.Artifact != res.Source,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, GalleryPageResponse{
		Name:       name,
		Title:      gallery.Title(name),
		Images:     entries,
		Page:       page.Number,
		PerPage:    page.PerPage,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	})
}

// imageURL joins an API prefix with a slash-separated relative image path,
// percent-escaping each segment but keeping the separators.
func imageURL(prefix, rel string) string {
	u := url.URL{Path: prefix + rel}
	return u.EscapedPath()
}
