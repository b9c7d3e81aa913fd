package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"photo-portfolio/internal/gallery"
	"photo-portfolio/internal/imagecache"
	"photo-portfolio/internal/logging"
)

// GetThumbnail serves the thumbnail variant of a gallery image, generating
// the cache artifact on first access. Degraded resolution serves the
// original file instead; the client cannot tell the difference beyond size.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	h.serveVariant(w, r, imagecache.Thumbnail)
}

// GetPreview serves the preview variant (the full-view modal source).
func (h *Handlers) GetPreview(w http.ResponseWriter, r *http.Request) {
	h.serveVariant(w, r, imagecache.Preview)
}

// GetImage serves the original image bytes.
func (h *Handlers) GetImage(w http.ResponseWriter, r *http.Request) {
	src, ok := h.sourcePath(w, r)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, src)
}

func (h *Handlers) serveVariant(w http.ResponseWriter, r *http.Request, v imagecache.Variant) {
	src, ok := h.sourcePath(w, r)
	if !ok {
		return
	}

	serve := src
	if h.cacheEnabled {
		serve = h.resolver.Resolve(src, v)
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, serve)
}

// sourcePath validates the {path} route variable and resolves it inside the
// galleries root. Traversal attempts get 400, missing files 404, directories
// and non-image files 400.
func (h *Handlers) sourcePath(w http.ResponseWriter, r *http.Request) (string, bool) {
	rel := mux.Vars(r)["path"]
	if rel == "" {
		writeJSONError(w, "path is required", http.StatusBadRequest)
		return "", false
	}

	if !h.library.ValidImagePath(rel) {
		logging.Warn("Rejecting image path outside galleries root: %s", rel)
		writeJSONError(w, "invalid path", http.StatusBadRequest)
		return "", false
	}

	if !gallery.IsImage(rel) {
		writeJSONError(w, "not an image", http.StatusBadRequest)
		return "", false
	}

	full := filepath.Join(h.library.Root(), filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSONError(w, "image not found", http.StatusNotFound)
		} else {
			logging.Error("Stat %s failed: %v", full, err)
			writeJSONError(w, "failed to access image", http.StatusInternalServerError)
		}
		return "", false
	}
	if info.IsDir() {
		writeJSONError(w, "invalid path", http.StatusBadRequest)
		return "", false
	}

	return full, true
}
