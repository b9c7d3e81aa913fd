package handlers

import "net/http"

// GetSite returns the static portfolio content.
func (h *Handlers) GetSite(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, h.content)
}
