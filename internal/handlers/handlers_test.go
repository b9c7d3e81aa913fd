package handlers

import (
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"photo-portfolio/internal/gallery"
	"photo-portfolio/internal/imagecache"
	"photo-portfolio/internal/site"
)

// testServer wires a full handler stack over temp directories.
type testServer struct {
	h            *Handlers
	router       *mux.Router
	galleriesDir string
	cacheDir     string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	galleriesDir := t.TempDir()
	cacheDir := t.TempDir()

	profiles := imagecache.DefaultProfiles(cacheDir)
	for _, profile := range profiles {
		if err := os.MkdirAll(profile.Dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	resolver := imagecache.NewResolver(profiles, imagecache.NewTranscoder(false))
	batch := imagecache.NewBatch(resolver, 2, 5*time.Second, nil)
	t.Cleanup(batch.Close)

	library := gallery.NewLibrary(galleriesDir, time.Minute)
	h := New(library, resolver, batch, site.Default(), Config{PerPage: 4, CacheEnabled: true})

	router := mux.NewRouter()
	router.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	router.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	router.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	router.HandleFunc("/version", h.GetVersion).Methods("GET")
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/site", h.GetSite).Methods("GET")
	api.HandleFunc("/galleries", h.ListGalleries).Methods("GET")
	api.HandleFunc("/galleries/{gallery}", h.GetGalleryPage).Methods("GET")
	api.HandleFunc("/thumbnail/{path:.*}", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/preview/{path:.*}", h.GetPreview).Methods("GET")
	api.HandleFunc("/image/{path:.*}", h.GetImage).Methods("GET")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")

	return &testServer{h: h, router: router, galleriesDir: galleriesDir, cacheDir: cacheDir}
}

func (ts *testServer) addImage(t *testing.T, galleryName, name string, width, height int) string {
	t.Helper()

	dir := filepath.Join(ts.galleriesDir, galleryName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.NRGBA{R: 90, G: 90, B: 200, A: 255}}, image.Point{}, draw.Src)

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	return path
}

func (ts *testServer) get(t *testing.T, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestGetSite(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get(t, "/api/site")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var content site.Content
	decodeJSON(t, w, &content)
	if content.Hero.Title != "El Fotógrafo" {
		t.Errorf("hero title = %q", content.Hero.Title)
	}
	if len(content.Contact) == 0 {
		t.Error("no contact entries")
	}
}

func TestListGalleries(t *testing.T) {
	ts := newTestServer(t)
	ts.addImage(t, "bodas_2024", "a.jpg", 200, 150)
	ts.addImage(t, "retratos", "b.jpg", 200, 150)

	w := ts.get(t, "/api/galleries")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var galleries []gallery.Gallery
	decodeJSON(t, w, &galleries)
	if len(galleries) != 2 {
		t.Fatalf("got %d galleries, want 2", len(galleries))
	}
	if galleries[0].Title != "Bodas 2024" {
		t.Errorf("title = %q, want Bodas 2024", galleries[0].Title)
	}
}

func TestListGalleriesEmpty(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get(t, "/api/galleries")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even with no galleries", w.Code)
	}
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("empty index should encode as [], got %q", body)
	}
}

func TestGetGalleryPage(t *testing.T) {
	ts := newTestServer(t)
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg"} {
		ts.addImage(t, "bodas", name, 640, 480)
	}

	w := ts.get(t, "/api/galleries/bodas?page=2")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var page GalleryPageResponse
	decodeJSON(t, w, &page)

	if page.Page != 2 || page.TotalPages != 2 || page.TotalItems != 6 {
		t.Errorf("pagination = page %d/%d of %d items, want 2/2 of 6", page.Page, page.TotalPages, page.TotalItems)
	}
	// 4 per page: page 2 holds the remainder
	if len(page.Images) != 2 {
		t.Fatalf("got %d images on page 2, want 2", len(page.Images))
	}
	first := page.Images[0]
	if first.Name != "e.jpg" {
		t.Errorf("first image on page 2 = %q, want e.jpg (sorted)", first.Name)
	}
	if first.Thumbnail != "/api/thumbnail/bodas/e.jpg" {
		t.Errorf("thumbnail URL = %q", first.Thumbnail)
	}
	if first.Preview != "/api/preview/bodas/e.jpg" {
		t.Errorf("preview URL = %q", first.Preview)
	}
	if !first.Cached {
		t.Error("expected the batch to have generated a thumbnail artifact")
	}
}

func TestGetGalleryPageClampsPage(t *testing.T) {
	ts := newTestServer(t)
	ts.addImage(t, "bodas", "a.jpg", 200, 150)

	var page GalleryPageResponse
	w := ts.get(t, "/api/galleries/bodas?page=99")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	decodeJSON(t, w, &page)
	if page.Page != 1 {
		t.Errorf("page = %d, want clamp to 1", page.Page)
	}
}

func TestGetGalleryPageCacheDisabledSkipsBatch(t *testing.T) {
	ts := newTestServer(t)
	ts.h.cacheEnabled = false
	ts.addImage(t, "bodas", "a.jpg", 640, 480)
	ts.addImage(t, "bodas", "b.jpg", 640, 480)

	w := ts.get(t, "/api/galleries/bodas")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var page GalleryPageResponse
	decodeJSON(t, w, &page)
	if len(page.Images) != 2 {
		t.Fatalf("got %d images, want 2", len(page.Images))
	}
	for _, img := range page.Images {
		if img.Cached {
			t.Errorf("image %s marked cached with the cache disabled", img.Name)
		}
	}

	// No transcodes may run: the thumbnail cache directory stays empty
	entries, err := os.ReadDir(filepath.Join(ts.cacheDir, "thumbnails"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache-disabled page render wrote %d artifacts", len(entries))
	}
}

func TestGetGalleryPageMissing(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get(t, "/api/galleries/no_such")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for missing gallery", w.Code)
	}
}

func TestGetThumbnailServesArtifact(t *testing.T) {
	ts := newTestServer(t)
	ts.addImage(t, "bodas", "a.jpg", 1600, 1200)

	w := ts.get(t, "/api/thumbnail/bodas/a.jpg")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", cc)
	}

	cfg, _, err := image.DecodeConfig(w.Body)
	if err != nil {
		t.Fatalf("response is not a decodable image: %v", err)
	}
	if cfg.Width > 400 || cfg.Height > 300 {
		t.Errorf("thumbnail %dx%d exceeds 400x300", cfg.Width, cfg.Height)
	}
}

func TestGetPreviewServesArtifact(t *testing.T) {
	ts := newTestServer(t)
	ts.addImage(t, "bodas", "a.jpg", 1600, 1200)

	w := ts.get(t, "/api/preview/bodas/a.jpg")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	cfg, _, err := image.DecodeConfig(w.Body)
	if err != nil {
		t.Fatalf("response is not a decodable image: %v", err)
	}
	if cfg.Width > 800 || cfg.Height > 600 {
		t.Errorf("preview %dx%d exceeds 800x600", cfg.Width, cfg.Height)
	}
}

func TestGetImageServesOriginal(t *testing.T) {
	ts := newTestServer(t)
	ts.addImage(t, "bodas", "a.jpg", 1600, 1200)

	w := ts.get(t, "/api/image/bodas/a.jpg")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	cfg, _, err := image.DecodeConfig(w.Body)
	if err != nil {
		t.Fatalf("response is not a decodable image: %v", err)
	}
	if cfg.Width != 1600 || cfg.Height != 1200 {
		t.Errorf("original = %dx%d, want 1600x1200 untouched", cfg.Width, cfg.Height)
	}
}

func TestImageHandlersRejectTraversal(t *testing.T) {
	ts := newTestServer(t)

	// A real file outside the galleries root must stay unreachable
	outside := filepath.Join(filepath.Dir(ts.galleriesDir), "secret.jpg")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// The router cleans dotted paths before matching, so drive the handler
	// directly with the hostile path variable
	for _, path := range []string{
		"../secret.jpg",
		"bodas/../../secret.jpg",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/thumbnail/x.jpg", nil)
		req = mux.SetURLVars(req, map[string]string{"path": path})
		w := httptest.NewRecorder()
		ts.h.GetThumbnail(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("path %q: status = %d, want 400", path, w.Code)
		}
	}
}

func TestImageHandlersRejectNonImages(t *testing.T) {
	ts := newTestServer(t)
	dir := filepath.Join(ts.galleriesDir, "bodas")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := ts.get(t, "/api/thumbnail/bodas/notes.txt")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-image", w.Code)
	}
}

func TestGetThumbnailMissingFile(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get(t, "/api/thumbnail/bodas/missing.jpg")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetThumbnailCacheDisabledServesOriginal(t *testing.T) {
	ts := newTestServer(t)
	ts.h.cacheEnabled = false
	ts.addImage(t, "bodas", "a.jpg", 1600, 1200)

	w := ts.get(t, "/api/thumbnail/bodas/a.jpg")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	cfg, _, err := image.DecodeConfig(w.Body)
	if err != nil {
		t.Fatalf("response is not a decodable image: %v", err)
	}
	if cfg.Width != 1600 {
		t.Errorf("disabled cache should serve the original, got width %d", cfg.Width)
	}
}

func TestGetStats(t *testing.T) {
	ts := newTestServer(t)
	ts.addImage(t, "bodas", "a.jpg", 800, 600)
	ts.addImage(t, "retratos", "b.jpg", 800, 600)

	// Generate one thumbnail so artifact counts are non-zero
	if w := ts.get(t, "/api/thumbnail/bodas/a.jpg"); w.Code != http.StatusOK {
		t.Fatalf("thumbnail priming failed: %d", w.Code)
	}

	w := ts.get(t, "/api/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var stats StatsResponse
	decodeJSON(t, w, &stats)
	if stats.Galleries != 2 || stats.Images != 2 {
		t.Errorf("stats = %d galleries / %d images, want 2/2", stats.Galleries, stats.Images)
	}
	thumbStats := stats.Artifacts["thumbnail"]
	if thumbStats.Count != 1 {
		t.Errorf("thumbnail artifacts = %d, want 1", thumbStats.Count)
	}
	if thumbStats.SizeHuman == "" {
		t.Error("missing humanized size")
	}
	if stats.Workers != 2 {
		t.Errorf("workers = %d, want 2", stats.Workers)
	}
}

func TestStatsProviderFeedsCollector(t *testing.T) {
	ts := newTestServer(t)
	ts.addImage(t, "bodas", "a.jpg", 800, 600)

	stats := ts.h.StatsProvider().GetStats()
	if stats.Galleries != 1 || stats.Images != 1 {
		t.Errorf("provider stats = %+v", stats)
	}
	if _, ok := stats.Artifacts["thumbnail"]; !ok {
		t.Error("provider stats missing thumbnail variant")
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get(t, "/healthz")
	if w.Code != http.StatusOK {
		t.Errorf("healthz = %d, want 200", w.Code)
	}
	var health HealthResponse
	decodeJSON(t, w, &health)
	if health.Status != statusHealthy {
		t.Errorf("status = %q, want %q", health.Status, statusHealthy)
	}
	if !health.CacheEnabled {
		t.Error("cacheEnabled should be true")
	}

	if w := ts.get(t, "/livez"); w.Code != http.StatusOK {
		t.Errorf("livez = %d, want 200", w.Code)
	}
	if w := ts.get(t, "/readyz"); w.Code != http.StatusOK {
		t.Errorf("readyz = %d, want 200", w.Code)
	}
}

func TestHealthDegradedWithoutCache(t *testing.T) {
	ts := newTestServer(t)
	ts.h.cacheEnabled = false

	w := ts.get(t, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("healthz = %d, want 200 even when degraded", w.Code)
	}
	var health HealthResponse
	decodeJSON(t, w, &health)
	if health.Status != statusDegraded {
		t.Errorf("status = %q, want %q", health.Status, statusDegraded)
	}
}

func TestReadinessFailsWithoutGalleriesRoot(t *testing.T) {
	ts := newTestServer(t)
	if err := os.RemoveAll(ts.galleriesDir); err != nil {
		t.Fatal(err)
	}

	w := ts.get(t, "/readyz")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz = %d, want 503 with unreadable root", w.Code)
	}
}

func TestGetVersion(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get(t, "/version")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var info map[string]interface{}
	decodeJSON(t, w, &info)
	if info["version"] == "" {
		t.Error("missing version field")
	}
	if info["goVersion"] == "" {
		t.Error("missing goVersion field")
	}
}
