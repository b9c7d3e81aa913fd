package main

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
}

func countArtifacts(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	count := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jpg") {
			count++
		}
	}
	return count
}

func TestRunWarmsEveryVariant(t *testing.T) {
	root := t.TempDir()
	galleries := filepath.Join(root, "galleries")
	cache := filepath.Join(root, "cache")

	writeJPEG(t, filepath.Join(galleries, "bodas", "a.jpg"), 640, 480)
	writeJPEG(t, filepath.Join(galleries, "bodas", "b.jpg"), 640, 480)
	writeJPEG(t, filepath.Join(galleries, "retratos", "c.jpg"), 480, 640)

	if code := run(galleries, cache, 2, 10*time.Second, false, true); code != 0 {
		t.Fatalf("run returned %d, want 0", code)
	}

	if got := countArtifacts(t, filepath.Join(cache, "thumbnails")); got != 3 {
		t.Errorf("thumbnail artifacts = %d, want 3", got)
	}
	if got := countArtifacts(t, filepath.Join(cache, "previews")); got != 3 {
		t.Errorf("preview artifacts = %d, want 3", got)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	galleries := filepath.Join(root, "galleries")
	cache := filepath.Join(root, "cache")

	writeJPEG(t, filepath.Join(galleries, "bodas", "a.jpg"), 640, 480)

	if code := run(galleries, cache, 1, 10*time.Second, false, true); code != 0 {
		t.Fatalf("first run returned %d", code)
	}
	if code := run(galleries, cache, 1, 10*time.Second, false, true); code != 0 {
		t.Fatalf("second run returned %d", code)
	}

	// A warm cache stays at one artifact per image per variant
	if got := countArtifacts(t, filepath.Join(cache, "thumbnails")); got != 1 {
		t.Errorf("thumbnail artifacts after rewarm = %d, want 1", got)
	}
}

func TestRunCorruptImageDegradesNotFails(t *testing.T) {
	root := t.TempDir()
	galleries := filepath.Join(root, "galleries")
	cache := filepath.Join(root, "cache")

	writeJPEG(t, filepath.Join(galleries, "bodas", "a.jpg"), 640, 480)
	if err := os.MkdirAll(filepath.Join(galleries, "bodas"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(galleries, "bodas", "broken.jpg"), []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	if code := run(galleries, cache, 1, 10*time.Second, false, true); code != 0 {
		t.Errorf("run returned %d, want 0 despite corrupt input", code)
	}
	if got := countArtifacts(t, filepath.Join(cache, "thumbnails")); got != 1 {
		t.Errorf("thumbnail artifacts = %d, want 1 (corrupt input skipped)", got)
	}
}

func TestRunNoGalleries(t *testing.T) {
	root := t.TempDir()

	code := run(filepath.Join(root, "empty"), filepath.Join(root, "cache"), 1, time.Second, false, true)
	if code != 1 {
		t.Errorf("run returned %d, want 1 for missing galleries", code)
	}
}

func TestRunUncreatableCacheDir(t *testing.T) {
	root := t.TempDir()
	galleries := filepath.Join(root, "galleries")
	writeJPEG(t, filepath.Join(galleries, "bodas", "a.jpg"), 64, 48)

	blocker := filepath.Join(root, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	code := run(galleries, filepath.Join(blocker, "cache"), 1, time.Second, false, true)
	if code != 1 {
		t.Errorf("run returned %d, want 1 for uncreatable cache dir", code)
	}
}
