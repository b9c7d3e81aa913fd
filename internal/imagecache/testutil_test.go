package imagecache

import (
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeTestJPEG writes a width x height JPEG into dir and returns its path.
func writeTestJPEG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	return writeTestImage(t, dir, name, width, height, false)
}

// writeTestPNG writes a PNG, optionally with a transparent region.
func writeTestPNG(t *testing.T, dir, name string, width, height int, transparent bool) string {
	t.Helper()
	return writeTestImage(t, dir, name, width, height, transparent)
}

func writeTestImage(t *testing.T, dir, name string, width, height int, transparent bool) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.NRGBA{R: 200, G: 120, B: 40, A: 255}}, image.Point{}, draw.Src)
	if transparent {
		// Punch a transparent quadrant so flattening has something to do
		hole := image.Rect(0, 0, width/2, height/2)
		draw.Draw(img, hole, &image.Uniform{C: color.NRGBA{}}, image.Point{}, draw.Src)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create test image: %v", err)
	}
	defer f.Close()

	switch filepath.Ext(name) {
	case ".png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return path
}

// decodeBounds returns the pixel dimensions of an image file.
func decodeBounds(t *testing.T, path string) (int, int) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

// testProfiles returns small variant profiles rooted in a temp dir.
func testProfiles(t *testing.T) map[Variant]Profile {
	t.Helper()

	cacheDir := t.TempDir()
	profiles := DefaultProfiles(cacheDir)
	for variant, profile := range profiles {
		if err := os.MkdirAll(profile.Dir, 0o755); err != nil {
			t.Fatalf("create %s dir: %v", variant, err)
		}
	}
	return profiles
}
