package imagecache

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"photo-portfolio/internal/logging"
	"photo-portfolio/internal/metrics"
)

// Transcoder produces resized JPEG copies of source images. The pure Go path
// (disintegration/imaging) always works; when libvips is initialized and
// enabled, it is tried first for its decode-time shrinking, with a silent
// fallback on any vips error. This is the only CPU-bound step in the cache.
type Transcoder struct {
	useVips bool
}

// NewTranscoder creates a transcoder. useVips requests the libvips fast path;
// it has no effect unless InitVips succeeded.
func NewTranscoder(useVips bool) *Transcoder {
	if useVips && !IsVipsAvailable() {
		logging.Debug("Transcoder: vips requested but not initialized, using pure Go path")
	}
	return &Transcoder{useVips: useVips}
}

// Transcode resizes src to fit within box preserving aspect ratio, never
// upscaling, re-encodes it as JPEG at the given quality, and writes the
// result to dst. The write goes through a temp file and rename, so a failed
// transcode never leaves a partial file at dst. Returns an error on corrupt
// input, unsupported format, or write failure.
func (t *Transcoder) Transcode(src, dst string, box Box, quality int) error {
	if t.useVips && IsVipsAvailable() {
		start := time.Now()
		err := t.transcodeWithVips(src, dst, box, quality)
		observeTranscode("vips", start, err)
		if err == nil {
			return nil
		}
		logging.Debug("Vips transcode failed for %s, falling back to pure Go: %v", src, err)
	}

	start := time.Now()
	err := t.transcodeWithImaging(src, dst, box, quality)
	observeTranscode("imaging", start, err)
	return err
}

func observeTranscode(backend string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.TranscodesTotal.WithLabelValues(backend, status).Inc()
	metrics.TranscodeDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
}

func (t *Transcoder) transcodeWithImaging(src, dst string, box Box, quality int) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode %s: %w", src, err)
	}

	fitted := imaging.Fit(img, box.Width, box.Height, imaging.Lanczos)
	return writeJPEGAtomic(dst, flattenAlpha(fitted), quality)
}

func (t *Transcoder) transcodeWithVips(src, dst string, box Box, quality int) error {
	data, err := renderJpegWithVips(src, box, quality)
	if err != nil {
		return err
	}
	return writeBytesAtomic(dst, data)
}

// flattenAlpha composites partially transparent images onto a white
// background. JPEG carries no alpha channel, and dropping it would render
// transparent regions black.
func flattenAlpha(img *image.NRGBA) *image.NRGBA {
	if !hasTransparency(img) {
		return img
	}
	bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func hasTransparency(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xFF {
			return true
		}
	}
	return false
}

// writeJPEGAtomic encodes img as JPEG into a temp file next to dst and
// renames it into place. The rename is what makes concurrent writers safe:
// last write wins and readers only ever see complete files.
func writeJPEGAtomic(dst string, img image.Image, quality int) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if err := imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("flush temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish artifact %s: %w", dst, err)
	}
	return nil
}

func writeBytesAtomic(dst string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("flush temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish artifact %s: %w", dst, err)
	}
	return nil
}
