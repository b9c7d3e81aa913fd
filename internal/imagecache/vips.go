package imagecache

import (
	"fmt"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"

	"photo-portfolio/internal/logging"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// InitVips initializes the libvips library.
// This should be called once at startup, before the first transcode.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Configure vips logging before Startup so LOG_LEVEL is respected
	vips.LoggingSettings(vipsLogHandler, vipsLogThreshold())

	// Conservative memory settings: images are processed one at a time so
	// the batch pool, not vips, controls parallelism
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// vipsLogThreshold maps the application log level to the minimum vips level
// worth forwarding.
func vipsLogThreshold() vips.LogLevel {
	switch logging.GetLevel() {
	case logging.LevelDebug:
		return vips.LogLevelInfo
	case logging.LevelInfo:
		return vips.LogLevelWarning
	case logging.LevelWarn:
		return vips.LogLevelError
	default:
		return vips.LogLevelCritical
	}
}

// vipsLogHandler forwards vips messages through the application logger at the
// closest matching level.
func vipsLogHandler(domain string, level vips.LogLevel, msg string) {
	switch level {
	case vips.LogLevelError, vips.LogLevelCritical:
		logging.Error("[%s] %s", domain, msg)
	case vips.LogLevelWarning:
		logging.Warn("[%s] %s", domain, msg)
	default:
		logging.Debug("[%s] %s", domain, msg)
	}
}

// ShutdownVips cleans up libvips resources
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// renderJpegWithVips decodes src with decode-time shrinking, fits it within
// box without upscaling, and returns the encoded JPEG bytes. Decode-time
// shrinking keeps peak memory far below the pure Go path, which must load
// the full-resolution image before resizing.
func renderJpegWithVips(src string, box Box, quality int) ([]byte, error) {
	if !IsVipsAvailable() {
		return nil, fmt.Errorf("libvips not available")
	}

	ref, err := vips.LoadImageFromFile(src, vips.NewImportParams())
	if err != nil {
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	logging.Debug("Vips loaded %s: %dx%d, fitting to %dx%d",
		src, ref.Width(), ref.Height(), box.Width, box.Height)

	// SizeDown matches the pure Go path: small sources are re-encoded at their
	// original dimensions, never inflated
	if err := ref.ThumbnailWithSize(box.Width, box.Height, vips.InterestingNone, vips.SizeDown); err != nil {
		return nil, fmt.Errorf("vips resize failed: %w", err)
	}

	// JPEG has no alpha; flatten onto white like the pure Go path does
	if ref.HasAlpha() {
		if err := ref.Flatten(&vips.Color{R: 255, G: 255, B: 255}); err != nil {
			return nil, fmt.Errorf("vips flatten failed: %w", err)
		}
	}

	params := vips.NewJpegExportParams()
	params.Quality = quality
	params.OptimizeCoding = true
	params.StripMetadata = true

	data, _, err := ref.ExportJpeg(params)
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}
	return data, nil
}
