package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"photo-portfolio/internal/imagecache"
	"photo-portfolio/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	GalleriesDir string
	CacheDir     string
	StaticDir    string
	Port         string
	MetricsPort  string

	ThumbnailBox     imagecache.Box
	PreviewBox       imagecache.Box
	ThumbnailQuality int
	PreviewQuality   int
	ThumbnailTTL     time.Duration
	PreviewTTL       time.Duration
	ListingTTL       time.Duration

	ImagesPerPage  int
	CacheWorkers   int
	ResolveTimeout time.Duration

	WatchGalleries bool
	VipsEnabled    bool
	MetricsEnabled bool

	RateLimit float64
	RateBurst int

	MemoryLimitMB int

	LogStaticFiles  bool
	LogHealthChecks bool

	// CacheEnabled is derived: false when the cache directories cannot be
	// created or written, in which case every request serves originals
	CacheEnabled bool
}

// Profiles builds the variant profiles from the configured boxes, qualities,
// and TTLs, rooted under the cache directory.
func (c *Config) Profiles() map[imagecache.Variant]imagecache.Profile {
	profiles := imagecache.DefaultProfiles(c.CacheDir)

	thumb := profiles[imagecache.Thumbnail]
	thumb.Box = c.ThumbnailBox
	thumb.Quality = c.ThumbnailQuality
	thumb.TTL = c.ThumbnailTTL
	profiles[imagecache.Thumbnail] = thumb

	preview := profiles[imagecache.Preview]
	preview.Box = c.PreviewBox
	preview.Quality = c.PreviewQuality
	preview.TTL = c.PreviewTTL
	profiles[imagecache.Preview] = preview

	return profiles
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	config := &Config{
		GalleriesDir:     getEnv("GALLERIES_DIR", "imagenes/Galerias"),
		CacheDir:         getEnv("CACHE_DIR", "cache"),
		StaticDir:        getEnv("STATIC_DIR", "./static"),
		Port:             getEnv("PORT", "8080"),
		MetricsPort:      getEnv("METRICS_PORT", "9090"),
		ThumbnailBox:     getEnvBox("THUMBNAIL_SIZE", imagecache.Box{Width: 400, Height: 300}),
		PreviewBox:       getEnvBox("PREVIEW_SIZE", imagecache.Box{Width: 800, Height: 600}),
		ThumbnailQuality: getEnvInt("THUMBNAIL_QUALITY", 85),
		PreviewQuality:   getEnvInt("PREVIEW_QUALITY", 90),
		ThumbnailTTL:     getEnvDuration("THUMBNAIL_TTL", time.Hour),
		PreviewTTL:       getEnvDuration("PREVIEW_TTL", 2*time.Hour),
		ListingTTL:       getEnvDuration("LISTING_TTL", 30*time.Minute),
		ImagesPerPage:    getEnvInt("IMAGES_PER_PAGE", 8),
		CacheWorkers:     getEnvInt("CACHE_WORKERS", 6),
		ResolveTimeout:   getEnvDuration("RESOLVE_TIMEOUT", 10*time.Second),
		WatchGalleries:   getEnvBool("WATCH_GALLERIES", true),
		VipsEnabled:      getEnvBool("VIPS_ENABLED", true),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", true),
		RateLimit:        getEnvFloat("RATE_LIMIT", 0),
		RateBurst:        getEnvInt("RATE_BURST", 20),
		MemoryLimitMB:    getEnvInt("MEMORY_LIMIT_MB", 0),
		LogStaticFiles:   getEnvBool("LOG_STATIC_FILES", false),
		LogHealthChecks:  getEnvBool("LOG_HEALTH_CHECKS", false),
	}

	if config.ThumbnailQuality < 1 || config.ThumbnailQuality > 100 {
		logging.Warn("  Invalid THUMBNAIL_QUALITY, using default: 85")
		config.ThumbnailQuality = 85
	}
	if config.PreviewQuality < 1 || config.PreviewQuality > 100 {
		logging.Warn("  Invalid PREVIEW_QUALITY, using default: 90")
		config.PreviewQuality = 90
	}
	if config.ImagesPerPage < 1 {
		logging.Warn("  Invalid IMAGES_PER_PAGE, using default: 8")
		config.ImagesPerPage = 8
	}
	if config.CacheWorkers < 1 {
		logging.Warn("  Invalid CACHE_WORKERS, using default: 6")
		config.CacheWorkers = 6
	}

	logging.Info("  GALLERIES_DIR:       %s", config.GalleriesDir)
	logging.Info("  CACHE_DIR:           %s", config.CacheDir)
	logging.Info("  STATIC_DIR:          %s", config.StaticDir)
	logging.Info("  PORT:                %s", config.Port)
	logging.Info("  METRICS_PORT:        %s", config.MetricsPort)
	logging.Info("  METRICS_ENABLED:     %v", config.MetricsEnabled)
	logging.Info("  THUMBNAIL_SIZE:      %dx%d (q%d, memo %v)",
		config.ThumbnailBox.Width, config.ThumbnailBox.Height, config.ThumbnailQuality, config.ThumbnailTTL)
	logging.Info("  PREVIEW_SIZE:        %dx%d (q%d, memo %v)",
		config.PreviewBox.Width, config.PreviewBox.Height, config.PreviewQuality, config.PreviewTTL)
	logging.Info("  IMAGES_PER_PAGE:     %d", config.ImagesPerPage)
	logging.Info("  CACHE_WORKERS:       %d", config.CacheWorkers)
	logging.Info("  RESOLVE_TIMEOUT:     %v", config.ResolveTimeout)
	logging.Info("  LISTING_TTL:         %v", config.ListingTTL)
	logging.Info("  WATCH_GALLERIES:     %v", config.WatchGalleries)
	logging.Info("  VIPS_ENABLED:        %v", config.VipsEnabled)
	if config.RateLimit > 0 {
		logging.Info("  RATE_LIMIT:          %.1f req/s (burst %d)", config.RateLimit, config.RateBurst)
	} else {
		logging.Info("  RATE_LIMIT:          off")
	}
	logging.Info("  LOG_STATIC_FILES:    %v", config.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", config.LogHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	// Resolve paths
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	var err error
	config.GalleriesDir, err = filepath.Abs(config.GalleriesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve galleries directory path: %w", err)
	}
	logging.Info("  Galleries directory (absolute): %s", config.GalleriesDir)

	config.CacheDir, err = filepath.Abs(config.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	logging.Info("  Cache directory (absolute): %s", config.CacheDir)

	// A missing galleries directory is a warning: the index just renders
	// empty until images arrive
	if err := ensureDirectory(config.GalleriesDir, "galleries"); err != nil {
		logging.Warn("  Galleries directory issue: %v", err)
	}

	// Cache directories are optional: failure flips the server into
	// originals-only mode instead of refusing to start
	config.CacheEnabled = true
	for variant, profile := range config.Profiles() {
		if !setupOptionalDir(profile.Dir, string(variant)+" cache") {
			config.CacheEnabled = false
		}
	}

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Galleries:   ENABLED (required)")
	logging.Info("    Image cache: %s", enabledString(config.CacheEnabled))
	logging.Info("    Metrics:     %s", enabledString(config.MetricsEnabled))
	if !config.CacheEnabled {
		logging.Warn("  Cache directories unavailable, serving full-size originals only")
	}

	return config, nil
}

func setupOptionalDir(path, name string) bool {
	logging.Debug("  Setting up %s directory: %s", name, path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		logging.Warn("    Failed to create %s directory: %v", name, err)
		return false
	}

	testFile := filepath.Join(path, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		logging.Warn("    %s directory is not writable: %v", name, err)
		return false
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("    failed to remove test file %s: %v", testFile, err)
		// Still return true since write succeeded
	}

	logging.Debug("    [OK] %s directory ready", name)
	return true
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// LogCacheInit logs the image cache initialization section
func LogCacheInit(workers int, timeout time.Duration, vips bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("IMAGE CACHE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Worker pool:     %d workers", workers)
	logging.Info("  Item timeout:    %v", timeout)
	if vips {
		logging.Info("  Transcoder:      libvips with pure Go fallback")
	} else {
		logging.Info("  Transcoder:      pure Go (disintegration/imaging)")
	}
}

// LogWatcherInit logs the gallery watcher initialization
func LogWatcherInit(enabled bool) {
	if enabled {
		logging.Info("  [OK] Gallery watcher started")
	} else {
		logging.Info("  Gallery watcher disabled, listings refresh on TTL only")
	}
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., static file server)
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		// Group routes by prefix for cleaner output
		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		for _, group := range groupKeys {
			groupRoutes := groups[group]
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groupRoutes {
				methodPadded := fmt.Sprintf("%-6s", route.Method)
				logging.Debug("    %s %s", methodPadded, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logStaticFiles {
		logging.Info("    Static file logging: ON")
	} else {
		logging.Info("    Static file logging: OFF (set LOG_STATIC_FILES=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return ""
	}

	first := parts[0]

	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Local access:")
	logging.Info("    Application:   http://localhost:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://localhost:%s/metrics", config.MetricsPort)
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
    ______ __   ______      __                       ____
   / ____// /  / ____/___  / /_ ____  ____ _ _____ _/ __/___
  / __/  / /  / /_   / _ \/ __// __ \/ __ '// ___// /_ / __ \
 / /___ / /  / __/  / (_) / /_ / /_/ / /_/ // /   \__ \ (_) /
/_____//_/  /_/     \___/ \__/ \____/\__, //_/   /___/\___/
                                    /____/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")

	if name == "galleries" && logging.IsDebugEnabled() {
		entries, err := os.ReadDir(path)
		if err == nil {
			dirCount := 0
			for _, e := range entries {
				if e.IsDir() {
					dirCount++
				}
			}
			logging.Debug("    Contents: %d gallery directories (top level)", dirCount)
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logging.Warn("Invalid numeric value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("Invalid duration value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvBox parses a WIDTHxHEIGHT value such as "400x300".
func getEnvBox(key string, defaultValue imagecache.Box) imagecache.Box {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	box, err := ParseBox(value)
	if err != nil {
		logging.Warn("Invalid size value for %s: %q, using default: %dx%d",
			key, value, defaultValue.Width, defaultValue.Height)
		return defaultValue
	}
	return box
}

// ParseBox parses a WIDTHxHEIGHT string into a bounding box.
func ParseBox(s string) (imagecache.Box, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return imagecache.Box{}, fmt.Errorf("expected WIDTHxHEIGHT, got %q", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return imagecache.Box{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return imagecache.Box{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if width < 1 || height < 1 {
		return imagecache.Box{}, fmt.Errorf("dimensions must be positive in %q", s)
	}
	return imagecache.Box{Width: width, Height: height}, nil
}
