// Command photo-portfolio serves a single-page photography portfolio: static
// content sections plus a paginated gallery browser backed by an on-disk
// thumbnail and preview cache.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"photo-portfolio/internal/filesystem"
	"photo-portfolio/internal/gallery"
	"photo-portfolio/internal/handlers"
	"photo-portfolio/internal/imagecache"
	"photo-portfolio/internal/logging"
	"photo-portfolio/internal/memory"
	"photo-portfolio/internal/metrics"
	"photo-portfolio/internal/middleware"
	"photo-portfolio/internal/site"
	"photo-portfolio/internal/startup"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
	metrics.InitializeMetrics()

	// Label filesystem metrics by volume so NFS trouble is attributable
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"galleries": config.GalleriesDir,
		"cache":     config.CacheDir,
	}))

	// Memory monitor feeds backpressure into the transcoding pool
	memConfig := memory.DefaultConfig()
	memConfig.MemoryLimitBytes = int64(config.MemoryLimitMB) * 1024 * 1024
	monitor := memory.NewMonitor(memConfig)
	monitor.Start()

	// Image cache: transcoder, resolver, and the shared batch pool
	startup.LogCacheInit(config.CacheWorkers, config.ResolveTimeout, config.VipsEnabled)
	if config.VipsEnabled {
		if err := imagecache.InitVips(); err != nil {
			logging.Warn("libvips unavailable, using pure Go transcoder: %v", err)
		}
	}
	trans := imagecache.NewTranscoder(config.VipsEnabled)
	resolver := imagecache.NewResolver(config.Profiles(), trans)
	batch := imagecache.NewBatch(resolver, config.CacheWorkers, config.ResolveTimeout, monitor)

	// Gallery library and watcher
	library := gallery.NewLibrary(config.GalleriesDir, config.ListingTTL)
	var watcher *gallery.Watcher
	if config.WatchGalleries {
		watcher = gallery.NewWatcher(library)
		watcher.Start()
	}
	startup.LogWatcherInit(config.WatchGalleries)

	// Handlers
	h := handlers.New(library, resolver, batch, site.Default(), handlers.Config{
		PerPage:      config.ImagesPerPage,
		CacheEnabled: config.CacheEnabled,
	})

	// Periodic export of gallery and artifact gauges
	collector := metrics.NewCollector(h.StatsProvider(), time.Minute)
	collector.Start()

	// Setup router
	router := setupRouter(h, config.StaticDir)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Middleware chain: rate limit -> logging -> metrics -> compression
	rateLimitConfig := middleware.DefaultRateLimitConfig()
	rateLimitConfig.RequestsPerSecond = config.RateLimit
	rateLimitConfig.Burst = config.RateBurst
	limited := middleware.RateLimit(rateLimitConfig)(router)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	logged := middleware.Logger(loggingConfig)(limited)

	measured := middleware.Metrics(middleware.DefaultMetricsConfig())(logged)

	handler := middleware.Compression(middleware.DefaultCompressionConfig())(measured)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Metrics on a separate listener so scrapes bypass the public chain
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:        ":" + config.MetricsPort,
			Handler:     metricsMux,
			ReadTimeout: 15 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, watcher, collector, batch, monitor)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, staticDir string) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/site", h.GetSite).Methods("GET")
	api.HandleFunc("/galleries", h.ListGalleries).Methods("GET")
	api.HandleFunc("/galleries/{gallery}", h.GetGalleryPage).Methods("GET")
	api.HandleFunc("/thumbnail/{path:.*}", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/preview/{path:.*}", h.GetPreview).Methods("GET")
	api.HandleFunc("/image/{path:.*}", h.GetImage).Methods("GET")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")

	// Static frontend
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, watcher *gallery.Watcher, collector *metrics.Collector, batch *imagecache.Batch, monitor *memory.Monitor) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if watcher != nil {
		startup.LogShutdownStep("Stopping gallery watcher")
		watcher.Stop()
		startup.LogShutdownStepComplete("Gallery watcher stopped")
	}

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Releasing worker pool")
	batch.Close()
	monitor.Stop()
	imagecache.ShutdownVips()
	startup.LogShutdownStepComplete("Worker pool released")

	startup.LogShutdownComplete()
}
