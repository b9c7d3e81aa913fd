// Command warmcache pre-generates every thumbnail and preview artifact for
// the galleries tree, so the first visitor after a deploy never waits on
// transcoding. It shares the server's cache layer: artifacts it writes are
// exactly the ones the server would produce lazily.
//
// Per-item failures follow the server's degradation policy and do not fail
// the run; only an unusable galleries root exits non-zero.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"photo-portfolio/internal/gallery"
	"photo-portfolio/internal/imagecache"
	"photo-portfolio/internal/logging"
	"photo-portfolio/internal/workers"
)

func main() {
	galleriesDir := flag.String("galleries", "imagenes/Galerias", "galleries root directory")
	cacheDir := flag.String("cache", "cache", "cache root directory")
	workerCount := flag.Int("workers", 0, "worker pool size (0 = derive from CPU count)")
	timeout := flag.Duration("timeout", 10*time.Second, "per-image timeout")
	vipsEnabled := flag.Bool("vips", true, "use libvips when available")
	quiet := flag.Bool("quiet", false, "only print the final summary")
	flag.Parse()

	if *quiet {
		logging.SetLevel(logging.LevelError)
	}

	count := *workerCount
	if count <= 0 {
		count = workers.ForMixed(12)
	}

	os.Exit(run(*galleriesDir, *cacheDir, count, *timeout, *vipsEnabled, *quiet))
}

func run(galleriesDir, cacheDir string, workerCount int, timeout time.Duration, vipsEnabled, quiet bool) int {
	library := gallery.NewLibrary(galleriesDir, time.Minute)
	galleries := library.Galleries()
	if len(galleries) == 0 {
		fmt.Fprintf(os.Stderr, "no galleries found under %s\n", galleriesDir)
		return 1
	}

	profiles := imagecache.DefaultProfiles(cacheDir)
	for _, profile := range profiles {
		if err := os.MkdirAll(profile.Dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "cannot create cache directory %s: %v\n", profile.Dir, err)
			return 1
		}
	}

	if vipsEnabled {
		if err := imagecache.InitVips(); err != nil {
			logging.Warn("libvips unavailable, using pure Go transcoder: %v", err)
		}
		defer imagecache.ShutdownVips()
	}

	trans := imagecache.NewTranscoder(vipsEnabled)
	resolver := imagecache.NewResolver(profiles, trans)
	batch := imagecache.NewBatch(resolver, workerCount, timeout, nil)
	defer batch.Close()

	start := time.Now()
	totalImages, totalFallbacks := 0, 0

	for _, g := range galleries {
		images := library.Images(g.Name)
		fallbacks := 0
		for _, variant := range []imagecache.Variant{imagecache.Thumbnail, imagecache.Preview} {
			for _, res := range batch.ResolveAll(images, variant) {
				if res.Artifact == res.Source {
					fallbacks++
				}
			}
		}

		totalImages += len(images)
		totalFallbacks += fallbacks
		if !quiet {
			if fallbacks > 0 {
				fmt.Printf("  %-30s %4d images, %d served as originals\n", g.Title, len(images), fallbacks)
			} else {
				fmt.Printf("  %-30s %4d images\n", g.Title, len(images))
			}
		}
	}

	stats := imagecache.DiskStats(profiles)
	fmt.Printf("\nWarmed %d galleries, %d images in %v (%d workers)\n",
		len(galleries), totalImages, time.Since(start).Round(time.Millisecond), batch.Workers())
	for _, variant := range []imagecache.Variant{imagecache.Thumbnail, imagecache.Preview} {
		stat := stats[variant]
		fmt.Printf("  %-10s %5d artifacts, %s\n", variant, stat.Count, humanize.Bytes(uint64(stat.Bytes)))
	}
	if totalFallbacks > 0 {
		fmt.Printf("  %d items degraded to originals (corrupt, unsupported, or timed out)\n", totalFallbacks)
	}

	return 0
}
