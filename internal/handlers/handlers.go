package handlers

import (
	"time"

	"photo-portfolio/internal/gallery"
	"photo-portfolio/internal/imagecache"
	"photo-portfolio/internal/site"
)

// Handlers holds the shared state behind every HTTP handler.
type Handlers struct {
	library      *gallery.Library
	resolver     *imagecache.Resolver
	batch        *imagecache.Batch
	content      site.Content
	perPage      int
	cacheEnabled bool
	startTime    time.Time
}

// Config carries the handler-relevant slice of the application config.
type Config struct {
	PerPage      int
	CacheEnabled bool
}

// New wires the handlers to the library, resolver, and batch scheduler
// created at startup.
func New(library *gallery.Library, resolver *imagecache.Resolver, batch *imagecache.Batch, content site.Content, config Config) *Handlers {
	return &Handlers{
		library:      library,
		resolver:     resolver,
		batch:        batch,
		content:      content,
		perPage:      config.PerPage,
		cacheEnabled: config.CacheEnabled,
		startTime:    time.Now(),
	}
}
