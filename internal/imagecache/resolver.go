package imagecache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"photo-portfolio/internal/filesystem"
	"photo-portfolio/internal/logging"
	"photo-portfolio/internal/metrics"
)

// Resolver maps (source image, variant) to a cache artifact path, creating
// the artifact via the transcoder on first access and reusing the file on
// disk thereafter. Existence of the artifact is sufficient proof of validity;
// artifacts are never re-verified, repaired, or deleted.
//
// Resolve never fails: every error on the cache path degrades to returning
// the source path itself, so callers must accept either an artifact or the
// raw source interchangeably.
type Resolver struct {
	profiles map[Variant]Profile
	trans    *Transcoder
	memo     *gocache.Cache
	group    singleflight.Group
}

// NewResolver creates a resolver over the given variant profiles.
func NewResolver(profiles map[Variant]Profile, trans *Transcoder) *Resolver {
	return &Resolver{
		profiles: profiles,
		trans:    trans,
		memo:     gocache.New(time.Hour, 10*time.Minute),
	}
}

// Profile returns the profile for a variant.
func (r *Resolver) Profile(v Variant) (Profile, bool) {
	p, ok := r.profiles[v]
	return p, ok
}

// Profiles returns every configured variant profile.
func (r *Resolver) Profiles() map[Variant]Profile {
	return r.profiles
}

// Resolve returns the path to serve for src under the given variant. The
// result is memoized in-process for the profile's TTL; expiry only forces a
// re-check of disk, not regeneration, so missing the memo costs extra stats
// and never wrong results.
func (r *Resolver) Resolve(src string, v Variant) string {
	start := time.Now()
	defer func() {
		metrics.CacheResolveDuration.WithLabelValues(string(v)).Observe(time.Since(start).Seconds())
	}()

	profile, ok := r.profiles[v]
	if !ok {
		logging.Warn("Unknown cache variant %q for %s, serving original", v, src)
		metrics.CacheResolutionsTotal.WithLabelValues(string(v), "fallback").Inc()
		return src
	}

	memoKey := string(v) + "|" + src
	if cached, found := r.memo.Get(memoKey); found {
		metrics.CacheResolutionsTotal.WithLabelValues(string(v), "memo").Inc()
		return cached.(string)
	}

	// Collapse concurrent misses for the same source and variant into a
	// single transcode. Racing writers in other processes stay harmless:
	// artifacts are published by rename and any complete file is valid.
	result, _, _ := r.group.Do(memoKey, func() (interface{}, error) {
		return r.resolveSlow(src, v, profile, memoKey), nil
	})
	return result.(string)
}

func (r *Resolver) resolveSlow(src string, v Variant, profile Profile, memoKey string) string {
	artifact := profile.ArtifactPath(ContentKey(src))

	if _, err := filesystem.StatWithRetry(artifact, filesystem.DefaultRetryConfig()); err == nil {
		metrics.CacheResolutionsTotal.WithLabelValues(string(v), "disk").Inc()
		r.memo.Set(memoKey, artifact, profile.TTL)
		return artifact
	}

	if err := r.trans.Transcode(src, artifact, profile.Box, profile.Quality); err != nil {
		logging.Warn("Generating %s for %s failed, serving original: %v", v, src, err)
		metrics.CacheResolutionsTotal.WithLabelValues(string(v), "fallback").Inc()
		// Memoize the fallback too, so a persistently corrupt source is
		// retried once per TTL window instead of once per request
		r.memo.Set(memoKey, src, profile.TTL)
		return src
	}

	logging.Debug("Generated %s for %s: %s", v, src, artifact)
	metrics.CacheResolutionsTotal.WithLabelValues(string(v), "generated").Inc()
	r.memo.Set(memoKey, artifact, profile.TTL)
	return artifact
}

// FlushMemo drops every memoized mapping, forcing the next resolves to
// re-check the disk.
func (r *Resolver) FlushMemo() {
	r.memo.Flush()
}

// MemoCount returns the number of memoized mappings, counting entries that
// have expired but not yet been swept.
func (r *Resolver) MemoCount() int {
	return r.memo.ItemCount()
}
