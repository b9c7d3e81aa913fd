// Package imagecache generates and serves cached image renditions.
//
// Every source image resolves to at most two disk artifacts, a thumbnail
// and a preview, addressed by the MD5 of the source bytes so renamed or
// re-uploaded files never collide and edited files never serve stale
// pixels. Resolution is memoized in-process with per-variant TTLs and
// collapsed across concurrent callers, so a page of eight thumbnails costs
// at most eight transcodes no matter how many visitors race for it.
//
// The package degrades instead of failing: any error along the path, an
// unreadable source, a corrupt image, a full disk, a transcode timeout,
// yields the original source path as the artifact. Callers serve that path
// directly and the visitor sees a full-size image rather than an error.
//
// Transcoding prefers libvips via govips when available and falls back to
// the pure Go disintegration/imaging pipeline. Batch resolution fans out
// over a fixed tunny pool shared by the HTTP handlers and the warmcache
// command.
package imagecache
