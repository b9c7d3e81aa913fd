// Package gallery lists the photo galleries under the galleries root and
// paginates their images.
//
// A gallery is one flat subdirectory of the root containing image files
// (jpg, jpeg, png, webp; extension matching is case-insensitive). Listings
// are scanned from the filesystem, memoized in-process for a configurable
// interval, and invalidated early by the fsnotify watcher when files are
// added or removed, so new uploads appear without waiting out the TTL.
//
// Gallery names arriving from HTTP are validated against path traversal
// before any filesystem access. A missing or empty gallery is an empty
// listing, never an error.
package gallery
