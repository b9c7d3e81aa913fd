// Package startup loads the application configuration from environment
// variables, prepares the galleries and cache directories, and owns the
// startup and shutdown log sections.
//
// Configuration is environment-only, defaults chosen so a checkout with an
// imagenes/Galerias directory runs with no setup. The cache directories are
// optional: when they cannot be created or written the server starts anyway
// in a degraded mode that serves originals only.
package startup
