/*
Package filesystem provides resilient filesystem operations with automatic
retry logic for NFS stale file handle errors.

Galleries frequently live on NFS-mounted storage (a photographer's NAS), where
files touched during a server-side export can briefly return ESTALE (errno
116). This package wraps the operations the gallery and cache layers depend on
(os.Stat, os.Open, os.ReadDir, os.ReadFile) with bounded exponential-backoff
retries for exactly that error class. All other errors fail immediately.

Basic usage:

	import "photo-portfolio/internal/filesystem"

	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	if err != nil {
	    return nil, err
	}

Defaults: 3 retries, 50ms initial backoff doubling to a 500ms cap. Custom
configs adjust all three knobs:

	config := filesystem.RetryConfig{
	    MaxRetries:     5,
	    InitialBackoff: 100 * time.Millisecond,
	    MaxBackoff:     time.Second,
	}

Every operation is recorded in Prometheus under the path's volume label
("galleries", "cache", or "other"), resolved by longest-prefix match against
the mounts registered at startup via SetDefaultVolumeResolver. Duration,
retry attempts, recoveries, and exhausted retries each get their own series
so NFS instability is visible per mount.
*/
package filesystem
