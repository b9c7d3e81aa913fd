package imagecache

import (
	"crypto/md5"
	"fmt"

	"photo-portfolio/internal/filesystem"
	"photo-portfolio/internal/logging"
)

// ContentKey computes a stable identifier for a source image: the hex MD5 of
// its bytes, so identical content maps to the same cache artifact regardless
// of filename. If the file cannot be read, the key degrades to the MD5 of the
// path string: two unreadable files with different paths still get distinct
// keys, but a file's degraded key never matches the content key it gets once
// readable, so an artifact created under the degraded key is orphaned.
// Never fails, no side effects.
func ContentKey(path string) string {
	data, err := filesystem.ReadFileWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		logging.Debug("Content hash falling back to path key for %s: %v", path, err)
		// MD5 here names cache files, it is not a security boundary
		return fmt.Sprintf("%x", md5.Sum([]byte(path))) //nolint:gosec
	}
	return fmt.Sprintf("%x", md5.Sum(data)) //nolint:gosec
}
