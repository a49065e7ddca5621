// Package fsutil writes rendered artifacts to disk.
package fsutil

import (
	"os"
	"path/filepath"
)

// WriteFile writes text to path atomically, creating parent directories as
// needed. Permission bits set in restrict are removed from the file before it
// becomes visible at path. Errors are returned as produced by the os package.
func WriteFile(path, text string, restrict os.FileMode) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return err
	}

	if restrict != 0 {
		if err := RestrictPermissions(tmp, restrict); err != nil {
			_ = os.Remove(tmp)
			return err
		}
	}

	return os.Rename(tmp, path)
}

// RestrictPermissions clears the given permission bits on path.
func RestrictPermissions(path string, restrict os.FileMode) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.Chmod(path, info.Mode().Perm()&^restrict)
}
