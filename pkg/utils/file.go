package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveDestinationPath resolves a storage directory. An existing directory is
// returned as is; a missing one is accepted when its parent exists and will be
// created on first write.
func ResolveDestinationPath(destPath string) (string, error) {
	info, err := os.Stat(destPath)
	switch {
	case err == nil:
		if info.IsDir() {
			return destPath, nil
		}
		return "", fmt.Errorf("destination path '%s' exists but is not a directory", destPath)
	case os.IsNotExist(err):
		dir := filepath.Dir(destPath)
		if info, dirErr := os.Stat(dir); dirErr == nil && info.IsDir() {
			return destPath, nil
		}
		return "", fmt.Errorf("parent directory does not exist: %s", dir)
	default:
		return "", fmt.Errorf("cannot access destination path: %w", err)
	}
}
