package filepathparser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParsePath expands a leading "~/" and returns the absolute path.
func ParsePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		dirname, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory for %s: %w", path, err)
		}
		path = filepath.Join(dirname, path[2:])
	}

	return filepath.Abs(path)
}

// EnsureParentDir parses the path and creates its parent directory if needed.
func EnsureParentDir(path string) (string, error) {
	absPath, err := ParsePath(path)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", absPath, err)
	}
	return absPath, nil
}
