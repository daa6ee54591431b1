// Package store persists simulation runs to SQLite.
package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDir returns the path to the user's barw data directory.
// On Unix: ~/.barw
// On Windows: %USERPROFILE%\.barw
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".barw"), nil
}

// EnsureDir creates the data directory if it doesn't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}
