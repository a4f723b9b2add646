// Package config resolves the store's on-disk location.
package config

import (
	"os"
	"path/filepath"
)

const dbPathEnvVar = "CINDEX_DB_PATH"

// DefaultDBPath returns CINDEX_DB_PATH if set, else ~/.cindex/cindex.db.
// The parent directory is created if absent.
func DefaultDBPath() (string, error) {
	if p := os.Getenv(dbPathEnvVar); p != "" {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return "", err
		}
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".cindex")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "cindex.db"), nil
}
