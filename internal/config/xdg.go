// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "wakagist"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the TOML config path, honoring WAKAGIST_CONFIG.
func DefaultConfigPath() string {
	if v := os.Getenv(EnvConfigPath); v != "" {
		return v
	}
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}

const dotenvName = ".env"

// DefaultDotenvPath returns the nearest .env at or above the working directory,
// or "" when there is none.
func DefaultDotenvPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return FindDotenv(wd)
}

// FindDotenv walks from dir up to the filesystem root and returns the first
// regular .env file found, or "".
func FindDotenv(dir string) string {
	dir = filepath.Clean(dir)
	for {
		candidate := filepath.Join(dir, dotenvName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
