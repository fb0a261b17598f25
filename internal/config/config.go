// Package config contains everything related to configuration
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	BackendURL     string
	URLsFile       string
	ExportDir      string
	LogFile        string
	EnvFile        string
	RequestTimeout time.Duration
	Notify         bool
}

// Load reads configuration from .env files and environment variables.
// Variables already present in the environment win over the .env file.
func Load() (*Config, error) {
	envFile := ""
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", path, err)
			}
			envFile = path
			break
		}
	}

	backend, err := normalizeBackendURL(getEnvString(EnvBackendURL, DefaultBackendURL))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BackendURL:     backend,
		URLsFile:       getEnvString(EnvURLsFile, ""),
		ExportDir:      getEnvString(EnvExportDir, getDefaultExportDir()),
		LogFile:        getEnvString(EnvLogFile, getDefaultLogPath()),
		EnvFile:        envFile,
		RequestTimeout: getEnvDuration(EnvRequestTimeout, 0),
		Notify:         getEnvBool(EnvNotify, false),
	}

	if err := ensureDir(cfg.ExportDir); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	return cfg, nil
}

// normalizeBackendURL validates the backend base URL and strips any
// trailing slash so paths can be appended directly.
func normalizeBackendURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid %s %q: %w", EnvBackendURL, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid %s %q: scheme must be http or https", EnvBackendURL, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid %s %q: missing host", EnvBackendURL, raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	paths = append(paths, filepath.Join(xdg.ConfigHome, AppDirName, ".env"))

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}

// getDefaultLogPath returns the log file used while the TUI owns the terminal.
func getDefaultLogPath() string {
	return filepath.Join(xdg.StateHome, AppDirName, "crux.log")
}

// getDefaultExportDir prefers the user's download directory.
func getDefaultExportDir() string {
	if xdg.UserDirs.Download != "" {
		return xdg.UserDirs.Download
	}
	return "."
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
