// Package config provides configuration loading for wardlink.
//
// Configuration lives in a TOML file. Every value is validated and
// normalized on load; invalid values emit a warning and fall back to the
// default rather than failing startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// File permission constants.
const (
	// FileModeDir is the permission for directories (rwxr-xr-x).
	FileModeDir os.FileMode = 0o755
	// FileModeFile is the permission for files (rw-r--r--).
	FileModeFile os.FileMode = 0o644
)

// Cache backend names.
const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
	BackendSQLite  = "sqlite"
)

// Config holds all wardlink settings.
type Config struct {
	// Origin is the base URL of the hospital web application.
	Origin string `toml:"origin"`
	// APIPrefix is the path prefix of the REST API.
	APIPrefix string `toml:"api_prefix"`
	// StaticPrefix is the path prefix of immutable static assets.
	StaticPrefix string `toml:"static_prefix"`
	// WSOrigin is the base URL of the realtime channel backend.
	WSOrigin string `toml:"ws_origin"`

	// CacheVersion tags cache partitions; bumping it retires old generations.
	CacheVersion string `toml:"cache_version"`
	// CacheBackend selects the cache store: memory, leveldb or sqlite.
	CacheBackend string `toml:"cache_backend"`
	// CacheAllowlist lists API path patterns that may be cached.
	CacheAllowlist []string `toml:"cache_allowlist"`

	// NotificationRetrySeconds is the reconnect delay for the notification channel.
	NotificationRetrySeconds int `toml:"notification_retry_seconds"`
	// StatusRetrySeconds is the reconnect delay for the system status channel.
	StatusRetrySeconds int `toml:"status_retry_seconds"`
	// PollIntervalSeconds is the dashboard statistics polling interval.
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
	// TrayCapacity bounds the in-memory notification queue.
	TrayCapacity int `toml:"tray_capacity"`
	// SearchDebounceMillis is the quiet period before a search executes.
	SearchDebounceMillis int `toml:"search_debounce_ms"`

	// LogEnabled turns structured file logging on.
	LogEnabled bool `toml:"log_enabled"`
	// LogLevel is the minimum log level: debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Origin:       "http://localhost:8000",
		APIPrefix:    "/api/v1/",
		StaticPrefix: "/static/",
		WSOrigin:     "ws://localhost:8000",
		CacheVersion: "v1",
		CacheBackend: BackendMemory,
		CacheAllowlist: []string{
			"/api/v1/dashboard/stats/",
			"/api/v1/notifications/unread-count/",
			"/api/v1/patients/",
			"/api/v1/doctors/",
			"/api/v1/appointments/",
		},
		NotificationRetrySeconds: 3,
		StatusRetrySeconds:       10,
		PollIntervalSeconds:      30,
		TrayCapacity:             200,
		SearchDebounceMillis:     300,
		LogEnabled:               false,
		LogLevel:                 "info",
	}
}

// Dir returns the wardlink configuration directory, creating it if needed.
// Respects WARDLINK_CONFIG_DIR.
func Dir() (string, error) {
	if dir := os.Getenv("WARDLINK_CONFIG_DIR"); dir != "" {
		return dir, os.MkdirAll(dir, FileModeDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "wardlink")
	return dir, os.MkdirAll(dir, FileModeDir)
}

// Path returns the full path of the configuration file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wardlink.toml"), nil
}

// Load reads the configuration file, merges it over defaults and validates
// the result. A missing file yields the defaults.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile loads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// NotificationRetry returns the notification channel reconnect delay.
func (c Config) NotificationRetry() time.Duration {
	return time.Duration(c.NotificationRetrySeconds) * time.Second
}

// StatusRetry returns the system status channel reconnect delay.
func (c Config) StatusRetry() time.Duration {
	return time.Duration(c.StatusRetrySeconds) * time.Second
}

// PollInterval returns the dashboard polling interval.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// SearchDebounce returns the search debounce quiet period.
func (c Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMillis) * time.Millisecond
}
