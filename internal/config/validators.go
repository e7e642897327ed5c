package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cristianoliveira/wardlink/internal/colors"
)

var validBackends = map[string]bool{
	BackendMemory:  true,
	BackendLevelDB: true,
	BackendSQLite:  true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// normalize validates every field in place, replacing invalid values with
// defaults and emitting a warning for each replacement.
func (c *Config) normalize() {
	def := Default()

	c.Origin = validURL("origin", c.Origin, def.Origin, "http", "https")
	c.WSOrigin = validURL("ws_origin", c.WSOrigin, def.WSOrigin, "ws", "wss")
	c.APIPrefix = validPrefix("api_prefix", c.APIPrefix, def.APIPrefix)
	c.StaticPrefix = validPrefix("static_prefix", c.StaticPrefix, def.StaticPrefix)

	if strings.TrimSpace(c.CacheVersion) == "" {
		warnDefault("cache_version", c.CacheVersion, def.CacheVersion)
		c.CacheVersion = def.CacheVersion
	}
	backend := strings.ToLower(strings.TrimSpace(c.CacheBackend))
	if !validBackends[backend] {
		warnDefault("cache_backend", c.CacheBackend, def.CacheBackend)
		backend = def.CacheBackend
	}
	c.CacheBackend = backend

	c.NotificationRetrySeconds = positive("notification_retry_seconds", c.NotificationRetrySeconds, def.NotificationRetrySeconds)
	c.StatusRetrySeconds = positive("status_retry_seconds", c.StatusRetrySeconds, def.StatusRetrySeconds)
	c.PollIntervalSeconds = positive("poll_interval_seconds", c.PollIntervalSeconds, def.PollIntervalSeconds)
	c.TrayCapacity = positive("tray_capacity", c.TrayCapacity, def.TrayCapacity)
	c.SearchDebounceMillis = positive("search_debounce_ms", c.SearchDebounceMillis, def.SearchDebounceMillis)

	level := strings.ToLower(strings.TrimSpace(c.LogLevel))
	if !validLogLevels[level] {
		warnDefault("log_level", c.LogLevel, def.LogLevel)
		level = def.LogLevel
	}
	c.LogLevel = level
}

// positive ensures a value is a positive integer, falling back to the default.
func positive(key string, value, defaultValue int) int {
	if value <= 0 {
		warnDefault(key, fmt.Sprintf("%d", value), fmt.Sprintf("%d", defaultValue))
		return defaultValue
	}
	return value
}

// validURL ensures the value parses as a URL with one of the allowed schemes.
func validURL(key, value, defaultValue string, schemes ...string) string {
	u, err := url.Parse(strings.TrimSpace(value))
	if err == nil && u.Host != "" {
		for _, s := range schemes {
			if u.Scheme == s {
				return strings.TrimRight(u.String(), "/")
			}
		}
	}
	warnDefault(key, value, defaultValue)
	return defaultValue
}

// validPrefix ensures the value is an absolute path ending in a slash.
func validPrefix(key, value, defaultValue string) string {
	v := strings.TrimSpace(value)
	if strings.HasPrefix(v, "/") {
		if !strings.HasSuffix(v, "/") {
			v += "/"
		}
		return v
	}
	warnDefault(key, value, defaultValue)
	return defaultValue
}

func warnDefault(key, value, defaultValue string) {
	colors.Warning(fmt.Sprintf("invalid %s value '%s', using default: %s", key, value, defaultValue))
}
