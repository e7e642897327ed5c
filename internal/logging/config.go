package logging

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config holds logging configuration.
type Config struct {
	// Enabled controls whether file logging is active at all.
	Enabled bool
	// Level is the minimum level: debug, info, warn, error.
	Level string
	// MaxFiles is the number of rotated log files to keep.
	MaxFiles int
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{Enabled: false, Level: "info", MaxFiles: 5}
}

// LogDir returns the directory where log files are written.
// Respects WARDLINK_LOG_DIR, falling back to the user state directory.
func LogDir() (string, error) {
	if dir := os.Getenv("WARDLINK_LOG_DIR"); dir != "" {
		return dir, os.MkdirAll(dir, 0o755)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "state", "wardlink", "logs")
	return dir, os.MkdirAll(dir, 0o755)
}

// rotate keeps at most maxFiles log files in dir, removing the oldest.
func rotate(dir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "wardlink_") && strings.HasSuffix(e.Name(), ".log") {
			logs = append(logs, e.Name())
		}
	}
	if len(logs) < maxFiles {
		return nil
	}
	// Names embed the timestamp, lexicographic order is chronological.
	sort.Strings(logs)
	for _, name := range logs[:len(logs)-maxFiles+1] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
