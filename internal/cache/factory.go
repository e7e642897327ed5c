package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/wardlink/internal/colors"
	"github.com/cristianoliveira/wardlink/internal/config"
)

const (
	leveldbDirName = "cache.ldb"
	sqliteFileName = "cache.db"
)

var _ Store = (*MemoryStore)(nil)
var _ Store = (*LevelDBStore)(nil)
var _ Store = (*SQLiteStore)(nil)

// StateDir returns the directory holding persistent cache state.
// Respects WARDLINK_STATE_DIR.
func StateDir() (string, error) {
	if dir := os.Getenv("WARDLINK_STATE_DIR"); dir != "" {
		return dir, os.MkdirAll(dir, config.FileModeDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".local", "state", "wardlink")
	return dir, os.MkdirAll(dir, config.FileModeDir)
}

// NewStoreForBackend creates a cache store for the provided backend name.
// Persistent backends that fail to open fall back to the in-memory store
// with a warning so a corrupt cache file never takes the client down.
func NewStoreForBackend(backend string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendLevelDB:
		stateDir, err := StateDir()
		if err != nil {
			return nil, err
		}
		store, err := NewLevelDBStore(filepath.Join(stateDir, leveldbDirName))
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to open leveldb cache, falling back to memory: %v", err))
			return NewMemoryStore(), nil
		}
		return store, nil
	case config.BackendSQLite:
		stateDir, err := StateDir()
		if err != nil {
			return nil, err
		}
		store, err := NewSQLiteStore(filepath.Join(stateDir, sqliteFileName))
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to open sqlite cache, falling back to memory: %v", err))
			return NewMemoryStore(), nil
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", backend)
	}
}
