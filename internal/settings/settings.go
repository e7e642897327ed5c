// Package settings provides user preference persistence.
//
// Preferences are the client-local bits of UI state the web application
// keeps between visits: the color theme and whether the sidebar is open.
// They are stored verbatim under fixed keys in a JSON file and never
// synchronized with the server.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cristianoliveira/wardlink/internal/config"
	"github.com/cristianoliveira/wardlink/internal/errors"
)

// Theme constants.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Storage keys, fixed so existing preference files stay readable.
const (
	KeyTheme   = "theme"
	KeySidebar = "sidebar_open"
)

const settingsFileName = "preferences.json"

// Settings holds the persisted user preferences.
type Settings struct {
	Theme       string `json:"theme"`
	SidebarOpen bool   `json:"sidebar_open"`
}

// DefaultSettings returns the default preferences.
func DefaultSettings() *Settings {
	return &Settings{Theme: ThemeLight, SidebarOpen: true}
}

// Validate checks that all preference values are well formed.
func (s *Settings) Validate() error {
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		return errors.Validation(KeyTheme, fmt.Sprintf("must be %q or %q", ThemeLight, ThemeDark))
	}
	return nil
}

// Manager loads and saves preferences at a fixed path.
type Manager struct {
	path string
}

// NewManager creates a Manager storing preferences in the config directory.
func NewManager() (*Manager, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine settings directory: %w", err)
	}
	return NewManagerAt(filepath.Join(dir, settingsFileName)), nil
}

// NewManagerAt creates a Manager storing preferences at an explicit path.
func NewManagerAt(path string) *Manager {
	return &Manager{path: path}
}

// Load reads preferences from disk. A missing file yields the defaults.
// Invalid stored values also yield the defaults rather than failing startup.
func (m *Manager) Load() (*Settings, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	s := DefaultSettings()
	if err := json.Unmarshal(data, s); err != nil {
		return DefaultSettings(), nil
	}
	if err := s.Validate(); err != nil {
		return DefaultSettings(), nil
	}
	return s, nil
}

// Save writes preferences to disk atomically (write temp file, rename).
func (m *Manager) Save(s *Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), config.FileModeDir); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, config.FileModeFile); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return os.Rename(tmp, m.path)
}
