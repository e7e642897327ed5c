package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/cristianoliveira/wardlink/internal/errors"
)

func testManager(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preferences.json")
	return NewManagerAt(path), path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	m, _ := testManager(t)
	s, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, s.Theme)
	assert.True(t, s.SidebarOpen)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m, path := testManager(t)

	require.NoError(t, m.Save(&Settings{Theme: ThemeDark, SidebarOpen: false}))

	s, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, s.Theme)
	assert.False(t, s.SidebarOpen)

	// Save is atomic: no temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadCorruptFileYieldsDefaults(t *testing.T) {
	m, path := testManager(t)
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	s, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadInvalidValueYieldsDefaults(t *testing.T) {
	m, path := testManager(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"neon","sidebar_open":false}`), 0o644))

	s, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, s.Theme, "unknown theme falls back to default")
}

func TestSaveRejectsInvalidTheme(t *testing.T) {
	m, path := testManager(t)

	err := m.Save(&Settings{Theme: "neon"})
	require.Error(t, err)
	assert.ErrorIs(t, err, werrors.ErrValidationFailure)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "invalid settings must not be written")
}
