package studioconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir stands in for t.Chdir, which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	p, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoadInvalidFileReturnsDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(ConfigPath), 0755))
	require.NoError(t, os.WriteFile(ConfigPath, []byte("{broken"), 0644))
	p, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	chdir(t, t.TempDir())
	want := Prefs{Detail: "quality", EmbossFont: "fonts/custom.ttf", GridVisible: false, ShowGhosts: true}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
