package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicplayer/internal/library"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFrom_NoFilesGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, library.DefaultExtensions, cfg.Extensions)
	assert.Equal(t, 200*time.Millisecond, cfg.TickInterval())
}

func TestLoadFrom_Overrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
engine = "VLC"
tick_interval_ms = 50
extensions = [".mp3", "opus"]
artwork_max_size = 256

[discord]
enabled = true
client_id = " 1234 "
`)

	cfg, err := LoadFrom(path)

	require.NoError(t, err)
	assert.Equal(t, "vlc", cfg.Engine)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval())
	assert.Equal(t, []string{".mp3", "opus"}, cfg.Extensions)
	assert.Equal(t, 256, cfg.ArtworkMaxSize)
	assert.True(t, cfg.Discord.Enabled)
	assert.Equal(t, "1234", cfg.Discord.ClientID)
}

func TestLoadFrom_LaterFileWins(t *testing.T) {
	base := writeConfig(t, t.TempDir(), "engine = \"vlc\"\nartwork_max_size = 100\n")
	local := writeConfig(t, t.TempDir(), "artwork_max_size = 300\n")

	cfg, err := LoadFrom(base, local)

	require.NoError(t, err)
	assert.Equal(t, "vlc", cfg.Engine)
	assert.Equal(t, 300, cfg.ArtworkMaxSize)
}

func TestLoadFrom_Normalizes(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
engine = ""
tick_interval_ms = -5
extensions = []
artwork_max_size = -1

[discord]
enabled = true
`)

	cfg, err := LoadFrom(path)

	require.NoError(t, err)
	assert.Equal(t, "beep", cfg.Engine)
	assert.Equal(t, 200, cfg.TickIntervalMs)
	assert.Equal(t, library.DefaultExtensions, cfg.Extensions)
	assert.Zero(t, cfg.ArtworkMaxSize)
	assert.False(t, cfg.Discord.Enabled, "no client id disables presence")
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "engine = [unterminated")

	_, err := LoadFrom(path)

	assert.Error(t, err)
}
