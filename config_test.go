package smelt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRequiredKeys(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("world_width", 64)
	cfg.Set("steam_fade_chance", 0.05)

	w, err := cfg.Int("world_width")
	require.NoError(t, err)
	assert.Equal(t, 64, w)

	chance, err := cfg.Float("steam_fade_chance")
	require.NoError(t, err)
	assert.Equal(t, 0.05, chance)

	_, err = cfg.Int("world_height")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "world_height")
}

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 50, cfg.IntOr("frame_interval_ms", 50))
	assert.Equal(t, int64(99), cfg.Int64Or("base_seed", 99))
	assert.Equal(t, 1.5, cfg.FloatOr("x", 1.5))
	assert.Equal(t, ":8080", cfg.StringOr("listen_addr", ":8080"))

	cfg.Set("frame_interval_ms", 16)
	assert.Equal(t, 16, cfg.IntOr("frame_interval_ms", 50))
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world_width: 32\nworld_height: 16\nthermal_view_range: 250\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	w, err := cfg.Int("world_width")
	require.NoError(t, err)
	assert.Equal(t, 32, w)

	r, err := cfg.Float("thermal_view_range")
	require.NoError(t, err)
	assert.Equal(t, 250.0, r)

	assert.False(t, cfg.Has("map_path"))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
