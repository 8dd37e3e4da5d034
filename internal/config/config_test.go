package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "data/sectorcap.duckdb", cfg.DBPath)
	assert.Equal(t, CacheBackendMemory, cfg.CacheBackend)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.InDelta(t, 0.10, cfg.PeakHourFactor, 1e-12)
	assert.Equal(t, 100, cfg.ForestTrees)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SECTORCAP_DB_PATH", "/tmp/x.duckdb")
	t.Setenv("SECTORCAP_PEAK_HOUR_FACTOR", "0.12")
	t.Setenv("SECTORCAP_CACHE_BACKEND", "none")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.duckdb", cfg.DBPath)
	assert.InDelta(t, 0.12, cfg.PeakHourFactor, 1e-12)
	assert.Equal(t, CacheBackendNone, cfg.CacheBackend)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "sectorcap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /srv/exports\nforest_trees: 60\n"), 0o644))
	t.Setenv("SECTORCAP_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/exports", cfg.DataDir)
	assert.Equal(t, 60, cfg.ForestTrees)
}

func TestValidate(t *testing.T) {
	base := Config{DBPath: "x", CacheBackend: CacheBackendMemory, PeakHourFactor: 0.1, ForestTrees: 100}

	bad := base
	bad.CacheBackend = "memcached"
	assert.Error(t, bad.Validate())

	bad = base
	bad.PeakHourFactor = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.ForestTrees = 10
	assert.Error(t, bad.Validate())

	assert.NoError(t, base.Validate())
}
