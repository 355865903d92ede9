package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "./heightmaps.db", cfg.Database.Path)
	assert.Equal(t, 4<<20, cfg.Generation.MaxCells)
	assert.Equal(t, 4, cfg.Generation.Workers)
	assert.Equal(t, 30*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("MAX_GRID_CELLS", "1024")
	t.Setenv("GEN_WORKERS", "8")
	t.Setenv("GEN_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 1024, cfg.Generation.MaxCells)
	assert.Equal(t, 8, cfg.Generation.Workers)
	assert.Equal(t, 5*time.Second, cfg.Generation.Timeout)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_GRID_CELLS", "not a number")
	t.Setenv("GEN_TIMEOUT", "eventually")

	cfg := Load()

	assert.Equal(t, 4<<20, cfg.Generation.MaxCells)
	assert.Equal(t, 30*time.Second, cfg.Generation.Timeout)
}
