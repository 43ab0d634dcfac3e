package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/barquest/internal/game"
	"github.com/samdwyer/barquest/internal/stats"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "barquest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
hero:
  id: hero-1
  class: mage
simulation:
  tick_interval: 100ms
  wave_delay: 2s
  world_tier: 3
  resource_regen:
    Mana: 4
storage:
  backend: redis
  redis:
    addr: cache:6379
    db: 2
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hero-1", cfg.Hero.ID)
	assert.Equal(t, "mage", cfg.Hero.Class)
	assert.Equal(t, "Adventurer", cfg.Hero.Name)
	assert.Equal(t, 100*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, 2*time.Second, cfg.Simulation.WaveDelay)
	assert.Equal(t, 3, cfg.Simulation.WorldTier)
	assert.Equal(t, 4.0, cfg.Simulation.ResourceRegen["Mana"])
	assert.Equal(t, 10.0, cfg.Simulation.ResourceRegen["Energy"], "unlisted resources keep their default")
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "cache:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", "simulation: [1, 2"},
		{"unknown backend", "storage:\n  backend: sqlite\n"},
		{"zero tick", "simulation:\n  tick_interval: 0s\n"},
		{"world tier", "simulation:\n  world_tier: 0\n"},
		{"unknown resource", "simulation:\n  resource_regen:\n    Focus: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BARQUEST_STORAGE_BACKEND", "postgres")
	t.Setenv("BARQUEST_POSTGRES_DSN", "postgres://x@db/barquest")
	t.Setenv("BARQUEST_WORLD_TIER", "2")
	t.Setenv("BARQUEST_SEED", "42")
	t.Setenv("BARQUEST_TELEMETRY_ENABLED", "true")
	t.Setenv("BARQUEST_LOG_OUTPUT", "stderr,app.log")
	t.Setenv("BARQUEST_HERO_CLASS", "rogue")
	t.Setenv("BARQUEST_DATA_DIR", "/srv/barquest/data")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, "postgres://x@db/barquest", cfg.Storage.Postgres.DSN)
	assert.Equal(t, 2, cfg.Simulation.WorldTier)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, []string{"stderr", "app.log"}, cfg.Log.OutputPaths)
	assert.Equal(t, "rogue", cfg.Hero.Class)
	assert.Equal(t, "/srv/barquest/data", cfg.DataDir)
}

func TestEnvOverrideParseError(t *testing.T) {
	t.Setenv("BARQUEST_REDIS_DB", "two")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "BARQUEST_REDIS_DB")
}

func TestToGameRoundTripsDefaults(t *testing.T) {
	assert.Equal(t, game.DefaultConfig(), Default().ToGame())
}

func TestToGameResourceRegen(t *testing.T) {
	cfg := Default()
	cfg.Simulation.ResourceRegen = map[string]float64{"Energy": 12}
	cfg.Simulation.AttackPowerRatio = 0.5

	g := cfg.ToGame()
	assert.Equal(t, map[stats.ResourceType]float64{stats.ResourceEnergy: 12}, g.ResourceRegen)
	assert.Equal(t, 0.5, g.Combat.AttackPowerRatio)
}

func TestExampleFileMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "barquest.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
