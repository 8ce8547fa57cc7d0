package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/infrastructure/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(writeConfig(t, "logging:\n  level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "outpost.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 24*time.Hour, cfg.Trade.DefaultTTL)
	assert.Equal(t, 168*time.Hour, cfg.Trade.MaxTTL)
	assert.Equal(t, time.Minute, cfg.Trade.MinTTL)
	assert.Equal(t, 20, cfg.Trade.MaxActiveOffers)
	assert.Equal(t, 30*time.Second, cfg.Sweeper.Interval)
	assert.Equal(t, 200, cfg.Sweeper.BatchSize)
	assert.True(t, cfg.Sweeper.Enabled)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
database:
  type: sqlite
  path: /tmp/from-file.db
trade:
  default_ttl: 2h
  max_active_offers: 3
sweeper:
  enabled: false
`)
	t.Setenv("OUTPOST_DATABASE_PATH", "/tmp/from-env.db")
	t.Setenv("OUTPOST_TRADE_MAX_ACTIVE_OFFERS", "7")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-env.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Hour, cfg.Trade.DefaultTTL)
	assert.Equal(t, 7, cfg.Trade.MaxActiveOffers)
	assert.False(t, cfg.Sweeper.Enabled)
}

func TestLoadConfig_DatabaseURLOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgresql://outpost:secret@db:5432/outpost")
	cfg, err := config.LoadConfig(writeConfig(t, "database:\n  type: postgres\n"))
	require.NoError(t, err)
	assert.Equal(t, "postgresql://outpost:secret@db:5432/outpost", cfg.Database.URL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown database type", "database:\n  type: mysql\n"},
		{"ttl bounds inverted", "trade:\n  default_ttl: 1h\n  max_ttl: 30m\n"},
		{"file output without path", "logging:\n  output: file\n"},
		{"bad log level", "logging:\n  level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestUserConfigHandler(t *testing.T) {
	h := config.NewUserConfigHandlerAt(filepath.Join(t.TempDir(), "nested", "config.json"))

	empty, err := h.Load()
	require.NoError(t, err)
	assert.Empty(t, empty.DefaultPlayer)

	require.NoError(t, h.SetDefaultPlayer("alice"))
	require.NoError(t, h.SetDefaultTerritory("north-ridge"))

	loaded, err := h.Load()
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.DefaultPlayer)
	assert.Equal(t, "north-ridge", loaded.DefaultTerritory)

	require.NoError(t, h.Clear())
	cleared, err := h.Load()
	require.NoError(t, err)
	assert.Empty(t, cleared.DefaultPlayer)
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgresql://outpost:xxxxx@db:5432/outpost", config.MaskPassword("postgresql://outpost:secret@db:5432/outpost"))
	assert.Equal(t, "postgresql://db:5432/outpost", config.MaskPassword("postgresql://db:5432/outpost"))
}
