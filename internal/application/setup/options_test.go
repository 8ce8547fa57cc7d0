package setup_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/outpost-go/internal/application/setup"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/config"
)

func TestOptionsFromConfig_DefaultsMatchDefaultOptions(t *testing.T) {
	assert.Equal(t, setup.DefaultOptions(), setup.OptionsFromConfig(config.Default()))
}

func TestOptionsFromConfig_CopiesOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Trade.DefaultTTL = 2 * time.Hour
	cfg.Trade.MaxActiveOffers = 3
	cfg.Construction.FinalizeOnRead = true
	cfg.Sweeper.BatchSize = 7

	options := setup.OptionsFromConfig(cfg)

	assert.Equal(t, 2*time.Hour, options.TradeLimits.DefaultTTL)
	assert.Equal(t, 3, options.TradeLimits.MaxActiveOffers)
	assert.True(t, options.FinalizeOnRead)
	assert.Equal(t, 7, options.SweepBatchSize)
}
