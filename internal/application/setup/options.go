package setup

import (
	tradingCommands "github.com/andrescamacho/outpost-go/internal/application/trading/commands"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/config"
)

// OptionsFromConfig maps loaded configuration onto handler options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TradeLimits: tradingCommands.Limits{
			DefaultTTL:       cfg.Trade.DefaultTTL,
			MinTTL:           cfg.Trade.MinTTL,
			MaxTTL:           cfg.Trade.MaxTTL,
			MaxActiveOffers:  cfg.Trade.MaxActiveOffers,
			MaxMessageLength: cfg.Trade.MaxMessageLength,
			MaxLinesPerSide:  cfg.Trade.MaxLinesPerSide,
		},
		ListLimit:      cfg.Trade.ListLimit,
		FinalizeOnRead: cfg.Construction.FinalizeOnRead,
		SweepBatchSize: cfg.Sweeper.BatchSize,
		SweepRateLimit: cfg.Sweeper.RateLimit,
	}
}
