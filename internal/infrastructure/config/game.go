package config

import "time"

// CatalogConfig locates the static template/item catalog
type CatalogConfig struct {
	// Path to a YAML catalog; empty uses the built-in catalog
	Path string `mapstructure:"path"`
}

// ConstructionConfig holds construction manager configuration
type ConstructionConfig struct {
	// FinalizeOnRead persists Active status when a query observes a finished countdown
	FinalizeOnRead bool `mapstructure:"finalize_on_read"`
}

// TradeConfig holds trade settlement limits
type TradeConfig struct {
	// TTL applied when an offer is posted without one
	DefaultTTL time.Duration `mapstructure:"default_ttl" validate:"required"`

	// Bounds for a caller-supplied TTL
	MaxTTL time.Duration `mapstructure:"max_ttl" validate:"required,gtefield=DefaultTTL"`
	MinTTL time.Duration `mapstructure:"min_ttl" validate:"required,ltefield=DefaultTTL"`

	// Maximum number of Active offers one player may hold
	MaxActiveOffers int `mapstructure:"max_active_offers" validate:"min=1"`

	// Maximum length of an offer message in characters
	MaxMessageLength int `mapstructure:"max_message_length" validate:"min=0"`

	// Maximum number of lines on each side of an offer
	MaxLinesPerSide int `mapstructure:"max_lines_per_side" validate:"min=1,max=100"`

	// Default page size for listings
	ListLimit int `mapstructure:"list_limit" validate:"min=1,max=500"`
}

// SweeperConfig holds the background expiration sweeper configuration
type SweeperConfig struct {
	// Enabled runs the periodic sweep inside the daemon
	Enabled bool `mapstructure:"enabled"`

	// Time between passes
	Interval time.Duration `mapstructure:"interval" validate:"required"`

	// Maximum records transitioned per batch
	BatchSize int `mapstructure:"batch_size" validate:"min=1"`

	// Maximum batches per second
	RateLimit float64 `mapstructure:"rate_limit" validate:"gt=0"`
}
