package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogAdapter "github.com/andrescamacho/outpost-go/internal/adapters/catalog"
	"github.com/andrescamacho/outpost-go/internal/adapters/persistence"
	"github.com/andrescamacho/outpost-go/internal/application/auth"
	appLogging "github.com/andrescamacho/outpost-go/internal/application/logging"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/setup"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/config"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/database"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/logging"
)

// app is the per-invocation wiring shared by every gameplay command
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	logger   *zap.Logger
	mediator mediator.Mediator
}

// openApp loads configuration, connects to the database and wires the
// mediator. Callers must close the returned app.
func openApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := zap.NewNop()
	if verbose {
		cfg.Logging.Output = "stderr"
		cfg.Logging.Format = "text"
		cfg.Logging.Level = "debug"
		if logger, err = logging.New(cfg.Logging); err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	med, err := buildMediator(cfg, db, logger)
	if err != nil {
		database.Close(db)
		return nil, err
	}

	return &app{cfg: cfg, db: db, logger: logger, mediator: med}, nil
}

// buildMediator wires handlers against db using the configured catalog
func buildMediator(cfg *config.Config, db *gorm.DB, logger *zap.Logger) (mediator.Mediator, error) {
	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	registry := setup.NewHandlerRegistry(
		persistence.NewRepositories(db),
		cat,
		persistence.NewGormTransactor(db),
		shared.NewRealClock(),
		setup.OptionsFromConfig(cfg),
	)
	med, err := registry.CreateConfiguredMediator(
		appLogging.Middleware(logger),
		auth.RequireIdentity(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}
	return med, nil
}

func loadCatalog(cfg config.CatalogConfig) (*catalogAdapter.StaticCatalog, error) {
	if cfg.Path == "" {
		cat, err := catalogAdapter.LoadDefault()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in catalog: %w", err)
		}
		return cat, nil
	}
	cat, err := catalogAdapter.Load(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", cfg.Path, err)
	}
	return cat, nil
}

// asPlayer returns a context carrying the resolved acting player
func (a *app) asPlayer() (context.Context, error) {
	id, err := resolvePlayer()
	if err != nil {
		return nil, err
	}
	playerID, err := shared.NewPlayerID(id)
	if err != nil {
		return nil, err
	}
	return auth.WithPlayerID(context.Background(), playerID), nil
}

func (a *app) Close() {
	_ = a.logger.Sync()
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("failed to close database", zap.Error(err))
	}
}

// withApp opens the app for the duration of fn
func withApp(fn func(a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
