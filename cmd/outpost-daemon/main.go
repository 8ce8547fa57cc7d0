package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	catalogAdapter "github.com/andrescamacho/outpost-go/internal/adapters/catalog"
	"github.com/andrescamacho/outpost-go/internal/adapters/grpc"
	"github.com/andrescamacho/outpost-go/internal/adapters/metrics"
	"github.com/andrescamacho/outpost-go/internal/adapters/persistence"
	"github.com/andrescamacho/outpost-go/internal/application/auth"
	appLogging "github.com/andrescamacho/outpost-go/internal/application/logging"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/setup"
	"github.com/andrescamacho/outpost-go/internal/application/sweeper"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/config"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/database"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/logging"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/pidfile"
)

const storeProbeInterval = 15 * time.Second

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	fmt.Println("Outpost Daemon v0.1.0")
	fmt.Println("=====================")

	fmt.Println("Loading configuration...")
	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Acquire PID file lock to prevent multiple instances
	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		logger.Fatal("failed to acquire PID file lock", zap.String("path", pf.Path()), zap.Error(err))
	}
	defer func() {
		if err := pf.Release(); err != nil {
			logger.Warn("failed to release PID file", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("daemon stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("daemon stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// 1. Database
	logger.Info("connecting to database", zap.String("type", cfg.Database.Type))
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 2. Catalog
	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", zap.Int("templates", len(cat.Templates())))

	// 3. Metrics
	middleware := []mediator.Middleware{appLogging.Middleware(logger)}
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		collector, err := metrics.EnableAll()
		if err != nil {
			return fmt.Errorf("failed to enable metrics: %w", err)
		}
		middleware = append(middleware, metrics.PrometheusMiddleware(collector))
		metricsServer = metrics.NewServer(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path, logger)
		if err := metricsServer.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}
	middleware = append(middleware, auth.RequireIdentity())

	// 4. Mediator
	registry := setup.NewHandlerRegistry(
		persistence.NewRepositories(db),
		cat,
		persistence.NewGormTransactor(db),
		shared.NewRealClock(),
		setup.OptionsFromConfig(cfg),
	)
	med, err := registry.CreateConfiguredMediator(middleware...)
	if err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	// 5. Health endpoint
	health, err := grpc.NewHealthServer(cfg.Daemon.Address, logger)
	if err != nil {
		return fmt.Errorf("failed to create health server: %w", err)
	}
	health.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		health.Probe(ctx, grpc.ServiceStore, storeProbeInterval, func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
	}()

	// 6. Sweeper
	if cfg.Sweeper.Enabled {
		s := sweeper.NewSweeper(med, cfg.Sweeper.Interval, logger)
		s.OnPass(func(err error) {
			health.SetServing(grpc.ServiceSweeper, err == nil)
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Run(ctx)
		}()
	} else {
		logger.Info("sweeper disabled; expiry is recorded only on access")
	}

	health.SetServing(grpc.ServiceDaemon, true)
	logger.Info("daemon ready", zap.String("health_address", health.Addr()))

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping daemon")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	defer cancel()

	health.Shutdown(shutdownCtx)
	wg.Wait()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("metrics server shutdown failed", zap.Error(err))
		}
	}
	return nil
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
