package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcAdapter "github.com/andrescamacho/outpost-go/internal/adapters/grpc"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/sweeper"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/config"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/database"
)

// NewSweepCommand runs one expiration pass
func NewSweepCommand() *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Record every expired offer and finished countdown now",
		Long: `Run one expiration pass, the same pass the daemon runs periodically.

Reads never depend on it: expired offers and finished countdowns are reported
correctly whether or not a sweep has recorded them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				result, err := mediator.SendTyped[*sweeper.SweepResult](context.Background(), a.mediator, &sweeper.SweepExpiredCommand{BatchSize: batchSize})
				if err != nil {
					return fmt.Errorf("sweep failed: %w", err)
				}
				fmt.Printf("✓ Sweep complete: %d offers expired, %d buildings finalized\n",
					result.OffersExpired, result.BuildingsFinalized)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Records per batch (default: configured batch size)")
	return cmd
}

// NewMigrateCommand creates or updates the schema
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("✓ Schema up to date (%s)\n", cfg.Database.Type)
			return nil
		},
	}
}

// NewHealthCommand queries the daemon's gRPC health endpoint
func NewHealthCommand() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long:  `Verify that the daemon is running and that its store and sweeper are healthy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address == "" {
				address = config.LoadConfigOrDefault(configPath).Daemon.Address
			}

			conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("failed to connect to daemon: %w", err)
			}
			defer conn.Close()
			client := healthpb.NewHealthClient(conn)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			services := []struct{ label, name string }{
				{"Daemon", grpcAdapter.ServiceDaemon},
				{"Store", grpcAdapter.ServiceStore},
				{"Sweeper", grpcAdapter.ServiceSweeper},
			}
			healthy := true
			for _, svc := range services {
				resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: svc.name})
				if err != nil {
					return fmt.Errorf("health check failed: %w", err)
				}
				fmt.Printf("  %-8s %s\n", svc.label+":", resp.GetStatus())
				if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING && svc.name != grpcAdapter.ServiceSweeper {
					healthy = false
				}
			}

			if !healthy {
				return fmt.Errorf("daemon is not healthy")
			}
			fmt.Println("✓ Daemon is healthy")
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Daemon health address (default: daemon.address)")
	return cmd
}
