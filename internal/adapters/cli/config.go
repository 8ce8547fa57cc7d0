package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage Outpost configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (OUTPOST_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default player and territory) are stored in ~/.outpost/config.json

Examples:
  outpost config show
  outpost config set-player alice
  outpost config set-territory t-52.52-13.40
  outpost config clear`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetPlayerCommand())
	cmd.AddCommand(newConfigSetTerritoryCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.Default()
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Printf("Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Println("Outpost Configuration")
			fmt.Println("=====================")

			fmt.Println("User Preferences:")
			fmt.Printf("  Config file:        %s\n", userConfigHandler.Path())
			fmt.Printf("  Default Player:     %s\n", orUnset(userCfg.DefaultPlayer))
			fmt.Printf("  Default Territory:  %s\n", orUnset(userCfg.DefaultTerritory))

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:               %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:               %s\n", cfg.Database.Path)
			case cfg.Database.URL != "":
				fmt.Printf("  URL:                %s\n", config.MaskPassword(cfg.Database.URL))
			default:
				fmt.Printf("  Host:               %s:%d\n", cfg.Database.Host, cfg.Database.Port)
				fmt.Printf("  Database:           %s\n", cfg.Database.Name)
				fmt.Printf("  User:               %s\n", cfg.Database.User)
			}

			fmt.Println("\nCatalog:")
			fmt.Printf("  Path:               %s\n", orValue(cfg.Catalog.Path, "(built-in)"))

			fmt.Println("\nTrade:")
			fmt.Printf("  Default TTL:        %s\n", cfg.Trade.DefaultTTL)
			fmt.Printf("  TTL Range:          %s - %s\n", cfg.Trade.MinTTL, cfg.Trade.MaxTTL)
			fmt.Printf("  Max Active Offers:  %d\n", cfg.Trade.MaxActiveOffers)

			fmt.Println("\nSweeper:")
			fmt.Printf("  Enabled:            %t\n", cfg.Sweeper.Enabled)
			fmt.Printf("  Interval:           %s\n", cfg.Sweeper.Interval)
			fmt.Printf("  Batch Size:         %d\n", cfg.Sweeper.BatchSize)

			fmt.Println("\nDaemon:")
			fmt.Printf("  Health Address:     %s\n", cfg.Daemon.Address)
			fmt.Printf("  PID File:           %s\n", cfg.Daemon.PIDFile)
			if cfg.Metrics.Enabled {
				fmt.Printf("  Metrics:            http://%s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
			}

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:              %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:             %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:             %s\n", cfg.Logging.Output)

			return nil
		},
	}
}

func newConfigSetPlayerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-player <player-id>",
		Short: "Set default player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := shared.NewPlayerID(args[0]); err != nil {
				return err
			}
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultPlayer(args[0]); err != nil {
				return fmt.Errorf("failed to save default player: %w", err)
			}
			fmt.Printf("✓ Default player set to %s\n", args[0])
			return nil
		},
	}
}

func newConfigSetTerritoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-territory <territory-id>",
		Short: "Set default territory for build commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultTerritory(args[0]); err != nil {
				return fmt.Errorf("failed to save default territory: %w", err)
			}
			fmt.Printf("✓ Default territory set to %s\n", args[0])
			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear stored preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.Clear(); err != nil {
				return fmt.Errorf("failed to clear preferences: %w", err)
			}
			fmt.Println("✓ Preferences cleared")
			return nil
		},
	}
}

func orUnset(s string) string {
	return orValue(s, "(not set)")
}

func orValue(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
