package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	playerFlag string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "outpost",
		Short: "Outpost CLI - build, trade and manage holdings",
		Long: `Outpost CLI drives the game core directly against the configured database.

Every gameplay command acts as one player. The player is taken from --player,
then OUTPOST_PLAYER, then the default stored with 'outpost config set-player'.

Examples:
  outpost inventory show --player alice
  outpost build start --template hut --territory t-52.52-13.40
  outpost build status <building-id>
  outpost trade offer --give wood=10 --want scrap_metal=2 --ttl 1h
  outpost trade accept <offer-id> --player bob
  outpost sweep`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ./config.yaml, ./configs, /etc/outpost)")
	rootCmd.PersistentFlags().StringVar(&playerFlag, "player", "",
		"Acting player identity")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log every request to stderr")

	// Add command groups
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewInventoryCommand())
	rootCmd.AddCommand(NewCatalogCommand())
	rootCmd.AddCommand(NewBuildCommand())
	rootCmd.AddCommand(NewTradeCommand())
	rootCmd.AddCommand(NewSweepCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
