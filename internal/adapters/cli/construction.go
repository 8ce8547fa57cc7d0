package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/outpost-go/internal/application/construction/commands"
	"github.com/andrescamacho/outpost-go/internal/application/construction/dtos"
	"github.com/andrescamacho/outpost-go/internal/application/construction/queries"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
)

// NewBuildCommand creates the build command with subcommands
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Construction operations",
		Long: `Start, inspect, upgrade and demolish buildings.

A building completes lazily: its countdown is derived from the start time, and
the first upgrade, demolish or finalize after the countdown ends records it as
ACTIVE. 'build status' always reports the derived progress.

Examples:
  outpost build check --template hut
  outpost build start --template hut --territory t-52.52-13.40 --lat 52.52 --lng 13.40
  outpost build status <building-id>
  outpost build finalize <building-id>
  outpost build upgrade <building-id>
  outpost build list --territory t-52.52-13.40`,
	}

	cmd.AddCommand(newBuildCheckCommand())
	cmd.AddCommand(newBuildStartCommand())
	cmd.AddCommand(newBuildStatusCommand())
	cmd.AddCommand(newBuildListCommand())
	cmd.AddCommand(newBuildFinalizeCommand())
	cmd.AddCommand(newBuildUpgradeCommand())
	cmd.AddCommand(newBuildDemolishCommand())

	return cmd
}

func newBuildCheckCommand() *cobra.Command {
	var templateID string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether the acting player can afford a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				resp, err := mediator.SendTyped[*queries.CheckResourcesResponse](ctx, a.mediator, &queries.CheckResourcesQuery{TemplateID: templateID})
				if err != nil {
					return err
				}

				fmt.Printf("Template:   %s\n", resp.TemplateID)
				fmt.Printf("Required:   %s\n", formatQuantity(resp.Required))
				fmt.Printf("Available:  %s\n", formatQuantity(resp.Result.Available))
				if resp.Result.Sufficient {
					fmt.Println("✓ Affordable")
				} else {
					fmt.Printf("✗ Missing:  %s\n", formatQuantity(resp.Result.Missing))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Template id")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func newBuildStartCommand() *cobra.Command {
	var (
		templateID  string
		territoryID string
		lat, lng    float64
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Pay for and start constructing a building",
		RunE: func(cmd *cobra.Command, args []string) error {
			territory, err := resolveTerritory(territoryID)
			if err != nil {
				return err
			}
			var location *construction.Location
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
				location = &construction.Location{Latitude: lat, Longitude: lng}
			}

			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				b, err := mediator.SendTyped[*dtos.BuildingDTO](ctx, a.mediator, &commands.StartConstructionCommand{
					TemplateID:  templateID,
					TerritoryID: territory,
					Location:    location,
				})
				if err != nil {
					return fmt.Errorf("failed to start construction: %w", err)
				}
				fmt.Println("✓ Construction started")
				displayBuilding(b)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Template id")
	cmd.Flags().StringVar(&territoryID, "territory", "", "Territory id (default: stored default territory)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func newBuildStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <building-id>",
		Short: "Show a building with its derived progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				b, err := mediator.SendTyped[*dtos.BuildingDTO](ctx, a.mediator, &queries.GetBuildingQuery{BuildingID: args[0]})
				if err != nil {
					return err
				}
				displayBuilding(b)
				return nil
			})
		},
	}
}

func newBuildListCommand() *cobra.Command {
	var territoryID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the buildings of a territory",
		RunE: func(cmd *cobra.Command, args []string) error {
			territory, err := resolveTerritory(territoryID)
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				resp, err := mediator.SendTyped[*queries.ListTerritoryBuildingsResponse](ctx, a.mediator, &queries.ListTerritoryBuildingsQuery{TerritoryID: territory})
				if err != nil {
					return err
				}
				if len(resp.Buildings) == 0 {
					fmt.Printf("No buildings in %s\n", resp.TerritoryID)
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTemplate\tOwner\tLevel\tStatus\tProgress\tRemaining")
				fmt.Fprintln(w, "──\t────────\t─────\t─────\t──────\t────────\t─────────")
				for _, b := range resp.Buildings {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.0f%%\t%s\n",
						b.ID, b.TemplateID, b.OwnerID, b.Level, observedStatus(b), b.Progress*100, formatRemaining(b.Remaining))
				}
				w.Flush()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&territoryID, "territory", "", "Territory id (default: stored default territory)")
	return cmd
}

func newBuildFinalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <building-id>",
		Short: "Record completion of a finished countdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				resp, err := mediator.SendTyped[*commands.FinalizeConstructionResponse](ctx, a.mediator, &commands.FinalizeConstructionCommand{BuildingID: args[0]})
				if err != nil {
					return err
				}
				switch {
				case resp.Finalized:
					fmt.Println("✓ Building is now ACTIVE")
				case resp.Building.IsComplete:
					fmt.Println("Building was already ACTIVE")
				default:
					fmt.Printf("Still constructing, %s remaining\n", formatRemaining(resp.Building.Remaining))
				}
				displayBuilding(resp.Building)
				return nil
			})
		},
	}
}

func newBuildUpgradeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <building-id>",
		Short: "Pay for the next level of an active building",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				resp, err := mediator.SendTyped[*commands.UpgradeBuildingResponse](ctx, a.mediator, &commands.UpgradeBuildingCommand{BuildingID: args[0]})
				if err != nil {
					return fmt.Errorf("failed to upgrade: %w", err)
				}
				fmt.Printf("✓ Upgraded to level %d for %s\n", resp.Building.Level, formatQuantity(resp.Cost))
				return nil
			})
		},
	}
}

func newBuildDemolishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demolish <building-id>",
		Short: "Remove a building (no refund)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				resp, err := mediator.SendTyped[*commands.DemolishBuildingResponse](ctx, a.mediator, &commands.DemolishBuildingCommand{BuildingID: args[0]})
				if err != nil {
					return fmt.Errorf("failed to demolish: %w", err)
				}
				fmt.Printf("✓ Demolished %s %s in %s\n", resp.TemplateID, resp.BuildingID, resp.TerritoryID)
				return nil
			})
		},
	}
}

func observedStatus(b *dtos.BuildingDTO) string {
	if b.IsComplete && b.Status == string(construction.BuildingStatusConstructing) {
		return "COMPLETE (unrecorded)"
	}
	return b.Status
}

func displayBuilding(b *dtos.BuildingDTO) {
	fmt.Printf("\nBUILDING %s\n", b.ID)
	fmt.Println("──────────────────────────────")
	fmt.Printf("  Template:     %s (level %d)\n", b.TemplateID, b.Level)
	fmt.Printf("  Owner:        %s\n", b.OwnerID)
	fmt.Printf("  Territory:    %s\n", b.TerritoryID)
	if b.Latitude != nil && b.Longitude != nil {
		fmt.Printf("  Location:     %.5f, %.5f\n", *b.Latitude, *b.Longitude)
	}
	fmt.Printf("  Status:       %s\n", observedStatus(b))
	fmt.Printf("  Progress:     %.0f%%\n", b.Progress*100)
	fmt.Printf("  Started:      %s\n", formatTime(b.StartedAt))
	if b.CompletedAt != nil {
		fmt.Printf("  Completed:    %s\n", formatTime(*b.CompletedAt))
	} else {
		fmt.Printf("  Completes:    %s (%s)\n", formatTime(b.CompletesAt), formatRemaining(b.Remaining))
	}
}
