package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/outpost-go/internal/application/catalog/queries"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
)

// NewCatalogCommand creates the catalog command with subcommands
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse building templates",
		Long: `Browse the static building template catalog.

Examples:
  outpost catalog templates
  outpost catalog templates --category survival --tier 1
  outpost catalog template hut`,
	}

	cmd.AddCommand(newCatalogTemplatesCommand())
	cmd.AddCommand(newCatalogTemplateCommand())

	return cmd
}

func newCatalogTemplatesCommand() *cobra.Command {
	var (
		category string
		tier     int
	)

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List building templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				resp, err := mediator.SendTyped[*queries.ListTemplatesResponse](context.Background(), a.mediator, &queries.ListTemplatesQuery{
					Category: category,
					Tier:     tier,
				})
				if err != nil {
					return fmt.Errorf("failed to list templates: %w", err)
				}
				if len(resp.Templates) == 0 {
					fmt.Println("No templates found")
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tName\tCategory\tTier\tCost\tBuild Time\tMax/Territory")
				fmt.Fprintln(w, "──\t────\t────────\t────\t────\t──────────\t─────────────")
				for _, t := range resp.Templates {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%d\n",
						t.ID, t.Name, t.Category, t.Tier, formatQuantity(t.RequiredResources), t.BuildDuration, t.MaxPerTerritory)
				}
				w.Flush()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().IntVar(&tier, "tier", 0, "Filter by tier")
	return cmd
}

func newCatalogTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template <template-id>",
		Short: "Show one template with its upgrade costs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				t, err := mediator.SendTyped[*queries.TemplateDTO](context.Background(), a.mediator, &queries.GetTemplateQuery{TemplateID: args[0]})
				if err != nil {
					return err
				}

				fmt.Printf("\n%s (%s)\n", t.Name, t.ID)
				fmt.Println("──────────────────────────────")
				fmt.Printf("  Category:         %s\n", t.Category)
				fmt.Printf("  Tier:             %d\n", t.Tier)
				fmt.Printf("  Cost:             %s\n", formatQuantity(t.RequiredResources))
				fmt.Printf("  Build Time:       %s\n", t.BuildDuration)
				fmt.Printf("  Max/Territory:    %d\n", t.MaxPerTerritory)
				fmt.Printf("  Max Level:        %d\n", t.MaxLevel)
				for level := 2; level <= t.MaxLevel; level++ {
					fmt.Printf("  Upgrade to L%d:    %s\n", level, formatQuantity(t.UpgradeCosts[level]))
				}
				return nil
			})
		},
	}
}
