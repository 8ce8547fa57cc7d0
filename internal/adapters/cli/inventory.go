package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/outpost-go/internal/application/ledger/commands"
	"github.com/andrescamacho/outpost-go/internal/application/ledger/queries"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
)

// NewInventoryCommand creates the inventory command with subcommands
func NewInventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Player holdings and ledger",
		Long: `View holdings and the item ledger.

Every change to a holding is journaled with a reason (CONSTRUCTION, UPGRADE,
TRADE or GRANT) and the id of the building, offer or grant that caused it.

Examples:
  outpost inventory show --player alice
  outpost inventory ledger --limit 20
  outpost inventory grant alice --items wood=100,stone=20`,
	}

	cmd.AddCommand(newInventoryShowCommand())
	cmd.AddCommand(newInventoryLedgerCommand())
	cmd.AddCommand(newInventoryGrantCommand())

	return cmd
}

func newInventoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the acting player's holdings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				resp, err := mediator.SendTyped[*queries.GetInventoryResponse](ctx, a.mediator, &queries.GetInventoryQuery{})
				if err != nil {
					return fmt.Errorf("failed to read inventory: %w", err)
				}
				displayInventory(resp)
				return nil
			})
		},
	}
}

func newInventoryLedgerCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "List the acting player's ledger entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				resp, err := mediator.SendTyped[*queries.GetLedgerEntriesResponse](ctx, a.mediator, &queries.GetLedgerEntriesQuery{Limit: limit})
				if err != nil {
					return fmt.Errorf("failed to read ledger: %w", err)
				}
				displayLedgerEntries(resp)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries to return")
	return cmd
}

func newInventoryGrantCommand() *cobra.Command {
	var (
		items     []string
		reference string
	)

	cmd := &cobra.Command{
		Use:   "grant <player-id>",
		Short: "Credit items to a player (administrative)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amounts, err := parseAmounts(items)
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				resp, err := mediator.SendTyped[*commands.GrantResourcesResponse](context.Background(), a.mediator, &commands.GrantResourcesCommand{
					PlayerID:    args[0],
					Amounts:     amounts,
					ReferenceID: reference,
				})
				if err != nil {
					return fmt.Errorf("failed to grant items: %w", err)
				}
				fmt.Printf("✓ Granted to %s (reference %s)\n", resp.PlayerID, resp.ReferenceID)
				fmt.Printf("  Holdings: %s\n", formatQuantity(resp.Inventory))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&items, "items", nil, "Items to credit as item=quantity (repeatable)")
	cmd.Flags().StringVar(&reference, "reference", "", "External reference id (generated when empty)")
	_ = cmd.MarkFlagRequired("items")
	return cmd
}

func displayInventory(resp *queries.GetInventoryResponse) {
	fmt.Printf("\nINVENTORY OF %s\n", resp.PlayerID)
	fmt.Println("──────────────────────────────")
	if resp.Inventory.IsEmpty() {
		fmt.Println("(empty)")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Item\tQuantity")
	fmt.Fprintln(w, "────\t────────")
	for _, item := range resp.Inventory.Items() {
		fmt.Fprintf(w, "%s\t%d\n", item, resp.Inventory[item])
	}
	w.Flush()
}

func displayLedgerEntries(resp *queries.GetLedgerEntriesResponse) {
	if len(resp.Entries) == 0 {
		fmt.Println("No ledger entries found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Timestamp\tItem\tDelta\tReason\tReference")
	fmt.Fprintln(w, "─────────\t────\t─────\t──────\t─────────")
	for _, e := range resp.Entries {
		fmt.Fprintf(w, "%s\t%s\t%+d\t%s\t%s\n", formatTime(e.CreatedAt), e.ItemID, e.Delta, e.Reason, e.ReferenceID)
	}
	w.Flush()
	fmt.Printf("Total: %d entries\n", len(resp.Entries))
}
