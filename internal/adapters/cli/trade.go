package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/trading/commands"
	"github.com/andrescamacho/outpost-go/internal/application/trading/dtos"
	"github.com/andrescamacho/outpost-go/internal/application/trading/queries"
)

// NewTradeCommand creates the trade command with subcommands
func NewTradeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Player-to-player trade offers",
		Long: `Post, accept and cancel barter offers, and rate completed trades.

Items are not reserved when an offer is posted; both sides are checked again
when someone accepts. An offer past its deadline is reported as EXPIRED
whether or not the sweeper has recorded it yet.

Lines are item=quantity, optionally item=quantity@quality.

Examples:
  outpost trade offer --give wood=10 --want scrap_metal=2 --ttl 1h --message "quick swap"
  outpost trade list
  outpost trade accept <offer-id> --player bob
  outpost trade cancel <offer-id>
  outpost trade history
  outpost trade rate <trade-id> --score 5 --comment "smooth"`,
	}

	cmd.AddCommand(newTradeOfferCommand())
	cmd.AddCommand(newTradeListCommand())
	cmd.AddCommand(newTradeShowCommand())
	cmd.AddCommand(newTradeAcceptCommand())
	cmd.AddCommand(newTradeCancelCommand())
	cmd.AddCommand(newTradeHistoryCommand())
	cmd.AddCommand(newTradeRateCommand())

	return cmd
}

func newTradeOfferCommand() *cobra.Command {
	var (
		give    []string
		want    []string
		message string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "offer",
		Short: "Post a new offer",
		RunE: func(cmd *cobra.Command, args []string) error {
			offering, err := parseTradeLines(give)
			if err != nil {
				return err
			}
			requesting, err := parseTradeLines(want)
			if err != nil {
				return err
			}

			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				offer, err := mediator.SendTyped[*dtos.OfferDTO](ctx, a.mediator, &commands.CreateOfferCommand{
					Offering:   offering,
					Requesting: requesting,
					Message:    message,
					TTL:        ttl,
				})
				if err != nil {
					return fmt.Errorf("failed to post offer: %w", err)
				}
				fmt.Println("✓ Offer posted")
				displayOffer(offer)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&give, "give", nil, "Items offered (repeatable)")
	cmd.Flags().StringSliceVar(&want, "want", nil, "Items requested in return (repeatable)")
	cmd.Flags().StringVar(&message, "message", "", "Free text shown with the offer")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Time to live (default: configured default)")
	_ = cmd.MarkFlagRequired("give")
	_ = cmd.MarkFlagRequired("want")
	return cmd
}

func newTradeListCommand() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active offers, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				resp, err := mediator.SendTyped[*queries.ListActiveOffersResponse](ctx, a.mediator, &queries.ListActiveOffersQuery{Limit: limit, Offset: offset})
				if err != nil {
					return err
				}
				if len(resp.Offers) == 0 {
					fmt.Println("No active offers")
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tOwner\tGives\tWants\tExpires")
				fmt.Fprintln(w, "──\t─────\t─────\t─────\t───────")
				for _, o := range resp.Offers {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						o.ID, o.OwnerID, formatLines(o.Offering), formatLines(o.Requesting), formatTime(o.ExpiresAt))
				}
				w.Flush()
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of offers (default: configured page size)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of offers to skip")
	return cmd
}

func newTradeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <offer-id>",
		Short: "Show one offer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				offer, err := mediator.SendTyped[*dtos.OfferDTO](ctx, a.mediator, &queries.GetOfferQuery{OfferID: args[0]})
				if err != nil {
					return err
				}
				displayOffer(offer)
				return nil
			})
		},
	}
}

func newTradeAcceptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <offer-id>",
		Short: "Accept an offer and settle it immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				resp, err := mediator.SendTyped[*commands.AcceptOfferResponse](ctx, a.mediator, &commands.AcceptOfferCommand{OfferID: args[0]})
				if err != nil {
					return fmt.Errorf("failed to accept offer: %w", err)
				}
				fmt.Println("✓ Trade settled")
				fmt.Printf("  Trade:     %s\n", resp.History.ID)
				fmt.Printf("  Received:  %s\n", formatLines(resp.History.SellerItems))
				fmt.Printf("  Paid:      %s\n", formatLines(resp.History.BuyerItems))
				return nil
			})
		},
	}
}

func newTradeCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <offer-id>",
		Short: "Withdraw one of your active offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				offer, err := mediator.SendTyped[*dtos.OfferDTO](ctx, a.mediator, &commands.CancelOfferCommand{OfferID: args[0]})
				if err != nil {
					return fmt.Errorf("failed to cancel offer: %w", err)
				}
				fmt.Printf("✓ Offer %s is %s\n", offer.ID, offer.Status)
				return nil
			})
		},
	}
}

func newTradeHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [trade-id]",
		Short: "List your completed trades, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}

				if len(args) == 1 {
					h, err := mediator.SendTyped[*dtos.HistoryDTO](ctx, a.mediator, &queries.GetTradeHistoryQuery{HistoryID: args[0]})
					if err != nil {
						return err
					}
					displayHistory(h)
					return nil
				}

				resp, err := mediator.SendTyped[*queries.ListPlayerHistoryResponse](ctx, a.mediator, &queries.ListPlayerHistoryQuery{Limit: limit})
				if err != nil {
					return err
				}
				if len(resp.Trades) == 0 {
					fmt.Println("No completed trades")
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tCompleted\tSeller\tBuyer\tSeller Gave\tBuyer Gave")
				fmt.Fprintln(w, "──\t─────────\t──────\t─────\t───────────\t──────────")
				for _, h := range resp.Trades {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						h.ID, formatTime(h.CompletedAt), h.SellerID, h.BuyerID, formatLines(h.SellerItems), formatLines(h.BuyerItems))
				}
				w.Flush()
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of trades (default: configured page size)")
	return cmd
}

func newTradeRateCommand() *cobra.Command {
	var (
		score   int
		comment string
	)

	cmd := &cobra.Command{
		Use:   "rate <trade-id>",
		Short: "Rate the other party of a completed trade (once)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				ctx, err := a.asPlayer()
				if err != nil {
					return err
				}
				resp, err := mediator.SendTyped[*commands.RateTradeResponse](ctx, a.mediator, &commands.RateTradeCommand{
					HistoryID: args[0],
					Score:     score,
					Comment:   comment,
				})
				if err != nil {
					return fmt.Errorf("failed to rate trade: %w", err)
				}
				fmt.Printf("✓ Rated %d/5 as %s\n", resp.Rating.Score, resp.Role)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&score, "score", 0, "Score from 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "Optional comment")
	_ = cmd.MarkFlagRequired("score")
	return cmd
}

func displayOffer(o *dtos.OfferDTO) {
	fmt.Printf("\nOFFER %s\n", o.ID)
	fmt.Println("──────────────────────────────")
	fmt.Printf("  Owner:      %s\n", o.OwnerID)
	fmt.Printf("  Gives:      %s\n", formatLines(o.Offering))
	fmt.Printf("  Wants:      %s\n", formatLines(o.Requesting))
	if o.Message != "" {
		fmt.Printf("  Message:    %s\n", o.Message)
	}
	fmt.Printf("  Status:     %s\n", o.Status)
	fmt.Printf("  Posted:     %s\n", formatTime(o.CreatedAt))
	fmt.Printf("  Expires:    %s\n", formatTime(o.ExpiresAt))
	if o.CompletedAt != nil {
		fmt.Printf("  Completed:  %s by %s\n", formatTime(*o.CompletedAt), o.CompletedBy)
	}
}

func displayHistory(h *dtos.HistoryDTO) {
	fmt.Printf("\nTRADE %s\n", h.ID)
	fmt.Println("──────────────────────────────")
	fmt.Printf("  Offer:        %s\n", h.OfferID)
	fmt.Printf("  Completed:    %s\n", formatTime(h.CompletedAt))
	fmt.Printf("  Seller:       %s (gave %s)\n", h.SellerID, formatLines(h.SellerItems))
	fmt.Printf("  Buyer:        %s (gave %s)\n", h.BuyerID, formatLines(h.BuyerItems))
	fmt.Printf("  Seller rated: %s\n", formatRating(h.SellerRating))
	fmt.Printf("  Buyer rated:  %s\n", formatRating(h.BuyerRating))
}

func formatRating(r *dtos.RatingDTO) string {
	if r == nil {
		return "(not yet)"
	}
	if r.Comment == "" {
		return fmt.Sprintf("%d/5", r.Score)
	}
	return fmt.Sprintf("%d/5 %q", r.Score, r.Comment)
}
