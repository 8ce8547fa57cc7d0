package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/trading/commands"
	"github.com/andrescamacho/outpost-go/internal/application/trading/dtos"
	"github.com/andrescamacho/outpost-go/internal/application/trading/queries"
	"github.com/andrescamacho/outpost-go/test/helpers"
)

func (w *outpostWorld) offerID(alias string) (string, error) {
	id, ok := w.offers[alias]
	if !ok {
		return "", fmt.Errorf("no offer named %q in this scenario", alias)
	}
	return id, nil
}

func tradeLines(raw string) ([]dtos.TradeItemDTO, error) {
	amounts, err := parseAmounts(raw)
	if err != nil {
		return nil, err
	}
	lines := make([]dtos.TradeItemDTO, 0, len(amounts))
	for _, item := range amounts.Items() {
		lines = append(lines, dtos.TradeItemDTO{ItemID: item, Quantity: amounts[item]})
	}
	return lines, nil
}

func (w *outpostWorld) postOffer(player, giving, wanting string, ttl time.Duration) (*dtos.OfferDTO, error) {
	offering, err := tradeLines(giving)
	if err != nil {
		return nil, err
	}
	requesting, err := tradeLines(wanting)
	if err != nil {
		return nil, err
	}
	return mediator.SendTyped[*dtos.OfferDTO](helpers.As(player), w.env.Mediator, &commands.CreateOfferCommand{
		Offering:   offering,
		Requesting: requesting,
		TTL:        ttl,
	})
}

func (w *outpostWorld) playerOffersFor(player, giving, wanting, alias string, minutes int) error {
	offer, err := w.postOffer(player, giving, wanting, time.Duration(minutes)*time.Minute)
	w.err = err
	if err == nil {
		w.offers[alias] = offer.ID
	}
	return nil
}

func (w *outpostWorld) playerPostsOffers(player string, count int) error {
	for i := 0; i < count; i++ {
		if _, err := w.postOffer(player, "wood=1", "stone=1", time.Hour); err != nil {
			return fmt.Errorf("offer %d of %d: %w", i+1, count, err)
		}
	}
	return nil
}

func (w *outpostWorld) playerTriesToOffer(player, giving, wanting string) error {
	_, w.err = w.postOffer(player, giving, wanting, time.Hour)
	return nil
}

func (w *outpostWorld) playerAccepts(player, alias string) error {
	id, err := w.offerID(alias)
	if err != nil {
		return err
	}
	resp, err := mediator.SendTyped[*commands.AcceptOfferResponse](helpers.As(player), w.env.Mediator, &commands.AcceptOfferCommand{OfferID: id})
	w.err = err
	if err == nil {
		w.history[alias] = resp.History.ID
	}
	return nil
}

func (w *outpostWorld) playerCancels(player, alias string) error {
	id, err := w.offerID(alias)
	if err != nil {
		return err
	}
	_, w.err = w.env.Mediator.Send(helpers.As(player), &commands.CancelOfferCommand{OfferID: id})
	return nil
}

func (w *outpostWorld) playerRates(player, alias string, score int) error {
	id, ok := w.history[alias]
	if !ok {
		return fmt.Errorf("offer %q was never settled", alias)
	}
	_, w.err = w.env.Mediator.Send(helpers.As(player), &commands.RateTradeCommand{HistoryID: id, Score: score})
	return nil
}

func (w *outpostWorld) offerShouldBeStoredAs(alias, status string) error {
	id, err := w.offerID(alias)
	if err != nil {
		return err
	}
	offer, err := w.env.Repos.Offers.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	if offer.Status().String() != status {
		return fmt.Errorf("expected offer %s stored as %s, got %s", alias, status, offer.Status())
	}
	return nil
}

func (w *outpostWorld) activeOffersShouldNumber(player string, count int) error {
	resp, err := mediator.SendTyped[*queries.ListActiveOffersResponse](helpers.As(player), w.env.Mediator, &queries.ListActiveOffersQuery{})
	if err != nil {
		return err
	}
	if len(resp.Offers) != count {
		return fmt.Errorf("expected %d active offers, got %d", count, len(resp.Offers))
	}
	return nil
}

func (w *outpostWorld) historyShouldCarryRatings(player string, count int) error {
	resp, err := mediator.SendTyped[*queries.ListPlayerHistoryResponse](helpers.As(player), w.env.Mediator, &queries.ListPlayerHistoryQuery{})
	if err != nil {
		return err
	}
	rated := 0
	for _, trade := range resp.Trades {
		if trade.SellerRating != nil {
			rated++
		}
		if trade.BuyerRating != nil {
			rated++
		}
	}
	if rated != count {
		return fmt.Errorf("expected %d ratings in %s's history, got %d", count, player, rated)
	}
	return nil
}

func registerTradeSteps(sc *godog.ScenarioContext, w *outpostWorld) {
	sc.Step(`^player "([^"]*)" offers "([^"]*)" for "([^"]*)" as "([^"]*)" for (\d+) minutes$`, w.playerOffersFor)
	sc.Step(`^player "([^"]*)" has posted (\d+) offers$`, w.playerPostsOffers)
	sc.Step(`^player "([^"]*)" tries to offer "([^"]*)" for "([^"]*)"$`, w.playerTriesToOffer)
	sc.Step(`^player "([^"]*)" accepts "([^"]*)"$`, w.playerAccepts)
	sc.Step(`^player "([^"]*)" cancels "([^"]*)"$`, w.playerCancels)
	sc.Step(`^player "([^"]*)" rates the trade for "([^"]*)" with (\d+)$`, w.playerRates)

	sc.Step(`^offer "([^"]*)" should be stored as "([^"]*)"$`, w.offerShouldBeStoredAs)
	sc.Step(`^player "([^"]*)" should see (\d+) active offers?$`, w.activeOffersShouldNumber)
	sc.Step(`^the trade history of "([^"]*)" should carry (\d+) ratings?$`, w.historyShouldCarryRatings)
}
