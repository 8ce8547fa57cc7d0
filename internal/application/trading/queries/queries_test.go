package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/trading/commands"
	"github.com/andrescamacho/outpost-go/internal/application/trading/dtos"
	"github.com/andrescamacho/outpost-go/internal/application/trading/queries"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
	"github.com/andrescamacho/outpost-go/test/helpers"
)

func post(t *testing.T, env *helpers.Env, owner string, ttl time.Duration) *dtos.OfferDTO {
	t.Helper()
	offer, err := mediator.SendTyped[*dtos.OfferDTO](helpers.As(owner), env.Mediator, &commands.CreateOfferCommand{
		Offering:   []dtos.TradeItemDTO{{ItemID: "wood", Quantity: 5}},
		Requesting: []dtos.TradeItemDTO{{ItemID: "stone", Quantity: 5, Quality: "polished"}},
		TTL:        ttl,
	})
	require.NoError(t, err)
	return offer
}

func settle(t *testing.T, env *helpers.Env) *dtos.HistoryDTO {
	t.Helper()
	env.Grant(t, "seller", map[string]int{"wood": 5})
	env.Grant(t, "buyer", map[string]int{"stone": 5})
	offer := post(t, env, "seller", time.Hour)

	resp, err := mediator.SendTyped[*commands.AcceptOfferResponse](helpers.As("buyer"), env.Mediator, &commands.AcceptOfferCommand{OfferID: offer.ID})
	require.NoError(t, err)
	return resp.History
}

func TestListActiveOffers_NeverShowsStaleOffers(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "seller", map[string]int{"wood": 10})

	short := post(t, env, "seller", time.Minute)
	long := post(t, env, "seller", time.Hour)

	list := func() *queries.ListActiveOffersResponse {
		resp, err := mediator.SendTyped[*queries.ListActiveOffersResponse](helpers.As("reader"), env.Mediator, &queries.ListActiveOffersQuery{})
		require.NoError(t, err)
		return resp
	}

	before := list()
	require.Len(t, before.Offers, 2)
	assert.Equal(t, 0, before.Expired)

	env.Clock.Advance(2 * time.Minute)
	after := list()
	require.Len(t, after.Offers, 1)
	assert.Equal(t, long.ID, after.Offers[0].ID)
	assert.Equal(t, "ACTIVE", after.Offers[0].Status)
	assert.Equal(t, 1, after.Expired)

	stored, err := env.Repos.Offers.FindByID(context.Background(), short.ID)
	require.NoError(t, err)
	assert.Equal(t, trading.OfferStatusExpired, stored.Status())
}

func TestGetOffer_PreservesLineOrderAndQuality(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "seller", map[string]int{"wood": 5})
	offer := post(t, env, "seller", time.Hour)

	got, err := mediator.SendTyped[*dtos.OfferDTO](helpers.As("reader"), env.Mediator, &queries.GetOfferQuery{OfferID: offer.ID})
	require.NoError(t, err)
	assert.Equal(t, offer.Offering, got.Offering)
	assert.Equal(t, []dtos.TradeItemDTO{{ItemID: "stone", Quantity: 5, Quality: "polished"}}, got.Requesting)

	_, err = env.Mediator.Send(helpers.As("reader"), &queries.GetOfferQuery{OfferID: "missing"})
	var notFound *trading.OfferNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestTradeHistory_VisibleToPartiesOnly(t *testing.T) {
	env := helpers.NewEnv(t)
	history := settle(t, env)

	for _, party := range []string{"seller", "buyer"} {
		got, err := mediator.SendTyped[*dtos.HistoryDTO](helpers.As(party), env.Mediator, &queries.GetTradeHistoryQuery{HistoryID: history.ID})
		require.NoError(t, err)
		assert.Equal(t, history.OfferID, got.OfferID)

		list, err := mediator.SendTyped[*queries.ListPlayerHistoryResponse](helpers.As(party), env.Mediator, &queries.ListPlayerHistoryQuery{})
		require.NoError(t, err)
		require.Len(t, list.Trades, 1)
		assert.Equal(t, history.ID, list.Trades[0].ID)
	}

	_, err := env.Mediator.Send(helpers.As("stranger"), &queries.GetTradeHistoryQuery{HistoryID: history.ID})
	var denied *shared.PermissionDeniedError
	assert.ErrorAs(t, err, &denied)

	list, err := mediator.SendTyped[*queries.ListPlayerHistoryResponse](helpers.As("stranger"), env.Mediator, &queries.ListPlayerHistoryQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Trades)
}

func TestRateTrade_OncePerDirection(t *testing.T) {
	env := helpers.NewEnv(t)
	history := settle(t, env)

	rate := func(player string, score int) (*commands.RateTradeResponse, error) {
		return mediator.SendTyped[*commands.RateTradeResponse](helpers.As(player), env.Mediator, &commands.RateTradeCommand{
			HistoryID: history.ID,
			Score:     score,
			Comment:   "smooth",
		})
	}

	resp, err := rate("buyer", 5)
	require.NoError(t, err)
	assert.Equal(t, string(trading.RoleBuyer), resp.Role)

	_, err = rate("buyer", 1)
	var already *trading.AlreadyRatedError
	require.ErrorAs(t, err, &already)

	_, err = rate("seller", 4)
	require.NoError(t, err)

	_, err = rate("stranger", 3)
	var denied *shared.PermissionDeniedError
	assert.ErrorAs(t, err, &denied)

	got, err := mediator.SendTyped[*dtos.HistoryDTO](helpers.As("seller"), env.Mediator, &queries.GetTradeHistoryQuery{HistoryID: history.ID})
	require.NoError(t, err)
	require.NotNil(t, got.BuyerRating)
	require.NotNil(t, got.SellerRating)
	assert.Equal(t, 5, got.BuyerRating.Score)
	assert.Equal(t, 4, got.SellerRating.Score)
	assert.Equal(t, "smooth", got.BuyerRating.Comment)

	_, err = env.Mediator.Send(helpers.As("buyer"), &commands.RateTradeCommand{HistoryID: "missing", Score: 3})
	var notFound *trading.HistoryNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
