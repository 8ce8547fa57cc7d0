package trading_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

var (
	t0     = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	owner  = shared.MustNewPlayerID("owner")
	buyer  = shared.MustNewPlayerID("buyer")
	others = shared.MustNewPlayerID("stranger")
)

func newOffer(t *testing.T) *trading.TradeOffer {
	t.Helper()
	offer, err := trading.NewTradeOffer(
		owner,
		trading.TradeItems{{ItemID: "wood", Quantity: 30}},
		trading.TradeItems{{ItemID: "scrap_metal", Quantity: 10}},
		"  fair deal ",
		t0,
		time.Hour,
	)
	require.NoError(t, err)
	return offer
}

func TestNewTradeOffer(t *testing.T) {
	offer := newOffer(t)

	assert.Equal(t, trading.OfferStatusActive, offer.Status())
	assert.Equal(t, t0.Add(time.Hour), offer.ExpiresAt())
	assert.Equal(t, "fair deal", offer.Message())
	assert.Nil(t, offer.CompletedAt())
	assert.Nil(t, offer.CompletedBy())
}

func TestNewTradeOffer_Validation(t *testing.T) {
	_, err := trading.NewTradeOffer(owner, nil, trading.TradeItems{{ItemID: "wood", Quantity: 1}}, "", t0, time.Hour)
	assert.Error(t, err)

	_, err = trading.NewTradeOffer(owner, trading.TradeItems{{ItemID: "wood", Quantity: 0}}, trading.TradeItems{{ItemID: "wood", Quantity: 1}}, "", t0, time.Hour)
	assert.Error(t, err)

	_, err = trading.NewTradeOffer(owner, trading.TradeItems{{ItemID: "wood", Quantity: 1}}, trading.TradeItems{{ItemID: "cloth", Quantity: 1}}, "", t0, 0)
	assert.Error(t, err)
}

func TestComplete(t *testing.T) {
	offer := newOffer(t)
	at := t0.Add(10 * time.Second)

	require.NoError(t, offer.Complete(buyer, at))

	assert.Equal(t, trading.OfferStatusCompleted, offer.Status())
	require.NotNil(t, offer.CompletedBy())
	assert.True(t, offer.CompletedBy().Equals(buyer))
	assert.Equal(t, at, *offer.CompletedAt())

	var notActive *trading.OfferNotActiveError
	assert.ErrorAs(t, offer.Complete(others, at), &notActive)
	assert.ErrorAs(t, offer.Cancel(owner, at), &notActive)
}

func TestComplete_OwnOffer(t *testing.T) {
	offer := newOffer(t)

	var own *trading.CannotAcceptOwnOfferError
	assert.ErrorAs(t, offer.Complete(owner, t0), &own)
	assert.Equal(t, trading.OfferStatusActive, offer.Status())
}

func TestComplete_PastDeadline(t *testing.T) {
	offer := newOffer(t)

	var expired *trading.OfferExpiredError
	assert.ErrorAs(t, offer.Complete(buyer, t0.Add(3601*time.Second)), &expired)

	// Exactly at the deadline the offer is still acceptable
	assert.NoError(t, offer.CheckAcceptable(buyer, t0.Add(time.Hour)))
}

func TestObservedStatusAndExpire(t *testing.T) {
	offer := newOffer(t)
	late := t0.Add(2 * time.Hour)

	assert.Equal(t, trading.OfferStatusActive, offer.ObservedStatus(t0))
	assert.Equal(t, trading.OfferStatusExpired, offer.ObservedStatus(late))
	assert.Equal(t, trading.OfferStatusActive, offer.Status())

	assert.False(t, offer.Expire(t0))
	assert.True(t, offer.Expire(late))
	assert.Equal(t, trading.OfferStatusExpired, offer.Status())
	assert.False(t, offer.Expire(late))

	var expired *trading.OfferExpiredError
	assert.ErrorAs(t, offer.Complete(buyer, late), &expired)
}

func TestCancel(t *testing.T) {
	offer := newOffer(t)

	var denied *shared.PermissionDeniedError
	assert.ErrorAs(t, offer.Cancel(buyer, t0), &denied)

	require.NoError(t, offer.Cancel(owner, t0))
	assert.Equal(t, trading.OfferStatusCancelled, offer.Status())

	var notActive *trading.OfferNotActiveError
	assert.ErrorAs(t, offer.Cancel(owner, t0), &notActive)
}

func TestTradeItems_Totals(t *testing.T) {
	items := trading.TradeItems{
		{ItemID: "wood", Quantity: 5, Quality: "rough"},
		{ItemID: "wood", Quantity: 3, Quality: "fine"},
		{ItemID: "cloth", Quantity: 1},
	}
	assert.Equal(t, shared.ResourceQuantity{"wood": 8, "cloth": 1}, items.Totals())
}
