package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/trading/commands"
	"github.com/andrescamacho/outpost-go/internal/application/trading/dtos"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

// GetOfferQuery reads one offer. A stale Active offer is persisted Expired
// before it is returned.
type GetOfferQuery struct {
	auth.Identified
	OfferID string
}

// GetOfferHandler handles the GetOffer query
type GetOfferHandler struct {
	offers     trading.OfferRepository
	transactor shared.Transactor
	clock      shared.Clock
}

// NewGetOfferHandler creates a new GetOfferHandler
func NewGetOfferHandler(offers trading.OfferRepository, transactor shared.Transactor, clock shared.Clock) *GetOfferHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GetOfferHandler{offers: offers, transactor: transactor, clock: clock}
}

// Handle executes the GetOffer query. The response is a *dtos.OfferDTO.
func (h *GetOfferHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetOfferQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetOfferQuery")
	}
	if _, err := auth.PlayerIDFromContext(ctx); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	offer, err := h.offers.FindByID(ctx, query.OfferID)
	if err != nil {
		return nil, err
	}

	if offer.Status() == trading.OfferStatusActive && offer.IsPastDeadline(now) {
		if _, err := commands.PersistExpiry(ctx, h.transactor, h.offers, offer.ID(), now); err != nil {
			return nil, err
		}
		if offer, err = h.offers.FindByID(ctx, query.OfferID); err != nil {
			return nil, err
		}
	}

	return dtos.FromOffer(offer, now), nil
}
