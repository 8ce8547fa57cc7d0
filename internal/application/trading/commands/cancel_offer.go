package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/adapters/metrics"
	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/trading/dtos"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

// CancelOfferCommand withdraws the caller's Active offer
type CancelOfferCommand struct {
	auth.Identified
	OfferID string
}

// CancelOfferHandler handles the CancelOffer command
type CancelOfferHandler struct {
	offers     trading.OfferRepository
	transactor shared.Transactor
	clock      shared.Clock
}

// NewCancelOfferHandler creates a new CancelOfferHandler
func NewCancelOfferHandler(offers trading.OfferRepository, transactor shared.Transactor, clock shared.Clock) *CancelOfferHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CancelOfferHandler{offers: offers, transactor: transactor, clock: clock}
}

// Handle executes the CancelOffer command. The response is a *dtos.OfferDTO.
func (h *CancelOfferHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CancelOfferCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CancelOfferCommand")
	}

	requesterID, err := auth.PlayerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	var offer *trading.TradeOffer
	err = h.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := h.offers.FindByID(ctx, cmd.OfferID)
		if err != nil {
			return err
		}
		if err := o.Cancel(requesterID, now); err != nil {
			return err
		}
		won, err := h.offers.TransitionFromActive(ctx, o)
		if err != nil {
			return err
		}
		if !won {
			return notActive(ctx, h.offers, cmd.OfferID)
		}
		offer = o
		return nil
	})
	if err != nil {
		// A stale Active offer is reported expired; persist what the caller saw
		var inactive *trading.OfferNotActiveError
		if errors.As(err, &inactive) && inactive.Status == trading.OfferStatusExpired {
			if _, expireErr := PersistExpiry(ctx, h.transactor, h.offers, cmd.OfferID, now); expireErr != nil {
				return nil, expireErr
			}
		}
		return nil, err
	}

	metrics.RecordOfferTransition(trading.OfferStatusCancelled.String(), 1)
	return dtos.FromOffer(offer, now), nil
}
