package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/outpost-go/internal/adapters/metrics"
	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/trading/dtos"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

// AcceptOfferCommand takes an Active offer on behalf of the caller
type AcceptOfferCommand struct {
	auth.Identified
	OfferID string
}

// AcceptOfferResponse carries the completed offer and its history record
type AcceptOfferResponse struct {
	Offer   *dtos.OfferDTO
	History *dtos.HistoryDTO
}

// AcceptOfferHandler handles the AcceptOffer command.
//
// Both inventories, the offer and the history row change in one transaction.
// The conditional ACTIVE -> COMPLETED write picks exactly one winner among
// concurrent acceptances; the loser observes the new status and fails with
// OfferNotActive.
type AcceptOfferHandler struct {
	offers     trading.OfferRepository
	history    trading.HistoryRepository
	ledger     *ledger.ResourceLedger
	transactor shared.Transactor
	clock      shared.Clock
}

// NewAcceptOfferHandler creates a new AcceptOfferHandler
func NewAcceptOfferHandler(
	offers trading.OfferRepository,
	history trading.HistoryRepository,
	resourceLedger *ledger.ResourceLedger,
	transactor shared.Transactor,
	clock shared.Clock,
) *AcceptOfferHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &AcceptOfferHandler{
		offers:     offers,
		history:    history,
		ledger:     resourceLedger,
		transactor: transactor,
		clock:      clock,
	}
}

// Handle executes the AcceptOffer command
func (h *AcceptOfferHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AcceptOfferCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AcceptOfferCommand")
	}

	acceptorID, err := auth.PlayerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	resp, err := h.accept(ctx, cmd.OfferID, acceptorID, now)
	if err != nil {
		var expired *trading.OfferExpiredError
		if errors.As(err, &expired) {
			if _, expireErr := PersistExpiry(ctx, h.transactor, h.offers, cmd.OfferID, now); expireErr != nil {
				return nil, expireErr
			}
		}
		metrics.RecordSettlementRejected(settlementRejection(err))
		return nil, err
	}

	metrics.RecordOfferTransition(trading.OfferStatusCompleted.String(), 1)
	metrics.RecordSettlement(resp.moved)
	return resp.AcceptOfferResponse, nil
}

type acceptResult struct {
	*AcceptOfferResponse
	moved int
}

func (h *AcceptOfferHandler) accept(ctx context.Context, offerID string, acceptorID shared.PlayerID, now time.Time) (*acceptResult, error) {
	var result *acceptResult
	err := h.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		offer, err := h.offers.FindByID(ctx, offerID)
		if err != nil {
			return err
		}
		if err := offer.CheckAcceptable(acceptorID, now); err != nil {
			return err
		}

		ownerID := offer.OwnerID()
		ownerGives := offer.Offering().Totals()
		acceptorGives := offer.Requesting().Totals()

		if err := h.checkHoldings(ctx, offer, acceptorID, acceptorGives, ownerGives); err != nil {
			return err
		}

		if err := offer.Complete(acceptorID, now); err != nil {
			return err
		}
		won, err := h.offers.TransitionFromActive(ctx, offer)
		if err != nil {
			return err
		}
		if !won {
			return notActive(ctx, h.offers, offerID)
		}

		ref := ledger.Reference{Reason: ledger.ReasonTrade, ID: offer.ID()}
		if err := h.ledger.Exchange(ctx, ownerID, ownerGives, acceptorID, acceptorGives, ref); err != nil {
			return mapShortfall(err, offer, acceptorID)
		}

		record, err := trading.NewTradeHistory(offer)
		if err != nil {
			return err
		}
		if err := h.history.Create(ctx, record); err != nil {
			return err
		}

		result = &acceptResult{
			AcceptOfferResponse: &AcceptOfferResponse{
				Offer:   dtos.FromOffer(offer, now),
				History: dtos.FromHistory(record),
			},
			moved: ownerGives.Total() + acceptorGives.Total(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// checkHoldings reports the acceptor's shortfall before the owner's
func (h *AcceptOfferHandler) checkHoldings(
	ctx context.Context,
	offer *trading.TradeOffer,
	acceptorID shared.PlayerID,
	acceptorGives, ownerGives shared.ResourceQuantity,
) error {
	buyer, err := h.ledger.Has(ctx, acceptorID, acceptorGives)
	if err != nil {
		return err
	}
	if !buyer.Sufficient {
		return &trading.InsufficientItemsError{PlayerID: acceptorID.String(), Missing: buyer.Missing}
	}

	seller, err := h.ledger.Has(ctx, offer.OwnerID(), ownerGives)
	if err != nil {
		return err
	}
	if !seller.Sufficient {
		return &trading.InventoryItemNotFoundError{OfferID: offer.ID(), OwnerID: offer.OwnerID().String(), Missing: seller.Missing}
	}
	return nil
}

// mapShortfall converts a ledger shortfall into the trade error for the side
// that could not pay
func mapShortfall(err error, offer *trading.TradeOffer, acceptorID shared.PlayerID) error {
	var insufficient *ledger.InsufficientResourcesError
	if !errors.As(err, &insufficient) {
		return err
	}
	if insufficient.PlayerID == acceptorID.String() {
		return &trading.InsufficientItemsError{PlayerID: insufficient.PlayerID, Missing: insufficient.Missing}
	}
	return &trading.InventoryItemNotFoundError{OfferID: offer.ID(), OwnerID: insufficient.PlayerID, Missing: insufficient.Missing}
}
