package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/adapters/metrics"
	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/trading/dtos"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

// ListActiveOffersQuery pages through the open market, newest first
type ListActiveOffersQuery struct {
	auth.Identified
	Limit  int
	Offset int
}

// ListActiveOffersResponse never contains an offer past its deadline
type ListActiveOffersResponse struct {
	Offers []*dtos.OfferDTO
	// Expired counts stale offers this read persisted as Expired
	Expired int
}

// ListActiveOffersHandler handles the ListActiveOffers query
type ListActiveOffersHandler struct {
	offers     trading.OfferRepository
	transactor shared.Transactor
	clock      shared.Clock
	limit      int
}

// NewListActiveOffersHandler creates a new ListActiveOffersHandler. limit is
// the default and maximum page size.
func NewListActiveOffersHandler(offers trading.OfferRepository, transactor shared.Transactor, clock shared.Clock, limit int) *ListActiveOffersHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if limit <= 0 {
		limit = 50
	}
	return &ListActiveOffersHandler{offers: offers, transactor: transactor, clock: clock, limit: limit}
}

// Handle executes the ListActiveOffers query
func (h *ListActiveOffersHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListActiveOffersQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListActiveOffersQuery")
	}
	if _, err := auth.PlayerIDFromContext(ctx); err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 || limit > h.limit {
		limit = h.limit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	now := h.clock.Now()

	var expired int
	err := h.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := h.offers.ExpireDue(ctx, now, limit)
		expired = n
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordOfferTransition(trading.OfferStatusExpired.String(), expired)

	offers, err := h.offers.FindActive(ctx, now, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]*dtos.OfferDTO, 0, len(offers))
	for _, o := range offers {
		out = append(out, dtos.FromOffer(o, now))
	}
	return &ListActiveOffersResponse{Offers: out, Expired: expired}, nil
}
