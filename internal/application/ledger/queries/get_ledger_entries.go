package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
)

const (
	defaultEntryLimit = 50
	maxEntryLimit     = 500
)

// GetLedgerEntriesQuery returns the caller's most recent item movements
type GetLedgerEntriesQuery struct {
	auth.Identified
	Limit int
}

// GetLedgerEntriesResponse lists entries newest first
type GetLedgerEntriesResponse struct {
	Entries []*EntryDTO
}

// EntryDTO is a journal line for display
type EntryDTO struct {
	ID          string
	ItemID      string
	Delta       int
	Reason      string
	ReferenceID string
	CreatedAt   time.Time
}

// GetLedgerEntriesHandler handles the GetLedgerEntries query
type GetLedgerEntriesHandler struct {
	ledger *ledger.ResourceLedger
}

// NewGetLedgerEntriesHandler creates a new GetLedgerEntriesHandler
func NewGetLedgerEntriesHandler(resourceLedger *ledger.ResourceLedger) *GetLedgerEntriesHandler {
	return &GetLedgerEntriesHandler{ledger: resourceLedger}
}

// Handle executes the GetLedgerEntries query
func (h *GetLedgerEntriesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetLedgerEntriesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetLedgerEntriesQuery")
	}

	playerID, err := auth.PlayerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultEntryLimit
	}
	if limit > maxEntryLimit {
		limit = maxEntryLimit
	}

	entries, err := h.ledger.Entries(ctx, playerID, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]*EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, &EntryDTO{
			ID:          e.ID(),
			ItemID:      e.ItemID(),
			Delta:       e.Delta(),
			Reason:      e.Reason().String(),
			ReferenceID: e.ReferenceID(),
			CreatedAt:   e.CreatedAt(),
		})
	}

	return &GetLedgerEntriesResponse{Entries: dtos}, nil
}
