package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/trading/dtos"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

// ListPlayerHistoryQuery lists the caller's completed trades, newest first
type ListPlayerHistoryQuery struct {
	auth.Identified
	Limit int
}

// ListPlayerHistoryResponse holds the caller's trades
type ListPlayerHistoryResponse struct {
	Trades []*dtos.HistoryDTO
}

// ListPlayerHistoryHandler handles the ListPlayerHistory query
type ListPlayerHistoryHandler struct {
	history trading.HistoryRepository
	limit   int
}

// NewListPlayerHistoryHandler creates a new ListPlayerHistoryHandler
func NewListPlayerHistoryHandler(history trading.HistoryRepository, limit int) *ListPlayerHistoryHandler {
	if limit <= 0 {
		limit = 50
	}
	return &ListPlayerHistoryHandler{history: history, limit: limit}
}

// Handle executes the ListPlayerHistory query
func (h *ListPlayerHistoryHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListPlayerHistoryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListPlayerHistoryQuery")
	}

	playerID, err := auth.PlayerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 || limit > h.limit {
		limit = h.limit
	}

	records, err := h.history.FindByPlayer(ctx, playerID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*dtos.HistoryDTO, 0, len(records))
	for _, r := range records {
		out = append(out, dtos.FromHistory(r))
	}
	return &ListPlayerHistoryResponse{Trades: out}, nil
}
