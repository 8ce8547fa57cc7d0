package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/trading/dtos"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

// GetTradeHistoryQuery reads one completed trade. Only its parties may see it.
type GetTradeHistoryQuery struct {
	auth.Identified
	HistoryID string
}

// GetTradeHistoryHandler handles the GetTradeHistory query
type GetTradeHistoryHandler struct {
	history trading.HistoryRepository
}

// NewGetTradeHistoryHandler creates a new GetTradeHistoryHandler
func NewGetTradeHistoryHandler(history trading.HistoryRepository) *GetTradeHistoryHandler {
	return &GetTradeHistoryHandler{history: history}
}

// Handle executes the GetTradeHistory query. The response is a *dtos.HistoryDTO.
func (h *GetTradeHistoryHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetTradeHistoryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTradeHistoryQuery")
	}

	playerID, err := auth.PlayerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	record, err := h.history.FindByID(ctx, query.HistoryID)
	if err != nil {
		return nil, err
	}
	if !record.IsParty(playerID) {
		return nil, &shared.PermissionDeniedError{PlayerID: playerID.String(), Action: "view", Resource: "trade " + record.ID()}
	}

	return dtos.FromHistory(record), nil
}
