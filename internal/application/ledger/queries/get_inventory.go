package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// GetInventoryQuery returns the caller's current holdings
type GetInventoryQuery struct {
	auth.Identified
}

// GetInventoryResponse lists positive holdings only
type GetInventoryResponse struct {
	PlayerID  string
	Inventory shared.ResourceQuantity
}

// GetInventoryHandler handles the GetInventory query
type GetInventoryHandler struct {
	ledger *ledger.ResourceLedger
}

// NewGetInventoryHandler creates a new GetInventoryHandler
func NewGetInventoryHandler(resourceLedger *ledger.ResourceLedger) *GetInventoryHandler {
	return &GetInventoryHandler{ledger: resourceLedger}
}

// Handle executes the GetInventory query
func (h *GetInventoryHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetInventoryQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetInventoryQuery")
	}

	playerID, err := auth.PlayerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	inventory, err := h.ledger.Inventory(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return &GetInventoryResponse{
		PlayerID:  playerID.String(),
		Inventory: inventory,
	}, nil
}
