package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/construction/dtos"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// FinalizeConstructionCommand persists Active for a building whose countdown
// finished. Calling it on an unfinished or already Active building is a no-op.
type FinalizeConstructionCommand struct {
	auth.Identified
	BuildingID string
}

// FinalizeConstructionResponse reports the building after the call
type FinalizeConstructionResponse struct {
	Building  *dtos.BuildingDTO
	Finalized bool
}

// FinalizeConstructionHandler handles the FinalizeConstruction command
type FinalizeConstructionHandler struct {
	buildings  construction.BuildingRepository
	transactor shared.Transactor
	clock      shared.Clock
}

// NewFinalizeConstructionHandler creates a new FinalizeConstructionHandler
func NewFinalizeConstructionHandler(
	buildings construction.BuildingRepository,
	transactor shared.Transactor,
	clock shared.Clock,
) *FinalizeConstructionHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &FinalizeConstructionHandler{
		buildings:  buildings,
		transactor: transactor,
		clock:      clock,
	}
}

// Handle executes the FinalizeConstruction command
func (h *FinalizeConstructionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*FinalizeConstructionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *FinalizeConstructionCommand")
	}
	if _, err := auth.PlayerIDFromContext(ctx); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	building, changed, err := FinalizeIfDue(ctx, h.transactor, h.buildings, cmd.BuildingID, now, TriggerExplicit)
	if err != nil {
		return nil, err
	}

	return &FinalizeConstructionResponse{
		Building:  dtos.FromBuilding(building, now),
		Finalized: changed,
	}, nil
}
