package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/construction/commands"
	"github.com/andrescamacho/outpost-go/internal/application/construction/dtos"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// GetBuildingQuery returns a building with its progress at the current time
type GetBuildingQuery struct {
	auth.Identified
	BuildingID string
}

// GetBuildingHandler handles the GetBuilding query
type GetBuildingHandler struct {
	buildings      construction.BuildingRepository
	transactor     shared.Transactor
	clock          shared.Clock
	finalizeOnRead bool
}

// NewGetBuildingHandler creates a new GetBuildingHandler. With finalizeOnRead
// a read that observes a finished countdown also persists Active.
func NewGetBuildingHandler(
	buildings construction.BuildingRepository,
	transactor shared.Transactor,
	clock shared.Clock,
	finalizeOnRead bool,
) *GetBuildingHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GetBuildingHandler{
		buildings:      buildings,
		transactor:     transactor,
		clock:          clock,
		finalizeOnRead: finalizeOnRead,
	}
}

// Handle executes the GetBuilding query. The response is a *dtos.BuildingDTO.
func (h *GetBuildingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetBuildingQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetBuildingQuery")
	}
	if _, err := auth.PlayerIDFromContext(ctx); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	building, err := h.buildings.FindByID(ctx, query.BuildingID)
	if err != nil {
		return nil, err
	}

	if h.finalizeOnRead && building.Status() == construction.BuildingStatusConstructing && building.Progress(now).IsComplete {
		building, _, err = commands.FinalizeIfDue(ctx, h.transactor, h.buildings, query.BuildingID, now, commands.TriggerRead)
		if err != nil {
			return nil, err
		}
	}

	return dtos.FromBuilding(building, now), nil
}
