package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/construction/dtos"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// ListTerritoryBuildingsQuery lists every building in a territory
type ListTerritoryBuildingsQuery struct {
	auth.Identified
	TerritoryID string
}

// ListTerritoryBuildingsResponse is ordered oldest first
type ListTerritoryBuildingsResponse struct {
	TerritoryID string
	Buildings   []*dtos.BuildingDTO
}

// ListTerritoryBuildingsHandler handles the ListTerritoryBuildings query
type ListTerritoryBuildingsHandler struct {
	buildings construction.BuildingRepository
	clock     shared.Clock
}

// NewListTerritoryBuildingsHandler creates a new ListTerritoryBuildingsHandler
func NewListTerritoryBuildingsHandler(buildings construction.BuildingRepository, clock shared.Clock) *ListTerritoryBuildingsHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ListTerritoryBuildingsHandler{buildings: buildings, clock: clock}
}

// Handle executes the ListTerritoryBuildings query
func (h *ListTerritoryBuildingsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListTerritoryBuildingsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListTerritoryBuildingsQuery")
	}
	if _, err := auth.PlayerIDFromContext(ctx); err != nil {
		return nil, err
	}
	if query.TerritoryID == "" {
		return nil, shared.NewValidationError("territory_id", "is required")
	}

	buildings, err := h.buildings.FindByTerritory(ctx, query.TerritoryID)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	out := make([]*dtos.BuildingDTO, 0, len(buildings))
	for _, b := range buildings {
		out = append(out, dtos.FromBuilding(b, now))
	}

	return &ListTerritoryBuildingsResponse{TerritoryID: query.TerritoryID, Buildings: out}, nil
}
