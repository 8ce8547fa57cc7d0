package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/adapters/metrics"
	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// DemolishBuildingCommand removes a building permanently. Nothing is refunded.
type DemolishBuildingCommand struct {
	auth.Identified
	BuildingID string
}

// DemolishBuildingResponse identifies what was removed
type DemolishBuildingResponse struct {
	BuildingID  string
	TemplateID  string
	TerritoryID string
	// Finalized is true when the countdown had finished and Active was
	// persisted before removal
	Finalized bool
}

// DemolishBuildingHandler handles the DemolishBuilding command
type DemolishBuildingHandler struct {
	buildings  construction.BuildingRepository
	transactor shared.Transactor
	clock      shared.Clock
}

// NewDemolishBuildingHandler creates a new DemolishBuildingHandler
func NewDemolishBuildingHandler(
	buildings construction.BuildingRepository,
	transactor shared.Transactor,
	clock shared.Clock,
) *DemolishBuildingHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &DemolishBuildingHandler{
		buildings:  buildings,
		transactor: transactor,
		clock:      clock,
	}
}

// Handle executes the DemolishBuilding command
func (h *DemolishBuildingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DemolishBuildingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DemolishBuildingCommand")
	}

	resp, err := h.demolish(ctx, cmd)
	if err != nil {
		recordRejection(err)
		return nil, err
	}

	metrics.RecordBuildingDemolished(resp.TemplateID)
	return resp, nil
}

func (h *DemolishBuildingHandler) demolish(ctx context.Context, cmd *DemolishBuildingCommand) (*DemolishBuildingResponse, error) {
	playerID, err := auth.PlayerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	current, err := h.buildings.FindByID(ctx, cmd.BuildingID)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(current, playerID, "demolish"); err != nil {
		return nil, err
	}

	_, finalized, err := FinalizeIfDue(ctx, h.transactor, h.buildings, cmd.BuildingID, h.clock.Now(), TriggerDemolish)
	if err != nil {
		return nil, err
	}

	var resp *DemolishBuildingResponse
	err = h.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		b, err := h.buildings.FindByIDForUpdate(ctx, cmd.BuildingID)
		if err != nil {
			return err
		}
		if err := h.buildings.Delete(ctx, b.ID()); err != nil {
			return err
		}
		resp = &DemolishBuildingResponse{
			BuildingID:  b.ID(),
			TemplateID:  b.TemplateID(),
			TerritoryID: b.TerritoryID(),
			Finalized:   finalized,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
