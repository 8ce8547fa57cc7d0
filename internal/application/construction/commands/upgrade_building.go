package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/adapters/metrics"
	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/construction/dtos"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// UpgradeBuildingCommand raises an Active building's level by one
type UpgradeBuildingCommand struct {
	auth.Identified
	BuildingID string
}

// UpgradeBuildingResponse reports the new level and what it cost
type UpgradeBuildingResponse struct {
	Building *dtos.BuildingDTO
	Cost     shared.ResourceQuantity
}

// UpgradeBuildingHandler handles the UpgradeBuilding command
type UpgradeBuildingHandler struct {
	buildings  construction.BuildingRepository
	ledger     *ledger.ResourceLedger
	catalog    catalog.Catalog
	transactor shared.Transactor
	clock      shared.Clock
}

// NewUpgradeBuildingHandler creates a new UpgradeBuildingHandler
func NewUpgradeBuildingHandler(
	buildings construction.BuildingRepository,
	resourceLedger *ledger.ResourceLedger,
	cat catalog.Catalog,
	transactor shared.Transactor,
	clock shared.Clock,
) *UpgradeBuildingHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &UpgradeBuildingHandler{
		buildings:  buildings,
		ledger:     resourceLedger,
		catalog:    cat,
		transactor: transactor,
		clock:      clock,
	}
}

// Handle executes the UpgradeBuilding command
func (h *UpgradeBuildingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*UpgradeBuildingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UpgradeBuildingCommand")
	}

	resp, err := h.upgrade(ctx, cmd)
	if err != nil {
		recordRejection(err)
		return nil, err
	}

	metrics.RecordBuildingUpgraded(resp.Building.TemplateID, resp.Building.Level)
	return resp, nil
}

func (h *UpgradeBuildingHandler) upgrade(ctx context.Context, cmd *UpgradeBuildingCommand) (*UpgradeBuildingResponse, error) {
	playerID, err := auth.PlayerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	current, err := h.buildings.FindByID(ctx, cmd.BuildingID)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(current, playerID, "upgrade"); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	if _, _, err := FinalizeIfDue(ctx, h.transactor, h.buildings, cmd.BuildingID, now, TriggerUpgrade); err != nil {
		return nil, err
	}

	var (
		building *construction.PlayerBuilding
		cost     shared.ResourceQuantity
	)
	err = h.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		b, err := h.buildings.FindByIDForUpdate(ctx, cmd.BuildingID)
		if err != nil {
			return err
		}
		template, err := h.catalog.Template(b.TemplateID())
		if err != nil {
			return err
		}

		if err := b.Upgrade(template.MaxLevel()); err != nil {
			return err
		}

		cost = template.UpgradeCost(b.Level())
		ref := ledger.Reference{Reason: ledger.ReasonUpgrade, ID: b.ID()}
		if err := h.ledger.Deduct(ctx, playerID, cost, ref); err != nil {
			return err
		}
		if err := h.buildings.Update(ctx, b); err != nil {
			return err
		}
		building = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpgradeBuildingResponse{
		Building: dtos.FromBuilding(building, now),
		Cost:     cost,
	}, nil
}
