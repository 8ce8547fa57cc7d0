package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/adapters/metrics"
	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/construction/dtos"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/validation"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// StartConstructionCommand places a new building of TemplateID in a territory
type StartConstructionCommand struct {
	auth.Identified
	TemplateID  string                 `json:"template_id" validate:"required"`
	TerritoryID string                 `json:"territory_id" validate:"required"`
	Location    *construction.Location `json:"location"`
}

// StartConstructionHandler handles the StartConstruction command.
//
// The cap count, the affordability check, the deduction and the insert run
// in one transaction holding the territory lock, so two concurrent starts
// can neither both pass the cap nor both spend the same resources.
type StartConstructionHandler struct {
	buildings  construction.BuildingRepository
	ledger     *ledger.ResourceLedger
	catalog    catalog.Catalog
	transactor shared.Transactor
	clock      shared.Clock
}

// NewStartConstructionHandler creates a new StartConstructionHandler
func NewStartConstructionHandler(
	buildings construction.BuildingRepository,
	resourceLedger *ledger.ResourceLedger,
	cat catalog.Catalog,
	transactor shared.Transactor,
	clock shared.Clock,
) *StartConstructionHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &StartConstructionHandler{
		buildings:  buildings,
		ledger:     resourceLedger,
		catalog:    cat,
		transactor: transactor,
		clock:      clock,
	}
}

// Handle executes the StartConstruction command. The response is a *dtos.BuildingDTO.
func (h *StartConstructionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*StartConstructionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StartConstructionCommand")
	}

	building, err := h.start(ctx, cmd)
	if err != nil {
		recordRejection(err)
		return nil, err
	}

	metrics.RecordBuildingStarted(building.TemplateID())
	return dtos.FromBuilding(building, building.StartedAt()), nil
}

func (h *StartConstructionHandler) start(ctx context.Context, cmd *StartConstructionCommand) (*construction.PlayerBuilding, error) {
	playerID, err := auth.PlayerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	template, err := h.catalog.Template(cmd.TemplateID)
	if err != nil {
		return nil, err
	}
	cost := template.RequiredResources()

	var building *construction.PlayerBuilding
	err = h.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := h.buildings.LockTerritory(ctx, cmd.TerritoryID); err != nil {
			return err
		}

		count, err := h.buildings.CountByTerritoryAndTemplate(ctx, cmd.TerritoryID, template.ID())
		if err != nil {
			return err
		}
		if count >= template.MaxPerTerritory() {
			return &construction.MaxBuildingsReachedError{
				TemplateID:  template.ID(),
				TerritoryID: cmd.TerritoryID,
				Limit:       template.MaxPerTerritory(),
			}
		}

		check, err := h.ledger.Has(ctx, playerID, cost)
		if err != nil {
			return err
		}
		if !check.Sufficient {
			return &ledger.InsufficientResourcesError{PlayerID: playerID.String(), Missing: check.Missing}
		}

		b, err := construction.NewPlayerBuilding(playerID, template, cmd.TerritoryID, cmd.Location, h.clock.Now())
		if err != nil {
			return err
		}

		// Deduct re-validates under the account lock
		ref := ledger.Reference{Reason: ledger.ReasonConstruction, ID: b.ID()}
		if err := h.ledger.Deduct(ctx, playerID, cost, ref); err != nil {
			return err
		}
		if err := h.buildings.Create(ctx, b); err != nil {
			return err
		}
		building = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return building, nil
}
