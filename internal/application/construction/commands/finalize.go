package commands

import (
	"context"
	"errors"
	"time"

	"github.com/andrescamacho/outpost-go/internal/adapters/metrics"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// Finalization triggers reported to metrics
const (
	TriggerExplicit = "explicit"
	TriggerUpgrade  = "upgrade"
	TriggerDemolish = "demolish"
	TriggerRead     = "read"
	TriggerSweep    = "sweep"
)

// FinalizeIfDue persists Active for a Constructing building whose countdown
// finished at now. It runs in its own transaction so the completion survives
// a later failure of the operation that observed it. Returns the current
// building and whether this call changed it.
func FinalizeIfDue(
	ctx context.Context,
	transactor shared.Transactor,
	buildings construction.BuildingRepository,
	buildingID string,
	now time.Time,
	trigger string,
) (*construction.PlayerBuilding, bool, error) {
	var (
		building *construction.PlayerBuilding
		changed  bool
	)
	err := transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		b, err := buildings.FindByIDForUpdate(ctx, buildingID)
		if err != nil {
			return err
		}
		building = b
		if !b.Finalize(now) {
			return nil
		}
		changed = true
		return buildings.Update(ctx, b)
	})
	if err != nil {
		return nil, false, err
	}
	if changed {
		metrics.RecordBuildingFinalized(building.TemplateID(), trigger)
	}
	return building, changed, nil
}

func checkOwner(b *construction.PlayerBuilding, playerID shared.PlayerID, action string) error {
	if !b.IsOwnedBy(playerID) {
		return &shared.PermissionDeniedError{
			PlayerID: playerID.String(),
			Action:   action,
			Resource: "building " + b.ID(),
		}
	}
	return nil
}

// rejectionReason labels a refused request for metrics
func rejectionReason(err error) string {
	var (
		insufficient *ledger.InsufficientResourcesError
		maxBuildings *construction.MaxBuildingsReachedError
		maxLevel     *construction.MaxLevelReachedError
		notActive    *construction.NotActiveError
		notFound     *construction.BuildingNotFoundError
		noTemplate   *catalog.TemplateNotFoundError
		denied       *shared.PermissionDeniedError
		invalid      *shared.ValidationError
	)
	switch {
	case errors.As(err, &insufficient):
		return "insufficient_resources"
	case errors.As(err, &maxBuildings):
		return "max_buildings"
	case errors.As(err, &maxLevel):
		return "max_level"
	case errors.As(err, &notActive):
		return "not_active"
	case errors.As(err, &notFound), errors.As(err, &noTemplate):
		return "not_found"
	case errors.As(err, &denied):
		return "permission_denied"
	case errors.As(err, &invalid):
		return "invalid"
	default:
		return "error"
	}
}

func recordRejection(err error) {
	if err != nil {
		metrics.RecordConstructionRejected(rejectionReason(err))
	}
}
