package construction

import (
	"context"
	"time"
)

// BuildingRepository defines persistence operations for player buildings
type BuildingRepository interface {
	Create(ctx context.Context, building *PlayerBuilding) error

	// Update saves status, level and completion time
	Update(ctx context.Context, building *PlayerBuilding) error

	Delete(ctx context.Context, id string) error

	// FindByID returns *BuildingNotFoundError when absent
	FindByID(ctx context.Context, id string) (*PlayerBuilding, error)

	// FindByIDForUpdate is FindByID plus an exclusive row lock held until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id string) (*PlayerBuilding, error)

	// FindByTerritory lists buildings in a territory, oldest first
	FindByTerritory(ctx context.Context, territoryID string) ([]*PlayerBuilding, error)

	CountByTerritoryAndTemplate(ctx context.Context, territoryID, templateID string) (int, error)

	// FindDueForCompletion lists Constructing buildings whose countdown
	// finished at or before now
	FindDueForCompletion(ctx context.Context, now time.Time, limit int) ([]*PlayerBuilding, error)

	// LockTerritory serializes cap checks for a territory until the
	// surrounding transaction ends
	LockTerritory(ctx context.Context, territoryID string) error
}
