package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// GormBuildingRepository implements construction.BuildingRepository using GORM
type GormBuildingRepository struct {
	db *gorm.DB
}

// NewGormBuildingRepository creates a new GORM building repository
func NewGormBuildingRepository(db *gorm.DB) *GormBuildingRepository {
	return &GormBuildingRepository{db: db}
}

var _ construction.BuildingRepository = (*GormBuildingRepository)(nil)

// Create persists a new building
func (r *GormBuildingRepository) Create(ctx context.Context, building *construction.PlayerBuilding) error {
	model := r.buildingToModel(building)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return shared.NewStorageError("create building", err)
	}
	return nil
}

// Update saves the mutable columns: status, level and completion time
func (r *GormBuildingRepository) Update(ctx context.Context, building *construction.PlayerBuilding) error {
	result := conn(ctx, r.db).
		Model(&BuildingModel{}).
		Where("id = ?", building.ID()).
		Updates(map[string]interface{}{
			"status":       string(building.Status()),
			"level":        building.Level(),
			"completed_at": building.CompletedAt(),
		})
	if result.Error != nil {
		return shared.NewStorageError("update building", result.Error)
	}
	if result.RowsAffected == 0 {
		return &construction.BuildingNotFoundError{BuildingID: building.ID()}
	}
	return nil
}

// Delete removes a building
func (r *GormBuildingRepository) Delete(ctx context.Context, id string) error {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&BuildingModel{})
	if result.Error != nil {
		return shared.NewStorageError("delete building", result.Error)
	}
	if result.RowsAffected == 0 {
		return &construction.BuildingNotFoundError{BuildingID: id}
	}
	return nil
}

// FindByID retrieves a building by ID
func (r *GormBuildingRepository) FindByID(ctx context.Context, id string) (*construction.PlayerBuilding, error) {
	return r.find(conn(ctx, r.db), id)
}

// FindByIDForUpdate retrieves a building and locks its row
func (r *GormBuildingRepository) FindByIDForUpdate(ctx context.Context, id string) (*construction.PlayerBuilding, error) {
	return r.find(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormBuildingRepository) find(db *gorm.DB, id string) (*construction.PlayerBuilding, error) {
	var model BuildingModel
	result := db.Where("id = ?", id).Take(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &construction.BuildingNotFoundError{BuildingID: id}
		}
		return nil, shared.NewStorageError("find building", result.Error)
	}
	return r.modelToBuilding(&model)
}

// FindByTerritory lists buildings in a territory, oldest first
func (r *GormBuildingRepository) FindByTerritory(ctx context.Context, territoryID string) ([]*construction.PlayerBuilding, error) {
	var models []BuildingModel
	result := conn(ctx, r.db).
		Where("territory_id = ?", territoryID).
		Order("started_at, id").
		Find(&models)
	if result.Error != nil {
		return nil, shared.NewStorageError("find territory buildings", result.Error)
	}
	return r.modelsToBuildings(models)
}

// CountByTerritoryAndTemplate counts every building of a template in a
// territory, whatever its status
func (r *GormBuildingRepository) CountByTerritoryAndTemplate(ctx context.Context, territoryID, templateID string) (int, error) {
	var count int64
	result := conn(ctx, r.db).
		Model(&BuildingModel{}).
		Where("territory_id = ? AND template_id = ?", territoryID, templateID).
		Count(&count)
	if result.Error != nil {
		return 0, shared.NewStorageError("count buildings", result.Error)
	}
	return int(count), nil
}

// FindDueForCompletion lists Constructing buildings with completes_at <= now
func (r *GormBuildingRepository) FindDueForCompletion(ctx context.Context, now time.Time, limit int) ([]*construction.PlayerBuilding, error) {
	query := conn(ctx, r.db).
		Where("status = ? AND completes_at <= ?", string(construction.BuildingStatusConstructing), now).
		Order("completes_at, id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []BuildingModel
	if err := query.Find(&models).Error; err != nil {
		return nil, shared.NewStorageError("find due buildings", err)
	}
	return r.modelsToBuildings(models)
}

// LockTerritory creates the territory's lock row if needed and locks it
func (r *GormBuildingRepository) LockTerritory(ctx context.Context, territoryID string) error {
	db := conn(ctx, r.db)
	row := TerritoryLockModel{TerritoryID: territoryID, CreatedAt: time.Now().UTC()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return shared.NewStorageError("create territory lock", err)
	}

	var locked TerritoryLockModel
	result := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("territory_id = ?", territoryID).
		Take(&locked)
	if result.Error != nil {
		return shared.NewStorageError("lock territory", result.Error)
	}
	return nil
}

func (r *GormBuildingRepository) modelsToBuildings(models []BuildingModel) ([]*construction.PlayerBuilding, error) {
	buildings := make([]*construction.PlayerBuilding, 0, len(models))
	for i := range models {
		b, err := r.modelToBuilding(&models[i])
		if err != nil {
			return nil, err
		}
		buildings = append(buildings, b)
	}
	return buildings, nil
}

// modelToBuilding converts database model to domain entity
func (r *GormBuildingRepository) modelToBuilding(model *BuildingModel) (*construction.PlayerBuilding, error) {
	ownerID, err := shared.NewPlayerID(model.OwnerID)
	if err != nil {
		return nil, shared.NewStorageError("decode building", err)
	}
	status, err := construction.ParseBuildingStatus(model.Status)
	if err != nil {
		return nil, shared.NewStorageError("decode building", err)
	}

	var location *construction.Location
	if model.Latitude != nil && model.Longitude != nil {
		location = &construction.Location{Latitude: *model.Latitude, Longitude: *model.Longitude}
	}

	return construction.ReconstructPlayerBuilding(
		model.ID,
		ownerID,
		model.TerritoryID,
		model.TemplateID,
		status,
		model.Level,
		location,
		model.StartedAt,
		model.CompletedAt,
		time.Duration(model.BuildDurationMs)*time.Millisecond,
	), nil
}

// buildingToModel converts domain entity to database model
func (r *GormBuildingRepository) buildingToModel(b *construction.PlayerBuilding) *BuildingModel {
	model := &BuildingModel{
		ID:              b.ID(),
		OwnerID:         b.OwnerID().Value(),
		TerritoryID:     b.TerritoryID(),
		TemplateID:      b.TemplateID(),
		Status:          string(b.Status()),
		Level:           b.Level(),
		StartedAt:       b.StartedAt(),
		CompletesAt:     b.CompletesAt(),
		CompletedAt:     b.CompletedAt(),
		BuildDurationMs: b.BuildDuration().Milliseconds(),
	}
	if loc := b.Location(); loc != nil {
		model.Latitude = &loc.Latitude
		model.Longitude = &loc.Longitude
	}
	return model
}
