package dtos

import (
	"time"

	"github.com/andrescamacho/outpost-go/internal/domain/construction"
)

// BuildingDTO is a building plus its derived construction state at an instant
type BuildingDTO struct {
	ID          string
	OwnerID     string
	TerritoryID string
	TemplateID  string
	// Status is the persisted status. IsComplete can be true while Status is
	// still CONSTRUCTING until a write path observes completion.
	Status      string
	Level       int
	Latitude    *float64
	Longitude   *float64
	StartedAt   time.Time
	CompletesAt time.Time
	CompletedAt *time.Time

	Progress   float64
	IsComplete bool
	Remaining  time.Duration
}

// FromBuilding projects b at now
func FromBuilding(b *construction.PlayerBuilding, now time.Time) *BuildingDTO {
	progress := b.Progress(now)
	dto := &BuildingDTO{
		ID:          b.ID(),
		OwnerID:     b.OwnerID().String(),
		TerritoryID: b.TerritoryID(),
		TemplateID:  b.TemplateID(),
		Status:      string(b.Status()),
		Level:       b.Level(),
		StartedAt:   b.StartedAt(),
		CompletesAt: b.CompletesAt(),
		CompletedAt: b.CompletedAt(),
		Progress:    progress.Fraction,
		IsComplete:  progress.IsComplete,
		Remaining:   progress.Remaining,
	}
	if loc := b.Location(); loc != nil {
		dto.Latitude = &loc.Latitude
		dto.Longitude = &loc.Longitude
	}
	return dto
}
