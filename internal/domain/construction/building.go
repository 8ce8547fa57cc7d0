package construction

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// BuildingStatus is the persisted state of a player building
type BuildingStatus string

const (
	// BuildingStatusConstructing means the countdown has not been observed as finished
	BuildingStatusConstructing BuildingStatus = "CONSTRUCTING"

	// BuildingStatusActive means construction completed and was persisted
	BuildingStatusActive BuildingStatus = "ACTIVE"
)

// ParseBuildingStatus parses a persisted status string
func ParseBuildingStatus(s string) (BuildingStatus, error) {
	switch BuildingStatus(s) {
	case BuildingStatusConstructing, BuildingStatusActive:
		return BuildingStatus(s), nil
	default:
		return "", fmt.Errorf("invalid building status: %s", s)
	}
}

// Location is an optional placement coordinate inside the territory
type Location struct {
	Latitude  float64
	Longitude float64
}

// PlayerBuilding is a building instance bound to one territory.
//
// The Constructing -> Active edge is observed, not scheduled: progress is
// derived from startedAt and the build duration on every read, and the first
// write path that sees the countdown finished persists Active.
//
// Invariants:
// - status = Constructing implies completedAt = nil
// - level > 1 implies status = Active
// - 1 <= level <= template max level
type PlayerBuilding struct {
	id            string
	ownerID       shared.PlayerID
	territoryID   string
	templateID    string
	status        BuildingStatus
	level         int
	location      *Location
	startedAt     time.Time
	completedAt   *time.Time
	buildDuration time.Duration
}

// NewPlayerBuilding creates a building in Constructing state starting now
func NewPlayerBuilding(
	ownerID shared.PlayerID,
	template *catalog.BuildingTemplate,
	territoryID string,
	location *Location,
	now time.Time,
) (*PlayerBuilding, error) {
	if ownerID.IsZero() {
		return nil, &shared.NotAuthenticatedError{}
	}
	if template == nil {
		return nil, fmt.Errorf("template cannot be nil")
	}
	if territoryID == "" {
		return nil, shared.NewValidationError("territory_id", "cannot be empty")
	}

	return &PlayerBuilding{
		id:            uuid.New().String(),
		ownerID:       ownerID,
		territoryID:   territoryID,
		templateID:    template.ID(),
		status:        BuildingStatusConstructing,
		level:         1,
		location:      copyLocation(location),
		startedAt:     now,
		buildDuration: template.BuildDuration(),
	}, nil
}

// ReconstructPlayerBuilding rebuilds a building from persistence
func ReconstructPlayerBuilding(
	id string,
	ownerID shared.PlayerID,
	territoryID string,
	templateID string,
	status BuildingStatus,
	level int,
	location *Location,
	startedAt time.Time,
	completedAt *time.Time,
	buildDuration time.Duration,
) *PlayerBuilding {
	return &PlayerBuilding{
		id:            id,
		ownerID:       ownerID,
		territoryID:   territoryID,
		templateID:    templateID,
		status:        status,
		level:         level,
		location:      copyLocation(location),
		startedAt:     startedAt,
		completedAt:   completedAt,
		buildDuration: buildDuration,
	}
}

// Getters

func (b *PlayerBuilding) ID() string                   { return b.id }
func (b *PlayerBuilding) OwnerID() shared.PlayerID     { return b.ownerID }
func (b *PlayerBuilding) TerritoryID() string          { return b.territoryID }
func (b *PlayerBuilding) TemplateID() string           { return b.templateID }
func (b *PlayerBuilding) Status() BuildingStatus       { return b.status }
func (b *PlayerBuilding) Level() int                   { return b.level }
func (b *PlayerBuilding) StartedAt() time.Time         { return b.startedAt }
func (b *PlayerBuilding) CompletedAt() *time.Time      { return b.completedAt }
func (b *PlayerBuilding) BuildDuration() time.Duration { return b.buildDuration }
func (b *PlayerBuilding) Location() *Location          { return copyLocation(b.location) }

// CompletesAt is the instant the countdown finishes
func (b *PlayerBuilding) CompletesAt() time.Time {
	return b.startedAt.Add(b.buildDuration)
}

// IsOwnedBy checks whether playerID paid for this building
func (b *PlayerBuilding) IsOwnedBy(playerID shared.PlayerID) bool {
	return b.ownerID.Equals(playerID)
}

// Progress projects the building's construction state at now without
// mutating it
func (b *PlayerBuilding) Progress(now time.Time) Progress {
	if b.status == BuildingStatusActive {
		return Progress{Fraction: 1, IsComplete: true}
	}

	elapsed := now.Sub(b.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= b.buildDuration {
		return Progress{Fraction: 1, IsComplete: true}
	}
	return Progress{
		Fraction:   float64(elapsed) / float64(b.buildDuration),
		IsComplete: false,
		Remaining:  b.buildDuration - elapsed,
	}
}

// Finalize persists completion once the countdown is observed finished.
// Returns true if the status changed. Already-active buildings and
// unfinished ones are left untouched.
func (b *PlayerBuilding) Finalize(now time.Time) bool {
	if b.status != BuildingStatusConstructing {
		return false
	}
	if !b.Progress(now).IsComplete {
		return false
	}
	completed := now
	b.status = BuildingStatusActive
	b.completedAt = &completed
	return true
}

// Upgrade raises the level by one. The building must be Active.
func (b *PlayerBuilding) Upgrade(maxLevel int) error {
	if b.status != BuildingStatusActive {
		return &NotActiveError{BuildingID: b.id, Status: b.status}
	}
	if b.level >= maxLevel {
		return &MaxLevelReachedError{BuildingID: b.id, Limit: maxLevel}
	}
	b.level++
	return nil
}

// Progress is the derived construction state of a building at an instant
type Progress struct {
	// Fraction is min(1, elapsed/duration)
	Fraction   float64
	IsComplete bool
	Remaining  time.Duration
}

func copyLocation(l *Location) *Location {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}
