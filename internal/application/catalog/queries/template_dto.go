package queries

import (
	"time"

	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// TemplateDTO is a building template for display
type TemplateDTO struct {
	ID                string
	Name              string
	Category          string
	Tier              int
	RequiredResources shared.ResourceQuantity
	BuildDuration     time.Duration
	MaxPerTerritory   int
	MaxLevel          int
	// UpgradeCosts is keyed by target level 2..MaxLevel
	UpgradeCosts map[int]shared.ResourceQuantity
}

func toTemplateDTO(t *catalog.BuildingTemplate) *TemplateDTO {
	upgrades := make(map[int]shared.ResourceQuantity, t.MaxLevel())
	for level := 2; level <= t.MaxLevel(); level++ {
		upgrades[level] = t.UpgradeCost(level)
	}
	return &TemplateDTO{
		ID:                t.ID(),
		Name:              t.Name(),
		Category:          string(t.Category()),
		Tier:              t.Tier(),
		RequiredResources: t.RequiredResources(),
		BuildDuration:     t.BuildDuration(),
		MaxPerTerritory:   t.MaxPerTerritory(),
		MaxLevel:          t.MaxLevel(),
		UpgradeCosts:      upgrades,
	}
}
