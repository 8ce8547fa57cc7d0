package catalog

import (
	"fmt"
	"time"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// Category groups building templates by purpose
type Category string

const (
	CategorySurvival   Category = "survival"
	CategoryStorage    Category = "storage"
	CategoryProduction Category = "production"
	CategoryEnergy     Category = "energy"
)

// IsValid checks if the category is one of the known values
func (c Category) IsValid() bool {
	switch c {
	case CategorySurvival, CategoryStorage, CategoryProduction, CategoryEnergy:
		return true
	default:
		return false
	}
}

// BuildingTemplate is static, catalog-owned data describing what a building
// costs and how it behaves. Templates are never mutated after load; getters
// return copies of any map they expose.
type BuildingTemplate struct {
	id              string
	name            string
	category        Category
	tier            int
	required        shared.ResourceQuantity
	buildDuration   time.Duration
	maxPerTerritory int
	maxLevel        int
	upgradeCosts    map[int]shared.ResourceQuantity
}

// TemplateSpec carries the raw fields of a template for validation
type TemplateSpec struct {
	ID              string
	Name            string
	Category        Category
	Tier            int
	Required        shared.ResourceQuantity
	BuildDuration   time.Duration
	MaxPerTerritory int
	MaxLevel        int
	// UpgradeCosts is keyed by the level being upgraded TO (2..MaxLevel)
	UpgradeCosts map[int]shared.ResourceQuantity
}

// NewBuildingTemplate validates spec and freezes it
func NewBuildingTemplate(spec TemplateSpec) (*BuildingTemplate, error) {
	if spec.ID == "" {
		return nil, shared.NewValidationError("template.id", "cannot be empty")
	}
	if !spec.Category.IsValid() {
		return nil, shared.NewValidationError(spec.ID+".category", fmt.Sprintf("unknown category %q", spec.Category))
	}
	if spec.Tier < 1 || spec.Tier > 3 {
		return nil, shared.NewValidationError(spec.ID+".tier", fmt.Sprintf("must be 1-3, got %d", spec.Tier))
	}
	if spec.BuildDuration <= 0 {
		return nil, shared.NewValidationError(spec.ID+".build_duration", "must be positive")
	}
	if spec.MaxPerTerritory < 1 {
		return nil, shared.NewValidationError(spec.ID+".max_per_territory", "must be at least 1")
	}
	if spec.MaxLevel < 1 {
		return nil, shared.NewValidationError(spec.ID+".max_level", "must be at least 1")
	}

	required, err := shared.NewResourceQuantity(spec.Required)
	if err != nil {
		return nil, fmt.Errorf("template %s required resources: %w", spec.ID, err)
	}

	upgrades := make(map[int]shared.ResourceQuantity, len(spec.UpgradeCosts))
	for level, cost := range spec.UpgradeCosts {
		if level < 2 || level > spec.MaxLevel {
			return nil, shared.NewValidationError(spec.ID+".upgrade_costs", fmt.Sprintf("level %d outside 2-%d", level, spec.MaxLevel))
		}
		q, err := shared.NewResourceQuantity(cost)
		if err != nil {
			return nil, fmt.Errorf("template %s upgrade cost for level %d: %w", spec.ID, level, err)
		}
		upgrades[level] = q
	}

	name := spec.Name
	if name == "" {
		name = spec.ID
	}

	return &BuildingTemplate{
		id:              spec.ID,
		name:            name,
		category:        spec.Category,
		tier:            spec.Tier,
		required:        required,
		buildDuration:   spec.BuildDuration,
		maxPerTerritory: spec.MaxPerTerritory,
		maxLevel:        spec.MaxLevel,
		upgradeCosts:    upgrades,
	}, nil
}

func (t *BuildingTemplate) ID() string                   { return t.id }
func (t *BuildingTemplate) Name() string                 { return t.name }
func (t *BuildingTemplate) Category() Category           { return t.category }
func (t *BuildingTemplate) Tier() int                    { return t.tier }
func (t *BuildingTemplate) BuildDuration() time.Duration { return t.buildDuration }
func (t *BuildingTemplate) MaxPerTerritory() int         { return t.maxPerTerritory }
func (t *BuildingTemplate) MaxLevel() int                { return t.maxLevel }

// RequiredResources returns the construction cost
func (t *BuildingTemplate) RequiredResources() shared.ResourceQuantity {
	return t.required.Clone()
}

// UpgradeCost returns the cost of raising a building to targetLevel.
// Levels without an explicit entry cost the flat construction price.
func (t *BuildingTemplate) UpgradeCost(targetLevel int) shared.ResourceQuantity {
	if cost, ok := t.upgradeCosts[targetLevel]; ok {
		return cost.Clone()
	}
	return t.required.Clone()
}

// ReferencedItems returns every item id the template's costs mention
func (t *BuildingTemplate) ReferencedItems() []string {
	all := t.required.Clone()
	for _, cost := range t.upgradeCosts {
		all = all.Plus(cost)
	}
	return all.Items()
}
