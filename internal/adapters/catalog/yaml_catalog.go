package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// File is the on-disk catalog layout
type File struct {
	Items     []ItemEntry     `yaml:"items"`
	Templates []TemplateEntry `yaml:"templates"`
}

type ItemEntry struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Tradeable bool   `yaml:"tradeable"`
}

type TemplateEntry struct {
	ID                   string                 `yaml:"id"`
	Name                 string                 `yaml:"name"`
	Category             string                 `yaml:"category"`
	Tier                 int                    `yaml:"tier"`
	RequiredResources    map[string]int         `yaml:"required_resources"`
	BuildDurationSeconds int                    `yaml:"build_duration_seconds"`
	MaxPerTerritory      int                    `yaml:"max_per_territory"`
	MaxLevel             int                    `yaml:"max_level"`
	UpgradeCosts         map[int]map[string]int `yaml:"upgrade_costs"`
}

// StaticCatalog is an immutable in-memory catalog built once at load.
// Nothing mutates it afterwards, so concurrent reads need no locking.
type StaticCatalog struct {
	templates map[string]*domain.BuildingTemplate
	items     map[string]*domain.ItemDefinition
	ordered   []*domain.BuildingTemplate
}

var _ domain.Catalog = (*StaticCatalog)(nil)

// Load reads the catalog at path, or the embedded default when path is empty
func Load(path string) (*StaticCatalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(raw)
}

// LoadDefault returns the embedded catalog
func LoadDefault() (*StaticCatalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes and validates a YAML catalog document
func Parse(raw []byte) (*StaticCatalog, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catalog yaml: %w", err)
	}
	return Build(f)
}

// Build validates f and freezes it into a StaticCatalog
func Build(f File) (*StaticCatalog, error) {
	c := &StaticCatalog{
		templates: make(map[string]*domain.BuildingTemplate, len(f.Templates)),
		items:     make(map[string]*domain.ItemDefinition, len(f.Items)),
	}

	for _, entry := range f.Items {
		if _, dup := c.items[entry.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate item %q", entry.ID)
		}
		item, err := domain.NewItemDefinition(entry.ID, entry.Name, entry.Kind, entry.Tradeable)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		c.items[item.ID()] = item
	}

	for _, entry := range f.Templates {
		if _, dup := c.templates[entry.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate template %q", entry.ID)
		}
		template, err := entry.toTemplate()
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		for _, itemID := range template.ReferencedItems() {
			if _, ok := c.items[itemID]; !ok {
				return nil, fmt.Errorf("catalog: template %s references unknown item %q", template.ID(), itemID)
			}
		}
		c.templates[template.ID()] = template
		c.ordered = append(c.ordered, template)
	}

	sort.Slice(c.ordered, func(i, j int) bool {
		if c.ordered[i].Tier() != c.ordered[j].Tier() {
			return c.ordered[i].Tier() < c.ordered[j].Tier()
		}
		return c.ordered[i].ID() < c.ordered[j].ID()
	})

	return c, nil
}

func (e TemplateEntry) toTemplate() (*domain.BuildingTemplate, error) {
	upgrades := make(map[int]shared.ResourceQuantity, len(e.UpgradeCosts))
	for level, cost := range e.UpgradeCosts {
		upgrades[level] = shared.ResourceQuantity(cost)
	}
	return domain.NewBuildingTemplate(domain.TemplateSpec{
		ID:              e.ID,
		Name:            e.Name,
		Category:        domain.Category(e.Category),
		Tier:            e.Tier,
		Required:        shared.ResourceQuantity(e.RequiredResources),
		BuildDuration:   time.Duration(e.BuildDurationSeconds) * time.Second,
		MaxPerTerritory: e.MaxPerTerritory,
		MaxLevel:        e.MaxLevel,
		UpgradeCosts:    upgrades,
	})
}

// Template returns *domain.TemplateNotFoundError for unknown ids
func (c *StaticCatalog) Template(id string) (*domain.BuildingTemplate, error) {
	t, ok := c.templates[id]
	if !ok {
		return nil, &domain.TemplateNotFoundError{TemplateID: id}
	}
	return t, nil
}

// ItemDefinition returns *domain.ItemNotFoundError for unknown ids
func (c *StaticCatalog) ItemDefinition(id string) (*domain.ItemDefinition, error) {
	item, ok := c.items[id]
	if !ok {
		return nil, &domain.ItemNotFoundError{ItemID: id}
	}
	return item, nil
}

// Templates lists every template ordered by tier then id
func (c *StaticCatalog) Templates() []*domain.BuildingTemplate {
	out := make([]*domain.BuildingTemplate, len(c.ordered))
	copy(out, c.ordered)
	return out
}
