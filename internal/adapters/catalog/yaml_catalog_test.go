package catalog_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/adapters/catalog"
	domain "github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

const smallCatalog = `
items:
  - {id: wood, name: Wood, kind: raw, tradeable: true}
  - {id: cloth, kind: material, tradeable: true}
templates:
  - id: shelter
    category: survival
    tier: 2
    required_resources: {wood: 30}
    build_duration_seconds: 60
    max_per_territory: 1
    max_level: 3
    upgrade_costs:
      3: {wood: 50, cloth: 5}
  - id: campfire
    category: survival
    tier: 1
    required_resources: {wood: 10}
    build_duration_seconds: 30
    max_per_territory: 2
    max_level: 1
`

func TestParse(t *testing.T) {
	c, err := catalog.Parse([]byte(smallCatalog))
	require.NoError(t, err)

	shelter, err := c.Template("shelter")
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, shelter.BuildDuration())
	assert.Equal(t, shared.ResourceQuantity{"wood": 30}, shelter.RequiredResources())
	assert.Equal(t, shared.ResourceQuantity{"wood": 30}, shelter.UpgradeCost(2))
	assert.Equal(t, shared.ResourceQuantity{"wood": 50, "cloth": 5}, shelter.UpgradeCost(3))

	cloth, err := c.ItemDefinition("cloth")
	require.NoError(t, err)
	assert.Equal(t, "cloth", cloth.Name())

	templates := c.Templates()
	require.Len(t, templates, 2)
	assert.Equal(t, "campfire", templates[0].ID())
	assert.Equal(t, "shelter", templates[1].ID())
}

func TestCatalog_NotFound(t *testing.T) {
	c, err := catalog.Parse([]byte(smallCatalog))
	require.NoError(t, err)

	_, err = c.Template("castle")
	var missingTemplate *domain.TemplateNotFoundError
	assert.ErrorAs(t, err, &missingTemplate)

	_, err = c.ItemDefinition("gold")
	var missingItem *domain.ItemNotFoundError
	assert.ErrorAs(t, err, &missingItem)
}

func TestParse_RejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown item in cost",
			doc: `
items: [{id: wood}]
templates:
  - {id: hut, category: survival, tier: 1, required_resources: {gold: 1}, build_duration_seconds: 1, max_per_territory: 1, max_level: 1}
`,
		},
		{
			name: "tier out of range",
			doc: `
items: [{id: wood}]
templates:
  - {id: hut, category: survival, tier: 4, required_resources: {wood: 1}, build_duration_seconds: 1, max_per_territory: 1, max_level: 1}
`,
		},
		{
			name: "duplicate template",
			doc: `
items: [{id: wood}]
templates:
  - {id: hut, category: survival, tier: 1, required_resources: {wood: 1}, build_duration_seconds: 1, max_per_territory: 1, max_level: 1}
  - {id: hut, category: survival, tier: 1, required_resources: {wood: 1}, build_duration_seconds: 1, max_per_territory: 1, max_level: 1}
`,
		},
		{
			name: "unknown category",
			doc: `
items: [{id: wood}]
templates:
  - {id: hut, category: military, tier: 1, required_resources: {wood: 1}, build_duration_seconds: 1, max_per_territory: 1, max_level: 1}
`,
		},
		{
			name: "malformed yaml",
			doc:  "items: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_DefaultAndFile(t *testing.T) {
	def, err := catalog.Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, def.Templates())

	for _, tmpl := range def.Templates() {
		for _, itemID := range tmpl.ReferencedItems() {
			_, err := def.ItemDefinition(itemID)
			assert.NoError(t, err, "template %s item %s", tmpl.ID(), itemID)
		}
	}

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallCatalog), 0o600))
	fromFile, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Len(t, fromFile.Templates(), 2)

	_, err = catalog.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
