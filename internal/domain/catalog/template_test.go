package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

func validSpec() catalog.TemplateSpec {
	return catalog.TemplateSpec{
		ID:              "water_collector",
		Category:        catalog.CategorySurvival,
		Tier:            1,
		Required:        shared.ResourceQuantity{"scrap_metal": 10},
		BuildDuration:   2 * time.Minute,
		MaxPerTerritory: 1,
		MaxLevel:        3,
		UpgradeCosts: map[int]shared.ResourceQuantity{
			3: {"scrap_metal": 25, "electronics": 2},
		},
	}
}

func TestNewBuildingTemplate_Validation(t *testing.T) {
	cases := map[string]func(*catalog.TemplateSpec){
		"empty id":        func(s *catalog.TemplateSpec) { s.ID = "" },
		"bad category":    func(s *catalog.TemplateSpec) { s.Category = "decor" },
		"tier too high":   func(s *catalog.TemplateSpec) { s.Tier = 4 },
		"zero duration":   func(s *catalog.TemplateSpec) { s.BuildDuration = 0 },
		"zero cap":        func(s *catalog.TemplateSpec) { s.MaxPerTerritory = 0 },
		"upgrade level 1": func(s *catalog.TemplateSpec) { s.UpgradeCosts = map[int]shared.ResourceQuantity{1: {"wood": 1}} },
		"negative cost":   func(s *catalog.TemplateSpec) { s.Required = shared.ResourceQuantity{"wood": -1} },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			spec := validSpec()
			mutate(&spec)
			_, err := catalog.NewBuildingTemplate(spec)
			assert.Error(t, err)
		})
	}
}

func TestBuildingTemplate_UpgradeCostFallsBackToFlatCost(t *testing.T) {
	tpl, err := catalog.NewBuildingTemplate(validSpec())
	require.NoError(t, err)

	assert.Equal(t, shared.ResourceQuantity{"scrap_metal": 10}, tpl.UpgradeCost(2))
	assert.Equal(t, shared.ResourceQuantity{"scrap_metal": 25, "electronics": 2}, tpl.UpgradeCost(3))
	assert.Equal(t, []string{"electronics", "scrap_metal"}, tpl.ReferencedItems())
}

func TestBuildingTemplate_CostsAreCopies(t *testing.T) {
	tpl, err := catalog.NewBuildingTemplate(validSpec())
	require.NoError(t, err)

	cost := tpl.RequiredResources()
	cost["scrap_metal"] = 0

	assert.Equal(t, 10, tpl.RequiredResources().Get("scrap_metal"))
}
