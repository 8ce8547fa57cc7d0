package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/application/construction/commands"
	"github.com/andrescamacho/outpost-go/internal/application/construction/queries"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/test/helpers"
)

func TestCheckResources_IsAdvisory(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 20, "stone": 3})

	resp, err := mediator.SendTyped[*queries.CheckResourcesResponse](helpers.As("alice"), env.Mediator, &queries.CheckResourcesQuery{TemplateID: "hut"})
	require.NoError(t, err)
	assert.False(t, resp.Result.Sufficient)
	assert.Equal(t, shared.ResourceQuantity{"wood": 10}, resp.Result.Missing)
	assert.Equal(t, shared.ResourceQuantity{"wood": 20}, resp.Result.Available)
	assert.Equal(t, 20, env.Inventory(t, "alice").Get("wood"), "a check never reserves")

	env.Grant(t, "alice", map[string]int{"wood": 10})
	resp, err = mediator.SendTyped[*queries.CheckResourcesResponse](helpers.As("alice"), env.Mediator, &queries.CheckResourcesQuery{TemplateID: "hut"})
	require.NoError(t, err)
	assert.True(t, resp.Result.Sufficient)

	_, err = env.Mediator.Send(helpers.As("alice"), &queries.CheckResourcesQuery{TemplateID: "castle"})
	var notFound *catalog.TemplateNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestListTerritoryBuildings(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 15})

	for i := 0; i < 3; i++ {
		_, err := env.Mediator.Send(helpers.As("alice"), &commands.StartConstructionCommand{TemplateID: "crate", TerritoryID: "territory-1"})
		require.NoError(t, err)
	}

	resp, err := mediator.SendTyped[*queries.ListTerritoryBuildingsResponse](helpers.As("bob"), env.Mediator, &queries.ListTerritoryBuildingsQuery{TerritoryID: "territory-1"})
	require.NoError(t, err)
	assert.Len(t, resp.Buildings, 3)
	for _, b := range resp.Buildings {
		assert.Equal(t, "alice", b.OwnerID)
		assert.Equal(t, "crate", b.TemplateID)
	}

	empty, err := mediator.SendTyped[*queries.ListTerritoryBuildingsResponse](helpers.As("bob"), env.Mediator, &queries.ListTerritoryBuildingsQuery{TerritoryID: "territory-2"})
	require.NoError(t, err)
	assert.Empty(t, empty.Buildings)
}
