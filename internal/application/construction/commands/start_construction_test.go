package commands_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/application/construction/commands"
	"github.com/andrescamacho/outpost-go/internal/application/construction/dtos"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/test/helpers"
)

func start(env *helpers.Env, player, templateID, territoryID string) (*dtos.BuildingDTO, error) {
	return mediator.SendTyped[*dtos.BuildingDTO](helpers.As(player), env.Mediator, &commands.StartConstructionCommand{
		TemplateID:  templateID,
		TerritoryID: territoryID,
	})
}

func TestStartConstruction_DeductsCostAndCreatesBuilding(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 40})

	building, err := start(env, "alice", "hut", "territory-1")
	require.NoError(t, err)

	assert.Equal(t, string(construction.BuildingStatusConstructing), building.Status)
	assert.Equal(t, 1, building.Level)
	assert.True(t, helpers.T0.Equal(building.StartedAt))
	assert.Equal(t, 0.0, building.Progress)
	assert.False(t, building.IsComplete)
	assert.Equal(t, 10, env.Inventory(t, "alice").Get("wood"))

	entries, err := env.Ledger.Entries(context.Background(), shared.MustNewPlayerID("alice"), 10)
	require.NoError(t, err)
	var spent *ledger.Entry
	for _, e := range entries {
		if e.Reason() == ledger.ReasonConstruction {
			spent = e
		}
	}
	require.NotNil(t, spent)
	assert.Equal(t, -30, spent.Delta())
	assert.Equal(t, building.ID, spent.ReferenceID())
}

func TestStartConstruction_InsufficientResourcesLeavesStateUnchanged(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 20})

	_, err := start(env, "alice", "hut", "territory-1")

	var insufficient *ledger.InsufficientResourcesError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, shared.ResourceQuantity{"wood": 10}, insufficient.Missing)
	assert.Equal(t, 20, env.Inventory(t, "alice").Get("wood"))

	buildings, err := env.Repos.Buildings.FindByTerritory(context.Background(), "territory-1")
	require.NoError(t, err)
	assert.Empty(t, buildings)
}

func TestStartConstruction_RejectsBeyondTerritoryCap(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 60})

	_, err := start(env, "alice", "hut", "territory-1")
	require.NoError(t, err)

	_, err = start(env, "alice", "hut", "territory-1")
	var capErr *construction.MaxBuildingsReachedError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 1, capErr.Limit)
	assert.Equal(t, 30, env.Inventory(t, "alice").Get("wood"), "a refused start must not charge")

	_, err = start(env, "alice", "hut", "territory-2")
	require.NoError(t, err, "the cap is per territory")
}

func TestStartConstruction_Errors(t *testing.T) {
	env := helpers.NewEnv(t)

	_, err := start(env, "alice", "castle", "territory-1")
	var notFound *catalog.TemplateNotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = start(env, "alice", "hut", "")
	var invalid *shared.ValidationError
	assert.ErrorAs(t, err, &invalid)

	_, err = env.Mediator.Send(context.Background(), &commands.StartConstructionCommand{TemplateID: "hut", TerritoryID: "territory-1"})
	var unauthenticated *shared.NotAuthenticatedError
	assert.ErrorAs(t, err, &unauthenticated)
}

func TestStartConstruction_ConcurrentStartsCannotOverspend(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 40})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		shortfall int
	)
	for _, territory := range []string{"territory-1", "territory-2"} {
		wg.Add(1)
		go func(territory string) {
			defer wg.Done()
			_, err := start(env, "alice", "hut", territory)

			mu.Lock()
			defer mu.Unlock()
			var insufficient *ledger.InsufficientResourcesError
			switch {
			case err == nil:
				successes++
			case assert.ErrorAs(t, err, &insufficient):
				shortfall++
			}
		}(territory)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, shortfall)
	assert.Equal(t, 10, env.Inventory(t, "alice").Get("wood"))
}
