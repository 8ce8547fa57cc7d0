package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/application/construction/commands"
	"github.com/andrescamacho/outpost-go/internal/application/construction/dtos"
	"github.com/andrescamacho/outpost-go/internal/application/construction/queries"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/setup"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/test/helpers"
)

func getBuilding(t *testing.T, env *helpers.Env, player, id string) *dtos.BuildingDTO {
	t.Helper()
	b, err := mediator.SendTyped[*dtos.BuildingDTO](helpers.As(player), env.Mediator, &queries.GetBuildingQuery{BuildingID: id})
	require.NoError(t, err)
	return b
}

func storedStatus(t *testing.T, env *helpers.Env, id string) construction.BuildingStatus {
	t.Helper()
	b, err := env.Repos.Buildings.FindByID(context.Background(), id)
	require.NoError(t, err)
	return b.Status()
}

func TestBuilding_ProgressIsDerivedAndCompletionPersistsOnUpgrade(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 40, "stone": 5})

	started, err := start(env, "alice", "hut", "territory-1")
	require.NoError(t, err)

	env.Clock.Advance(30 * time.Second)
	halfway := getBuilding(t, env, "alice", started.ID)
	assert.InDelta(t, 0.5, halfway.Progress, 0.001)
	assert.False(t, halfway.IsComplete)
	assert.Equal(t, 30*time.Second, halfway.Remaining)

	env.Clock.Advance(31 * time.Second)
	done := getBuilding(t, env, "alice", started.ID)
	assert.True(t, done.IsComplete)
	assert.Equal(t, 1.0, done.Progress)
	assert.Equal(t, construction.BuildingStatusConstructing, storedStatus(t, env, started.ID), "reads do not write by default")

	resp, err := mediator.SendTyped[*commands.UpgradeBuildingResponse](helpers.As("alice"), env.Mediator, &commands.UpgradeBuildingCommand{BuildingID: started.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Building.Level)
	assert.Equal(t, string(construction.BuildingStatusActive), resp.Building.Status)
	assert.Equal(t, shared.ResourceQuantity{"wood": 10, "stone": 5}, resp.Cost)
	require.NotNil(t, resp.Building.CompletedAt)
	assert.True(t, helpers.T0.Add(61*time.Second).Equal(*resp.Building.CompletedAt))
	assert.True(t, env.Inventory(t, "alice").IsEmpty())
}

func TestUpgradeBuilding_FailsWhileConstructing(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 50, "stone": 5})
	started, err := start(env, "alice", "hut", "territory-1")
	require.NoError(t, err)

	_, err = env.Mediator.Send(helpers.As("alice"), &commands.UpgradeBuildingCommand{BuildingID: started.ID})
	var notActive *construction.NotActiveError
	require.ErrorAs(t, err, &notActive)
	assert.Equal(t, 20, env.Inventory(t, "alice").Get("wood"))
}

func TestUpgradeBuilding_CompletionSurvivesFailedUpgrade(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 30})
	started, err := start(env, "alice", "hut", "territory-1")
	require.NoError(t, err)

	env.Clock.Advance(61 * time.Second)
	_, err = env.Mediator.Send(helpers.As("alice"), &commands.UpgradeBuildingCommand{BuildingID: started.ID})

	var insufficient *ledger.InsufficientResourcesError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, shared.ResourceQuantity{"wood": 10, "stone": 5}, insufficient.Missing)
	assert.Equal(t, construction.BuildingStatusActive, storedStatus(t, env, started.ID))
}

func TestUpgradeBuilding_MaxLevelAndOwnership(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 5})
	crate, err := start(env, "alice", "crate", "territory-1")
	require.NoError(t, err)
	env.Clock.Advance(time.Minute)

	_, err = env.Mediator.Send(helpers.As("bob"), &commands.UpgradeBuildingCommand{BuildingID: crate.ID})
	var denied *shared.PermissionDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, construction.BuildingStatusConstructing, storedStatus(t, env, crate.ID), "a stranger's call must not write")

	_, err = env.Mediator.Send(helpers.As("alice"), &commands.UpgradeBuildingCommand{BuildingID: crate.ID})
	var maxLevel *construction.MaxLevelReachedError
	require.ErrorAs(t, err, &maxLevel)
	assert.Equal(t, 1, maxLevel.Limit)

	_, err = env.Mediator.Send(helpers.As("alice"), &commands.UpgradeBuildingCommand{BuildingID: "missing"})
	var notFound *construction.BuildingNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDemolishBuilding_RemovesWithoutRefund(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 40})
	started, err := start(env, "alice", "hut", "territory-1")
	require.NoError(t, err)

	_, err = env.Mediator.Send(helpers.As("bob"), &commands.DemolishBuildingCommand{BuildingID: started.ID})
	var denied *shared.PermissionDeniedError
	require.ErrorAs(t, err, &denied)

	env.Clock.Advance(61 * time.Second)
	resp, err := mediator.SendTyped[*commands.DemolishBuildingResponse](helpers.As("alice"), env.Mediator, &commands.DemolishBuildingCommand{BuildingID: started.ID})
	require.NoError(t, err)
	assert.True(t, resp.Finalized)
	assert.Equal(t, "hut", resp.TemplateID)

	_, err = env.Repos.Buildings.FindByID(context.Background(), started.ID)
	var notFound *construction.BuildingNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, 10, env.Inventory(t, "alice").Get("wood"))

	_, err = env.Mediator.Send(helpers.As("alice"), &commands.DemolishBuildingCommand{BuildingID: started.ID})
	assert.ErrorAs(t, err, &notFound)

	_, err = start(env, "alice", "hut", "territory-1")
	var insufficient *ledger.InsufficientResourcesError
	assert.ErrorAs(t, err, &insufficient, "the slot is free again but the wood is gone")
}

func TestFinalizeConstruction_IsIdempotent(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 30})
	started, err := start(env, "alice", "hut", "territory-1")
	require.NoError(t, err)

	finalize := func() *commands.FinalizeConstructionResponse {
		resp, err := mediator.SendTyped[*commands.FinalizeConstructionResponse](helpers.As("alice"), env.Mediator, &commands.FinalizeConstructionCommand{BuildingID: started.ID})
		require.NoError(t, err)
		return resp
	}

	assert.False(t, finalize().Finalized)

	env.Clock.Advance(time.Minute)
	first := finalize()
	assert.True(t, first.Finalized)
	assert.Equal(t, string(construction.BuildingStatusActive), first.Building.Status)

	env.Clock.Advance(time.Minute)
	second := finalize()
	assert.False(t, second.Finalized)
	require.NotNil(t, second.Building.CompletedAt)
	assert.True(t, first.Building.CompletedAt.Equal(*second.Building.CompletedAt))
}

func TestGetBuilding_FinalizeOnRead(t *testing.T) {
	options := setup.DefaultOptions()
	options.FinalizeOnRead = true
	env := helpers.NewEnvWithOptions(t, options)
	env.Grant(t, "alice", map[string]int{"wood": 30})
	started, err := start(env, "alice", "hut", "territory-1")
	require.NoError(t, err)

	env.Clock.Advance(59 * time.Second)
	assert.Equal(t, string(construction.BuildingStatusConstructing), getBuilding(t, env, "alice", started.ID).Status)

	env.Clock.Advance(2 * time.Second)
	assert.Equal(t, string(construction.BuildingStatusActive), getBuilding(t, env, "alice", started.ID).Status)
	assert.Equal(t, construction.BuildingStatusActive, storedStatus(t, env, started.ID))
}
