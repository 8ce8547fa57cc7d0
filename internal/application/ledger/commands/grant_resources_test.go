package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/application/ledger/commands"
	"github.com/andrescamacho/outpost-go/internal/application/ledger/queries"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/test/helpers"
)

func TestGrantResources_CreditsAndJournals(t *testing.T) {
	env := helpers.NewEnv(t)

	resp, err := mediator.SendTyped[*commands.GrantResourcesResponse](context.Background(), env.Mediator, &commands.GrantResourcesCommand{
		PlayerID:    "alice",
		Amounts:     map[string]int{"wood": 12, "stone": 3},
		ReferenceID: "loot-42",
	})
	require.NoError(t, err)
	assert.Equal(t, shared.ResourceQuantity{"wood": 12, "stone": 3}, resp.Inventory)

	inv, err := mediator.SendTyped[*queries.GetInventoryResponse](helpers.As("alice"), env.Mediator, &queries.GetInventoryQuery{})
	require.NoError(t, err)
	assert.Equal(t, resp.Inventory, inv.Inventory)

	entries, err := mediator.SendTyped[*queries.GetLedgerEntriesResponse](helpers.As("alice"), env.Mediator, &queries.GetLedgerEntriesQuery{})
	require.NoError(t, err)
	require.Len(t, entries.Entries, 2)
	total := 0
	for _, e := range entries.Entries {
		assert.Equal(t, "GRANT", e.Reason)
		assert.Equal(t, "loot-42", e.ReferenceID)
		total += e.Delta
	}
	assert.Equal(t, 15, total)
}

func TestGrantResources_Rejections(t *testing.T) {
	env := helpers.NewEnv(t)

	_, err := env.Mediator.Send(context.Background(), &commands.GrantResourcesCommand{PlayerID: "alice", Amounts: map[string]int{"unobtainium": 1}})
	var unknown *catalog.ItemNotFoundError
	assert.ErrorAs(t, err, &unknown)

	_, err = env.Mediator.Send(context.Background(), &commands.GrantResourcesCommand{PlayerID: "alice", Amounts: map[string]int{"wood": -1}})
	var invalid *shared.ValidationError
	assert.ErrorAs(t, err, &invalid)

	_, err = env.Mediator.Send(context.Background(), &commands.GrantResourcesCommand{Amounts: map[string]int{"wood": 1}})
	assert.ErrorAs(t, err, &invalid)

	assert.True(t, env.Inventory(t, "alice").IsEmpty())
}

func TestGetInventory_RequiresIdentity(t *testing.T) {
	env := helpers.NewEnv(t)

	_, err := env.Mediator.Send(context.Background(), &queries.GetInventoryQuery{})
	var unauthenticated *shared.NotAuthenticatedError
	assert.ErrorAs(t, err, &unauthenticated)
}
