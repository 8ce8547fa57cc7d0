package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/test/helpers"
)

var buildRef = ledger.Reference{Reason: ledger.ReasonConstruction, ID: "b-1"}

func TestResourceLedger_DeductIsAllOrNothing(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 30, "stone": 2})
	alice := shared.MustNewPlayerID("alice")

	err := env.Ledger.Deduct(context.Background(), alice, shared.ResourceQuantity{"wood": 10, "stone": 5}, buildRef)

	var insufficient *ledger.InsufficientResourcesError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, shared.ResourceQuantity{"stone": 3}, insufficient.Missing)
	assert.Equal(t, shared.ResourceQuantity{"wood": 30, "stone": 2}, env.Inventory(t, "alice"))

	entries, err := env.Ledger.Entries(context.Background(), alice, 10)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, ledger.ReasonGrant, e.Reason(), "a failed deduct journals nothing")
	}
}

func TestResourceLedger_DeductJournalsEachLine(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 30, "stone": 5})
	alice := shared.MustNewPlayerID("alice")

	require.NoError(t, env.Ledger.Deduct(context.Background(), alice, shared.ResourceQuantity{"wood": 10, "stone": 5}, buildRef))
	assert.Equal(t, shared.ResourceQuantity{"wood": 20}, env.Inventory(t, "alice"))

	entries, err := env.Ledger.Entries(context.Background(), alice, 10)
	require.NoError(t, err)
	deltas := make(map[string]int)
	for _, e := range entries {
		if e.Reason() == ledger.ReasonConstruction {
			assert.Equal(t, "b-1", e.ReferenceID())
			deltas[e.ItemID()] += e.Delta()
		}
	}
	assert.Equal(t, map[string]int{"wood": -10, "stone": -5}, deltas)
}

func TestResourceLedger_ConcurrentDeductsSerialize(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "alice", map[string]int{"wood": 30})
	alice := shared.MustNewPlayerID("alice")

	const attempts = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := env.Ledger.Deduct(context.Background(), alice, shared.ResourceQuantity{"wood": 20}, buildRef); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 10, env.Inventory(t, "alice").Get("wood"))
}

func TestResourceLedger_ExchangeConservesItems(t *testing.T) {
	env := helpers.NewEnv(t)
	env.Grant(t, "owner", map[string]int{"wood": 30})
	env.Grant(t, "buyer", map[string]int{"scrap_metal": 12})
	owner := shared.MustNewPlayerID("owner")
	buyer := shared.MustNewPlayerID("buyer")
	ref := ledger.Reference{Reason: ledger.ReasonTrade, ID: "offer-1"}

	require.NoError(t, env.Ledger.Exchange(context.Background(),
		owner, shared.ResourceQuantity{"wood": 30},
		buyer, shared.ResourceQuantity{"scrap_metal": 10},
		ref,
	))
	assert.Equal(t, shared.ResourceQuantity{"scrap_metal": 10}, env.Inventory(t, "owner"))
	assert.Equal(t, shared.ResourceQuantity{"wood": 30, "scrap_metal": 2}, env.Inventory(t, "buyer"))

	err := env.Ledger.Exchange(context.Background(),
		owner, shared.ResourceQuantity{"scrap_metal": 10},
		buyer, shared.ResourceQuantity{"wood": 31},
		ref,
	)
	var insufficient *ledger.InsufficientResourcesError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "buyer", insufficient.PlayerID)
	assert.Equal(t, shared.ResourceQuantity{"scrap_metal": 10}, env.Inventory(t, "owner"), "failed exchange moves nothing")

	err = env.Ledger.Exchange(context.Background(), owner, shared.ResourceQuantity{"wood": 1}, owner, shared.ResourceQuantity{"wood": 1}, ref)
	var invalid *shared.ValidationError
	assert.ErrorAs(t, err, &invalid)
}
