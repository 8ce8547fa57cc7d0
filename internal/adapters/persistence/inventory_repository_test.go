package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/adapters/persistence"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/test/helpers"
)

func TestInventoryRepository_IncrementAndDecrement(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormInventoryRepository(db)
	ctx := context.Background()
	alice := shared.MustNewPlayerID("alice")

	// Act
	require.NoError(t, repo.Increment(ctx, alice, "wood", 10))
	require.NoError(t, repo.Increment(ctx, alice, "wood", 5))
	require.NoError(t, repo.Increment(ctx, alice, "stone", 1))

	// Assert
	holdings, err := repo.FindByPlayer(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, shared.ResourceQuantity{"wood": 15, "stone": 1}, holdings)

	ok, err := repo.Decrement(ctx, alice, "wood", 16)
	require.NoError(t, err)
	assert.False(t, ok, "decrement beyond holdings must not apply")

	ok, err = repo.Decrement(ctx, alice, "stone", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	holdings, err = repo.FindByPlayer(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, shared.ResourceQuantity{"wood": 15}, holdings, "zero rows are hidden")
}

func TestInventoryRepository_LockAccountsIsIdempotent(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormInventoryRepository(db)
	transactor := persistence.NewGormTransactor(db)
	bob := shared.MustNewPlayerID("bob")
	alice := shared.MustNewPlayerID("alice")

	for i := 0; i < 2; i++ {
		err := transactor.WithinTransaction(context.Background(), func(ctx context.Context) error {
			return repo.LockAccounts(ctx, bob, alice, bob)
		})
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&persistence.LedgerAccountModel{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestLedgerEntryRepository_NewestFirst(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormLedgerEntryRepository(db)
	ctx := context.Background()
	alice := shared.MustNewPlayerID("alice")

	first, err := ledger.NewEntry(alice, "wood", 10, ledger.Reference{Reason: ledger.ReasonGrant, ID: "g1"}, helpers.T0)
	require.NoError(t, err)
	second, err := ledger.NewEntry(alice, "wood", -4, ledger.Reference{Reason: ledger.ReasonConstruction, ID: "b1"}, helpers.T0.Add(time.Second))
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, []*ledger.Entry{first, second}))

	entries, err := repo.FindByPlayer(ctx, alice, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID(), entries[0].ID())
	assert.Equal(t, -4, entries[0].Delta())
	assert.Equal(t, ledger.ReasonConstruction, entries[0].Reason())
	assert.Equal(t, "b1", entries[0].ReferenceID())

	limited, err := repo.FindByPlayer(ctx, alice, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
