package ledger

import (
	"context"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// InventoryRepository defines persistence operations for per-player item rows
type InventoryRepository interface {
	// LockAccounts takes an exclusive lock on every listed player's account for
	// the rest of the surrounding transaction. Locks are acquired in lexical
	// PlayerID order regardless of argument order.
	LockAccounts(ctx context.Context, players ...shared.PlayerID) error

	// FindByPlayer returns every positive holding of the player
	FindByPlayer(ctx context.Context, playerID shared.PlayerID) (shared.ResourceQuantity, error)

	// Decrement removes units of item only if at least that many are held.
	// Returns false, without changing anything, when the holding is smaller.
	Decrement(ctx context.Context, playerID shared.PlayerID, itemID string, units int) (bool, error)

	// Increment adds units of item, creating the row if needed
	Increment(ctx context.Context, playerID shared.PlayerID, itemID string, units int) error
}

// EntryRepository persists the immutable movement journal
type EntryRepository interface {
	Append(ctx context.Context, entries []*Entry) error

	// FindByPlayer returns the newest entries first
	FindByPlayer(ctx context.Context, playerID shared.PlayerID, limit int) ([]*Entry, error)
}
