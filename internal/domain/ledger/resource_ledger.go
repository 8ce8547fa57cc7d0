package ledger

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// ResourceLedger is the single mutation path for player inventories.
// Construction and trade settlement both go through it.
//
// Invariants:
// - Deduct is all-or-nothing across every line of a multi-item cost
// - All mutations of one player serialize on that player's account lock
// - Multi-player mutations lock accounts in lexical PlayerID order
// - Every applied line is journaled in the same transaction
type ResourceLedger struct {
	inventory  InventoryRepository
	entries    EntryRepository
	transactor shared.Transactor
	clock      shared.Clock
}

// NewResourceLedger creates a ledger over the given repositories
func NewResourceLedger(
	inventory InventoryRepository,
	entries EntryRepository,
	transactor shared.Transactor,
	clock shared.Clock,
) *ResourceLedger {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ResourceLedger{
		inventory:  inventory,
		entries:    entries,
		transactor: transactor,
		clock:      clock,
	}
}

// Has reports whether the player currently holds required.
// The answer is advisory: nothing is reserved.
func (l *ResourceLedger) Has(ctx context.Context, playerID shared.PlayerID, required shared.ResourceQuantity) (*ResourceCheckResult, error) {
	holdings, err := l.inventory.FindByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return CheckResources(required, holdings), nil
}

// Inventory returns the player's current holdings
func (l *ResourceLedger) Inventory(ctx context.Context, playerID shared.PlayerID) (shared.ResourceQuantity, error) {
	return l.inventory.FindByPlayer(ctx, playerID)
}

// Entries returns the player's most recent journal lines
func (l *ResourceLedger) Entries(ctx context.Context, playerID shared.PlayerID, limit int) ([]*Entry, error) {
	return l.entries.FindByPlayer(ctx, playerID, limit)
}

// Deduct removes amounts from the player's inventory atomically.
// Returns *InsufficientResourcesError, leaving the inventory untouched, when
// any line cannot be covered.
func (l *ResourceLedger) Deduct(ctx context.Context, playerID shared.PlayerID, amounts shared.ResourceQuantity, ref Reference) error {
	if err := validateAmounts(amounts); err != nil {
		return err
	}
	return l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := l.inventory.LockAccounts(ctx, playerID); err != nil {
			return err
		}
		journal, err := l.deductLocked(ctx, playerID, amounts, ref)
		if err != nil {
			return err
		}
		return l.append(ctx, journal)
	})
}

// Credit adds amounts to the player's inventory atomically
func (l *ResourceLedger) Credit(ctx context.Context, playerID shared.PlayerID, amounts shared.ResourceQuantity, ref Reference) error {
	if err := validateAmounts(amounts); err != nil {
		return err
	}
	return l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := l.inventory.LockAccounts(ctx, playerID); err != nil {
			return err
		}
		journal, err := l.creditLocked(ctx, playerID, amounts, ref)
		if err != nil {
			return err
		}
		return l.append(ctx, journal)
	})
}

// Exchange swaps aGives from a to b and bGives from b to a in one transaction.
// Both accounts are locked first, in lexical order. Shortfalls are reported
// per side: the returned *InsufficientResourcesError names the player that
// could not pay.
func (l *ResourceLedger) Exchange(
	ctx context.Context,
	a shared.PlayerID, aGives shared.ResourceQuantity,
	b shared.PlayerID, bGives shared.ResourceQuantity,
	ref Reference,
) error {
	if a.Equals(b) {
		return shared.NewValidationError("counterparty", "cannot exchange with self")
	}
	if err := validateAmounts(aGives); err != nil {
		return err
	}
	if err := validateAmounts(bGives); err != nil {
		return err
	}

	return l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := l.inventory.LockAccounts(ctx, a, b); err != nil {
			return err
		}

		var journal []*Entry
		steps := []func() ([]*Entry, error){
			func() ([]*Entry, error) { return l.deductLocked(ctx, a, aGives, ref) },
			func() ([]*Entry, error) { return l.deductLocked(ctx, b, bGives, ref) },
			func() ([]*Entry, error) { return l.creditLocked(ctx, b, aGives, ref) },
			func() ([]*Entry, error) { return l.creditLocked(ctx, a, bGives, ref) },
		}
		for _, step := range steps {
			lines, err := step()
			if err != nil {
				return err
			}
			journal = append(journal, lines...)
		}
		return l.append(ctx, journal)
	})
}

// deductLocked assumes the caller holds the player's account lock
func (l *ResourceLedger) deductLocked(ctx context.Context, playerID shared.PlayerID, amounts shared.ResourceQuantity, ref Reference) ([]*Entry, error) {
	holdings, err := l.inventory.FindByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if missing := amounts.Missing(holdings); !missing.IsEmpty() {
		return nil, &InsufficientResourcesError{PlayerID: playerID.String(), Missing: missing}
	}

	now := l.clock.Now()
	journal := make([]*Entry, 0, len(amounts))
	for _, item := range amounts.Items() {
		units := amounts[item]
		if units == 0 {
			continue
		}
		ok, err := l.inventory.Decrement(ctx, playerID, item, units)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Only reachable if a writer bypassed the account lock
			return nil, &InsufficientResourcesError{
				PlayerID: playerID.String(),
				Missing:  shared.ResourceQuantity{item: units - holdings[item]},
			}
		}
		entry, err := NewEntry(playerID, item, -units, ref, now)
		if err != nil {
			return nil, err
		}
		journal = append(journal, entry)
	}
	return journal, nil
}

func (l *ResourceLedger) creditLocked(ctx context.Context, playerID shared.PlayerID, amounts shared.ResourceQuantity, ref Reference) ([]*Entry, error) {
	now := l.clock.Now()
	journal := make([]*Entry, 0, len(amounts))
	for _, item := range amounts.Items() {
		units := amounts[item]
		if units == 0 {
			continue
		}
		if err := l.inventory.Increment(ctx, playerID, item, units); err != nil {
			return nil, err
		}
		entry, err := NewEntry(playerID, item, units, ref, now)
		if err != nil {
			return nil, err
		}
		journal = append(journal, entry)
	}
	return journal, nil
}

func (l *ResourceLedger) append(ctx context.Context, journal []*Entry) error {
	if len(journal) == 0 {
		return nil
	}
	return l.entries.Append(ctx, journal)
}

func validateAmounts(amounts shared.ResourceQuantity) error {
	for item, units := range amounts {
		if item == "" {
			return shared.NewValidationError("item_id", "cannot be empty")
		}
		if units < 0 {
			return shared.NewValidationError(item, fmt.Sprintf("amount cannot be negative (got %d)", units))
		}
	}
	return nil
}
