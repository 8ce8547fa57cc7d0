package ledger

import (
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// InsufficientResourcesError is returned when a player cannot cover a cost.
// Missing lists only the shortfall per item.
type InsufficientResourcesError struct {
	PlayerID string
	Missing  shared.ResourceQuantity
}

func (e *InsufficientResourcesError) Error() string {
	return fmt.Sprintf("insufficient resources for player %s: missing %s", e.PlayerID, e.Missing)
}

// ErrInvalidEntry represents validation errors for ledger entries
type ErrInvalidEntry struct {
	Field  string
	Reason string
}

func (e *ErrInvalidEntry) Error() string {
	return fmt.Sprintf("invalid ledger entry: %s - %s", e.Field, e.Reason)
}
