package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// Entry is an immutable journal line recording one item movement on one
// player's inventory. Delta is negative for deductions.
type Entry struct {
	id          string
	playerID    shared.PlayerID
	itemID      string
	delta       int
	reason      Reason
	referenceID string
	createdAt   time.Time
}

// NewEntry creates a journal line with a fresh identifier
func NewEntry(playerID shared.PlayerID, itemID string, delta int, ref Reference, at time.Time) (*Entry, error) {
	if playerID.IsZero() {
		return nil, &ErrInvalidEntry{Field: "player_id", Reason: "cannot be empty"}
	}
	if itemID == "" {
		return nil, &ErrInvalidEntry{Field: "item_id", Reason: "cannot be empty"}
	}
	if delta == 0 {
		return nil, &ErrInvalidEntry{Field: "delta", Reason: "cannot be zero"}
	}
	if !ref.Reason.IsValid() {
		return nil, &ErrInvalidEntry{Field: "reason", Reason: string(ref.Reason)}
	}

	return &Entry{
		id:          uuid.New().String(),
		playerID:    playerID,
		itemID:      itemID,
		delta:       delta,
		reason:      ref.Reason,
		referenceID: ref.ID,
		createdAt:   at,
	}, nil
}

// ReconstructEntry rebuilds an entry from persistence
func ReconstructEntry(id string, playerID shared.PlayerID, itemID string, delta int, reason Reason, referenceID string, createdAt time.Time) *Entry {
	return &Entry{
		id:          id,
		playerID:    playerID,
		itemID:      itemID,
		delta:       delta,
		reason:      reason,
		referenceID: referenceID,
		createdAt:   createdAt,
	}
}

func (e *Entry) ID() string                { return e.id }
func (e *Entry) PlayerID() shared.PlayerID { return e.playerID }
func (e *Entry) ItemID() string            { return e.itemID }
func (e *Entry) Delta() int                { return e.delta }
func (e *Entry) Reason() Reason            { return e.reason }
func (e *Entry) ReferenceID() string       { return e.referenceID }
func (e *Entry) CreatedAt() time.Time      { return e.createdAt }
