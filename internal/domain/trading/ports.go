package trading

import (
	"context"
	"time"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// OfferRepository defines persistence operations for trade offers
type OfferRepository interface {
	Create(ctx context.Context, offer *TradeOffer) error

	// FindByID returns *OfferNotFoundError when absent
	FindByID(ctx context.Context, id string) (*TradeOffer, error)

	// TransitionFromActive writes offer's new status (and completion fields)
	// only if the stored status is still ACTIVE. Returns false when another
	// writer already moved it. This is the serialization point for accept,
	// cancel and expiry.
	TransitionFromActive(ctx context.Context, offer *TradeOffer) (bool, error)

	// FindActive lists Active, unexpired offers at now, newest first
	FindActive(ctx context.Context, now time.Time, limit, offset int) ([]*TradeOffer, error)

	// FindStaleActive lists offers still stored ACTIVE but past their deadline
	FindStaleActive(ctx context.Context, now time.Time, limit int) ([]*TradeOffer, error)

	CountActiveByOwner(ctx context.Context, ownerID shared.PlayerID, now time.Time) (int, error)

	// ExpireDue flips up to limit ACTIVE offers with expiresAt < now to
	// EXPIRED and returns how many changed
	ExpireDue(ctx context.Context, now time.Time, limit int) (int, error)
}

// HistoryRepository persists completed trades
type HistoryRepository interface {
	Create(ctx context.Context, history *TradeHistory) error

	// FindByID returns *HistoryNotFoundError when absent
	FindByID(ctx context.Context, id string) (*TradeHistory, error)

	// FindByPlayer lists trades the player took part in, newest first
	FindByPlayer(ctx context.Context, playerID shared.PlayerID, limit int) ([]*TradeHistory, error)

	// SaveRating stores rating for role only if that slot is still empty.
	// Returns false when it was already set.
	SaveRating(ctx context.Context, historyID string, role Role, rating *Rating) (bool, error)
}
