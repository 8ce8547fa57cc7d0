package commands

import (
	"context"
	"errors"
	"time"

	"github.com/andrescamacho/outpost-go/internal/adapters/metrics"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

// Limits bounds what a player may post
type Limits struct {
	DefaultTTL       time.Duration
	MinTTL           time.Duration
	MaxTTL           time.Duration
	MaxActiveOffers  int
	MaxMessageLength int
	MaxLinesPerSide  int
}

// DefaultLimits mirrors the configuration defaults
func DefaultLimits() Limits {
	return Limits{
		DefaultTTL:       24 * time.Hour,
		MinTTL:           time.Minute,
		MaxTTL:           7 * 24 * time.Hour,
		MaxActiveOffers:  20,
		MaxMessageLength: 280,
		MaxLinesPerSide:  20,
	}
}

// PersistExpiry writes ACTIVE -> EXPIRED for an offer whose deadline passed.
// It runs in its own transaction so the flip survives the rollback of the
// operation that observed it. Returns true if this call wrote the change.
func PersistExpiry(
	ctx context.Context,
	transactor shared.Transactor,
	offers trading.OfferRepository,
	offerID string,
	now time.Time,
) (bool, error) {
	var changed bool
	err := transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		offer, err := offers.FindByID(ctx, offerID)
		if err != nil {
			return err
		}
		if !offer.Expire(now) {
			return nil
		}
		changed, err = offers.TransitionFromActive(ctx, offer)
		return err
	})
	if err != nil {
		return false, err
	}
	if changed {
		metrics.RecordOfferTransition(trading.OfferStatusExpired.String(), 1)
	}
	return changed, nil
}

// notActive reloads the offer after a lost race and reports its new status
func notActive(ctx context.Context, offers trading.OfferRepository, offerID string) error {
	current, err := offers.FindByID(ctx, offerID)
	if err != nil {
		return err
	}
	return &trading.OfferNotActiveError{OfferID: offerID, Status: current.Status()}
}

// settlementRejection labels a refused acceptance for metrics
func settlementRejection(err error) string {
	var (
		expired   *trading.OfferExpiredError
		notActive *trading.OfferNotActiveError
		own       *trading.CannotAcceptOwnOfferError
		buyer     *trading.InsufficientItemsError
		seller    *trading.InventoryItemNotFoundError
		notFound  *trading.OfferNotFoundError
	)
	switch {
	case errors.As(err, &expired):
		return "expired"
	case errors.As(err, &notActive):
		return "not_active"
	case errors.As(err, &own):
		return "own_offer"
	case errors.As(err, &buyer):
		return "insufficient_items"
	case errors.As(err, &seller):
		return "owner_missing_items"
	case errors.As(err, &notFound):
		return "not_found"
	default:
		return "error"
	}
}
