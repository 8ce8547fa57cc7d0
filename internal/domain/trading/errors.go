package trading

import (
	"fmt"
	"time"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// OfferNotFoundError indicates the offer id does not exist
type OfferNotFoundError struct {
	OfferID string
}

func (e *OfferNotFoundError) Error() string {
	return fmt.Sprintf("trade offer not found: %s", e.OfferID)
}

// OfferNotActiveError indicates the offer already reached a terminal status
type OfferNotActiveError struct {
	OfferID string
	Status  OfferStatus
}

func (e *OfferNotActiveError) Error() string {
	return fmt.Sprintf("trade offer %s is not active (status %s)", e.OfferID, e.Status)
}

// OfferExpiredError indicates the offer's deadline passed
type OfferExpiredError struct {
	OfferID   string
	ExpiresAt time.Time
}

func (e *OfferExpiredError) Error() string {
	return fmt.Sprintf("trade offer %s expired at %s", e.OfferID, e.ExpiresAt.Format(time.RFC3339))
}

// CannotAcceptOwnOfferError indicates the owner tried to accept their own offer
type CannotAcceptOwnOfferError struct {
	OfferID string
}

func (e *CannotAcceptOwnOfferError) Error() string {
	return fmt.Sprintf("cannot accept own trade offer %s", e.OfferID)
}

// InsufficientItemsError indicates the accepting player lacks the requested items
type InsufficientItemsError struct {
	PlayerID string
	Missing  shared.ResourceQuantity
}

func (e *InsufficientItemsError) Error() string {
	return fmt.Sprintf("player %s lacks requested items: missing %s", e.PlayerID, e.Missing)
}

// InventoryItemNotFoundError indicates the owner no longer holds what they offered
type InventoryItemNotFoundError struct {
	OfferID string
	OwnerID string
	Missing shared.ResourceQuantity
}

func (e *InventoryItemNotFoundError) Error() string {
	return fmt.Sprintf("owner %s of offer %s no longer holds offered items: missing %s", e.OwnerID, e.OfferID, e.Missing)
}

// TooManyActiveOffersError indicates the owner is at the active listing cap
type TooManyActiveOffersError struct {
	PlayerID string
	Limit    int
}

func (e *TooManyActiveOffersError) Error() string {
	return fmt.Sprintf("player %s already has the maximum of %d active offers", e.PlayerID, e.Limit)
}

// HistoryNotFoundError indicates the trade history id does not exist
type HistoryNotFoundError struct {
	HistoryID string
}

func (e *HistoryNotFoundError) Error() string {
	return fmt.Sprintf("trade history not found: %s", e.HistoryID)
}

// AlreadyRatedError indicates the rater's direction already holds a rating
type AlreadyRatedError struct {
	HistoryID string
	Role      Role
}

func (e *AlreadyRatedError) Error() string {
	return fmt.Sprintf("trade %s already rated by %s", e.HistoryID, e.Role)
}

// InvalidStatusError indicates an unknown persisted status value
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid trade offer status: %s", e.Status)
}
