package trading

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// TradeOffer is a posted proposal to exchange Offering for Requesting.
//
// State machine:
//
//	ACTIVE --accept--> COMPLETED
//	ACTIVE --owner cancels--> CANCELLED
//	ACTIVE --now > expiresAt--> EXPIRED
//
// The three edges are mutually exclusive and every target is terminal. The
// entity enforces preconditions; the repository's conditional status write
// is the serialization point that guarantees only one edge ever applies.
type TradeOffer struct {
	id          string
	ownerID     shared.PlayerID
	offering    TradeItems
	requesting  TradeItems
	status      OfferStatus
	message     string
	createdAt   time.Time
	expiresAt   time.Time
	completedAt *time.Time
	completedBy *shared.PlayerID
}

// NewTradeOffer creates an Active offer expiring ttl after now
func NewTradeOffer(
	ownerID shared.PlayerID,
	offering, requesting TradeItems,
	message string,
	now time.Time,
	ttl time.Duration,
) (*TradeOffer, error) {
	if ownerID.IsZero() {
		return nil, &shared.NotAuthenticatedError{}
	}
	if err := offering.Validate("offering"); err != nil {
		return nil, err
	}
	if err := requesting.Validate("requesting"); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, shared.NewValidationError("ttl", "must be positive")
	}

	return &TradeOffer{
		id:         uuid.New().String(),
		ownerID:    ownerID,
		offering:   offering.Clone(),
		requesting: requesting.Clone(),
		status:     OfferStatusActive,
		message:    strings.TrimSpace(message),
		createdAt:  now,
		expiresAt:  now.Add(ttl),
	}, nil
}

// ReconstructTradeOffer rebuilds an offer from persistence
func ReconstructTradeOffer(
	id string,
	ownerID shared.PlayerID,
	offering, requesting TradeItems,
	status OfferStatus,
	message string,
	createdAt, expiresAt time.Time,
	completedAt *time.Time,
	completedBy *shared.PlayerID,
) *TradeOffer {
	return &TradeOffer{
		id:          id,
		ownerID:     ownerID,
		offering:    offering,
		requesting:  requesting,
		status:      status,
		message:     message,
		createdAt:   createdAt,
		expiresAt:   expiresAt,
		completedAt: completedAt,
		completedBy: completedBy,
	}
}

// Getters

func (o *TradeOffer) ID() string                    { return o.id }
func (o *TradeOffer) OwnerID() shared.PlayerID      { return o.ownerID }
func (o *TradeOffer) Offering() TradeItems          { return o.offering.Clone() }
func (o *TradeOffer) Requesting() TradeItems        { return o.requesting.Clone() }
func (o *TradeOffer) Status() OfferStatus           { return o.status }
func (o *TradeOffer) Message() string               { return o.message }
func (o *TradeOffer) CreatedAt() time.Time          { return o.createdAt }
func (o *TradeOffer) ExpiresAt() time.Time          { return o.expiresAt }
func (o *TradeOffer) CompletedAt() *time.Time       { return o.completedAt }
func (o *TradeOffer) CompletedBy() *shared.PlayerID { return o.completedBy }

// IsOwnedBy checks whether playerID posted the offer
func (o *TradeOffer) IsOwnedBy(playerID shared.PlayerID) bool {
	return o.ownerID.Equals(playerID)
}

// IsPastDeadline reports now > expiresAt
func (o *TradeOffer) IsPastDeadline(now time.Time) bool {
	return now.After(o.expiresAt)
}

// ObservedStatus is the status a reader must see at now. An Active offer
// past its deadline is reported Expired even before anything persists it.
func (o *TradeOffer) ObservedStatus(now time.Time) OfferStatus {
	if o.status == OfferStatusActive && o.IsPastDeadline(now) {
		return OfferStatusExpired
	}
	return o.status
}

// Expire applies the ACTIVE -> EXPIRED edge if the deadline passed.
// Returns true if the status changed.
func (o *TradeOffer) Expire(now time.Time) bool {
	if o.status != OfferStatusActive || !o.IsPastDeadline(now) {
		return false
	}
	o.status = OfferStatusExpired
	return true
}

// CheckAcceptable validates every precondition of acceptance at now
// without changing the offer
func (o *TradeOffer) CheckAcceptable(acceptorID shared.PlayerID, now time.Time) error {
	switch {
	case o.status == OfferStatusExpired,
		o.status == OfferStatusActive && o.IsPastDeadline(now):
		return &OfferExpiredError{OfferID: o.id, ExpiresAt: o.expiresAt}
	case o.status != OfferStatusActive:
		return &OfferNotActiveError{OfferID: o.id, Status: o.status}
	case o.ownerID.Equals(acceptorID):
		return &CannotAcceptOwnOfferError{OfferID: o.id}
	}
	return nil
}

// Complete applies the ACTIVE -> COMPLETED edge
func (o *TradeOffer) Complete(acceptorID shared.PlayerID, now time.Time) error {
	if err := o.CheckAcceptable(acceptorID, now); err != nil {
		return err
	}
	completedAt := now
	completedBy := acceptorID
	o.status = OfferStatusCompleted
	o.completedAt = &completedAt
	o.completedBy = &completedBy
	return nil
}

// Cancel applies the ACTIVE -> CANCELLED edge; only the owner may cancel
func (o *TradeOffer) Cancel(requesterID shared.PlayerID, now time.Time) error {
	if !o.ownerID.Equals(requesterID) {
		return &shared.PermissionDeniedError{PlayerID: requesterID.String(), Action: "cancel", Resource: "offer " + o.id}
	}
	if status := o.ObservedStatus(now); status != OfferStatusActive {
		return &OfferNotActiveError{OfferID: o.id, Status: status}
	}
	o.status = OfferStatusCancelled
	return nil
}
