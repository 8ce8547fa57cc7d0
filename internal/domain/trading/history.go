package trading

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// Role is a party's side in a completed trade
type Role string

const (
	// RoleSeller posted the offer
	RoleSeller Role = "SELLER"
	// RoleBuyer accepted it
	RoleBuyer Role = "BUYER"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is a post-hoc score one party gives the other
type Rating struct {
	Score   int
	Comment string
	RatedAt time.Time
}

// TradeHistory is the immutable ledger entry written when an offer
// completes. The only permitted mutation is attaching each direction's
// rating exactly once.
type TradeHistory struct {
	id          string
	offerID     string
	sellerID    shared.PlayerID
	buyerID     shared.PlayerID
	sellerItems TradeItems
	buyerItems  TradeItems
	completedAt time.Time

	// sellerRating is the seller's rating of the buyer
	sellerRating *Rating
	// buyerRating is the buyer's rating of the seller
	buyerRating *Rating
}

// NewTradeHistory records a completed offer. Seller is the owner and
// contributed Offering; buyer is the acceptor and contributed Requesting.
func NewTradeHistory(offer *TradeOffer) (*TradeHistory, error) {
	if offer.Status() != OfferStatusCompleted || offer.CompletedBy() == nil || offer.CompletedAt() == nil {
		return nil, fmt.Errorf("offer %s is not completed", offer.ID())
	}
	return &TradeHistory{
		id:          uuid.New().String(),
		offerID:     offer.ID(),
		sellerID:    offer.OwnerID(),
		buyerID:     *offer.CompletedBy(),
		sellerItems: offer.Offering(),
		buyerItems:  offer.Requesting(),
		completedAt: *offer.CompletedAt(),
	}, nil
}

// ReconstructTradeHistory rebuilds a history record from persistence
func ReconstructTradeHistory(
	id, offerID string,
	sellerID, buyerID shared.PlayerID,
	sellerItems, buyerItems TradeItems,
	completedAt time.Time,
	sellerRating, buyerRating *Rating,
) *TradeHistory {
	return &TradeHistory{
		id:           id,
		offerID:      offerID,
		sellerID:     sellerID,
		buyerID:      buyerID,
		sellerItems:  sellerItems,
		buyerItems:   buyerItems,
		completedAt:  completedAt,
		sellerRating: sellerRating,
		buyerRating:  buyerRating,
	}
}

func (h *TradeHistory) ID() string                { return h.id }
func (h *TradeHistory) OfferID() string           { return h.offerID }
func (h *TradeHistory) SellerID() shared.PlayerID { return h.sellerID }
func (h *TradeHistory) BuyerID() shared.PlayerID  { return h.buyerID }
func (h *TradeHistory) SellerItems() TradeItems   { return h.sellerItems.Clone() }
func (h *TradeHistory) BuyerItems() TradeItems    { return h.buyerItems.Clone() }
func (h *TradeHistory) CompletedAt() time.Time    { return h.completedAt }
func (h *TradeHistory) SellerRating() *Rating     { return copyRating(h.sellerRating) }
func (h *TradeHistory) BuyerRating() *Rating      { return copyRating(h.buyerRating) }

// RoleOf determines which side playerID was on
func (h *TradeHistory) RoleOf(playerID shared.PlayerID) (Role, bool) {
	switch {
	case h.sellerID.Equals(playerID):
		return RoleSeller, true
	case h.buyerID.Equals(playerID):
		return RoleBuyer, true
	default:
		return "", false
	}
}

// IsParty reports whether playerID took part in the trade
func (h *TradeHistory) IsParty(playerID shared.PlayerID) bool {
	_, ok := h.RoleOf(playerID)
	return ok
}

// Rate attaches the rater's rating for their direction. A direction that
// already holds a rating is never overwritten.
func (h *TradeHistory) Rate(raterID shared.PlayerID, score int, comment string, now time.Time) (Role, *Rating, error) {
	role, ok := h.RoleOf(raterID)
	if !ok {
		return "", nil, &shared.PermissionDeniedError{PlayerID: raterID.String(), Action: "rate", Resource: "trade " + h.id}
	}
	if score < MinRating || score > MaxRating {
		return "", nil, shared.NewValidationError("rating", fmt.Sprintf("must be %d-%d, got %d", MinRating, MaxRating, score))
	}

	slot := &h.sellerRating
	if role == RoleBuyer {
		slot = &h.buyerRating
	}
	if *slot != nil {
		return "", nil, &AlreadyRatedError{HistoryID: h.id, Role: role}
	}

	rating := &Rating{Score: score, Comment: strings.TrimSpace(comment), RatedAt: now}
	*slot = rating
	return role, copyRating(rating), nil
}

func copyRating(r *Rating) *Rating {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
