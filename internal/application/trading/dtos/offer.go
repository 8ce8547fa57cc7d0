package dtos

import (
	"time"

	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

// TradeItemDTO is one offer line
type TradeItemDTO struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Quality  string `json:"quality,omitempty" validate:"max=32"`
}

// OfferDTO is an offer as a reader observes it at an instant
type OfferDTO struct {
	ID         string
	OwnerID    string
	Offering   []TradeItemDTO
	Requesting []TradeItemDTO
	// Status is the observed status: an Active offer past its deadline reads EXPIRED
	Status      string
	Message     string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	CompletedAt *time.Time
	CompletedBy string
}

// HistoryDTO is a completed trade
type HistoryDTO struct {
	ID           string
	OfferID      string
	SellerID     string
	BuyerID      string
	SellerItems  []TradeItemDTO
	BuyerItems   []TradeItemDTO
	CompletedAt  time.Time
	SellerRating *RatingDTO
	BuyerRating  *RatingDTO
}

// RatingDTO is one direction's rating
type RatingDTO struct {
	Score   int
	Comment string
	RatedAt time.Time
}

// FromOffer projects o at now
func FromOffer(o *trading.TradeOffer, now time.Time) *OfferDTO {
	dto := &OfferDTO{
		ID:          o.ID(),
		OwnerID:     o.OwnerID().String(),
		Offering:    FromItems(o.Offering()),
		Requesting:  FromItems(o.Requesting()),
		Status:      o.ObservedStatus(now).String(),
		Message:     o.Message(),
		CreatedAt:   o.CreatedAt(),
		ExpiresAt:   o.ExpiresAt(),
		CompletedAt: o.CompletedAt(),
	}
	if by := o.CompletedBy(); by != nil {
		dto.CompletedBy = by.String()
	}
	return dto
}

// FromHistory converts a history record
func FromHistory(h *trading.TradeHistory) *HistoryDTO {
	return &HistoryDTO{
		ID:           h.ID(),
		OfferID:      h.OfferID(),
		SellerID:     h.SellerID().String(),
		BuyerID:      h.BuyerID().String(),
		SellerItems:  FromItems(h.SellerItems()),
		BuyerItems:   FromItems(h.BuyerItems()),
		CompletedAt:  h.CompletedAt(),
		SellerRating: fromRating(h.SellerRating()),
		BuyerRating:  fromRating(h.BuyerRating()),
	}
}

// FromItems converts trade lines preserving order
func FromItems(items trading.TradeItems) []TradeItemDTO {
	out := make([]TradeItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, TradeItemDTO{ItemID: item.ItemID, Quantity: item.Quantity, Quality: item.Quality})
	}
	return out
}

// ToItems converts request lines to domain value objects
func ToItems(lines []TradeItemDTO) trading.TradeItems {
	out := make(trading.TradeItems, 0, len(lines))
	for _, line := range lines {
		out = append(out, trading.TradeItem{ItemID: line.ItemID, Quantity: line.Quantity, Quality: line.Quality})
	}
	return out
}

func fromRating(r *trading.Rating) *RatingDTO {
	if r == nil {
		return nil
	}
	return &RatingDTO{Score: r.Score, Comment: r.Comment, RatedAt: r.RatedAt}
}
