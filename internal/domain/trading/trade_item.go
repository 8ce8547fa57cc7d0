package trading

import (
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// TradeItem is a value object: one line of an offer
type TradeItem struct {
	ItemID   string
	Quantity int
	// Quality is an optional free-form tag carried for display only.
	// Inventories are keyed by item id alone.
	Quality string
}

// NewTradeItem validates a trade line
func NewTradeItem(itemID string, quantity int, quality string) (TradeItem, error) {
	if itemID == "" {
		return TradeItem{}, shared.NewValidationError("item_id", "cannot be empty")
	}
	if quantity <= 0 {
		return TradeItem{}, shared.NewValidationError(itemID, fmt.Sprintf("quantity must be positive (got %d)", quantity))
	}
	return TradeItem{ItemID: itemID, Quantity: quantity, Quality: quality}, nil
}

func (i TradeItem) String() string {
	if i.Quality != "" {
		return fmt.Sprintf("%dx %s (%s)", i.Quantity, i.ItemID, i.Quality)
	}
	return fmt.Sprintf("%dx %s", i.Quantity, i.ItemID)
}

// TradeItems is an ordered list of trade lines
type TradeItems []TradeItem

// Totals sums quantities per item id. Two lines for the same item with
// different quality tags draw on the same inventory row.
func (items TradeItems) Totals() shared.ResourceQuantity {
	totals := make(shared.ResourceQuantity, len(items))
	for _, item := range items {
		totals[item.ItemID] += item.Quantity
	}
	return totals
}

// Validate checks every line
func (items TradeItems) Validate(side string) error {
	if len(items) == 0 {
		return shared.NewValidationError(side, "must list at least one item")
	}
	for _, item := range items {
		if _, err := NewTradeItem(item.ItemID, item.Quantity, item.Quality); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent copy preserving order
func (items TradeItems) Clone() TradeItems {
	out := make(TradeItems, len(items))
	copy(out, items)
	return out
}
