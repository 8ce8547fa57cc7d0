package commands

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/andrescamacho/outpost-go/internal/adapters/metrics"
	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/trading/dtos"
	"github.com/andrescamacho/outpost-go/internal/application/validation"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

// CreateOfferCommand posts an offer to exchange Offering for Requesting.
// Offered items are checked but not reserved.
type CreateOfferCommand struct {
	auth.Identified
	Offering   []dtos.TradeItemDTO `json:"offering" validate:"required,min=1,dive"`
	Requesting []dtos.TradeItemDTO `json:"requesting" validate:"required,min=1,dive"`
	Message    string              `json:"message"`
	// TTL of zero uses the configured default
	TTL time.Duration `json:"ttl" validate:"gte=0"`
}

// CreateOfferHandler handles the CreateOffer command
type CreateOfferHandler struct {
	offers     trading.OfferRepository
	inventory  ledger.InventoryRepository
	ledger     *ledger.ResourceLedger
	catalog    catalog.Catalog
	transactor shared.Transactor
	clock      shared.Clock
	limits     Limits
}

// NewCreateOfferHandler creates a new CreateOfferHandler
func NewCreateOfferHandler(
	offers trading.OfferRepository,
	inventory ledger.InventoryRepository,
	resourceLedger *ledger.ResourceLedger,
	cat catalog.Catalog,
	transactor shared.Transactor,
	clock shared.Clock,
	limits Limits,
) *CreateOfferHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CreateOfferHandler{
		offers:     offers,
		inventory:  inventory,
		ledger:     resourceLedger,
		catalog:    cat,
		transactor: transactor,
		clock:      clock,
		limits:     limits,
	}
}

// Handle executes the CreateOffer command. The response is a *dtos.OfferDTO.
func (h *CreateOfferHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*CreateOfferCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreateOfferCommand")
	}

	ownerID, err := auth.PlayerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate(cmd); err != nil {
		return nil, err
	}

	ttl, err := h.resolveTTL(cmd.TTL)
	if err != nil {
		return nil, err
	}

	offering := dtos.ToItems(cmd.Offering)
	requesting := dtos.ToItems(cmd.Requesting)
	now := h.clock.Now()

	var offer *trading.TradeOffer
	err = h.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		// Owner's account lock serializes the active-offer cap
		if err := h.inventory.LockAccounts(ctx, ownerID); err != nil {
			return err
		}

		active, err := h.offers.CountActiveByOwner(ctx, ownerID, now)
		if err != nil {
			return err
		}
		if active >= h.limits.MaxActiveOffers {
			return &trading.TooManyActiveOffersError{PlayerID: ownerID.String(), Limit: h.limits.MaxActiveOffers}
		}

		check, err := h.ledger.Has(ctx, ownerID, offering.Totals())
		if err != nil {
			return err
		}
		if !check.Sufficient {
			return &trading.InsufficientItemsError{PlayerID: ownerID.String(), Missing: check.Missing}
		}

		o, err := trading.NewTradeOffer(ownerID, offering, requesting, cmd.Message, now, ttl)
		if err != nil {
			return err
		}
		if err := h.offers.Create(ctx, o); err != nil {
			return err
		}
		offer = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordOfferCreated()
	return dtos.FromOffer(offer, now), nil
}

func (h *CreateOfferHandler) validate(cmd *CreateOfferCommand) error {
	if err := validation.Struct(cmd); err != nil {
		return err
	}

	sides := []struct {
		name  string
		lines []dtos.TradeItemDTO
	}{
		{"offering", cmd.Offering},
		{"requesting", cmd.Requesting},
	}
	for _, side := range sides {
		if len(side.lines) > h.limits.MaxLinesPerSide {
			return shared.NewValidationError(side.name, fmt.Sprintf("must have at most %d lines", h.limits.MaxLinesPerSide))
		}
		for _, line := range side.lines {
			item, err := h.catalog.ItemDefinition(line.ItemID)
			if err != nil {
				return err
			}
			if !item.Tradeable() {
				return shared.NewValidationError(side.name, fmt.Sprintf("item %s cannot be traded", line.ItemID))
			}
		}
	}

	if n := utf8.RuneCountInString(cmd.Message); n > h.limits.MaxMessageLength {
		return shared.NewValidationError("message", fmt.Sprintf("must be at most %d characters (got %d)", h.limits.MaxMessageLength, n))
	}
	return nil
}

func (h *CreateOfferHandler) resolveTTL(requested time.Duration) (time.Duration, error) {
	if requested == 0 {
		return h.limits.DefaultTTL, nil
	}
	if requested < h.limits.MinTTL || requested > h.limits.MaxTTL {
		return 0, shared.NewValidationError("ttl", fmt.Sprintf("must be between %s and %s", h.limits.MinTTL, h.limits.MaxTTL))
	}
	return requested, nil
}
