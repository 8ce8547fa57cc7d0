package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/validation"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// GrantResourcesCommand credits items to a player outside of gameplay
// (loot drops, admin tooling, test setup)
type GrantResourcesCommand struct {
	PlayerID string         `json:"player_id" validate:"required"`
	Amounts  map[string]int `json:"amounts" validate:"required,min=1,dive,keys,required,endkeys,gt=0"`

	// ReferenceID ties the grant to an external record; generated when empty
	ReferenceID string `json:"reference_id"`
}

// GrantResourcesResponse is the player's inventory after the grant
type GrantResourcesResponse struct {
	PlayerID    string
	ReferenceID string
	Inventory   shared.ResourceQuantity
}

// GrantResourcesHandler handles the GrantResources command
type GrantResourcesHandler struct {
	ledger  *ledger.ResourceLedger
	catalog catalog.Catalog
}

// NewGrantResourcesHandler creates a new GrantResourcesHandler
func NewGrantResourcesHandler(resourceLedger *ledger.ResourceLedger, cat catalog.Catalog) *GrantResourcesHandler {
	return &GrantResourcesHandler{
		ledger:  resourceLedger,
		catalog: cat,
	}
}

// Handle executes the GrantResources command
func (h *GrantResourcesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*GrantResourcesCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GrantResourcesCommand")
	}
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	playerID, err := shared.NewPlayerID(cmd.PlayerID)
	if err != nil {
		return nil, err
	}

	amounts, err := shared.NewResourceQuantity(cmd.Amounts)
	if err != nil {
		return nil, err
	}
	for _, item := range amounts.Items() {
		if _, err := h.catalog.ItemDefinition(item); err != nil {
			return nil, err
		}
	}

	referenceID := cmd.ReferenceID
	if referenceID == "" {
		referenceID = uuid.New().String()
	}

	ref := ledger.Reference{Reason: ledger.ReasonGrant, ID: referenceID}
	if err := h.ledger.Credit(ctx, playerID, amounts, ref); err != nil {
		return nil, err
	}

	inventory, err := h.ledger.Inventory(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return &GrantResourcesResponse{
		PlayerID:    playerID.String(),
		ReferenceID: referenceID,
		Inventory:   inventory,
	}, nil
}
