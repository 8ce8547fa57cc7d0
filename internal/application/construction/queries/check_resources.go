package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// CheckResourcesQuery asks whether the caller can afford a template right now.
// The answer is advisory: StartConstruction re-validates under lock.
type CheckResourcesQuery struct {
	auth.Identified
	TemplateID string
}

// CheckResourcesResponse carries the fresh affordability result
type CheckResourcesResponse struct {
	TemplateID string
	Required   shared.ResourceQuantity
	Result     *ledger.ResourceCheckResult
}

// CheckResourcesHandler handles the CheckResources query
type CheckResourcesHandler struct {
	ledger  *ledger.ResourceLedger
	catalog catalog.Catalog
}

// NewCheckResourcesHandler creates a new CheckResourcesHandler
func NewCheckResourcesHandler(resourceLedger *ledger.ResourceLedger, cat catalog.Catalog) *CheckResourcesHandler {
	return &CheckResourcesHandler{ledger: resourceLedger, catalog: cat}
}

// Handle executes the CheckResources query
func (h *CheckResourcesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*CheckResourcesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CheckResourcesQuery")
	}

	playerID, err := auth.PlayerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	template, err := h.catalog.Template(query.TemplateID)
	if err != nil {
		return nil, err
	}

	required := template.RequiredResources()
	result, err := h.ledger.Has(ctx, playerID, required)
	if err != nil {
		return nil, err
	}

	return &CheckResourcesResponse{
		TemplateID: template.ID(),
		Required:   required,
		Result:     result,
	}, nil
}
