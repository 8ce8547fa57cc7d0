package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
)

// GetTemplateQuery looks up one building template
type GetTemplateQuery struct {
	TemplateID string
}

// GetTemplateHandler handles the GetTemplate query
type GetTemplateHandler struct {
	catalog catalog.Catalog
}

// NewGetTemplateHandler creates a new GetTemplateHandler
func NewGetTemplateHandler(cat catalog.Catalog) *GetTemplateHandler {
	return &GetTemplateHandler{catalog: cat}
}

// Handle executes the GetTemplate query. The response is a *TemplateDTO.
func (h *GetTemplateHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetTemplateQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetTemplateQuery")
	}

	template, err := h.catalog.Template(query.TemplateID)
	if err != nil {
		return nil, err
	}
	return toTemplateDTO(template), nil
}
