package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
)

// ListTemplatesQuery lists building templates, optionally filtered
type ListTemplatesQuery struct {
	Category string
	Tier     int
}

// ListTemplatesResponse is ordered by tier then id
type ListTemplatesResponse struct {
	Templates []*TemplateDTO
}

// ListTemplatesHandler handles the ListTemplates query
type ListTemplatesHandler struct {
	catalog catalog.Catalog
}

// NewListTemplatesHandler creates a new ListTemplatesHandler
func NewListTemplatesHandler(cat catalog.Catalog) *ListTemplatesHandler {
	return &ListTemplatesHandler{catalog: cat}
}

// Handle executes the ListTemplates query
func (h *ListTemplatesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListTemplatesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListTemplatesQuery")
	}

	var out []*TemplateDTO
	for _, t := range h.catalog.Templates() {
		if query.Category != "" && string(t.Category()) != query.Category {
			continue
		}
		if query.Tier != 0 && t.Tier() != query.Tier {
			continue
		}
		out = append(out, toTemplateDTO(t))
	}

	return &ListTemplatesResponse{Templates: out}, nil
}
