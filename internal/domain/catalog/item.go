package catalog

import "github.com/andrescamacho/outpost-go/internal/domain/shared"

// ItemDefinition is the static description of an inventory item
type ItemDefinition struct {
	id        string
	name      string
	kind      string
	tradeable bool
}

// NewItemDefinition validates and creates an item definition
func NewItemDefinition(id, name, kind string, tradeable bool) (*ItemDefinition, error) {
	if id == "" {
		return nil, shared.NewValidationError("item.id", "cannot be empty")
	}
	if name == "" {
		name = id
	}
	return &ItemDefinition{id: id, name: name, kind: kind, tradeable: tradeable}, nil
}

func (i *ItemDefinition) ID() string      { return i.id }
func (i *ItemDefinition) Name() string    { return i.name }
func (i *ItemDefinition) Kind() string    { return i.kind }
func (i *ItemDefinition) Tradeable() bool { return i.tradeable }
