package catalog

import "fmt"

// TemplateNotFoundError is a client error: the template id is not in the catalog
type TemplateNotFoundError struct {
	TemplateID string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("building template not found: %s", e.TemplateID)
}

// ItemNotFoundError is a client error: the item id is not in the catalog
type ItemNotFoundError struct {
	ItemID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item definition not found: %s", e.ItemID)
}
