package catalog

// Catalog is the read-only lookup of static reference data.
// Implementations must be safe for unlimited concurrent reads.
type Catalog interface {
	// Template returns *TemplateNotFoundError for unknown ids
	Template(id string) (*BuildingTemplate, error)

	// ItemDefinition returns *ItemNotFoundError for unknown ids
	ItemDefinition(id string) (*ItemDefinition, error)

	// Templates lists every template ordered by tier then id
	Templates() []*BuildingTemplate
}
