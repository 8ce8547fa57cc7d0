package ledger

import "github.com/andrescamacho/outpost-go/internal/domain/shared"

// ResourceCheckResult is the derived answer to an affordability query.
// It is computed fresh on every call and never persisted.
type ResourceCheckResult struct {
	Sufficient bool
	Missing    shared.ResourceQuantity
	Available  shared.ResourceQuantity
}

// CheckResources compares required against a holdings snapshot
func CheckResources(required, holdings shared.ResourceQuantity) *ResourceCheckResult {
	missing := required.Missing(holdings)
	return &ResourceCheckResult{
		Sufficient: missing.IsEmpty(),
		Missing:    missing,
		Available:  required.Restrict(holdings),
	}
}
