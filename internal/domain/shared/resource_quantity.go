package shared

import (
	"fmt"
	"sort"
	"strings"
)

// ResourceQuantity maps an item identifier to a non-negative unit count.
// It is used both for "required" and "available" snapshots.
type ResourceQuantity map[string]int

// NewResourceQuantity copies raw into a ResourceQuantity, dropping zero
// entries and rejecting negative counts or empty identifiers.
func NewResourceQuantity(raw map[string]int) (ResourceQuantity, error) {
	q := make(ResourceQuantity, len(raw))
	for item, units := range raw {
		if item == "" {
			return nil, NewValidationError("item_id", "cannot be empty")
		}
		if units < 0 {
			return nil, NewValidationError(item, fmt.Sprintf("quantity cannot be negative (got %d)", units))
		}
		if units > 0 {
			q[item] = units
		}
	}
	return q, nil
}

// Get returns the units of item (0 if absent)
func (q ResourceQuantity) Get(item string) int {
	return q[item]
}

// IsEmpty reports whether no item has a positive count
func (q ResourceQuantity) IsEmpty() bool {
	for _, units := range q {
		if units > 0 {
			return false
		}
	}
	return true
}

// Total sums every item's units
func (q ResourceQuantity) Total() int {
	total := 0
	for _, units := range q {
		total += units
	}
	return total
}

// Clone returns an independent copy
func (q ResourceQuantity) Clone() ResourceQuantity {
	out := make(ResourceQuantity, len(q))
	for item, units := range q {
		out[item] = units
	}
	return out
}

// Plus returns q + other without mutating either
func (q ResourceQuantity) Plus(other ResourceQuantity) ResourceQuantity {
	out := q.Clone()
	for item, units := range other {
		out[item] += units
	}
	return out
}

// Missing returns, for every item in q, how many units available lacks.
// Items fully covered are omitted; an empty result means q is affordable.
func (q ResourceQuantity) Missing(available ResourceQuantity) ResourceQuantity {
	missing := make(ResourceQuantity)
	for item, need := range q {
		if have := available[item]; have < need {
			missing[item] = need - have
		}
	}
	return missing
}

// Restrict returns the subset of available covering the item ids of q
func (q ResourceQuantity) Restrict(available ResourceQuantity) ResourceQuantity {
	out := make(ResourceQuantity, len(q))
	for item := range q {
		out[item] = available[item]
	}
	return out
}

// Items returns the item identifiers in lexical order
func (q ResourceQuantity) Items() []string {
	items := make([]string, 0, len(q))
	for item := range q {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}

// Equals compares two quantities ignoring zero entries
func (q ResourceQuantity) Equals(other ResourceQuantity) bool {
	for item, units := range q {
		if other[item] != units {
			return false
		}
	}
	for item, units := range other {
		if q[item] != units {
			return false
		}
	}
	return true
}

func (q ResourceQuantity) String() string {
	if len(q) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(q))
	for _, item := range q.Items() {
		parts = append(parts, fmt.Sprintf("%s:%d", item, q[item]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
