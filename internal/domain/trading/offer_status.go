package trading

// OfferStatus is the persisted state of a trade offer
type OfferStatus string

const (
	OfferStatusActive    OfferStatus = "ACTIVE"
	OfferStatusCompleted OfferStatus = "COMPLETED"
	OfferStatusCancelled OfferStatus = "CANCELLED"
	OfferStatusExpired   OfferStatus = "EXPIRED"
)

// ParseOfferStatus parses a persisted status string
func ParseOfferStatus(s string) (OfferStatus, error) {
	switch OfferStatus(s) {
	case OfferStatusActive, OfferStatusCompleted, OfferStatusCancelled, OfferStatusExpired:
		return OfferStatus(s), nil
	default:
		return "", &InvalidStatusError{Status: s}
	}
}

// IsTerminal reports whether no further transition is permitted
func (s OfferStatus) IsTerminal() bool {
	return s != OfferStatusActive
}

func (s OfferStatus) String() string {
	return string(s)
}
