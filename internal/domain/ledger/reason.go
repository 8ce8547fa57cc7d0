package ledger

import "fmt"

// Reason classifies why a ledger line moved
type Reason string

const (
	// ReasonConstruction is a cost paid to start a building
	ReasonConstruction Reason = "CONSTRUCTION"

	// ReasonUpgrade is a cost paid to raise a building's level
	ReasonUpgrade Reason = "UPGRADE"

	// ReasonTrade is either side of an offer settlement
	ReasonTrade Reason = "TRADE"

	// ReasonGrant is an administrative credit
	ReasonGrant Reason = "GRANT"
)

func (r Reason) String() string {
	return string(r)
}

// IsValid checks if the reason is one of the known values
func (r Reason) IsValid() bool {
	switch r {
	case ReasonConstruction, ReasonUpgrade, ReasonTrade, ReasonGrant:
		return true
	default:
		return false
	}
}

// ParseReason parses a string into a Reason
func ParseReason(s string) (Reason, error) {
	r := Reason(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid ledger reason: %s", s)
	}
	return r, nil
}

// Reference ties a ledger movement to the business record that caused it
type Reference struct {
	Reason Reason
	ID     string
}
