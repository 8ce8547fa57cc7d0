package shared

import "strings"

// PlayerID is a value object wrapping the opaque identity handed out by the
// authentication layer. The core never interprets its contents.
type PlayerID struct {
	value string
}

// NewPlayerID creates a new PlayerID value object.
// An empty identity means the caller was never authenticated.
func NewPlayerID(id string) (PlayerID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return PlayerID{}, &NotAuthenticatedError{}
	}
	return PlayerID{value: id}, nil
}

// MustNewPlayerID creates a new PlayerID value object, panicking if invalid
// Use this only when you're certain the ID is valid (e.g., from database)
func MustNewPlayerID(id string) PlayerID {
	playerID, err := NewPlayerID(id)
	if err != nil {
		panic(err)
	}
	return playerID
}

// Value returns the raw identity string
func (p PlayerID) Value() string {
	return p.value
}

func (p PlayerID) String() string {
	return p.value
}

// Equals checks if two PlayerIDs are equal
func (p PlayerID) Equals(other PlayerID) bool {
	return p.value == other.value
}

// Less orders identities lexically. Multi-player locks are always taken in
// this order.
func (p PlayerID) Less(other PlayerID) bool {
	return p.value < other.value
}

// IsZero checks if the PlayerID is the zero value (uninitialized)
func (p PlayerID) IsZero() bool {
	return p.value == ""
}
