package auth

import (
	"context"

	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// Context keys for passing authentication data through context
type authContextKey int

const (
	playerIDKey authContextKey = iota + 1000 // Offset from logger keys
)

// AuthenticatedRequest marks commands and queries that act for a player.
// RequireIdentity rejects them before their handler runs when no identity
// is present.
type AuthenticatedRequest interface {
	RequiresIdentity()
}

// Identified can be embedded in a request struct to mark it authenticated
type Identified struct{}

// RequiresIdentity implements AuthenticatedRequest
func (Identified) RequiresIdentity() {}

// WithPlayerID attaches the calling player's identity to ctx
func WithPlayerID(ctx context.Context, playerID shared.PlayerID) context.Context {
	return context.WithValue(ctx, playerIDKey, playerID)
}

// PlayerIDFromContext extracts the caller identity.
// Returns *shared.NotAuthenticatedError when absent or empty.
func PlayerIDFromContext(ctx context.Context) (shared.PlayerID, error) {
	playerID, ok := ctx.Value(playerIDKey).(shared.PlayerID)
	if !ok || playerID.IsZero() {
		return shared.PlayerID{}, &shared.NotAuthenticatedError{}
	}
	return playerID, nil
}

// RequireIdentity short-circuits AuthenticatedRequest requests that arrive
// without a player identity
func RequireIdentity() mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if _, ok := request.(AuthenticatedRequest); ok {
			if _, err := PlayerIDFromContext(ctx); err != nil {
				return nil, err
			}
		}
		return next(ctx, request)
	}
}
