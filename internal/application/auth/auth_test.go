package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

type securedCommand struct {
	auth.Identified
}

type openQuery struct{}

func TestPlayerIDFromContext(t *testing.T) {
	_, err := auth.PlayerIDFromContext(context.Background())
	var notAuth *shared.NotAuthenticatedError
	assert.ErrorAs(t, err, &notAuth)

	ctx := auth.WithPlayerID(context.Background(), shared.MustNewPlayerID("alice"))
	id, err := auth.PlayerIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Value())
}

func TestRequireIdentity(t *testing.T) {
	m := mediator.NewMediator()
	m.RegisterMiddleware(auth.RequireIdentity())

	called := 0
	h := mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		called++
		return nil, nil
	})
	require.NoError(t, mediator.RegisterHandler[*securedCommand](m, h))
	require.NoError(t, mediator.RegisterHandler[*openQuery](m, h))

	_, err := m.Send(context.Background(), &securedCommand{})
	var notAuth *shared.NotAuthenticatedError
	assert.ErrorAs(t, err, &notAuth)
	assert.Equal(t, 0, called)

	_, err = m.Send(context.Background(), &openQuery{})
	assert.NoError(t, err)

	ctx := auth.WithPlayerID(context.Background(), shared.MustNewPlayerID("bob"))
	_, err = m.Send(ctx, &securedCommand{})
	assert.NoError(t, err)
	assert.Equal(t, 2, called)
}
