package mediator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/application/mediator"
)

type pingQuery struct{ Value string }

type pingResponse struct{ Echo string }

func TestMediator_SendDispatchesThroughMiddlewareInOrder(t *testing.T) {
	m := mediator.NewMediator()
	var trace []string

	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, mediator.HandlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			trace = append(trace, "handler")
			return &pingResponse{Echo: request.(*pingQuery).Value}, nil
		},
	)))

	for _, name := range []string{"outer", "inner"} {
		name := name
		m.RegisterMiddleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			trace = append(trace, name)
			return next(ctx, request)
		})
	}

	resp, err := mediator.SendTyped[*pingResponse](context.Background(), m, &pingQuery{Value: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Echo)
	assert.Equal(t, []string{"outer", "inner", "handler"}, trace)
}

func TestMediator_Errors(t *testing.T) {
	m := mediator.NewMediator()

	_, err := m.Send(context.Background(), &pingQuery{})
	assert.Error(t, err)

	_, err = m.Send(context.Background(), nil)
	assert.Error(t, err)

	h := mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, errors.New("boom")
	})
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, h))
	assert.Error(t, mediator.RegisterHandler[*pingQuery](m, h))

	m.RegisterMiddleware(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		return nil, errors.New("blocked")
	})
	_, err = m.Send(context.Background(), &pingQuery{})
	assert.EqualError(t, err, "blocked")
}
