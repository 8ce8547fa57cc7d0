package logging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/andrescamacho/outpost-go/internal/application/logging"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

type sampleCommand struct{}

func TestMiddleware_LogsByOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := mediator.NewMediator()
	m.RegisterMiddleware(logging.Middleware(zap.New(core)))

	var results = []error{nil, errors.New("rejected"), shared.NewStorageError("commit", errors.New("disk full"))}
	call := 0
	require.NoError(t, mediator.RegisterHandler[*sampleCommand](m, mediator.HandlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			assert.NotNil(t, logging.FromContext(ctx))
			err := results[call]
			call++
			return nil, err
		},
	)))

	for range results {
		_, _ = m.Send(context.Background(), &sampleCommand{})
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "sampleCommand", entries[0].ContextMap()["request"])
}

func TestFromContext_FallsBackToNop(t *testing.T) {
	assert.NotNil(t, logging.FromContext(context.Background()))
}
