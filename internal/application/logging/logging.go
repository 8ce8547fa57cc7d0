package logging

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns a no-op logger if not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}

// Middleware logs every request with its duration. Client errors (domain
// rejections) go to info, storage failures and unknown errors to error.
// The request-scoped logger is placed in ctx for handlers.
func Middleware(base *zap.Logger) mediator.Middleware {
	if base == nil {
		base = zap.NewNop()
	}
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		name := RequestName(request)
		logger := base.With(zap.String("request", name))
		ctx = WithLogger(ctx, logger)

		start := time.Now()
		resp, err := next(ctx, request)
		elapsed := time.Since(start)

		switch {
		case err == nil:
			logger.Debug("request handled", zap.Duration("duration", elapsed))
		case isStorageFailure(err):
			logger.Error("request failed", zap.Duration("duration", elapsed), zap.Error(err))
		default:
			logger.Info("request rejected", zap.Duration("duration", elapsed), zap.Error(err))
		}
		return resp, err
	}
}

// RequestName strips pointer and package prefixes from the request type name
func RequestName(request mediator.Request) string {
	if request == nil {
		return "UnknownRequest"
	}
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func isStorageFailure(err error) bool {
	var storageErr *shared.StorageError
	return errors.As(err, &storageErr)
}
