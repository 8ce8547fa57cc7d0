package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/outpost-go/internal/application/logging"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
)

// PrometheusMiddleware records duration and outcome of every mediator request.
// Request names come from the type with pointer and package prefixes removed,
// e.g. "*commands.AcceptOfferCommand" becomes "AcceptOfferCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(logging.RequestName(request), time.Since(start).Seconds(), err == nil)

		return response, err
	}
}
