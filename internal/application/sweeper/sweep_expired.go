package sweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/outpost-go/internal/adapters/metrics"
	"github.com/andrescamacho/outpost-go/internal/application/construction/commands"
	"github.com/andrescamacho/outpost-go/internal/application/logging"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

// SweepExpiredCommand expires every offer past its deadline and finalizes
// every building whose countdown finished
type SweepExpiredCommand struct {
	// BatchSize overrides the handler's batch size when positive
	BatchSize int
}

// SweepResult counts the transitions one pass applied
type SweepResult struct {
	OffersExpired      int
	BuildingsFinalized int
}

// SweepExpiredHandler handles the SweepExpired command. Work is done in
// batches, each its own transaction, paced by a token bucket so a large
// backlog does not monopolize the store.
type SweepExpiredHandler struct {
	offers     trading.OfferRepository
	buildings  construction.BuildingRepository
	transactor shared.Transactor
	clock      shared.Clock
	limiter    *rate.Limiter
	batchSize  int
}

// NewSweepExpiredHandler creates a new SweepExpiredHandler allowing
// batchesPerSecond batches per second
func NewSweepExpiredHandler(
	offers trading.OfferRepository,
	buildings construction.BuildingRepository,
	transactor shared.Transactor,
	clock shared.Clock,
	batchSize int,
	batchesPerSecond float64,
) *SweepExpiredHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	limit := rate.Inf
	if batchesPerSecond > 0 {
		limit = rate.Limit(batchesPerSecond)
	}
	return &SweepExpiredHandler{
		offers:     offers,
		buildings:  buildings,
		transactor: transactor,
		clock:      clock,
		limiter:    rate.NewLimiter(limit, 1),
		batchSize:  batchSize,
	}
}

// Handle executes the SweepExpired command. The response is a *SweepResult.
func (h *SweepExpiredHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SweepExpiredCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SweepExpiredCommand")
	}

	batch := h.batchSize
	if cmd.BatchSize > 0 {
		batch = cmd.BatchSize
	}

	start := time.Now()
	result, err := h.sweep(ctx, batch)
	metrics.RecordSweep(time.Since(start).Seconds(), result.OffersExpired, result.BuildingsFinalized, err)
	metrics.RecordOfferTransition(trading.OfferStatusExpired.String(), result.OffersExpired)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug("sweep finished",
		zap.Int("offers_expired", result.OffersExpired),
		zap.Int("buildings_finalized", result.BuildingsFinalized),
	)
	return result, nil
}

func (h *SweepExpiredHandler) sweep(ctx context.Context, batch int) (*SweepResult, error) {
	result := &SweepResult{}
	now := h.clock.Now()

	for {
		if err := h.limiter.Wait(ctx); err != nil {
			return result, err
		}
		var n int
		err := h.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			var err error
			n, err = h.offers.ExpireDue(ctx, now, batch)
			return err
		})
		if err != nil {
			return result, err
		}
		result.OffersExpired += n
		if n < batch {
			break
		}
	}

	for {
		if err := h.limiter.Wait(ctx); err != nil {
			return result, err
		}
		due, err := h.buildings.FindDueForCompletion(ctx, now, batch)
		if err != nil {
			return result, err
		}
		progressed := 0
		for _, b := range due {
			_, changed, err := commands.FinalizeIfDue(ctx, h.transactor, h.buildings, b.ID(), now, commands.TriggerSweep)
			var gone *construction.BuildingNotFoundError
			if errors.As(err, &gone) {
				// demolished since the scan
				continue
			}
			if err != nil {
				return result, err
			}
			if changed {
				progressed++
			}
		}
		result.BuildingsFinalized += progressed
		if len(due) < batch || progressed == 0 {
			break
		}
	}

	return result, nil
}
