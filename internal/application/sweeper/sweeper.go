package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/andrescamacho/outpost-go/internal/application/logging"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
)

// Sweeper dispatches SweepExpiredCommand on a fixed interval until its
// context is cancelled
type Sweeper struct {
	mediator mediator.Mediator
	interval time.Duration
	logger   *zap.Logger
	observer func(err error)
}

// NewSweeper creates a periodic sweeper
func NewSweeper(med mediator.Mediator, interval time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{mediator: med, interval: interval, logger: logger.Named("sweeper")}
}

// OnPass registers fn to be called after every pass with its error
func (s *Sweeper) OnPass(fn func(err error)) {
	s.observer = fn
}

// Run sweeps once immediately, then on every tick. It returns when ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ctx = logging.WithLogger(ctx, s.logger)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", zap.Duration("interval", s.interval))
	s.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		}
	}
}

func (s *Sweeper) runOnce(ctx context.Context) {
	resp, err := s.mediator.Send(ctx, &SweepExpiredCommand{})
	if s.observer != nil && ctx.Err() == nil {
		s.observer(err)
	}
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("sweep failed", zap.Error(err))
		}
		return
	}
	if result, ok := resp.(*SweepResult); ok && (result.OffersExpired > 0 || result.BuildingsFinalized > 0) {
		s.logger.Info("sweep applied transitions",
			zap.Int("offers_expired", result.OffersExpired),
			zap.Int("buildings_finalized", result.BuildingsFinalized),
		)
	}
}
