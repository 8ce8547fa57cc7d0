package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/outpost-go/internal/adapters/metrics"
	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/trading/dtos"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

const maxCommentLength = 500

// RateTradeCommand attaches the caller's rating of the other party
type RateTradeCommand struct {
	auth.Identified
	HistoryID string
	Score     int
	Comment   string
}

// RateTradeResponse reports which direction was rated
type RateTradeResponse struct {
	HistoryID string
	Role      string
	Rating    *dtos.RatingDTO
}

// RateTradeHandler handles the RateTrade command
type RateTradeHandler struct {
	history trading.HistoryRepository
	clock   shared.Clock
}

// NewRateTradeHandler creates a new RateTradeHandler
func NewRateTradeHandler(history trading.HistoryRepository, clock shared.Clock) *RateTradeHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RateTradeHandler{history: history, clock: clock}
}

// Handle executes the RateTrade command
func (h *RateTradeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RateTradeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RateTradeCommand")
	}

	raterID, err := auth.PlayerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if len([]rune(cmd.Comment)) > maxCommentLength {
		return nil, shared.NewValidationError("comment", fmt.Sprintf("must be at most %d characters", maxCommentLength))
	}

	record, err := h.history.FindByID(ctx, cmd.HistoryID)
	if err != nil {
		return nil, err
	}

	role, rating, err := record.Rate(raterID, cmd.Score, cmd.Comment, h.clock.Now())
	if err != nil {
		return nil, err
	}

	// The conditional write settles races between two calls from the same rater
	saved, err := h.history.SaveRating(ctx, record.ID(), role, rating)
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, &trading.AlreadyRatedError{HistoryID: record.ID(), Role: role}
	}

	metrics.RecordRating(rating.Score)
	return &RateTradeResponse{
		HistoryID: record.ID(),
		Role:      string(role),
		Rating:    &dtos.RatingDTO{Score: rating.Score, Comment: rating.Comment, RatedAt: rating.RatedAt},
	}, nil
}
