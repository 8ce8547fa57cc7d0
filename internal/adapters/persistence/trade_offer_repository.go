package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

const (
	sideOffering   = "OFFERING"
	sideRequesting = "REQUESTING"
)

// GormTradeOfferRepository implements trading.OfferRepository using GORM
type GormTradeOfferRepository struct {
	db *gorm.DB
}

// NewGormTradeOfferRepository creates a new GORM trade offer repository
func NewGormTradeOfferRepository(db *gorm.DB) *GormTradeOfferRepository {
	return &GormTradeOfferRepository{db: db}
}

var _ trading.OfferRepository = (*GormTradeOfferRepository)(nil)

// Create persists the offer and its lines
func (r *GormTradeOfferRepository) Create(ctx context.Context, offer *trading.TradeOffer) error {
	model := r.offerToModel(offer)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return shared.NewStorageError("create trade offer", err)
	}
	return nil
}

// FindByID retrieves an offer with its lines
func (r *GormTradeOfferRepository) FindByID(ctx context.Context, id string) (*trading.TradeOffer, error) {
	var model TradeOfferModel
	result := r.withLines(conn(ctx, r.db)).Where("id = ?", id).Take(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &trading.OfferNotFoundError{OfferID: id}
		}
		return nil, shared.NewStorageError("find trade offer", result.Error)
	}
	return r.modelToOffer(&model)
}

// TransitionFromActive is a conditional write on status = ACTIVE
func (r *GormTradeOfferRepository) TransitionFromActive(ctx context.Context, offer *trading.TradeOffer) (bool, error) {
	var completedBy *string
	if by := offer.CompletedBy(); by != nil {
		v := by.Value()
		completedBy = &v
	}

	result := conn(ctx, r.db).
		Model(&TradeOfferModel{}).
		Where("id = ? AND status = ?", offer.ID(), string(trading.OfferStatusActive)).
		Updates(map[string]interface{}{
			"status":       string(offer.Status()),
			"completed_at": offer.CompletedAt(),
			"completed_by": completedBy,
		})
	if result.Error != nil {
		return false, shared.NewStorageError("transition trade offer", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// FindActive lists Active offers whose deadline has not passed, newest first
func (r *GormTradeOfferRepository) FindActive(ctx context.Context, now time.Time, limit, offset int) ([]*trading.TradeOffer, error) {
	query := r.withLines(conn(ctx, r.db)).
		Where("status = ? AND expires_at >= ?", string(trading.OfferStatusActive), now).
		Order("created_at DESC, id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var models []TradeOfferModel
	if err := query.Find(&models).Error; err != nil {
		return nil, shared.NewStorageError("find active trade offers", err)
	}
	return r.modelsToOffers(models)
}

// FindStaleActive lists offers still stored ACTIVE with expires_at < now
func (r *GormTradeOfferRepository) FindStaleActive(ctx context.Context, now time.Time, limit int) ([]*trading.TradeOffer, error) {
	query := r.withLines(conn(ctx, r.db)).
		Where("status = ? AND expires_at < ?", string(trading.OfferStatusActive), now).
		Order("expires_at, id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []TradeOfferModel
	if err := query.Find(&models).Error; err != nil {
		return nil, shared.NewStorageError("find stale trade offers", err)
	}
	return r.modelsToOffers(models)
}

// CountActiveByOwner counts the owner's unexpired Active offers
func (r *GormTradeOfferRepository) CountActiveByOwner(ctx context.Context, ownerID shared.PlayerID, now time.Time) (int, error) {
	var count int64
	result := conn(ctx, r.db).
		Model(&TradeOfferModel{}).
		Where("owner_id = ? AND status = ? AND expires_at >= ?", ownerID.Value(), string(trading.OfferStatusActive), now).
		Count(&count)
	if result.Error != nil {
		return 0, shared.NewStorageError("count active trade offers", result.Error)
	}
	return int(count), nil
}

// ExpireDue flips a batch of stale Active offers to EXPIRED.
// The ids are selected first because UPDATE ... LIMIT is not portable.
func (r *GormTradeOfferRepository) ExpireDue(ctx context.Context, now time.Time, limit int) (int, error) {
	db := conn(ctx, r.db)
	query := db.Model(&TradeOfferModel{}).
		Where("status = ? AND expires_at < ?", string(trading.OfferStatusActive), now).
		Order("expires_at, id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var ids []string
	if err := query.Pluck("id", &ids).Error; err != nil {
		return 0, shared.NewStorageError("select due trade offers", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := db.Model(&TradeOfferModel{}).
		Where("id IN ? AND status = ? AND expires_at < ?", ids, string(trading.OfferStatusActive), now).
		Update("status", string(trading.OfferStatusExpired))
	if result.Error != nil {
		return 0, shared.NewStorageError("expire trade offers", result.Error)
	}
	return int(result.RowsAffected), nil
}

func (r *GormTradeOfferRepository) withLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("side, ordinal")
	})
}

func (r *GormTradeOfferRepository) modelsToOffers(models []TradeOfferModel) ([]*trading.TradeOffer, error) {
	offers := make([]*trading.TradeOffer, 0, len(models))
	for i := range models {
		o, err := r.modelToOffer(&models[i])
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, nil
}

// modelToOffer converts database model to domain entity
func (r *GormTradeOfferRepository) modelToOffer(model *TradeOfferModel) (*trading.TradeOffer, error) {
	ownerID, err := shared.NewPlayerID(model.OwnerID)
	if err != nil {
		return nil, shared.NewStorageError("decode trade offer", err)
	}
	status, err := trading.ParseOfferStatus(model.Status)
	if err != nil {
		return nil, shared.NewStorageError("decode trade offer", err)
	}

	var completedBy *shared.PlayerID
	if model.CompletedBy != nil {
		by, err := shared.NewPlayerID(*model.CompletedBy)
		if err != nil {
			return nil, shared.NewStorageError("decode trade offer", err)
		}
		completedBy = &by
	}

	var offering, requesting trading.TradeItems
	for _, line := range model.Lines {
		item := trading.TradeItem{ItemID: line.ItemID, Quantity: line.Quantity, Quality: line.Quality}
		if line.Side == sideOffering {
			offering = append(offering, item)
		} else {
			requesting = append(requesting, item)
		}
	}

	return trading.ReconstructTradeOffer(
		model.ID,
		ownerID,
		offering,
		requesting,
		status,
		model.Message,
		model.CreatedAt,
		model.ExpiresAt,
		model.CompletedAt,
		completedBy,
	), nil
}

// offerToModel converts domain entity to database model
func (r *GormTradeOfferRepository) offerToModel(offer *trading.TradeOffer) *TradeOfferModel {
	model := &TradeOfferModel{
		ID:          offer.ID(),
		OwnerID:     offer.OwnerID().Value(),
		Status:      string(offer.Status()),
		Message:     offer.Message(),
		CreatedAt:   offer.CreatedAt(),
		ExpiresAt:   offer.ExpiresAt(),
		CompletedAt: offer.CompletedAt(),
	}
	if by := offer.CompletedBy(); by != nil {
		v := by.Value()
		model.CompletedBy = &v
	}

	for i, item := range offer.Offering() {
		model.Lines = append(model.Lines, r.lineModel(offer.ID(), sideOffering, i, item))
	}
	for i, item := range offer.Requesting() {
		model.Lines = append(model.Lines, r.lineModel(offer.ID(), sideRequesting, i, item))
	}
	return model
}

func (r *GormTradeOfferRepository) lineModel(offerID, side string, ordinal int, item trading.TradeItem) TradeOfferLineModel {
	return TradeOfferLineModel{
		OfferID:  offerID,
		Side:     side,
		Ordinal:  ordinal,
		ItemID:   item.ItemID,
		Quantity: item.Quantity,
		Quality:  item.Quality,
	}
}
