package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

// GormTradeHistoryRepository implements trading.HistoryRepository using GORM
type GormTradeHistoryRepository struct {
	db *gorm.DB
}

// NewGormTradeHistoryRepository creates a new GORM trade history repository
func NewGormTradeHistoryRepository(db *gorm.DB) *GormTradeHistoryRepository {
	return &GormTradeHistoryRepository{db: db}
}

var _ trading.HistoryRepository = (*GormTradeHistoryRepository)(nil)

// tradeItemJSON is the stored shape of one history line
type tradeItemJSON struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Quality  string `json:"quality,omitempty"`
}

// Create persists a completed trade
func (r *GormTradeHistoryRepository) Create(ctx context.Context, history *trading.TradeHistory) error {
	model, err := r.historyToModel(history)
	if err != nil {
		return err
	}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return shared.NewStorageError("create trade history", err)
	}
	return nil
}

// FindByID retrieves a history record by ID
func (r *GormTradeHistoryRepository) FindByID(ctx context.Context, id string) (*trading.TradeHistory, error) {
	var model TradeHistoryModel
	result := conn(ctx, r.db).Where("id = ?", id).Take(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &trading.HistoryNotFoundError{HistoryID: id}
		}
		return nil, shared.NewStorageError("find trade history", result.Error)
	}
	return r.modelToHistory(&model)
}

// FindByPlayer lists trades where the player was seller or buyer, newest first
func (r *GormTradeHistoryRepository) FindByPlayer(ctx context.Context, playerID shared.PlayerID, limit int) ([]*trading.TradeHistory, error) {
	query := conn(ctx, r.db).
		Where("seller_id = ? OR buyer_id = ?", playerID.Value(), playerID.Value()).
		Order("completed_at DESC, id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []TradeHistoryModel
	if err := query.Find(&models).Error; err != nil {
		return nil, shared.NewStorageError("find trade history", err)
	}

	histories := make([]*trading.TradeHistory, 0, len(models))
	for i := range models {
		h, err := r.modelToHistory(&models[i])
		if err != nil {
			return nil, err
		}
		histories = append(histories, h)
	}
	return histories, nil
}

// SaveRating writes the role's rating columns only while they are still NULL
func (r *GormTradeHistoryRepository) SaveRating(ctx context.Context, historyID string, role trading.Role, rating *trading.Rating) (bool, error) {
	prefix := "seller"
	if role == trading.RoleBuyer {
		prefix = "buyer"
	}

	db := conn(ctx, r.db)
	result := db.Model(&TradeHistoryModel{}).
		Where(fmt.Sprintf("id = ? AND %s_rating_score IS NULL", prefix), historyID).
		Updates(map[string]interface{}{
			prefix + "_rating_score":   rating.Score,
			prefix + "_rating_comment": rating.Comment,
			prefix + "_rated_at":       rating.RatedAt,
		})
	if result.Error != nil {
		return false, shared.NewStorageError("save trade rating", result.Error)
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	// Distinguish a missing record from an already-rated one
	var count int64
	if err := db.Model(&TradeHistoryModel{}).Where("id = ?", historyID).Count(&count).Error; err != nil {
		return false, shared.NewStorageError("save trade rating", err)
	}
	if count == 0 {
		return false, &trading.HistoryNotFoundError{HistoryID: historyID}
	}
	return false, nil
}

// modelToHistory converts database model to domain entity
func (r *GormTradeHistoryRepository) modelToHistory(model *TradeHistoryModel) (*trading.TradeHistory, error) {
	sellerID, err := shared.NewPlayerID(model.SellerID)
	if err != nil {
		return nil, shared.NewStorageError("decode trade history", err)
	}
	buyerID, err := shared.NewPlayerID(model.BuyerID)
	if err != nil {
		return nil, shared.NewStorageError("decode trade history", err)
	}
	sellerItems, err := decodeTradeItems(model.SellerItems)
	if err != nil {
		return nil, shared.NewStorageError("decode trade history", err)
	}
	buyerItems, err := decodeTradeItems(model.BuyerItems)
	if err != nil {
		return nil, shared.NewStorageError("decode trade history", err)
	}

	return trading.ReconstructTradeHistory(
		model.ID,
		model.OfferID,
		sellerID,
		buyerID,
		sellerItems,
		buyerItems,
		model.CompletedAt,
		ratingFromColumns(model.SellerRatingScore, model.SellerRatingComment, model.SellerRatedAt),
		ratingFromColumns(model.BuyerRatingScore, model.BuyerRatingComment, model.BuyerRatedAt),
	), nil
}

// historyToModel converts domain entity to database model
func (r *GormTradeHistoryRepository) historyToModel(h *trading.TradeHistory) (*TradeHistoryModel, error) {
	sellerItems, err := encodeTradeItems(h.SellerItems())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal seller items: %w", err)
	}
	buyerItems, err := encodeTradeItems(h.BuyerItems())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal buyer items: %w", err)
	}

	model := &TradeHistoryModel{
		ID:          h.ID(),
		OfferID:     h.OfferID(),
		SellerID:    h.SellerID().Value(),
		BuyerID:     h.BuyerID().Value(),
		SellerItems: sellerItems,
		BuyerItems:  buyerItems,
		CompletedAt: h.CompletedAt(),
	}
	if rating := h.SellerRating(); rating != nil {
		model.SellerRatingScore, model.SellerRatingComment, model.SellerRatedAt = &rating.Score, &rating.Comment, &rating.RatedAt
	}
	if rating := h.BuyerRating(); rating != nil {
		model.BuyerRatingScore, model.BuyerRatingComment, model.BuyerRatedAt = &rating.Score, &rating.Comment, &rating.RatedAt
	}
	return model, nil
}

func ratingFromColumns(score *int, comment *string, ratedAt *time.Time) *trading.Rating {
	if score == nil {
		return nil
	}
	rating := &trading.Rating{Score: *score}
	if comment != nil {
		rating.Comment = *comment
	}
	if ratedAt != nil {
		rating.RatedAt = *ratedAt
	}
	return rating
}

func encodeTradeItems(items trading.TradeItems) (string, error) {
	rows := make([]tradeItemJSON, len(items))
	for i, item := range items {
		rows[i] = tradeItemJSON{ItemID: item.ItemID, Quantity: item.Quantity, Quality: item.Quality}
	}
	bytes, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func decodeTradeItems(raw string) (trading.TradeItems, error) {
	if raw == "" {
		return nil, nil
	}
	var rows []tradeItemJSON
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, err
	}
	items := make(trading.TradeItems, len(rows))
	for i, row := range rows {
		items[i] = trading.TradeItem{ItemID: row.ItemID, Quantity: row.Quantity, Quality: row.Quality}
	}
	return items, nil
}
