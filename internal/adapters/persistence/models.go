package persistence

import (
	"time"
)

// LedgerAccountModel represents the ledger_accounts table.
// One row per player; locking it serializes every inventory mutation of that player.
type LedgerAccountModel struct {
	PlayerID  string    `gorm:"column:player_id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (LedgerAccountModel) TableName() string {
	return "ledger_accounts"
}

// InventoryItemModel represents the inventory_items table
// Primary key is (player_id, item_id)
type InventoryItemModel struct {
	PlayerID  string    `gorm:"column:player_id;primaryKey"`
	ItemID    string    `gorm:"column:item_id;primaryKey"`
	Quantity  int       `gorm:"column:quantity;not null;default:0;check:quantity >= 0"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// LedgerEntryModel represents the ledger_entries table (append-only)
type LedgerEntryModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	PlayerID    string    `gorm:"column:player_id;not null;index:idx_ledger_entries_player_created,priority:1"`
	ItemID      string    `gorm:"column:item_id;not null"`
	Delta       int       `gorm:"column:delta;not null"`
	Reason      string    `gorm:"column:reason;not null"`
	ReferenceID string    `gorm:"column:reference_id"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index:idx_ledger_entries_player_created,priority:2"`
}

func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// TerritoryLockModel represents the territory_locks table.
// Rows carry no data; they exist to be locked while a territory's cap is checked.
type TerritoryLockModel struct {
	TerritoryID string    `gorm:"column:territory_id;primaryKey"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

func (TerritoryLockModel) TableName() string {
	return "territory_locks"
}

// BuildingModel represents the player_buildings table
type BuildingModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	OwnerID         string     `gorm:"column:owner_id;not null;index"`
	TerritoryID     string     `gorm:"column:territory_id;not null;index:idx_buildings_territory_template,priority:1"`
	TemplateID      string     `gorm:"column:template_id;not null;index:idx_buildings_territory_template,priority:2"`
	Status          string     `gorm:"column:status;not null;index:idx_buildings_status_completes,priority:1"`
	Level           int        `gorm:"column:level;not null;default:1"`
	Latitude        *float64   `gorm:"column:latitude"`
	Longitude       *float64   `gorm:"column:longitude"`
	StartedAt       time.Time  `gorm:"column:started_at;not null"`
	CompletesAt     time.Time  `gorm:"column:completes_at;not null;index:idx_buildings_status_completes,priority:2"`
	CompletedAt     *time.Time `gorm:"column:completed_at"`
	BuildDurationMs int64      `gorm:"column:build_duration_ms;not null"`
}

func (BuildingModel) TableName() string {
	return "player_buildings"
}

// TradeOfferModel represents the trade_offers table
type TradeOfferModel struct {
	ID          string                `gorm:"column:id;primaryKey"`
	OwnerID     string                `gorm:"column:owner_id;not null;index"`
	Status      string                `gorm:"column:status;not null;index:idx_trade_offers_status_expires,priority:1"`
	Message     string                `gorm:"column:message;type:text"`
	CreatedAt   time.Time             `gorm:"column:created_at;not null"`
	ExpiresAt   time.Time             `gorm:"column:expires_at;not null;index:idx_trade_offers_status_expires,priority:2"`
	CompletedAt *time.Time            `gorm:"column:completed_at"`
	CompletedBy *string               `gorm:"column:completed_by"`
	Lines       []TradeOfferLineModel `gorm:"foreignKey:OfferID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (TradeOfferModel) TableName() string {
	return "trade_offers"
}

// TradeOfferLineModel represents the trade_offer_lines table.
// Side is "OFFERING" or "REQUESTING"; Ordinal keeps the posted order.
type TradeOfferLineModel struct {
	ID       int    `gorm:"column:id;primaryKey;autoIncrement"`
	OfferID  string `gorm:"column:offer_id;not null;index"`
	Side     string `gorm:"column:side;not null"`
	Ordinal  int    `gorm:"column:ordinal;not null"`
	ItemID   string `gorm:"column:item_id;not null"`
	Quantity int    `gorm:"column:quantity;not null"`
	Quality  string `gorm:"column:quality"`
}

func (TradeOfferLineModel) TableName() string {
	return "trade_offer_lines"
}

// TradeHistoryModel represents the trade_history table
type TradeHistoryModel struct {
	ID                  string     `gorm:"column:id;primaryKey"`
	OfferID             string     `gorm:"column:offer_id;not null;uniqueIndex"`
	SellerID            string     `gorm:"column:seller_id;not null;index"`
	BuyerID             string     `gorm:"column:buyer_id;not null;index"`
	SellerItems         string     `gorm:"column:seller_items;type:text;not null"` // JSON array as text
	BuyerItems          string     `gorm:"column:buyer_items;type:text;not null"`  // JSON array as text
	CompletedAt         time.Time  `gorm:"column:completed_at;not null;index"`
	SellerRatingScore   *int       `gorm:"column:seller_rating_score"`
	SellerRatingComment *string    `gorm:"column:seller_rating_comment;type:text"`
	SellerRatedAt       *time.Time `gorm:"column:seller_rated_at"`
	BuyerRatingScore    *int       `gorm:"column:buyer_rating_score"`
	BuyerRatingComment  *string    `gorm:"column:buyer_rating_comment;type:text"`
	BuyerRatedAt        *time.Time `gorm:"column:buyer_rated_at"`
}

func (TradeHistoryModel) TableName() string {
	return "trade_history"
}

// AllModels lists every table the auto-migration manages
func AllModels() []interface{} {
	return []interface{}{
		&LedgerAccountModel{},
		&InventoryItemModel{},
		&LedgerEntryModel{},
		&TerritoryLockModel{},
		&BuildingModel{},
		&TradeOfferModel{},
		&TradeOfferLineModel{},
		&TradeHistoryModel{},
	}
}
