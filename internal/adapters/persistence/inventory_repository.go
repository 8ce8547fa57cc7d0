package persistence

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// GormInventoryRepository implements ledger.InventoryRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GORM inventory repository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

var _ ledger.InventoryRepository = (*GormInventoryRepository)(nil)

// LockAccounts creates missing account rows, then locks them in lexical order.
// SQLite has no row locks; there the single-connection pool serializes writers.
func (r *GormInventoryRepository) LockAccounts(ctx context.Context, players ...shared.PlayerID) error {
	ids := uniqueSortedIDs(players)
	if len(ids) == 0 {
		return nil
	}

	db := conn(ctx, r.db)
	now := time.Now().UTC()
	accounts := make([]LedgerAccountModel, len(ids))
	for i, id := range ids {
		accounts[i] = LedgerAccountModel{PlayerID: id, CreatedAt: now}
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&accounts).Error; err != nil {
		return shared.NewStorageError("create ledger accounts", err)
	}

	for _, id := range ids {
		var locked LedgerAccountModel
		result := db.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("player_id = ?", id).
			Take(&locked)
		if result.Error != nil {
			return shared.NewStorageError("lock ledger account", result.Error)
		}
	}
	return nil
}

// FindByPlayer returns every positive holding of the player
func (r *GormInventoryRepository) FindByPlayer(ctx context.Context, playerID shared.PlayerID) (shared.ResourceQuantity, error) {
	var models []InventoryItemModel
	result := conn(ctx, r.db).
		Where("player_id = ? AND quantity > 0", playerID.Value()).
		Order("item_id").
		Find(&models)
	if result.Error != nil {
		return nil, shared.NewStorageError("find inventory", result.Error)
	}

	holdings := make(shared.ResourceQuantity, len(models))
	for _, m := range models {
		holdings[m.ItemID] = m.Quantity
	}
	return holdings, nil
}

// Decrement removes units only when quantity >= units
func (r *GormInventoryRepository) Decrement(ctx context.Context, playerID shared.PlayerID, itemID string, units int) (bool, error) {
	result := conn(ctx, r.db).
		Model(&InventoryItemModel{}).
		Where("player_id = ? AND item_id = ? AND quantity >= ?", playerID.Value(), itemID, units).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", units),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, shared.NewStorageError("decrement inventory", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// Increment upserts the (player, item) row adding units
func (r *GormInventoryRepository) Increment(ctx context.Context, playerID shared.PlayerID, itemID string, units int) error {
	now := time.Now().UTC()
	row := InventoryItemModel{
		PlayerID:  playerID.Value(),
		ItemID:    itemID,
		Quantity:  units,
		UpdatedAt: now,
	}
	result := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_id"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("inventory_items.quantity + ?", units),
			"updated_at": now,
		}),
	}).Create(&row)
	if result.Error != nil {
		return shared.NewStorageError("increment inventory", result.Error)
	}
	return nil
}

func uniqueSortedIDs(players []shared.PlayerID) []string {
	seen := make(map[string]struct{}, len(players))
	ids := make([]string, 0, len(players))
	for _, p := range players {
		if p.IsZero() {
			continue
		}
		if _, ok := seen[p.Value()]; ok {
			continue
		}
		seen[p.Value()] = struct{}{}
		ids = append(ids, p.Value())
	}
	sort.Strings(ids)
	return ids
}
