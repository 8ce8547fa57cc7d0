package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

// GormLedgerEntryRepository implements ledger.EntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GORM ledger entry repository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

var _ ledger.EntryRepository = (*GormLedgerEntryRepository)(nil)

// Append inserts journal lines in one batch
func (r *GormLedgerEntryRepository) Append(ctx context.Context, entries []*ledger.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]LedgerEntryModel, len(entries))
	for i, e := range entries {
		models[i] = LedgerEntryModel{
			ID:          e.ID(),
			PlayerID:    e.PlayerID().Value(),
			ItemID:      e.ItemID(),
			Delta:       e.Delta(),
			Reason:      e.Reason().String(),
			ReferenceID: e.ReferenceID(),
			CreatedAt:   e.CreatedAt(),
		}
	}
	if err := conn(ctx, r.db).Create(&models).Error; err != nil {
		return shared.NewStorageError("append ledger entries", err)
	}
	return nil
}

// FindByPlayer returns the newest entries first. limit <= 0 means no limit.
func (r *GormLedgerEntryRepository) FindByPlayer(ctx context.Context, playerID shared.PlayerID, limit int) ([]*ledger.Entry, error) {
	query := conn(ctx, r.db).
		Where("player_id = ?", playerID.Value()).
		Order("created_at DESC, id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []LedgerEntryModel
	if err := query.Find(&models).Error; err != nil {
		return nil, shared.NewStorageError("find ledger entries", err)
	}

	entries := make([]*ledger.Entry, 0, len(models))
	for _, m := range models {
		entry, err := r.modelToEntry(&m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *GormLedgerEntryRepository) modelToEntry(m *LedgerEntryModel) (*ledger.Entry, error) {
	playerID, err := shared.NewPlayerID(m.PlayerID)
	if err != nil {
		return nil, shared.NewStorageError("decode ledger entry", err)
	}
	reason, err := ledger.ParseReason(m.Reason)
	if err != nil {
		return nil, shared.NewStorageError("decode ledger entry", err)
	}
	return ledger.ReconstructEntry(m.ID, playerID, m.ItemID, m.Delta, reason, m.ReferenceID, m.CreatedAt), nil
}
