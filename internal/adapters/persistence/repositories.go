package persistence

import (
	"gorm.io/gorm"

	"github.com/andrescamacho/outpost-go/internal/application/setup"
)

// NewRepositories wires every GORM repository against db
func NewRepositories(db *gorm.DB) setup.Repositories {
	return setup.Repositories{
		Inventory:    NewGormInventoryRepository(db),
		Entries:      NewGormLedgerEntryRepository(db),
		Buildings:    NewGormBuildingRepository(db),
		Offers:       NewGormTradeOfferRepository(db),
		TradeHistory: NewGormTradeHistoryRepository(db),
	}
}
