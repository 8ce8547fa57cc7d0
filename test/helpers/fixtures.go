package helpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	catalogAdapter "github.com/andrescamacho/outpost-go/internal/adapters/catalog"
	"github.com/andrescamacho/outpost-go/internal/adapters/persistence"
	"github.com/andrescamacho/outpost-go/internal/application/auth"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/setup"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/infrastructure/database"
)

// T0 is the fixed start instant used by time-dependent tests
var T0 = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

// TestCatalogYAML is a small catalog with round numbers for scenarios
const TestCatalogYAML = `
items:
  - {id: wood, name: Wood, kind: raw, tradeable: true}
  - {id: stone, name: Stone, kind: raw, tradeable: true}
  - {id: scrap_metal, name: Scrap Metal, kind: raw, tradeable: true}
  - {id: blueprint_fragment, name: Blueprint Fragment, kind: quest, tradeable: false}
templates:
  - id: hut
    name: Hut
    category: survival
    tier: 1
    required_resources: {wood: 30}
    build_duration_seconds: 60
    max_per_territory: 1
    max_level: 3
    upgrade_costs:
      2: {wood: 10, stone: 5}
  - id: crate
    name: Crate
    category: storage
    tier: 1
    required_resources: {wood: 5}
    build_duration_seconds: 30
    max_per_territory: 10
    max_level: 1
`

// Env bundles a migrated database and a fully wired mediator
type Env struct {
	DB         *gorm.DB
	Clock      *shared.MockClock
	Catalog    *catalogAdapter.StaticCatalog
	Transactor *persistence.GormTransactor
	Repos      setup.Repositories
	Ledger     *ledger.ResourceLedger
	Mediator   mediator.Mediator
}

// NewEnv wires every handler against a fresh in-memory database, the test
// catalog and a mock clock at T0
func NewEnv(t testing.TB) *Env {
	return NewEnvWithOptions(t, setup.DefaultOptions())
}

// NewEnvWithOptions is NewEnv with custom handler options
func NewEnvWithOptions(t testing.TB, options setup.Options) *Env {
	t.Helper()

	env, err := BuildEnv(options)
	if err != nil {
		t.Fatalf("failed to build test env: %v", err)
	}
	t.Cleanup(func() {
		_ = env.Close()
	})
	return env
}

// BuildEnv wires an Env without a testing.TB. Callers own Close.
func BuildEnv(options setup.Options) (*Env, error) {
	db, err := database.NewTestConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to create test database: %w", err)
	}
	cat, err := catalogAdapter.Parse([]byte(TestCatalogYAML))
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to parse test catalog: %w", err)
	}

	clock := shared.NewMockClock(T0)
	transactor := persistence.NewGormTransactor(db)
	repos := persistence.NewRepositories(db)

	registry := setup.NewHandlerRegistry(repos, cat, transactor, clock, options)
	med, err := registry.CreateConfiguredMediator(auth.RequireIdentity())
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to configure mediator: %w", err)
	}

	return &Env{
		DB:         db,
		Clock:      clock,
		Catalog:    cat,
		Transactor: transactor,
		Repos:      repos,
		Ledger:     registry.Ledger(),
		Mediator:   med,
	}, nil
}

// Close releases the database
func (e *Env) Close() error {
	return database.Close(e.DB)
}

// As returns a context carrying the given player's identity
func As(player string) context.Context {
	return auth.WithPlayerID(context.Background(), shared.MustNewPlayerID(player))
}

// Grant credits amounts to player or fails the test
func (e *Env) Grant(t testing.TB, player string, amounts map[string]int) {
	t.Helper()
	ref := ledger.Reference{Reason: ledger.ReasonGrant, ID: "fixture"}
	if err := e.Ledger.Credit(context.Background(), shared.MustNewPlayerID(player), amounts, ref); err != nil {
		t.Fatalf("failed to grant %v to %s: %v", amounts, player, err)
	}
}

// Inventory reads player's holdings or fails the test
func (e *Env) Inventory(t testing.TB, player string) shared.ResourceQuantity {
	t.Helper()
	inv, err := e.Ledger.Inventory(context.Background(), shared.MustNewPlayerID(player))
	if err != nil {
		t.Fatalf("failed to read inventory of %s: %v", player, err)
	}
	return inv
}
