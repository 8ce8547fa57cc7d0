package setup

import (
	"reflect"

	catalogQueries "github.com/andrescamacho/outpost-go/internal/application/catalog/queries"
	constructionCommands "github.com/andrescamacho/outpost-go/internal/application/construction/commands"
	constructionQueries "github.com/andrescamacho/outpost-go/internal/application/construction/queries"
	ledgerCommands "github.com/andrescamacho/outpost-go/internal/application/ledger/commands"
	ledgerQueries "github.com/andrescamacho/outpost-go/internal/application/ledger/queries"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/application/sweeper"
	tradingCommands "github.com/andrescamacho/outpost-go/internal/application/trading/commands"
	tradingQueries "github.com/andrescamacho/outpost-go/internal/application/trading/queries"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/ledger"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/internal/domain/trading"
)

// Options tunes handler behaviour
type Options struct {
	TradeLimits tradingCommands.Limits

	// ListLimit is the default and maximum page size for listings
	ListLimit int

	// FinalizeOnRead lets GetBuildingQuery persist completion it observes
	FinalizeOnRead bool

	SweepBatchSize int
	SweepRateLimit float64
}

// DefaultOptions mirrors the configuration defaults
func DefaultOptions() Options {
	return Options{
		TradeLimits:    tradingCommands.DefaultLimits(),
		ListLimit:      50,
		SweepBatchSize: 200,
		SweepRateLimit: 5,
	}
}

// Repositories groups the persistence ports handlers depend on
type Repositories struct {
	Inventory    ledger.InventoryRepository
	Entries      ledger.EntryRepository
	Buildings    construction.BuildingRepository
	Offers       trading.OfferRepository
	TradeHistory trading.HistoryRepository
}

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	repos      Repositories
	catalog    catalog.Catalog
	transactor shared.Transactor
	clock      shared.Clock
	ledger     *ledger.ResourceLedger
	options    Options
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(
	repos Repositories,
	cat catalog.Catalog,
	transactor shared.Transactor,
	clock shared.Clock,
	options Options,
) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &HandlerRegistry{
		repos:      repos,
		catalog:    cat,
		transactor: transactor,
		clock:      clock,
		ledger:     ledger.NewResourceLedger(repos.Inventory, repos.Entries, transactor, clock),
		options:    options,
	}
}

// Ledger exposes the shared resource ledger
func (r *HandlerRegistry) Ledger() *ledger.ResourceLedger {
	return r.ledger
}

type registration struct {
	request mediator.Request
	handler mediator.RequestHandler
}

func register(m mediator.Mediator, regs []registration) error {
	for _, reg := range regs {
		if err := m.Register(reflect.TypeOf(reg.request), reg.handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterLedgerHandlers registers inventory commands and queries
func (r *HandlerRegistry) RegisterLedgerHandlers(m mediator.Mediator) error {
	return register(m, []registration{
		{&ledgerCommands.GrantResourcesCommand{}, ledgerCommands.NewGrantResourcesHandler(r.ledger, r.catalog)},
		{&ledgerQueries.GetInventoryQuery{}, ledgerQueries.NewGetInventoryHandler(r.ledger)},
		{&ledgerQueries.GetLedgerEntriesQuery{}, ledgerQueries.NewGetLedgerEntriesHandler(r.ledger)},
	})
}

// RegisterCatalogHandlers registers template lookups
func (r *HandlerRegistry) RegisterCatalogHandlers(m mediator.Mediator) error {
	return register(m, []registration{
		{&catalogQueries.ListTemplatesQuery{}, catalogQueries.NewListTemplatesHandler(r.catalog)},
		{&catalogQueries.GetTemplateQuery{}, catalogQueries.NewGetTemplateHandler(r.catalog)},
	})
}

// RegisterConstructionHandlers registers the construction manager
func (r *HandlerRegistry) RegisterConstructionHandlers(m mediator.Mediator) error {
	b := r.repos.Buildings
	return register(m, []registration{
		{&constructionCommands.StartConstructionCommand{}, constructionCommands.NewStartConstructionHandler(b, r.ledger, r.catalog, r.transactor, r.clock)},
		{&constructionCommands.UpgradeBuildingCommand{}, constructionCommands.NewUpgradeBuildingHandler(b, r.ledger, r.catalog, r.transactor, r.clock)},
		{&constructionCommands.DemolishBuildingCommand{}, constructionCommands.NewDemolishBuildingHandler(b, r.transactor, r.clock)},
		{&constructionCommands.FinalizeConstructionCommand{}, constructionCommands.NewFinalizeConstructionHandler(b, r.transactor, r.clock)},
		{&constructionQueries.CheckResourcesQuery{}, constructionQueries.NewCheckResourcesHandler(r.ledger, r.catalog)},
		{&constructionQueries.GetBuildingQuery{}, constructionQueries.NewGetBuildingHandler(b, r.transactor, r.clock, r.options.FinalizeOnRead)},
		{&constructionQueries.ListTerritoryBuildingsQuery{}, constructionQueries.NewListTerritoryBuildingsHandler(b, r.clock)},
	})
}

// RegisterTradingHandlers registers the settlement engine
func (r *HandlerRegistry) RegisterTradingHandlers(m mediator.Mediator) error {
	offers, history := r.repos.Offers, r.repos.TradeHistory
	return register(m, []registration{
		{&tradingCommands.CreateOfferCommand{}, tradingCommands.NewCreateOfferHandler(offers, r.repos.Inventory, r.ledger, r.catalog, r.transactor, r.clock, r.options.TradeLimits)},
		{&tradingCommands.AcceptOfferCommand{}, tradingCommands.NewAcceptOfferHandler(offers, history, r.ledger, r.transactor, r.clock)},
		{&tradingCommands.CancelOfferCommand{}, tradingCommands.NewCancelOfferHandler(offers, r.transactor, r.clock)},
		{&tradingCommands.RateTradeCommand{}, tradingCommands.NewRateTradeHandler(history, r.clock)},
		{&tradingQueries.GetOfferQuery{}, tradingQueries.NewGetOfferHandler(offers, r.transactor, r.clock)},
		{&tradingQueries.ListActiveOffersQuery{}, tradingQueries.NewListActiveOffersHandler(offers, r.transactor, r.clock, r.options.ListLimit)},
		{&tradingQueries.GetTradeHistoryQuery{}, tradingQueries.NewGetTradeHistoryHandler(history)},
		{&tradingQueries.ListPlayerHistoryQuery{}, tradingQueries.NewListPlayerHistoryHandler(history, r.options.ListLimit)},
	})
}

// RegisterSweeperHandlers registers the expiration sweep
func (r *HandlerRegistry) RegisterSweeperHandlers(m mediator.Mediator) error {
	return register(m, []registration{
		{&sweeper.SweepExpiredCommand{}, sweeper.NewSweepExpiredHandler(
			r.repos.Offers, r.repos.Buildings, r.transactor, r.clock,
			r.options.SweepBatchSize, r.options.SweepRateLimit,
		)},
	})
}

// RegisterAll registers every handler group
func (r *HandlerRegistry) RegisterAll(m mediator.Mediator) error {
	groups := []func(mediator.Mediator) error{
		r.RegisterLedgerHandlers,
		r.RegisterCatalogHandlers,
		r.RegisterConstructionHandlers,
		r.RegisterTradingHandlers,
		r.RegisterSweeperHandlers,
	}
	for _, g := range groups {
		if err := g(m); err != nil {
			return err
		}
	}
	return nil
}

// CreateConfiguredMediator creates a mediator with the given middleware
// (outermost first) and every handler registered
func (r *HandlerRegistry) CreateConfiguredMediator(middleware ...mediator.Middleware) (mediator.Mediator, error) {
	m := mediator.NewMediator()
	for _, mw := range middleware {
		m.RegisterMiddleware(mw)
	}
	if err := r.RegisterAll(m); err != nil {
		return nil, err
	}
	return m, nil
}
