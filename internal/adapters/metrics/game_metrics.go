package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// ConstructionMetricsCollector counts building lifecycle events
type ConstructionMetricsCollector struct {
	started    *prometheus.CounterVec
	upgraded   *prometheus.CounterVec
	demolished *prometheus.CounterVec
	finalized  *prometheus.CounterVec
	rejected   *prometheus.CounterVec
}

// NewConstructionMetricsCollector creates a new construction metrics collector
func NewConstructionMetricsCollector() *ConstructionMetricsCollector {
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "construction",
			Name:      name,
			Help:      help,
		}, labels)
	}
	return &ConstructionMetricsCollector{
		started:    counter("buildings_started_total", "Buildings whose construction started", "template"),
		upgraded:   counter("buildings_upgraded_total", "Building level increases by resulting level", "template", "level"),
		demolished: counter("buildings_demolished_total", "Buildings demolished", "template"),
		finalized:  counter("buildings_finalized_total", "Constructing buildings persisted as Active, by trigger", "template", "trigger"),
		rejected:   counter("requests_rejected_total", "Construction requests refused, by reason", "reason"),
	}
}

// Register registers all construction metrics with the Prometheus registry
func (c *ConstructionMetricsCollector) Register() error {
	return register(c.started, c.upgraded, c.demolished, c.finalized, c.rejected)
}

func (c *ConstructionMetricsCollector) RecordBuildingStarted(templateID string) {
	c.started.WithLabelValues(templateID).Inc()
}

func (c *ConstructionMetricsCollector) RecordBuildingUpgraded(templateID string, level int) {
	c.upgraded.WithLabelValues(templateID, strconv.Itoa(level)).Inc()
}

func (c *ConstructionMetricsCollector) RecordBuildingDemolished(templateID string) {
	c.demolished.WithLabelValues(templateID).Inc()
}

func (c *ConstructionMetricsCollector) RecordBuildingFinalized(templateID string, trigger string) {
	c.finalized.WithLabelValues(templateID, trigger).Inc()
}

func (c *ConstructionMetricsCollector) RecordConstructionRejected(reason string) {
	c.rejected.WithLabelValues(reason).Inc()
}

// TradeMetricsCollector counts offer and settlement events
type TradeMetricsCollector struct {
	offersCreated prometheus.Counter
	transitions   *prometheus.CounterVec
	settlements   prometheus.Counter
	itemsMoved    prometheus.Counter
	rejected      *prometheus.CounterVec
	ratings       prometheus.Histogram
}

// NewTradeMetricsCollector creates a new trade metrics collector
func NewTradeMetricsCollector() *TradeMetricsCollector {
	return &TradeMetricsCollector{
		offersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "trade",
			Name: "offers_created_total", Help: "Trade offers posted",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "trade",
			Name: "offer_transitions_total", Help: "Offers leaving ACTIVE, by terminal status",
		}, []string{"status"}),
		settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "trade",
			Name: "settlements_total", Help: "Completed two-party exchanges",
		}),
		itemsMoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "trade",
			Name: "items_moved_total", Help: "Item units moved by settlements, both directions",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "trade",
			Name: "settlements_rejected_total", Help: "Refused acceptances, by reason",
		}, []string{"reason"}),
		ratings: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "trade",
			Name: "rating_score", Help: "Distribution of post-trade ratings",
			Buckets: []float64{1, 2, 3, 4, 5},
		}),
	}
}

// Register registers all trade metrics with the Prometheus registry
func (c *TradeMetricsCollector) Register() error {
	return register(c.offersCreated, c.transitions, c.settlements, c.itemsMoved, c.rejected, c.ratings)
}

func (c *TradeMetricsCollector) RecordOfferCreated() {
	c.offersCreated.Inc()
}

func (c *TradeMetricsCollector) RecordOfferTransition(status string, count int) {
	c.transitions.WithLabelValues(status).Add(float64(count))
}

func (c *TradeMetricsCollector) RecordSettlement(itemsMoved int) {
	c.settlements.Inc()
	c.itemsMoved.Add(float64(itemsMoved))
}

func (c *TradeMetricsCollector) RecordSettlementRejected(reason string) {
	c.rejected.WithLabelValues(reason).Inc()
}

func (c *TradeMetricsCollector) RecordRating(score int) {
	c.ratings.Observe(float64(score))
}

// SweepMetricsCollector tracks background sweep passes
type SweepMetricsCollector struct {
	runs        *prometheus.CounterVec
	duration    prometheus.Histogram
	transitions *prometheus.CounterVec
}

// NewSweepMetricsCollector creates a new sweep metrics collector
func NewSweepMetricsCollector() *SweepMetricsCollector {
	return &SweepMetricsCollector{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sweeper",
			Name: "runs_total", Help: "Sweep passes by outcome",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "sweeper",
			Name: "run_duration_seconds", Help: "Sweep pass duration",
			Buckets: prometheus.DefBuckets,
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sweeper",
			Name: "transitions_total", Help: "Records transitioned by the sweeper",
		}, []string{"kind"}),
	}
}

// Register registers all sweep metrics with the Prometheus registry
func (c *SweepMetricsCollector) Register() error {
	return register(c.runs, c.duration, c.transitions)
}

func (c *SweepMetricsCollector) RecordSweep(durationSeconds float64, offersExpired, buildingsFinalized int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.runs.WithLabelValues(status).Inc()
	c.duration.Observe(durationSeconds)
	c.transitions.WithLabelValues("offer_expired").Add(float64(offersExpired))
	c.transitions.WithLabelValues("building_finalized").Add(float64(buildingsFinalized))
}

// EnableAll initializes the registry and installs every collector as the
// global recorder. It returns the command collector for PrometheusMiddleware.
func EnableAll() (*CommandMetricsCollector, error) {
	InitRegistry()

	commands := NewCommandMetricsCollector()
	construction := NewConstructionMetricsCollector()
	trade := NewTradeMetricsCollector()
	sweep := NewSweepMetricsCollector()

	for _, r := range []interface{ Register() error }{commands, construction, trade, sweep} {
		if err := r.Register(); err != nil {
			return nil, err
		}
	}

	SetGlobalConstructionCollector(construction)
	SetGlobalTradeCollector(trade)
	SetGlobalSweepCollector(sweep)
	return commands, nil
}
