package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace for all metrics
	namespace = "outpost"
)

var (
	// Registry is the global Prometheus registry for all metrics.
	// Nil means metrics are disabled.
	Registry *prometheus.Registry

	// globalConstructionCollector is set by SetGlobalConstructionCollector when metrics are enabled
	globalConstructionCollector ConstructionMetricsRecorder

	// globalTradeCollector is set by SetGlobalTradeCollector when metrics are enabled
	globalTradeCollector TradeMetricsRecorder

	// globalSweepCollector is set by SetGlobalSweepCollector when metrics are enabled
	globalSweepCollector SweepMetricsRecorder
)

// ConstructionMetricsRecorder records building lifecycle events
type ConstructionMetricsRecorder interface {
	RecordBuildingStarted(templateID string)
	RecordBuildingUpgraded(templateID string, level int)
	RecordBuildingDemolished(templateID string)
	RecordBuildingFinalized(templateID string, trigger string)
	RecordConstructionRejected(reason string)
}

// TradeMetricsRecorder records offer lifecycle and settlement events
type TradeMetricsRecorder interface {
	RecordOfferCreated()
	RecordOfferTransition(status string, count int)
	RecordSettlement(itemsMoved int)
	RecordSettlementRejected(reason string)
	RecordRating(score int)
}

// SweepMetricsRecorder records background sweep passes
type SweepMetricsRecorder interface {
	RecordSweep(durationSeconds float64, offersExpired, buildingsFinalized int, err error)
}

// InitRegistry initializes the Prometheus registry with the Go runtime and
// process collectors. Call once at startup when metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Reset clears the registry and every global recorder
func Reset() {
	Registry = nil
	globalConstructionCollector = nil
	globalTradeCollector = nil
	globalSweepCollector = nil
}

// SetGlobalConstructionCollector sets the global construction metrics collector
func SetGlobalConstructionCollector(collector ConstructionMetricsRecorder) {
	globalConstructionCollector = collector
}

// SetGlobalTradeCollector sets the global trade metrics collector
func SetGlobalTradeCollector(collector TradeMetricsRecorder) {
	globalTradeCollector = collector
}

// SetGlobalSweepCollector sets the global sweep metrics collector
func SetGlobalSweepCollector(collector SweepMetricsRecorder) {
	globalSweepCollector = collector
}

// RecordBuildingStarted records a new building globally
func RecordBuildingStarted(templateID string) {
	if globalConstructionCollector != nil {
		globalConstructionCollector.RecordBuildingStarted(templateID)
	}
}

// RecordBuildingUpgraded records a level increase globally
func RecordBuildingUpgraded(templateID string, level int) {
	if globalConstructionCollector != nil {
		globalConstructionCollector.RecordBuildingUpgraded(templateID, level)
	}
}

// RecordBuildingDemolished records a demolition globally
func RecordBuildingDemolished(templateID string) {
	if globalConstructionCollector != nil {
		globalConstructionCollector.RecordBuildingDemolished(templateID)
	}
}

// RecordBuildingFinalized records a persisted Constructing -> Active edge
func RecordBuildingFinalized(templateID string, trigger string) {
	if globalConstructionCollector != nil {
		globalConstructionCollector.RecordBuildingFinalized(templateID, trigger)
	}
}

// RecordConstructionRejected records a refused construction or upgrade
func RecordConstructionRejected(reason string) {
	if globalConstructionCollector != nil {
		globalConstructionCollector.RecordConstructionRejected(reason)
	}
}

// RecordOfferCreated records a posted offer globally
func RecordOfferCreated() {
	if globalTradeCollector != nil {
		globalTradeCollector.RecordOfferCreated()
	}
}

// RecordOfferTransition records offers leaving ACTIVE for status
func RecordOfferTransition(status string, count int) {
	if globalTradeCollector != nil && count > 0 {
		globalTradeCollector.RecordOfferTransition(status, count)
	}
}

// RecordSettlement records a completed exchange
func RecordSettlement(itemsMoved int) {
	if globalTradeCollector != nil {
		globalTradeCollector.RecordSettlement(itemsMoved)
	}
}

// RecordSettlementRejected records a refused acceptance
func RecordSettlementRejected(reason string) {
	if globalTradeCollector != nil {
		globalTradeCollector.RecordSettlementRejected(reason)
	}
}

// RecordRating records a post-trade rating
func RecordRating(score int) {
	if globalTradeCollector != nil {
		globalTradeCollector.RecordRating(score)
	}
}

// RecordSweep records one sweep pass globally
func RecordSweep(durationSeconds float64, offersExpired, buildingsFinalized int, err error) {
	if globalSweepCollector != nil {
		globalSweepCollector.RecordSweep(durationSeconds, offersExpired, buildingsFinalized, err)
	}
}
