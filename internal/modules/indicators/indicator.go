// Package indicators evaluates the deterministic cycle-risk rules over one
// instrument's price window. Each indicator is a small strategy behind a
// common interface; the evaluator runs the registered set and aggregates
// points into a per-instrument summary.
package indicators

import (
	"cyclewatch/internal/domain"
)

// Indicator evaluates one deterministic rule set over a snapshot.
// An indicator whose minimum lookback is not met returns a neutral
// zero-point result instead of an error.
type Indicator interface {
	Name() string
	Evaluate(snap *domain.InstrumentSnapshot) domain.IndicatorResult
}

// DefaultIndicators returns the full registered indicator set in
// evaluation order.
func DefaultIndicators() []Indicator {
	return []Indicator{
		NewSustainedRSI(),
		NewExhaustion(),
		NewRSIDivergence(),
		NewROCCompression(),
		NewAccumulationZone(),
		NewTrendPersistence(),
		NewFirstMAFailure(),
		NewATRExpansion(),
		NewMAExtension(),
		NewVolRegimeShift(),
	}
}

// neutralResult builds the degrade-gracefully result for an indicator whose
// lookback window is too short: direction NEUTRAL, zero points, no rules.
func neutralResult(name string, category domain.Category, timeframe domain.Timeframe, evidence domain.Evidence, rationale string) domain.IndicatorResult {
	return domain.IndicatorResult{
		Name:         name,
		Category:     category,
		Timeframe:    timeframe,
		Direction:    domain.DirectionNeutral,
		Evidence:     evidence,
		WhyItMatters: rationale,
	}
}
