package indicators

import (
	"fmt"

	"cyclewatch/internal/domain"
	"cyclewatch/pkg/formulas"
)

// Exhaustion flags price pinned within a few percent of its 20-day high
// for an extended stretch. Breakouts need expanding participation; pinned
// highs often mean distribution.
type Exhaustion struct {
	threshold float64
	minDays   int
}

// NewExhaustion creates the 20-day-high exhaustion indicator
func NewExhaustion() *Exhaustion {
	return &Exhaustion{threshold: 0.98, minDays: 10}
}

// Name returns the indicator identifier
func (e *Exhaustion) Name() string { return "EXHAUSTION_NEAR_20D_HIGH" }

const exhaustionRationale = "Breakouts need expanding participation; pinned highs often mean distribution."

// Evaluate counts consecutive days the close held above the threshold share
// of its rolling 20-day high
func (e *Exhaustion) Evaluate(snap *domain.InstrumentSnapshot) domain.IndicatorResult {
	closes := snap.Closes()
	highs := snap.Highs()
	if len(closes) < 20 {
		return neutralResult(e.Name(), domain.CategoryTrend, domain.TimeframeDaily, domain.Evidence{
			"position_vs_20d_high": domain.Num(0),
			"days_above_threshold": domain.Num(0),
			"threshold":            domain.Num(e.threshold),
			"is_exhausted":         domain.Flag(false),
		}, exhaustionRationale)
	}

	// Position of each close against its trailing 20-day high
	daysAbove := 0
	for i := len(closes) - 1; i >= 19; i-- {
		high20 := formulas.RollingMax(highs[:i+1], 20)
		if high20 > 0 && closes[i]/high20 > e.threshold {
			daysAbove++
		} else {
			break
		}
	}

	currentHigh20 := formulas.RollingMax(highs, 20)
	currentPosition := 0.0
	if currentHigh20 > 0 {
		currentPosition = closes[len(closes)-1] / currentHigh20
	}

	isExhausted := daysAbove >= e.minDays

	var rules []domain.FiredRule
	riskPoints := 0.0
	direction := domain.DirectionNeutral
	alert := ""

	if isExhausted {
		// 15 base points plus 2 per extra day, capped at +25
		extra := float64(daysAbove-e.minDays) * 2
		if extra > 25 {
			extra = 25
		}
		points := 15 + extra

		rules = append(rules, domain.FiredRule{
			Name:        "PINNED_AT_HIGHS",
			Points:      points,
			Description: fmt.Sprintf("Price pinned at %.1f%% of 20D high for %d days", currentPosition*100, daysAbove),
		})
		riskPoints = points
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("EXHAUSTION: Price pinned at %.1f%% of 20D high for %d days - upside capped", currentPosition*100, daysAbove)
	}

	return domain.IndicatorResult{
		Name:      e.Name(),
		Category:  domain.CategoryTrend,
		Timeframe: domain.TimeframeDaily,
		Direction: direction,
		Evidence: domain.Evidence{
			"position_vs_20d_high": domain.Num(currentPosition),
			"days_above_threshold": domain.Num(float64(daysAbove)),
			"threshold":            domain.Num(e.threshold),
			"is_exhausted":         domain.Flag(isExhausted),
		},
		RulesFired:   rules,
		RiskPoints:   riskPoints,
		Alert:        alert,
		WhyItMatters: exhaustionRationale,
	}
}
