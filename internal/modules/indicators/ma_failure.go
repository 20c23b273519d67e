package indicators

import (
	"fmt"

	"cyclewatch/internal/domain"
	"cyclewatch/pkg/formulas"
)

// FirstMAFailure detects the first close below the 50-day average after a
// long unbroken uptrend. Institutions defend the 50-day aggressively until
// they don't; the first failure after a long defense is the meaningful one.
type FirstMAFailure struct {
	minUptrendDays int
}

// NewFirstMAFailure creates the first 50DMA failure indicator
func NewFirstMAFailure() *FirstMAFailure {
	return &FirstMAFailure{minUptrendDays: 60}
}

// Name returns the indicator identifier
func (f *FirstMAFailure) Name() string { return "FIRST_50DMA_FAILURE_AFTER_LONG_UPTREND" }

const maFailureRationale = "Institutions defend the 50DMA until they don't; the first failure after a long defense is meaningful."

// Evaluate walks back through the close/50DMA relationship to find the
// current streak, the length of the preceding uptrend, and whether the
// break is the first within that uptrend
func (f *FirstMAFailure) Evaluate(snap *domain.InstrumentSnapshot) domain.IndicatorResult {
	closes := snap.Closes()
	if len(closes) < 50 {
		return neutralResult(f.Name(), domain.CategoryTrend, domain.TimeframeDaily, domain.Evidence{
			"currently_below_50dma": domain.Flag(false),
			"is_first_failure":      domain.Flag(false),
			"failure_severity":      domain.Str("none"),
		}, maFailureRationale)
	}

	sma50 := formulas.SMASeries(closes, 50)

	last := len(closes) - 1
	currentlyBelow := sma50[last] > 0 && closes[last] < sma50[last]

	// Length of the current above/below streak
	daysInStreak := 0
	for i := last; i >= 0; i-- {
		if sma50[i] <= 0 {
			break
		}
		below := closes[i] < sma50[i]
		if below == currentlyBelow {
			daysInStreak++
		} else {
			break
		}
	}

	// Length of the uptrend that preceded the current break
	previousUptrendDays := 0
	if currentlyBelow && daysInStreak > 0 {
		for i := last - daysInStreak; i >= 0; i-- {
			if sma50[i] > 0 && closes[i] > sma50[i] {
				previousUptrendDays++
			} else {
				break
			}
		}
	}

	isFirstFailure := currentlyBelow && previousUptrendDays >= f.minUptrendDays
	severity := "none"
	if isFirstFailure {
		switch {
		case previousUptrendDays >= 120:
			severity = "critical"
		case previousUptrendDays >= 90:
			severity = "severe"
		default:
			severity = "significant"
		}
	}

	var rules []domain.FiredRule
	riskPoints := 0.0
	direction := domain.DirectionNeutral
	alert := ""

	switch {
	case isFirstFailure && previousUptrendDays >= 120:
		rules = append(rules, domain.FiredRule{
			Name:        "FIRST_FAILURE_120D",
			Points:      40,
			Description: fmt.Sprintf("First 50DMA failure after %d day uptrend", previousUptrendDays),
		})
		riskPoints = 40
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("CRITICAL: First 50DMA failure after %d day uptrend - cycle turn likely", previousUptrendDays)
	case isFirstFailure && previousUptrendDays >= 90:
		rules = append(rules, domain.FiredRule{
			Name:        "FIRST_FAILURE_90D",
			Points:      35,
			Description: fmt.Sprintf("First 50DMA failure after %d day uptrend", previousUptrendDays),
		})
		riskPoints = 35
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("SEVERE: First 50DMA failure after %d day uptrend - institutions stopped defending", previousUptrendDays)
	case isFirstFailure:
		rules = append(rules, domain.FiredRule{
			Name:        "FIRST_FAILURE_60D",
			Points:      30,
			Description: fmt.Sprintf("First 50DMA failure after %d day uptrend", previousUptrendDays),
		})
		riskPoints = 30
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("SIGNIFICANT: First 50DMA failure after %d day uptrend - first visible crack", previousUptrendDays)
	case currentlyBelow && previousUptrendDays >= f.minUptrendDays/2:
		rules = append(rules, domain.FiredRule{
			Name:        "BELOW_50DMA_AFTER_UPTREND",
			Points:      15,
			Description: fmt.Sprintf("Below 50DMA after %d day uptrend", previousUptrendDays),
		})
		riskPoints = 15
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("WATCH: Below 50DMA after %d day uptrend - monitor for trend change", previousUptrendDays)
	}

	return domain.IndicatorResult{
		Name:      f.Name(),
		Category:  domain.CategoryTrend,
		Timeframe: domain.TimeframeDaily,
		Direction: direction,
		Evidence: domain.Evidence{
			"currently_below_50dma":  domain.Flag(currentlyBelow),
			"days_in_current_streak": domain.Num(float64(daysInStreak)),
			"previous_uptrend_days":  domain.Num(float64(previousUptrendDays)),
			"is_first_failure":       domain.Flag(isFirstFailure),
			"failure_severity":       domain.Str(severity),
		},
		RulesFired:   rules,
		RiskPoints:   riskPoints,
		Alert:        alert,
		WhyItMatters: maFailureRationale,
	}
}
