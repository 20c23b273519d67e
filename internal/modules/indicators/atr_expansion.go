package indicators

import (
	"fmt"

	"cyclewatch/internal/domain"
	"cyclewatch/pkg/formulas"
)

// ATRExpansion flags widening true ranges while price sits near its highs.
// Early-cycle trends run with contained ATR; expansion at the highs is
// usually institutions exiting in size, not healthy volatility.
type ATRExpansion struct {
	window   int
	baseline int
}

// NewATRExpansion creates the ATR expansion indicator
func NewATRExpansion() *ATRExpansion {
	return &ATRExpansion{window: 14, baseline: 50}
}

// Name returns the indicator identifier
func (a *ATRExpansion) Name() string { return "ATR_EXPANSION_AT_HIGHS" }

const atrExpansionRationale = "Late-cycle exits widen ranges; expansion at the highs is often distribution."

// Evaluate z-scores the current ATR against its baseline window and reads
// the result jointly with position in the 20-day range
func (a *ATRExpansion) Evaluate(snap *domain.InstrumentSnapshot) domain.IndicatorResult {
	closes := snap.Closes()
	highs := snap.Highs()
	lows := snap.Lows()
	if len(closes) < a.baseline {
		return neutralResult(a.Name(), domain.CategoryVolatility, domain.TimeframeDaily, domain.Evidence{
			"atr_14":        domain.Num(0),
			"atr_pct_price": domain.Num(0),
			"atr_zscore":    domain.Num(0),
			"near_highs":    domain.Num(0),
		}, atrExpansionRationale)
	}

	atrSeries := formulas.ATRSeries(highs, lows, closes, a.window)
	if len(atrSeries) == 0 {
		return neutralResult(a.Name(), domain.CategoryVolatility, domain.TimeframeDaily, domain.Evidence{
			"atr_14": domain.Num(0),
		}, atrExpansionRationale)
	}

	currentATR := atrSeries[len(atrSeries)-1]
	currentPrice := closes[len(closes)-1]
	atrPct := 0.0
	if currentPrice > 0 {
		atrPct = currentATR / currentPrice * 100
	}

	baselineATR := atrSeries
	if len(atrSeries) > a.baseline {
		baselineATR = atrSeries[len(atrSeries)-a.baseline:]
	}
	mean := formulas.Mean(baselineATR)
	std := formulas.StdDev(baselineATR)
	zscore := 0.0
	if std > 0 {
		zscore = (currentATR - mean) / std
	}

	high20 := formulas.RollingMax(highs, 20)
	positionVsHigh := 0.0
	if high20 > 0 {
		positionVsHigh = currentPrice / high20
	}

	expanding := zscore > 1.5

	var rules []domain.FiredRule
	riskPoints := 0.0
	opportunityPoints := 0.0
	direction := domain.DirectionNeutral
	alert := ""

	switch {
	case expanding && positionVsHigh > 0.95 && zscore > 2.0:
		rules = append(rules, domain.FiredRule{
			Name:        "ATR_SPIKE_NEAR_HIGHS",
			Points:      25,
			Description: fmt.Sprintf("ATR expanding sharply (Z=%.1f) at highs", zscore),
		})
		riskPoints = 25
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("CRITICAL: ATR expanding sharply (Z=%.1f) at %.1f%% of 20D high - distribution risk", zscore, positionVsHigh*100)
	case expanding && positionVsHigh > 0.95:
		rules = append(rules, domain.FiredRule{
			Name:        "ATR_SPIKE_NEAR_HIGHS",
			Points:      20,
			Description: fmt.Sprintf("ATR expanding (Z=%.1f) near highs", zscore),
		})
		riskPoints = 20
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("WARNING: ATR expanding (Z=%.1f) near highs - unstable at altitude", zscore)
	case atrPct > 6.0 && positionVsHigh > 0.95:
		rules = append(rules, domain.FiredRule{
			Name:        "ATR_EXTREME",
			Points:      15,
			Description: fmt.Sprintf("ATR at %.1f%% of price near highs", atrPct),
		})
		riskPoints = 15
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("ELEVATED: ATR at %.1f%% of price near highs - choppy institutional activity", atrPct)
	case atrPct > 4.0 && positionVsHigh > 0.95:
		rules = append(rules, domain.FiredRule{
			Name:        "ATR_ELEVATED",
			Points:      10,
			Description: fmt.Sprintf("ATR elevated at %.1f%% near highs", atrPct),
		})
		riskPoints = 10
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("WATCH: ATR elevated at %.1f%% near highs - monitor for distribution", atrPct)
	case zscore < -0.5 && positionVsHigh > 0.90:
		rules = append(rules, domain.FiredRule{
			Name:        "ATR_CONTAINED",
			Points:      10,
			Description: fmt.Sprintf("ATR low (Z=%.1f) in uptrend", zscore),
		})
		opportunityPoints = 10
		direction = domain.DirectionOpportunity
		alert = fmt.Sprintf("CONTAINED: ATR low (Z=%.1f) in uptrend - orderly accumulation", zscore)
	}

	return domain.IndicatorResult{
		Name:      a.Name(),
		Category:  domain.CategoryVolatility,
		Timeframe: domain.TimeframeDaily,
		Direction: direction,
		Evidence: domain.Evidence{
			"atr_14":        domain.Num(currentATR),
			"atr_pct_price": domain.Num(atrPct),
			"atr_zscore":    domain.Num(zscore),
			"near_highs":    domain.Num(positionVsHigh),
		},
		RulesFired:        rules,
		RiskPoints:        riskPoints,
		OpportunityPoints: opportunityPoints,
		Alert:             alert,
		WhyItMatters:      atrExpansionRationale,
	}
}
