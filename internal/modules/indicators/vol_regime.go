package indicators

import (
	"fmt"

	"cyclewatch/internal/domain"
	"cyclewatch/pkg/formulas"
)

// VolRegimeShift detects rising short-window volatility against a long
// baseline while price holds near its highs. Rising vol at the highs means
// two-way institutional trade; trend stability is breaking.
type VolRegimeShift struct {
	window   int
	baseline int
}

// NewVolRegimeShift creates the volatility regime shift indicator
func NewVolRegimeShift() *VolRegimeShift {
	return &VolRegimeShift{window: 20, baseline: 120}
}

// Name returns the indicator identifier
func (v *VolRegimeShift) Name() string { return "VOLATILITY_REGIME_SHIFT" }

const volRegimeRationale = "Rising vol at highs means two-way institutional trade; trend stability is breaking."

// Evaluate ratios 20-bar annualized volatility against the 120-bar
// baseline and reads the result jointly with position in the 20-day range
func (v *VolRegimeShift) Evaluate(snap *domain.InstrumentSnapshot) domain.IndicatorResult {
	closes := snap.Closes()
	highs := snap.Highs()
	if len(closes) < v.baseline {
		return neutralResult(v.Name(), domain.CategoryVolatility, domain.TimeframeDaily, domain.Evidence{
			"vol_ratio": domain.Num(0),
			"regime":    domain.Str("unknown"),
		}, volRegimeRationale)
	}

	returns := formulas.CalculateReturns(closes)
	volShort := formulas.WindowVolatility(returns, v.window)
	volBaseline := formulas.WindowVolatility(returns, v.baseline)

	volRatio := 1.0
	if volBaseline > 0 {
		volRatio = volShort / volBaseline
	}

	high20 := formulas.RollingMax(highs, 20)
	positionVsHigh := 0.0
	if high20 > 0 {
		positionVsHigh = closes[len(closes)-1] / high20
	}

	var rules []domain.FiredRule
	riskPoints := 0.0
	opportunityPoints := 0.0
	direction := domain.DirectionNeutral
	regime := "medium"
	alert := ""

	switch {
	case volRatio >= 1.3 && positionVsHigh > 0.95:
		regime = "high"
		rules = append(rules, domain.FiredRule{
			Name:        "HIGH_VOL_AT_HIGHS",
			Points:      25,
			Description: fmt.Sprintf("High volatility (%.1fx) at %.1f%% of highs", volRatio, positionVsHigh*100),
		})
		riskPoints = 25
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("HIGH VOL REGIME: Volatility %.1fx baseline at %.1f%% of highs - two-way trade beginning", volRatio, positionVsHigh*100)
	case volRatio >= 1.3 && positionVsHigh > 0.90:
		regime = "high"
		rules = append(rules, domain.FiredRule{
			Name:        "VOL_SPIKE",
			Points:      20,
			Description: fmt.Sprintf("Volatility spike (%.1fx) near highs", volRatio),
		})
		riskPoints = 20
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("VOL EXPANDING: Volatility %.1fx baseline near highs - risk premium rising", volRatio)
	case volRatio >= 1.3:
		regime = "high"
		rules = append(rules, domain.FiredRule{
			Name:        "VOL_ELEVATED",
			Points:      10,
			Description: fmt.Sprintf("Volatility %.1fx baseline", volRatio),
		})
		riskPoints = 10
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("ELEVATED VOL: Volatility %.1fx baseline - monitor for instability", volRatio)
	case volRatio >= 1.1 && positionVsHigh > 0.95:
		regime = "medium-high"
		rules = append(rules, domain.FiredRule{
			Name:        "VOL_RISING_AT_HIGHS",
			Points:      15,
			Description: fmt.Sprintf("Volatility %.1fx baseline at highs", volRatio),
		})
		riskPoints = 15
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("VOL RISING: Volatility %.1fx baseline at highs - early distribution signal", volRatio)
	case volRatio <= 0.8 && positionVsHigh > 0.90:
		regime = "low"
		rules = append(rules, domain.FiredRule{
			Name:        "LOW_VOL_UPTREND",
			Points:      10,
			Description: fmt.Sprintf("Volatility %.1fx baseline in uptrend", volRatio),
		})
		opportunityPoints = 10
		direction = domain.DirectionOpportunity
		alert = fmt.Sprintf("LOW VOL UPTREND: Volatility %.1fx baseline - orderly accumulation", volRatio)
	}

	return domain.IndicatorResult{
		Name:      v.Name(),
		Category:  domain.CategoryVolatility,
		Timeframe: domain.TimeframeDaily,
		Direction: direction,
		Evidence: domain.Evidence{
			"vol_short_ann": domain.Num(volShort),
			"vol_baseline":  domain.Num(volBaseline),
			"vol_ratio":     domain.Num(volRatio),
			"regime":        domain.Str(regime),
		},
		RulesFired:        rules,
		RiskPoints:        riskPoints,
		OpportunityPoints: opportunityPoints,
		Alert:             alert,
		WhyItMatters:      volRegimeRationale,
	}
}
