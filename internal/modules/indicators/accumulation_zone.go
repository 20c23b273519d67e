package indicators

import (
	"cyclewatch/internal/domain"
	"cyclewatch/pkg/formulas"
)

// AccumulationZone tracks RSI behavior around the 55-70 institutional
// accumulation band. Healthy uptrends repeatedly reset into this band;
// trends that cannot reach it are overheated or broken.
type AccumulationZone struct {
	zoneLow  float64
	zoneHigh float64
}

// NewAccumulationZone creates the RSI accumulation-zone indicator
func NewAccumulationZone() *AccumulationZone {
	return &AccumulationZone{zoneLow: 55, zoneHigh: 70}
}

// Name returns the indicator identifier
func (a *AccumulationZone) Name() string { return "RSI_ACCUMULATION_ZONE_HEALTH" }

const accumulationRationale = "Healthy uptrends repeatedly reset into this band as institutions buy dips."

// Evaluate scores zone health from the current RSI, the time since the
// zone was last visited, and the visit count over the last 20 bars
func (a *AccumulationZone) Evaluate(snap *domain.InstrumentSnapshot) domain.IndicatorResult {
	closes := snap.Closes()
	if len(closes) < 15 {
		return neutralResult(a.Name(), domain.CategoryMomentum, domain.TimeframeDaily, domain.Evidence{
			"current_rsi":          domain.Num(50),
			"days_since_zone":      domain.Num(999),
			"zone_visits_last_20d": domain.Num(0),
			"trend_health":         domain.Str("unknown"),
		}, accumulationRationale)
	}

	rsi := formulas.RSISeries(closes, 14)
	currentRSI := 50.0
	if v := formulas.CalculateRSI(closes, 14); v != nil {
		currentRSI = *v
	}

	inZone := currentRSI >= a.zoneLow && currentRSI <= a.zoneHigh

	zoneVisits := 0
	start := len(rsi) - 20
	if start < 0 {
		start = 0
	}
	for _, v := range rsi[start:] {
		if v >= a.zoneLow && v <= a.zoneHigh {
			zoneVisits++
		}
	}

	daysSinceZone := 0
	for i := len(rsi) - 1; i >= 0; i-- {
		if rsi[i] >= a.zoneLow && rsi[i] <= a.zoneHigh {
			break
		}
		daysSinceZone++
	}

	var rules []domain.FiredRule
	riskPoints := 0.0
	opportunityPoints := 0.0
	direction := domain.DirectionNeutral
	health := "unknown"
	alert := ""

	switch {
	case currentRSI > 75 && daysSinceZone > 10:
		health = "overheated"
		rules = append(rules, domain.FiredRule{
			Name:        "OVERHEATED",
			Points:      15,
			Description: "RSI overheated - hasn't cooled to 55-70 zone in 10+ days",
		})
		riskPoints = 15
		direction = domain.DirectionRisk
		alert = "OVERHEATED: RSI hasn't cooled to 55-70 zone in 10+ days - trend crowded"
	case currentRSI < 55 && daysSinceZone > 15:
		health = "broken"
		rules = append(rules, domain.FiredRule{
			Name:        "BROKEN",
			Points:      20,
			Description: "Trend broken - RSI can't get back to 55-70 zone",
		})
		riskPoints = 20
		direction = domain.DirectionRisk
		alert = "TREND BROKEN: RSI can't get back to 55-70 zone - institutional support fading"
	case currentRSI < 55:
		health = "pullback"
		rules = append(rules, domain.FiredRule{
			Name:        "HEALTHY_PULLBACK",
			Points:      10,
			Description: "Healthy pullback - RSI resetting below 55",
		})
		opportunityPoints = 10
		direction = domain.DirectionOpportunity
		alert = "HEALTHY PULLBACK: RSI resetting below 55 - potential accumulation opportunity"
	case inZone && zoneVisits >= 5:
		health = "healthy"
		rules = append(rules, domain.FiredRule{
			Name:        "SWEET_SPOT",
			Points:      10,
			Description: "Sweet spot - RSI in 55-70 accumulation zone",
		})
		opportunityPoints = 10
		direction = domain.DirectionOpportunity
		alert = "SWEET SPOT: RSI in 55-70 accumulation zone - institutions buying dips"
	case inZone:
		health = "healthy"
		alert = "ACCUMULATION ZONE: RSI in healthy range - trend alive but not crowded"
	case currentRSI > 70 && zoneVisits < 3:
		health = "elevated"
		rules = append(rules, domain.FiredRule{
			Name:        "ELEVATED",
			Points:      5,
			Description: "RSI above 70 with few pullbacks into the zone",
		})
		riskPoints = 5
		direction = domain.DirectionRisk
		alert = "ELEVATED: RSI above 70 with few pullbacks - watch for overheating"
	}

	return domain.IndicatorResult{
		Name:      a.Name(),
		Category:  domain.CategoryMomentum,
		Timeframe: domain.TimeframeDaily,
		Direction: direction,
		Evidence: domain.Evidence{
			"current_rsi":          domain.Num(currentRSI),
			"days_since_zone":      domain.Num(float64(daysSinceZone)),
			"zone_visits_last_20d": domain.Num(float64(zoneVisits)),
			"trend_health":         domain.Str(health),
		},
		RulesFired:        rules,
		RiskPoints:        riskPoints,
		OpportunityPoints: opportunityPoints,
		Alert:             alert,
		WhyItMatters:      accumulationRationale,
	}
}
