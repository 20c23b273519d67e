package indicators

import (
	"fmt"

	"cyclewatch/internal/domain"
	"cyclewatch/pkg/formulas"
)

// TrendPersistence measures the share of time price held above its 50-day
// average over several windows. Tops show internal erosion in this measure
// before the obvious breakdown.
type TrendPersistence struct {
	periods []int
}

// NewTrendPersistence creates the trend persistence indicator
func NewTrendPersistence() *TrendPersistence {
	return &TrendPersistence{periods: []int{20, 50, 100}}
}

// Name returns the indicator identifier
func (t *TrendPersistence) Name() string { return "TREND_PERSISTENCE_ABOVE_50DMA" }

const trendPersistenceRationale = "Tops show internal erosion before the obvious breakdown."

// Evaluate scores the persistence ladder off the 50-bar window share,
// with a sharp-decline override when the 20-bar share collapses
func (t *TrendPersistence) Evaluate(snap *domain.InstrumentSnapshot) domain.IndicatorResult {
	closes := snap.Closes()
	if len(closes) < 50 {
		return neutralResult(t.Name(), domain.CategoryTrend, domain.TimeframeMulti, domain.Evidence{
			"persistence_declining": domain.Flag(false),
			"trend_strength":        domain.Str("unknown"),
		}, trendPersistenceRationale)
	}

	sma50 := formulas.SMASeries(closes, 50)

	pctAbove := make(map[string]domain.EvidenceValue, len(t.periods))
	shares := make(map[int]float64, len(t.periods))
	for _, period := range t.periods {
		if len(closes) < period {
			continue
		}
		above := 0
		for i := len(closes) - period; i < len(closes); i++ {
			if sma50[i] > 0 && closes[i] > sma50[i] {
				above++
			}
		}
		share := float64(above) / float64(period) * 100
		shares[period] = share
		pctAbove[fmt.Sprintf("%dd", period)] = domain.Num(share)
	}

	declining := false
	if s20, ok20 := shares[20]; ok20 {
		if s50, ok50 := shares[50]; ok50 && s20 < s50-15 {
			declining = true
		}
	}

	var rules []domain.FiredRule
	riskPoints := 0.0
	direction := domain.DirectionNeutral
	strength := "unknown"
	alert := ""

	if s50, ok := shares[50]; ok {
		switch {
		case s50 < 40:
			strength = "broken"
			rules = append(rules, domain.FiredRule{
				Name:        "BROKEN_TREND",
				Points:      30,
				Description: "Broken trend - <40% time above 50DMA",
			})
			riskPoints = 30
			direction = domain.DirectionRisk
			alert = "BROKEN TREND: <40% time above 50DMA - structural weakness confirmed"
		case s50 < 60:
			strength = "weak"
			rules = append(rules, domain.FiredRule{
				Name:        "WEAK_TREND",
				Points:      20,
				Description: "Weak trend - <60% time above 50DMA",
			})
			riskPoints = 20
			direction = domain.DirectionRisk
			alert = "WEAK TREND: <60% time above 50DMA - institutional support fading"
		case declining:
			strength = "healthy"
			rules = append(rules, domain.FiredRule{
				Name:        "DECLINING_PERSISTENCE",
				Points:      15,
				Description: "Persistence declining - internal erosion beginning",
			})
			riskPoints = 15
			direction = domain.DirectionRisk
			alert = "WEAKENING: Persistence declining - internal erosion beginning"
		case s50 >= 80:
			strength = "strong"
			alert = "STRONG TREND: >80% time above 50DMA - institutional support solid"
		default:
			strength = "healthy"
		}
	}

	// Sharp collapse in the short window overrides the base ladder floor
	if declining {
		drop := shares[50] - shares[20]
		if drop > 25 {
			alert = fmt.Sprintf("SHARP DECLINE: Persistence dropped %.0f%% - losing institutional sponsorship", drop)
			if riskPoints < 25 {
				rules = append(rules, domain.FiredRule{
					Name:        "SHARP_PERSISTENCE_DROP",
					Points:      25 - riskPoints,
					Description: fmt.Sprintf("Short-window persistence dropped %.0f%%", drop),
				})
				riskPoints = 25
				direction = domain.DirectionRisk
			}
		}
	}

	return domain.IndicatorResult{
		Name:      t.Name(),
		Category:  domain.CategoryTrend,
		Timeframe: domain.TimeframeMulti,
		Direction: direction,
		Evidence: domain.Evidence{
			"pct_above_50dma":       domain.Nested(pctAbove),
			"persistence_declining": domain.Flag(declining),
			"trend_strength":        domain.Str(strength),
		},
		RulesFired:   rules,
		RiskPoints:   riskPoints,
		Alert:        alert,
		WhyItMatters: trendPersistenceRationale,
	}
}
