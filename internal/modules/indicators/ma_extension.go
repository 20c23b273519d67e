package indicators

import (
	"fmt"

	"cyclewatch/internal/domain"
	"cyclewatch/pkg/formulas"
)

// MAExtension measures how far price has stretched above its moving
// averages. Cyclical extension reverts even when fundamentals stay strong.
type MAExtension struct {
	windows []int
}

// NewMAExtension creates the moving-average extension indicator
func NewMAExtension() *MAExtension {
	return &MAExtension{windows: []int{21, 50, 200}}
}

// Name returns the indicator identifier
func (m *MAExtension) Name() string { return "MA_EXTENSION_RISK" }

const maExtensionRationale = "Stretched prices snap back to trend means; the further out, the harder the snap."

// Evaluate scores the rubber-band ladder off extension above the 50-day
// average, falling back to the 21-day when the window is short
func (m *MAExtension) Evaluate(snap *domain.InstrumentSnapshot) domain.IndicatorResult {
	closes := snap.Closes()
	if len(closes) < 21 {
		return neutralResult(m.Name(), domain.CategoryTrend, domain.TimeframeDaily, domain.Evidence{
			"extension_level": domain.Str("unknown"),
		}, maExtensionRationale)
	}

	currentPrice := closes[len(closes)-1]

	evidence := domain.Evidence{}
	extensions := make(map[int]float64, len(m.windows))
	for _, window := range m.windows {
		if len(closes) < window {
			continue
		}
		ma := formulas.SMA(closes, window)
		if ma == nil || *ma <= 0 {
			continue
		}
		pct := (currentPrice - *ma) / *ma * 100
		extensions[window] = pct
		evidence[fmt.Sprintf("pct_above_%ddma", window)] = domain.Num(pct)
	}

	pctAbove50, ok := extensions[50]
	if !ok {
		pctAbove50 = extensions[21]
	}

	var rules []domain.FiredRule
	riskPoints := 0.0
	opportunityPoints := 0.0
	direction := domain.DirectionNeutral
	level := "normal"
	alert := ""

	switch {
	case pctAbove50 >= 25:
		level = "extreme"
		rules = append(rules, domain.FiredRule{
			Name:        "EXTENSION_EXTREME",
			Points:      25,
			Description: fmt.Sprintf("%.1f%% above 50DMA - extreme extension", pctAbove50),
		})
		riskPoints = 25
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("EXTREME EXTENSION: %.1f%% above 50DMA - mean reversion snap risk high", pctAbove50)
	case pctAbove50 >= 15:
		level = "elevated"
		rules = append(rules, domain.FiredRule{
			Name:        "EXTENSION_ELEVATED",
			Points:      15,
			Description: fmt.Sprintf("%.1f%% above 50DMA - elevated extension", pctAbove50),
		})
		riskPoints = 15
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("ELEVATED EXTENSION: %.1f%% above 50DMA - rubber-band risk building", pctAbove50)
	case pctAbove50 >= 10:
		level = "moderate"
		rules = append(rules, domain.FiredRule{
			Name:        "EXTENSION_MODERATE",
			Points:      5,
			Description: fmt.Sprintf("%.1f%% above 50DMA - moderate extension", pctAbove50),
		})
		riskPoints = 5
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("MODERATE EXTENSION: %.1f%% above 50DMA - monitor for reversion", pctAbove50)
	case pctAbove50 > 0 && pctAbove50 <= 5:
		level = "normal"
		rules = append(rules, domain.FiredRule{
			Name:        "NEAR_TREND_MEAN",
			Points:      10,
			Description: fmt.Sprintf("Price near 50DMA (+%.1f%%)", pctAbove50),
		})
		opportunityPoints = 10
		direction = domain.DirectionOpportunity
		alert = fmt.Sprintf("HEALTHY: Price near 50DMA (+%.1f%%) - good risk/reward", pctAbove50)
	case pctAbove50 < -10:
		level = "compressed"
		rules = append(rules, domain.FiredRule{
			Name:        "COMPRESSED_BELOW_TREND",
			Points:      5,
			Description: fmt.Sprintf("%.1f%% below 50DMA", -pctAbove50),
		})
		opportunityPoints = 5
		direction = domain.DirectionOpportunity
		alert = fmt.Sprintf("COMPRESSED: %.1f%% below 50DMA - potential mean reversion up", -pctAbove50)
	}

	evidence["extension_level"] = domain.Str(level)

	return domain.IndicatorResult{
		Name:              m.Name(),
		Category:          domain.CategoryTrend,
		Timeframe:         domain.TimeframeDaily,
		Direction:         direction,
		Evidence:          evidence,
		RulesFired:        rules,
		RiskPoints:        riskPoints,
		OpportunityPoints: opportunityPoints,
		Alert:             alert,
		WhyItMatters:      maExtensionRationale,
	}
}
