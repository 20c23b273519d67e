package indicators

import (
	"cyclewatch/internal/domain"
	"cyclewatch/pkg/formulas"
)

// RSIDivergence detects price/RSI swing divergence over a short lookback.
// Price making higher highs while RSI makes lower highs is momentum decay;
// the mirror image at lows is a reversal setup.
type RSIDivergence struct {
	lookback int
	period   int
}

// NewRSIDivergence creates the swing divergence indicator
func NewRSIDivergence() *RSIDivergence {
	return &RSIDivergence{lookback: 20, period: 14}
}

// Name returns the indicator identifier
func (d *RSIDivergence) Name() string { return "RSI_DIVERGENCE_SWING" }

const divergenceRationale = "Momentum decay tends to show before price breaks; smart money exits quietly."

// Evaluate compares the last two price swings against the last two RSI swings
func (d *RSIDivergence) Evaluate(snap *domain.InstrumentSnapshot) domain.IndicatorResult {
	closes := snap.Closes()
	if len(closes) < d.lookback+d.period {
		return neutralResult(d.Name(), domain.CategoryMomentum, domain.TimeframeDaily, domain.Evidence{
			"divergence_type":   domain.Str("none"),
			"swing_points_used": domain.Num(0),
		}, divergenceRationale)
	}

	rsi := formulas.RSISeries(closes, d.period)

	recentClose := closes[len(closes)-d.lookback:]
	recentRSI := rsi[len(rsi)-d.lookback:]

	pricePeaks := findPeaks(recentClose, 3)
	rsiPeaks := findPeaks(recentRSI, 3)
	priceTroughs := findTroughs(recentClose, 3)
	rsiTroughs := findTroughs(recentRSI, 3)

	bearish := false
	if len(pricePeaks) >= 2 && len(rsiPeaks) >= 2 {
		priceHigherHigh := recentClose[pricePeaks[len(pricePeaks)-1]] > recentClose[pricePeaks[len(pricePeaks)-2]]
		rsiLowerHigh := recentRSI[rsiPeaks[len(rsiPeaks)-1]] < recentRSI[rsiPeaks[len(rsiPeaks)-2]]
		bearish = priceHigherHigh && rsiLowerHigh
	}

	bullish := false
	if !bearish && len(priceTroughs) >= 2 && len(rsiTroughs) >= 2 {
		priceLowerLow := recentClose[priceTroughs[len(priceTroughs)-1]] < recentClose[priceTroughs[len(priceTroughs)-2]]
		rsiHigherLow := recentRSI[rsiTroughs[len(rsiTroughs)-1]] > recentRSI[rsiTroughs[len(rsiTroughs)-2]]
		bullish = priceLowerLow && rsiHigherLow
	}

	evidence := domain.Evidence{
		"divergence_type":   domain.Str("none"),
		"swing_points_used": domain.Num(float64(len(pricePeaks) + len(priceTroughs))),
	}

	var rules []domain.FiredRule
	riskPoints := 0.0
	opportunityPoints := 0.0
	direction := domain.DirectionNeutral
	alert := ""

	switch {
	case bearish:
		evidence["divergence_type"] = domain.Str("bearish")
		evidence["price_swing_high_1"] = domain.Num(recentClose[pricePeaks[len(pricePeaks)-1]])
		evidence["price_swing_high_2"] = domain.Num(recentClose[pricePeaks[len(pricePeaks)-2]])
		evidence["rsi_swing_high_1"] = domain.Num(recentRSI[rsiPeaks[len(rsiPeaks)-1]])
		evidence["rsi_swing_high_2"] = domain.Num(recentRSI[rsiPeaks[len(rsiPeaks)-2]])

		rules = append(rules, domain.FiredRule{
			Name:        "BEARISH_DIVERGENCE",
			Points:      30,
			Description: "Price higher highs but RSI lower highs - momentum decay",
		})
		riskPoints = 30
		direction = domain.DirectionRisk
		alert = "BEARISH DIVERGENCE: Price making higher highs but RSI declining - smart money leaving"
	case bullish:
		evidence["divergence_type"] = domain.Str("bullish")

		rules = append(rules, domain.FiredRule{
			Name:        "BULLISH_DIVERGENCE",
			Points:      20,
			Description: "Price lower lows but RSI higher lows - potential reversal",
		})
		opportunityPoints = 20
		direction = domain.DirectionOpportunity
		alert = "BULLISH DIVERGENCE: Price making lower lows but RSI rising - potential reversal"
	}

	return domain.IndicatorResult{
		Name:              d.Name(),
		Category:          domain.CategoryMomentum,
		Timeframe:         domain.TimeframeDaily,
		Direction:         direction,
		Evidence:          evidence,
		RulesFired:        rules,
		RiskPoints:        riskPoints,
		OpportunityPoints: opportunityPoints,
		Alert:             alert,
		WhyItMatters:      divergenceRationale,
	}
}

// findPeaks returns indices that exceed every neighbor within minDistance
// on both sides
func findPeaks(data []float64, minDistance int) []int {
	var peaks []int
	for i := minDistance; i < len(data)-minDistance; i++ {
		isPeak := true
		for j := 1; j <= minDistance; j++ {
			if data[i] <= data[i-j] || data[i] <= data[i+j] {
				isPeak = false
				break
			}
		}
		if isPeak {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// findTroughs returns indices below every neighbor within minDistance
// on both sides
func findTroughs(data []float64, minDistance int) []int {
	var troughs []int
	for i := minDistance; i < len(data)-minDistance; i++ {
		isTrough := true
		for j := 1; j <= minDistance; j++ {
			if data[i] >= data[i-j] || data[i] >= data[i+j] {
				isTrough = false
				break
			}
		}
		if isTrough {
			troughs = append(troughs, i)
		}
	}
	return troughs
}
