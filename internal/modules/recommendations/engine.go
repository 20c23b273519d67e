// Package recommendations turns scores and cycle reads into tiered,
// time-boxed calls. Tier assignment checks sell-risk strictly before
// opportunity; that ordering reproduces the upstream decision precedence
// and is deliberate.
package recommendations

import (
	"fmt"
	"math"
	"time"

	"cyclewatch/internal/domain"
)

// urgencyTable maps the urgency point total to a label
var urgencyTable = domain.NewBoundaryTable(
	domain.UrgencyLow,
	domain.BoundaryRow[domain.Urgency]{LowerBound: 60, Value: domain.UrgencyCritical},
	domain.BoundaryRow[domain.Urgency]{LowerBound: 30, Value: domain.UrgencyHigh},
	domain.BoundaryRow[domain.Urgency]{LowerBound: 15, Value: domain.UrgencyMedium},
)

// reviewDays maps urgency to the base review cadence in days
var reviewDays = map[domain.Urgency]int{
	domain.UrgencyCritical: 1,
	domain.UrgencyHigh:     3,
	domain.UrgencyMedium:   5,
	domain.UrgencyLow:      7,
}

// Engine builds instrument-level recommendations
type Engine struct{}

// NewEngine creates a recommendation engine
func NewEngine() *Engine {
	return &Engine{}
}

// Recommend produces the tiered call for one instrument. The as-of time is
// supplied by the caller and only used to date the next review.
func (e *Engine) Recommend(asOf time.Time, score domain.DualScoreResult, cycle domain.CycleAnalysis, metrics domain.SnapshotMetrics, lastClose float64) domain.Recommendation {
	tier, confidence := assignTier(score, cycle)
	urgency := assignUrgency(score, cycle)

	rec := domain.Recommendation{
		Ticker:     score.Ticker,
		Tier:       tier,
		Confidence: confidence,
		Urgency:    urgency,
		Reasons:    topReasons(score, cycle, metrics),
		KeyLevels:  keyLevels(metrics),
		NextReview: asOf.AddDate(0, 0, nextReviewDays(urgency, cycle.Phase)),
		Sizing:     positionSizing(tier, metrics),
	}
	if tier == domain.TierHedge || tier == domain.TierExitRiskOff {
		rec.Hedges = hedgeSuggestions(metrics, lastClose)
	}
	return rec
}

// assignTier adjusts both scores for cycle context, then walks the ordered
// tier ladder: sell-risk branches strictly before opportunity branches.
func assignTier(score domain.DualScoreResult, cycle domain.CycleAnalysis) (domain.Tier, float64) {
	opportunity := score.Opportunity
	sellRisk := score.SellRisk

	switch {
	case cycle.Phase.IsLateStage():
		sellRisk += 20
	case cycle.Phase == domain.PhaseEarly:
		opportunity += 10
	}

	if cycle.GoodNewsAlert {
		sellRisk += 25
	} else if cycle.GoodNewsEffectiveness < 30 {
		sellRisk += 15
	}

	opportunity = math.Min(opportunity, 100)
	sellRisk = math.Min(sellRisk, 100)

	switch {
	case sellRisk >= 80:
		return domain.TierExitRiskOff, 0.9
	case sellRisk >= 60:
		return domain.TierTrim, 0.8
	case sellRisk >= 40:
		return domain.TierHoldTakeProfits, 0.6
	case opportunity >= 70 && sellRisk < 40:
		return domain.TierHoldAdd, 0.7
	case opportunity >= 50 && sellRisk < 50:
		return domain.TierHoldAdd, 0.5
	case sellRisk >= 50 && opportunity < 30:
		return domain.TierHedge, 0.6
	default:
		return domain.TierHoldTakeProfits, 0.4
	}
}

// assignUrgency totals the urgency triggers off the raw scores
func assignUrgency(score domain.DualScoreResult, cycle domain.CycleAnalysis) domain.Urgency {
	points := 0.0

	if cycle.GoodNewsAlert {
		points += 40
	}
	if cycle.PhaseTransitionRisk > 70 {
		points += 30
	}
	if score.SellRisk > 80 {
		points += 30
	}

	if cycle.Phase == domain.PhaseRolloverRisk {
		points += 20
	}
	if cycle.ConsecutiveFailures >= 2 {
		points += 20
	}
	if score.SellRisk > 60 {
		points += 15
	}

	return urgencyTable.Lookup(points)
}

// topReasons collects candidate reasons in fixed evaluation order and keeps
// the first three
func topReasons(score domain.DualScoreResult, cycle domain.CycleAnalysis, m domain.SnapshotMetrics) []string {
	var reasons []string

	if cycle.Phase.IsLateStage() {
		reasons = append(reasons, fmt.Sprintf("Cycle phase: %s", cycle.Phase))
	}
	if cycle.PhaseTransitionRisk > 60 {
		reasons = append(reasons, fmt.Sprintf("High transition risk (%.0f/100)", cycle.PhaseTransitionRisk))
	}

	if cycle.GoodNewsAlert {
		reasons = append(reasons, "Good news not working - distribution detected")
	}
	if failureRate := 1 - cycle.GoodNewsEffectiveness/100; failureRate > 0.6 {
		reasons = append(reasons, fmt.Sprintf("High positive news failure rate (%.0f%%)", failureRate*100))
	}

	switch {
	case m.RSI14 > 80:
		reasons = append(reasons, fmt.Sprintf("RSI extremely overbought (%.1f)", m.RSI14))
	case m.RSI14 > 70:
		reasons = append(reasons, fmt.Sprintf("RSI overbought (%.1f)", m.RSI14))
	case m.RSI14 < 30:
		reasons = append(reasons, fmt.Sprintf("RSI oversold (%.1f)", m.RSI14))
	}

	switch {
	case m.Return63d > 0.5:
		reasons = append(reasons, fmt.Sprintf("Extended gains (%+.1f%%)", m.Return63d*100))
	case m.Return63d < -0.3:
		reasons = append(reasons, fmt.Sprintf("Significant losses (%+.1f%%)", m.Return63d*100))
	}

	if m.Volatility20d > 0.5 {
		reasons = append(reasons, fmt.Sprintf("High volatility (%.1f%%)", m.Volatility20d*100))
	}

	if cycle.NewsRisk > 60 {
		reasons = append(reasons, fmt.Sprintf("High news risk score (%.0f)", cycle.NewsRisk))
	}

	switch {
	case score.SellRisk > 70:
		reasons = append(reasons, fmt.Sprintf("High sell-risk score (%.0f)", score.SellRisk))
	case score.Opportunity > 70:
		reasons = append(reasons, fmt.Sprintf("High opportunity score (%.0f)", score.Opportunity))
	}

	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	return reasons
}

// keyLevels surfaces the nearby technical levels worth watching
func keyLevels(m domain.SnapshotMetrics) map[string]float64 {
	levels := map[string]float64{}
	if m.Low20d > 0 {
		levels["support"] = m.Low20d
	}
	if m.High20d > 0 {
		levels["resistance"] = m.High20d
	}
	if m.SMA50 > 0 {
		levels["sma_50"] = m.SMA50
	}
	if m.SMA200 > 0 {
		levels["sma_200"] = m.SMA200
	}
	return levels
}

// nextReviewDays tightens the cadence in late-stage phases
func nextReviewDays(urgency domain.Urgency, phase domain.Phase) int {
	days := reviewDays[urgency]
	if phase.IsLateStage() && days > 3 {
		days = 3
	}
	return days
}

// positionSizing is only populated for the tiers that move size
func positionSizing(tier domain.Tier, m domain.SnapshotMetrics) string {
	switch tier {
	case domain.TierTrim:
		switch {
		case m.RSI14 > 80:
			return "Reduce by 50% (extremely overbought)"
		case m.RSI14 > 75:
			return "Reduce by 35% (very overbought)"
		default:
			return "Reduce by 25% (take profits)"
		}
	case domain.TierHoldAdd:
		if m.Volatility20d < 0.2 {
			return "Add 15% (low volatility entry)"
		}
		return "Add 10% (cautious addition)"
	default:
		return ""
	}
}

func hedgeSuggestions(m domain.SnapshotMetrics, lastClose float64) []string {
	suggestions := []string{
		fmt.Sprintf("Covered calls: sell calls at %.2f (10%% OTM)", lastClose*1.1),
		fmt.Sprintf("Collar: buy puts at %.2f, sell calls at %.2f", lastClose*0.9, lastClose*1.1),
	}
	if m.RSI14 > 70 {
		suggestions = append(suggestions, "Bear put spread: protect against 10-15% decline")
	}
	if m.Volatility20d > 0.4 {
		suggestions = append(suggestions, "Volatility hedge: consider straddles or strangles")
	}
	return suggestions
}
