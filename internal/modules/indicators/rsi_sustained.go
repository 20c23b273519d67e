package indicators

import (
	"fmt"

	"cyclewatch/internal/domain"
	"cyclewatch/pkg/formulas"
)

const (
	rsiOverboughtThreshold = 75.0
	rsiOversoldThreshold   = 25.0
)

// SustainedRSI flags RSI held above 75 (or below 25) for consecutive weeks.
// Weekly readings are 5-bar averages of daily RSI; the streak is counted
// from the most recent week backwards.
type SustainedRSI struct {
	period int
	weeks  int
}

// NewSustainedRSI creates the sustained weekly RSI indicator
func NewSustainedRSI() *SustainedRSI {
	return &SustainedRSI{period: 14, weeks: 8}
}

// Name returns the indicator identifier
func (s *SustainedRSI) Name() string { return "RSI_SUSTAINED_OVERBOUGHT_WEEKLY" }

const sustainedRSIRationale = "Cyclical names mean-revert; sustained RSI extremes usually reflect late-cycle crowding."

// Evaluate scores the sustained overbought/oversold ladder
func (s *SustainedRSI) Evaluate(snap *domain.InstrumentSnapshot) domain.IndicatorResult {
	closes := snap.Closes()
	if len(closes) < s.period*s.weeks {
		return neutralResult(s.Name(), domain.CategoryMomentum, domain.TimeframeWeekly, domain.Evidence{
			"current_rsi_14":  domain.Num(50),
			"weeks_above_75":  domain.Num(0),
			"weeks_below_25":  domain.Num(0),
			"trend_direction": domain.Str("neutral"),
		}, sustainedRSIRationale)
	}

	dailyRSI := formulas.RSISeries(closes, s.period)
	weeklyRSI := formulas.WeeklyRSI(dailyRSI, s.weeks)

	currentRSI := 50.0
	if v := formulas.CalculateRSI(closes, s.period); v != nil {
		currentRSI = *v
	}

	weeksAbove := consecutiveWeeksAbove(weeklyRSI, rsiOverboughtThreshold)
	weeksBelow := consecutiveWeeksBelow(weeklyRSI, rsiOversoldThreshold)
	trend := weeklyRSITrend(weeklyRSI)

	riskPoints, opportunityPoints, rules, direction, alert := sustainedRSIRules(weeksAbove, weeksBelow, trend)

	return domain.IndicatorResult{
		Name:      s.Name(),
		Category:  domain.CategoryMomentum,
		Timeframe: domain.TimeframeWeekly,
		Direction: direction,
		Evidence: domain.Evidence{
			"current_rsi_14":  domain.Num(currentRSI),
			"weeks_above_75":  domain.Num(float64(weeksAbove)),
			"weeks_below_25":  domain.Num(float64(weeksBelow)),
			"trend_direction": domain.Str(trend),
		},
		RulesFired:        rules,
		RiskPoints:        riskPoints,
		OpportunityPoints: opportunityPoints,
		Alert:             alert,
		WhyItMatters:      sustainedRSIRationale,
	}
}

// sustainedRSIRules is the pure point ladder: 4+ weeks overbought is the
// critical tier at 40 points, 2-3 weeks earns 20 plus 5 if RSI is still
// rising, 2+ weeks oversold is a 25-point opportunity.
func sustainedRSIRules(weeksAbove, weeksBelow int, trend string) (risk, opportunity float64, rules []domain.FiredRule, direction domain.Direction, alert string) {
	direction = domain.DirectionNeutral

	switch {
	case weeksAbove >= 4:
		rules = append(rules, domain.FiredRule{
			Name:        "RSI_4W_OVERBOUGHT_CRITICAL",
			Points:      40,
			Description: "RSI above 75 for 4+ weeks - extreme overbought",
		})
		risk = 40
		direction = domain.DirectionRisk
		alert = "CRITICAL: RSI above 75 for 4+ weeks - extreme overbought"
	case weeksAbove >= 2:
		rules = append(rules, domain.FiredRule{
			Name:        "RSI_2W_OVERBOUGHT",
			Points:      20,
			Description: fmt.Sprintf("RSI above 75 for %d weeks", weeksAbove),
		})
		risk = 20
		direction = domain.DirectionRisk
		alert = fmt.Sprintf("WARNING: RSI above 75 for %d weeks - monitor for topping", weeksAbove)

		if trend == "rising" {
			rules = append(rules, domain.FiredRule{
				Name:        "RSI_OVERBOUGHT_STILL_RISING",
				Points:      5,
				Description: "RSI overbought and still rising",
			})
			risk += 5
		}
	}

	if weeksBelow >= 2 {
		rules = append(rules, domain.FiredRule{
			Name:        "RSI_2W_OVERSOLD",
			Points:      25,
			Description: fmt.Sprintf("RSI below 25 for %d weeks - oversold bounce opportunity", weeksBelow),
		})
		opportunity = 25
		direction = domain.DirectionOpportunity
		if alert == "" {
			alert = fmt.Sprintf("OVERSOLD: RSI below 25 for %d weeks - potential bounce", weeksBelow)
		}
	}

	return risk, opportunity, rules, direction, alert
}

func consecutiveWeeksAbove(weeklyRSI []float64, threshold float64) int {
	count := 0
	for i := len(weeklyRSI) - 1; i >= 0; i-- {
		if weeklyRSI[i] > threshold {
			count++
		} else {
			break
		}
	}
	return count
}

func consecutiveWeeksBelow(weeklyRSI []float64, threshold float64) int {
	count := 0
	for i := len(weeklyRSI) - 1; i >= 0; i-- {
		if weeklyRSI[i] < threshold {
			count++
		} else {
			break
		}
	}
	return count
}

// weeklyRSITrend reads direction off the last three weekly readings:
// strictly ordered readings win, otherwise the end-to-end change decides.
func weeklyRSITrend(weeklyRSI []float64) string {
	if len(weeklyRSI) < 3 {
		return "neutral"
	}

	recent := weeklyRSI[len(weeklyRSI)-3:]
	switch {
	case recent[2] > recent[1] && recent[1] > recent[0]:
		return "rising"
	case recent[2] < recent[1] && recent[1] < recent[0]:
		return "falling"
	case recent[2] > recent[0]:
		return "rising"
	case recent[2] < recent[0]:
		return "falling"
	default:
		return "neutral"
	}
}
