package indicators

import (
	"math"

	"cyclewatch/internal/domain"
	"cyclewatch/pkg/formulas"
)

// ROCCompression detects rate-of-change slowing at higher prices: the
// late-cycle grind where price rises but speed disappears.
type ROCCompression struct {
	periods []int
}

// NewROCCompression creates the ROC compression indicator
func NewROCCompression() *ROCCompression {
	return &ROCCompression{periods: []int{5, 10, 21}}
}

// Name returns the indicator identifier
func (r *ROCCompression) Name() string { return "ROC_COMPRESSION" }

const rocCompressionRationale = "Late-cycle trends grind: price rises, but speed disappears."

// Evaluate compares current ROC per period against the early-cycle average
// (first third of the window) and scores the compression severity
func (r *ROCCompression) Evaluate(snap *domain.InstrumentSnapshot) domain.IndicatorResult {
	closes := snap.Closes()
	maxPeriod := r.periods[len(r.periods)-1]
	if len(closes) < maxPeriod+20 {
		return neutralResult(r.Name(), domain.CategoryMomentum, domain.TimeframeMulti, domain.Evidence{
			"severity": domain.Str("none"),
		}, rocCompressionRationale)
	}

	currentROC := make(map[string]domain.EvidenceValue, len(r.periods))
	baselineROC := make(map[string]domain.EvidenceValue, len(r.periods))
	ratioEvidence := make(map[string]domain.EvidenceValue, len(r.periods))

	// Baseline speed comes from the first third of the window
	earlyEnd := len(closes) / 3
	early := closes[:earlyEnd]

	ratios := make([]float64, 0, len(r.periods))
	compressedPeriods := 0

	for _, period := range r.periods {
		key := rocKey(period)
		roc := formulas.RateOfChange(closes, period)
		currentROC[key] = domain.Num(roc)

		baseline := averageAbsROC(early, period)
		if baseline <= 0 {
			continue
		}
		baselineROC[key] = domain.Num(baseline)

		ratio := math.Abs(roc) / baseline
		ratioEvidence[key] = domain.Num(ratio)
		ratios = append(ratios, ratio)
		if ratio < 0.5 {
			compressedPeriods++
		}
	}

	priceChangePct := 0.0
	if closes[0] != 0 {
		priceChangePct = (closes[len(closes)-1] - closes[0]) / closes[0] * 100
	}

	severity := "none"
	if priceChangePct > 10 && compressedPeriods >= 2 {
		avg := formulas.Mean(ratios)
		switch {
		case avg < 0.3:
			severity = "severe"
		case avg < 0.5:
			severity = "moderate"
		default:
			severity = "mild"
		}
	}

	var rules []domain.FiredRule
	riskPoints := 0.0
	direction := domain.DirectionNeutral
	alert := ""

	switch severity {
	case "severe":
		rules = append(rules, domain.FiredRule{
			Name:        "ROC_COMPRESSED_2_OF_3",
			Points:      35,
			Description: "Severe ROC compression - cycle aging at altitude",
		})
		riskPoints = 35
		direction = domain.DirectionRisk
		alert = "SEVERE ROC COMPRESSION: Cycle aging - gains slowing at higher prices"
	case "moderate":
		rules = append(rules, domain.FiredRule{
			Name:        "ROC_COMPRESSED_2_OF_3",
			Points:      25,
			Description: "Moderate ROC compression - late-cycle conditions",
		})
		riskPoints = 25
		direction = domain.DirectionRisk
		alert = "MODERATE ROC COMPRESSION: Late-cycle conditions - upside becoming incremental"
	case "mild":
		rules = append(rules, domain.FiredRule{
			Name:        "ROC_COMPRESSED_2_OF_3",
			Points:      15,
			Description: "Mild ROC compression - buyers hesitating",
		})
		riskPoints = 15
		direction = domain.DirectionRisk
		alert = "MILD ROC COMPRESSION: Buyers hesitating at higher prices"
	}

	return domain.IndicatorResult{
		Name:      r.Name(),
		Category:  domain.CategoryMomentum,
		Timeframe: domain.TimeframeMulti,
		Direction: direction,
		Evidence: domain.Evidence{
			"current_roc":       domain.Nested(currentROC),
			"baseline_roc":      domain.Nested(baselineROC),
			"compression_ratio": domain.Nested(ratioEvidence),
			"severity":          domain.Str(severity),
		},
		RulesFired:   rules,
		RiskPoints:   riskPoints,
		Alert:        alert,
		WhyItMatters: rocCompressionRationale,
	}
}

func rocKey(period int) string {
	switch period {
	case 5:
		return "roc_5d"
	case 10:
		return "roc_10d"
	default:
		return "roc_21d"
	}
}

// averageAbsROC computes the mean absolute rate of change across a window,
// one reading per bar once the period is satisfied
func averageAbsROC(closes []float64, period int) float64 {
	if len(closes) < period+20 {
		return 0
	}

	values := make([]float64, 0, len(closes)-period-1)
	for i := period + 1; i < len(closes); i++ {
		base := closes[i-period-1]
		if base == 0 {
			continue
		}
		roc := (closes[i] - base) / base * 100
		values = append(values, math.Abs(roc))
	}
	return formulas.Mean(values)
}
