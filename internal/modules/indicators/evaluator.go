package indicators

import (
	"github.com/rs/zerolog"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
)

// Evaluator runs the registered indicator set over one snapshot and
// aggregates points into a per-instrument summary.
type Evaluator struct {
	params     config.Params
	indicators []Indicator
	log        zerolog.Logger
}

// NewEvaluator creates an evaluator over the default indicator set
func NewEvaluator(params config.Params, log zerolog.Logger) *Evaluator {
	return &Evaluator{
		params:     params,
		indicators: DefaultIndicators(),
		log:        log.With().Str("module", "indicators").Logger(),
	}
}

// Evaluate runs every indicator and aggregates risk/opportunity points.
// Core tickers carry full weight; everything else is damped. The net
// cycle-risk score is total risk minus total opportunity.
func (e *Evaluator) Evaluate(snap *domain.InstrumentSnapshot) domain.IndicatorSummary {
	weight := e.params.SectorWeight(snap.Ticker)

	results := make([]domain.IndicatorResult, 0, len(e.indicators))
	totalRisk := 0.0
	totalOpportunity := 0.0

	for _, ind := range e.indicators {
		result := ind.Evaluate(snap)
		e.flagCriticalRules(&result)

		results = append(results, result)
		totalRisk += result.RiskPoints * weight
		totalOpportunity += result.OpportunityPoints * weight

		if result.Alert != "" {
			e.log.Debug().
				Str("ticker", snap.Ticker).
				Str("indicator", result.Name).
				Str("alert", result.Alert).
				Msg("Indicator alert")
		}
	}

	cycleRiskScore := totalRisk - totalOpportunity

	riskDrivers, opportunityDrivers := selectDrivers(results, 3, 1, 10)

	return domain.IndicatorSummary{
		Ticker:             snap.Ticker,
		Results:            results,
		TotalRisk:          totalRisk,
		TotalOpportunity:   totalOpportunity,
		CycleRiskScore:     cycleRiskScore,
		RiskLevel:          riskLevel(cycleRiskScore),
		RiskDrivers:        riskDrivers,
		OpportunityDrivers: opportunityDrivers,
	}
}

// flagCriticalRules marks fired rules at or above the configured point
// threshold; critical rules feed bucket critical breadth.
func (e *Evaluator) flagCriticalRules(result *domain.IndicatorResult) {
	for i := range result.RulesFired {
		if result.RulesFired[i].Points >= e.params.CriticalRulePoints {
			result.RulesFired[i].Critical = true
		}
	}
}

func riskLevel(cycleRiskScore float64) string {
	switch {
	case cycleRiskScore >= 50:
		return "critical"
	case cycleRiskScore >= 30:
		return "high"
	case cycleRiskScore >= 15:
		return "medium"
	default:
		return "low"
	}
}
