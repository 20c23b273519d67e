package indicators

import (
	"sort"

	"cyclewatch/internal/domain"
)

// selectDrivers ranks indicator results for human-readable summaries:
// top risk drivers by risk points descending, and opportunity drivers only
// when their points clear the minimum threshold.
func selectDrivers(results []domain.IndicatorResult, maxRisk, maxOpportunity int, minOpportunityPoints float64) (risk, opportunity []domain.IndicatorResult) {
	risk = make([]domain.IndicatorResult, 0, maxRisk)
	opportunity = make([]domain.IndicatorResult, 0, maxOpportunity)

	byRisk := make([]domain.IndicatorResult, 0, len(results))
	byOpportunity := make([]domain.IndicatorResult, 0, len(results))

	for _, r := range results {
		if r.RiskPoints > 0 {
			byRisk = append(byRisk, r)
		}
		if r.OpportunityPoints >= minOpportunityPoints {
			byOpportunity = append(byOpportunity, r)
		}
	}

	sort.SliceStable(byRisk, func(i, j int) bool {
		return byRisk[i].RiskPoints > byRisk[j].RiskPoints
	})
	sort.SliceStable(byOpportunity, func(i, j int) bool {
		return byOpportunity[i].OpportunityPoints > byOpportunity[j].OpportunityPoints
	})

	for i := 0; i < len(byRisk) && i < maxRisk; i++ {
		risk = append(risk, byRisk[i])
	}
	for i := 0; i < len(byOpportunity) && i < maxOpportunity; i++ {
		opportunity = append(opportunity, byOpportunity[i])
	}

	return risk, opportunity
}
