package recommendations

import (
	"fmt"
	"sort"
	"strings"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
)

var urgencyRank = map[domain.Urgency]int{
	domain.UrgencyCritical: 0,
	domain.UrgencyHigh:     1,
	domain.UrgencyMedium:   2,
	domain.UrgencyLow:      3,
}

// Planner turns a portfolio risk analysis into bucket and position
// directives, honoring the configured bucket policy.
type Planner struct {
	params config.PortfolioParams
}

// NewPlanner creates an action planner with the given bucket policy
func NewPlanner(params config.PortfolioParams) *Planner {
	return &Planner{params: params}
}

// BucketActions walks every analyzed bucket and emits REDUCE or ADD
// directives. Cash is never actioned.
func (p *Planner) BucketActions(analysis domain.PortfolioRiskAnalysis) []domain.BucketAction {
	var actions []domain.BucketAction

	for name, bucket := range analysis.Buckets {
		if name == p.params.CashBucket {
			continue
		}

		switch {
		case bucket.TransitionRisk > 70 || bucket.Phase == domain.BucketPhasePeaking || bucket.Overage > 0.05:
			urgency := domain.UrgencyMedium
			timeframe := "2-4 weeks"
			if bucket.TransitionRisk > 80 {
				urgency = domain.UrgencyHigh
				timeframe = "1-2 weeks"
			}
			actions = append(actions, domain.BucketAction{
				Bucket:        name,
				Action:        domain.ActionReduce,
				CurrentWeight: bucket.Weight,
				TargetWeight:  bucket.MaxWeight,
				Urgency:       urgency,
				Reason:        reduceReason(bucket),
				Timeframe:     timeframe,
			})

		case bucket.Weight < 0.5*bucket.MaxWeight && bucket.TransitionRisk < 40:
			actions = append(actions, domain.BucketAction{
				Bucket:        name,
				Action:        domain.ActionAdd,
				CurrentWeight: bucket.Weight,
				TargetWeight:  0.75 * bucket.MaxWeight,
				Urgency:       domain.UrgencyLow,
				Reason:        fmt.Sprintf("Under-weighted and low risk (%.0f)", bucket.TransitionRisk),
				Timeframe:     "4-8 weeks",
			})
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return urgencyRank[actions[i].Urgency] < urgencyRank[actions[j].Urgency]
	})
	return actions
}

func reduceReason(bucket domain.BucketAnalysis) string {
	var parts []string
	if bucket.TransitionRisk > 70 {
		parts = append(parts, fmt.Sprintf("High transition risk (%.0f)", bucket.TransitionRisk))
	}
	if bucket.Phase == domain.BucketPhasePeaking {
		parts = append(parts, "Bucket phase is PEAKING")
	}
	if bucket.Overage > 0 {
		parts = append(parts, fmt.Sprintf("Over limit by %.1f%%", bucket.Overage*100))
	}
	if bucket.CriticalBreadth > 0.5 {
		parts = append(parts, "Critical signals across most of the bucket")
	}
	return strings.Join(parts, "; ")
}

// PositionActions drills into each REDUCE bucket and ranks its top
// contributors into TRIM and HOLD directives. In OFFENSE mode it also
// surfaces ADD candidates outside the reduced buckets.
func (p *Planner) PositionActions(analysis domain.PortfolioRiskAnalysis, pressures map[string]domain.CyclePressureInput, bucketActions []domain.BucketAction) []domain.PositionAction {
	reduced := map[string]bool{}
	for _, ba := range bucketActions {
		if ba.Action == domain.ActionReduce {
			reduced[ba.Bucket] = true
		}
	}

	var actions []domain.PositionAction

	for name := range reduced {
		bucket, ok := analysis.Buckets[name]
		if !ok {
			continue
		}
		for _, c := range bucket.TopContributors {
			criticalCount := len(pressures[c.Ticker].CriticalSignals)

			switch {
			case c.Contribution > 3.0 || criticalCount >= 2:
				actions = append(actions, domain.PositionAction{
					Ticker:        c.Ticker,
					Bucket:        name,
					Action:        domain.ActionTrim,
					CurrentWeight: c.Weight,
					TargetWeight:  c.Weight * 0.5,
					Priority:      1,
					Reason:        fmt.Sprintf("Top pressure contributor (%.2f) with %d critical signals", c.Contribution, criticalCount),
				})
			case c.Contribution > 1.5:
				actions = append(actions, domain.PositionAction{
					Ticker:        c.Ticker,
					Bucket:        name,
					Action:        domain.ActionTrim,
					CurrentWeight: c.Weight,
					TargetWeight:  c.Weight * 0.7,
					Priority:      2,
					Reason:        fmt.Sprintf("Meaningful pressure contribution (%.2f)", c.Contribution),
				})
			default:
				actions = append(actions, domain.PositionAction{
					Ticker:        c.Ticker,
					Bucket:        name,
					Action:        domain.ActionHold,
					CurrentWeight: c.Weight,
					TargetWeight:  c.Weight,
					Priority:      3,
					Reason:        "Low contribution within a reduced bucket",
				})
			}
		}
	}

	if analysis.Mode == domain.ModeOffense {
		for name, bucket := range analysis.Buckets {
			if reduced[name] || name == p.params.CashBucket {
				continue
			}
			for _, c := range bucket.TopContributors {
				input, ok := pressures[c.Ticker]
				if !ok {
					continue
				}
				earlyPhase := input.Phase == domain.BucketPhaseEarly || input.Phase == domain.BucketPhaseMid
				if input.OpportunityTotal > 60 && earlyPhase && input.RiskTotal < 40 {
					actions = append(actions, domain.PositionAction{
						Ticker:        c.Ticker,
						Bucket:        name,
						Action:        domain.ActionAdd,
						CurrentWeight: c.Weight,
						TargetWeight:  c.Weight * 1.5,
						Priority:      4,
						Reason:        fmt.Sprintf("Early-phase opportunity (%.0f) with low risk (%.0f)", input.OpportunityTotal, input.RiskTotal),
					})
				}
			}
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Priority < actions[j].Priority
	})
	return actions
}
