// Package scoring turns triggered signal clusters into the two independent
// 0-100 scores: opportunity (buy/hold bias) and sell-risk (trim/exit bias).
// The two sides are scored by the same formula over different cluster sets,
// then combined into a net bias label and confidence.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
)

// DualScorer normalizes cluster strengths and weights into dual scores
type DualScorer struct {
	weights config.ClusterWeights
}

// NewDualScorer creates a scorer with the configured cluster weights
func NewDualScorer(weights config.ClusterWeights) *DualScorer {
	return &DualScorer{weights: weights}
}

// Score computes the dual score result from pre-built cluster sets
func (s *DualScorer) Score(ticker string, opportunity, sellRisk []domain.SignalCluster) domain.DualScoreResult {
	opportunityScore := s.clusterScore(opportunity)
	sellRiskScore := s.clusterScore(sellRisk)

	return domain.DualScoreResult{
		Ticker:              ticker,
		Opportunity:         opportunityScore,
		SellRisk:            sellRiskScore,
		OpportunityClusters: opportunity,
		SellRiskClusters:    sellRisk,
		Bias:                biasFor(opportunityScore - sellRiskScore),
		Confidence:          confidence(opportunity, sellRisk),
		KeyFactors:          keyFactors(opportunity, sellRisk),
	}
}

// clusterScore is the weighted average strength of triggered clusters,
// rescaled so a full-strength reading in the heaviest cluster maxes the
// scale, then clamped to [0,100]
func (s *DualScorer) clusterScore(clusters []domain.SignalCluster) float64 {
	totalScore := 0.0
	totalWeight := 0.0

	for _, c := range clusters {
		if c.Triggered {
			totalScore += c.Strength * c.Weight * 100
			totalWeight += c.Weight
		}
	}

	if totalWeight == 0 {
		return 0
	}

	normalized := (totalScore / totalWeight) * (1 / s.weights.Max())
	return math.Min(math.Max(normalized, 0), 100)
}

// biasFor maps the net score (opportunity minus sell-risk) to a bias label
func biasFor(net float64) domain.Bias {
	switch {
	case net > 30:
		return domain.BiasStrongBuy
	case net > 15:
		return domain.BiasBuy
	case net > -15:
		return domain.BiasHold
	case net > -30:
		return domain.BiasSell
	default:
		return domain.BiasStrongSell
	}
}

// confidence blends the average strength of triggered clusters with how
// many of the eight possible clusters triggered
func confidence(opportunity, sellRisk []domain.SignalCluster) float64 {
	triggered := 0
	strengthSum := 0.0
	for _, c := range append(append([]domain.SignalCluster{}, opportunity...), sellRisk...) {
		if c.Triggered {
			triggered++
			strengthSum += c.Strength
		}
	}

	if triggered == 0 {
		return 0
	}

	avgStrength := strengthSum / float64(triggered)
	return math.Min(avgStrength*(float64(triggered)/8.0), 1.0)
}

// keyFactors collects the leading signals of every strong triggered cluster
// (strength above 0.3, first two signals each), ranked by cluster strength
func keyFactors(opportunity, sellRisk []domain.SignalCluster) []string {
	type factor struct {
		label    string
		strength float64
	}
	var factors []factor

	collect := func(side string, clusters []domain.SignalCluster) {
		for _, c := range clusters {
			if !c.Triggered || c.Strength <= 0.3 {
				continue
			}
			signals := c.Signals
			if len(signals) > 2 {
				signals = signals[:2]
			}
			for _, sig := range signals {
				factors = append(factors, factor{
					label:    fmt.Sprintf("%s: %s", side, sig),
					strength: c.Strength,
				})
			}
		}
	}
	collect("opportunity", opportunity)
	collect("risk", sellRisk)

	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].strength > factors[j].strength
	})

	out := make([]string, 0, 3)
	for i := 0; i < len(factors) && i < 3; i++ {
		out = append(out, factors[i].label)
	}
	return out
}
