// Package clusters groups correlated micro-signals into named, weighted
// signal clusters. A cluster triggers only when at least two of its signals
// fire, so no single noisy reading moves a score on its own.
package clusters

import (
	"math"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
)

// triggerThreshold is the minimum number of fired signals for a cluster to count
const triggerThreshold = 2

// Clusterer evaluates the opportunity and sell-risk cluster sets over one
// instrument's derived metrics
type Clusterer struct {
	weights config.ClusterWeights
}

// NewClusterer creates a clusterer with the configured cluster weights
func NewClusterer(weights config.ClusterWeights) *Clusterer {
	return &Clusterer{weights: weights}
}

// Opportunity evaluates the three opportunity clusters: technical momentum,
// value/reversal and breakout.
func (c *Clusterer) Opportunity(snap *domain.InstrumentSnapshot, news *domain.NewsAggregate) []domain.SignalCluster {
	return []domain.SignalCluster{
		c.momentumCluster(snap.Metrics),
		c.valueCluster(snap.Metrics, news),
		c.breakoutCluster(snap),
	}
}

// SellRisk evaluates the four sell-risk clusters: overheating, trend
// deterioration, distribution and volatility shift.
func (c *Clusterer) SellRisk(snap *domain.InstrumentSnapshot) []domain.SignalCluster {
	return []domain.SignalCluster{
		c.overheatingCluster(snap.Metrics),
		c.trendDeteriorationCluster(snap.Metrics),
		c.distributionCluster(snap.Metrics),
		c.volatilityShiftCluster(snap.Metrics),
	}
}

// builder accumulates fired signals and strength increments for one cluster
type builder struct {
	name        string
	description string
	weight      float64
	signals     []string
	strength    float64
}

func newBuilder(name, description string, weight float64) *builder {
	return &builder{name: name, description: description, weight: weight}
}

// hit records a fired signal and its strength increment
func (b *builder) hit(signal string, increment float64) {
	b.signals = append(b.signals, signal)
	b.strength += increment
}

// done finalizes the cluster: strength is capped at 1.0 and the cluster
// triggers only with at least two fired signals
func (b *builder) done() domain.SignalCluster {
	return domain.SignalCluster{
		Name:        b.name,
		Signals:     b.signals,
		Weight:      b.weight,
		Triggered:   len(b.signals) >= triggerThreshold,
		Strength:    math.Min(1.0, b.strength),
		Description: b.description,
	}
}
