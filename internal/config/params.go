package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ClusterWeights holds the static weight of each signal cluster
type ClusterWeights struct {
	Momentum           float64 `yaml:"momentum"`
	Value              float64 `yaml:"value"`
	Breakout           float64 `yaml:"breakout"`
	Overheating        float64 `yaml:"overheating"`
	TrendDeterioration float64 `yaml:"trend_deterioration"`
	Distribution       float64 `yaml:"distribution"`
	VolatilityShift    float64 `yaml:"volatility_shift"`
}

// Max returns the largest configured cluster weight, used to rescale scores
func (w ClusterWeights) Max() float64 {
	max := w.Momentum
	for _, v := range []float64{w.Value, w.Breakout, w.Overheating, w.TrendDeterioration, w.Distribution, w.VolatilityShift} {
		if v > max {
			max = v
		}
	}
	return max
}

// PortfolioParams holds the portfolio aggregation constants.
// The breadth multiplier and the overage/peaking/story risk scales have no
// documented derivation upstream; they are kept as defaults pending product
// validation rather than assumed correct.
type PortfolioParams struct {
	BucketLimits      map[string]float64 `yaml:"bucket_limits"`
	BreadthMultiplier float64            `yaml:"breadth_multiplier"`
	PressureScale     float64            `yaml:"pressure_scale"`
	OverageScale      float64            `yaml:"overage_scale"`
	PeakingScale      float64            `yaml:"peaking_scale"`
	StoryScale        float64            `yaml:"story_scale"`
	DefenseRisk       float64            `yaml:"defense_risk"`
	OffenseRisk       float64            `yaml:"offense_risk"`
	MaxPositionPct    float64            `yaml:"max_position_pct"`
	MaxCorePct        float64            `yaml:"max_core_pct"`
	CoreBucket        string             `yaml:"core_bucket"`
	CashBucket        string             `yaml:"cash_bucket"`
}

// NewsParams holds the shared headline-scoring configuration
type NewsParams struct {
	CategoryWeights      map[string]float64 `yaml:"category_weights"`
	CycleWarningKeywords []string           `yaml:"cycle_warning_keywords"`
	FrothKeywords        []string           `yaml:"froth_keywords"`
	SectorKeywords       []string           `yaml:"sector_keywords"`
}

// Params is the immutable engine configuration injected into every
// component constructor. No component reads global state.
type Params struct {
	Clusters  ClusterWeights  `yaml:"clusters"`
	Portfolio PortfolioParams `yaml:"portfolio"`
	News      NewsParams      `yaml:"news"`

	// CoreTickers carry full indicator weight; everything else is damped
	CoreTickers   []string `yaml:"core_tickers"`
	CoreWeight    float64  `yaml:"core_weight"`
	DefaultWeight float64  `yaml:"default_weight"`

	// Fired rules at or above this point value count as critical signals
	CriticalRulePoints float64 `yaml:"critical_rule_points"`
}

// IsCore reports whether a ticker carries full indicator weight
func (p Params) IsCore(ticker string) bool {
	for _, t := range p.CoreTickers {
		if t == ticker {
			return true
		}
	}
	return false
}

// SectorWeight returns the indicator aggregation weight for a ticker
func (p Params) SectorWeight(ticker string) float64 {
	if p.IsCore(ticker) {
		return p.CoreWeight
	}
	return p.DefaultWeight
}

// DefaultParams returns the built-in engine parameters
func DefaultParams() Params {
	return Params{
		Clusters: ClusterWeights{
			Momentum:           0.35,
			Value:              0.25,
			Breakout:           0.20,
			Overheating:        0.35,
			TrendDeterioration: 0.30,
			Distribution:       0.25,
			VolatilityShift:    0.20,
		},
		Portfolio: PortfolioParams{
			BucketLimits: map[string]float64{
				"Memory":      0.18,
				"Equipment":   0.25,
				"EDA":         0.15,
				"Analog":      0.20,
				"Foundry":     0.15,
				"Power":       0.10,
				"Speculative": 0.05,
				"Cash":        1.00,
			},
			BreadthMultiplier: 0.8,
			PressureScale:     2.0,
			OverageScale:      200.0,
			PeakingScale:      250.0,
			StoryScale:        200.0,
			DefenseRisk:       60.0,
			OffenseRisk:       30.0,
			MaxPositionPct:    0.25,
			MaxCorePct:        0.40,
			CoreBucket:        "Memory",
			CashBucket:        "Cash",
		},
		News: NewsParams{
			CategoryWeights: map[string]float64{
				"earnings":   1.0,
				"guidance":   0.9,
				"financial":  0.8,
				"legal":      0.7,
				"mergers":    0.6,
				"operations": 0.5,
				"products":   0.4,
				"market":     0.3,
			},
			CycleWarningKeywords: []string{
				"oversupply", "inventory", "pricing pressure", "capex pause",
				"excess supply", "glut", "stockpile", "backlog", "order delay",
				"production cut", "demand slowdown", "capacity", "utilization",
			},
			FrothKeywords: []string{
				"breakthrough", "revolutionary", "paradigm shift", "unprecedented",
				"game changer", "transformative", "disruptive", "next generation",
			},
			SectorKeywords: []string{
				"memory", "dram", "nand", "hbm", "ssd", "foundry", "semiconductor",
				"chip", "ai chip", "datacenter", "cloud", "capex", "fab", "wafer",
			},
		},
		CoreTickers:        []string{"MU", "WDC", "SNDK", "STX"},
		CoreWeight:         1.0,
		DefaultWeight:      0.7,
		CriticalRulePoints: 30.0,
	}
}

// LoadParams reads engine parameters from a YAML file, falling back to the
// built-in defaults when the path is empty. Values present in the file
// override defaults; everything else keeps its default.
func LoadParams(path string) (Params, error) {
	params := DefaultParams()
	if path == "" {
		return params, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("read engine params: %w", err)
	}

	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("parse engine params: %w", err)
	}

	if err := params.Validate(); err != nil {
		return params, err
	}

	return params, nil
}

// Validate rejects parameter sets that would break score normalization
func (p Params) Validate() error {
	if p.Clusters.Max() <= 0 {
		return fmt.Errorf("cluster weights must include a positive maximum")
	}
	for bucket, limit := range p.Portfolio.BucketLimits {
		if limit < 0 || limit > 1 {
			return fmt.Errorf("bucket limit for %s out of [0,1]: %f", bucket, limit)
		}
	}
	if p.CoreWeight <= 0 || p.DefaultWeight <= 0 {
		return fmt.Errorf("sector weights must be positive")
	}
	return nil
}
