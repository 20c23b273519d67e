// Package portfolio aggregates per-instrument cycle pressure into bucket
// and portfolio-level transition risk. It answers questions single-name
// analysis cannot: which bucket sources the risk, how much weight sits in
// peaking phases, and whether the portfolio should be playing offense or
// defense.
package portfolio

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
)

// phaseScores maps each coarse phase to its numeric contribution
var phaseScores = map[domain.BucketPhase]float64{
	domain.BucketPhaseEarly:    -10,
	domain.BucketPhaseMid:      0,
	domain.BucketPhaseLate:     15,
	domain.BucketPhasePeaking:  30,
	domain.BucketPhaseDownturn: 45,
}

// bucketPhaseTable converts a weighted phase score back to a phase label
var bucketPhaseTable = domain.NewBoundaryTable(
	domain.BucketPhaseEarly,
	domain.BoundaryRow[domain.BucketPhase]{LowerBound: 37.5, Value: domain.BucketPhaseDownturn},
	domain.BoundaryRow[domain.BucketPhase]{LowerBound: 22.5, Value: domain.BucketPhasePeaking},
	domain.BoundaryRow[domain.BucketPhase]{LowerBound: 7.5, Value: domain.BucketPhaseLate},
	domain.BoundaryRow[domain.BucketPhase]{LowerBound: -5, Value: domain.BucketPhaseMid},
)

// Aggregator computes bucket and portfolio-level cycle risk
type Aggregator struct {
	params config.PortfolioParams
	log    zerolog.Logger
}

// NewAggregator creates an aggregator with the configured bucket policy
func NewAggregator(params config.PortfolioParams, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		params: params,
		log:    log.With().Str("module", "portfolio").Logger(),
	}
}

// Analyze rolls the position set up into a portfolio risk analysis.
//
// Positions with weights outside [0,1] are excluded and reported in the
// returned error slice; positions whose ticker has no pressure input are
// excluded and recorded as data gaps. Either way the rest of the portfolio
// is still analyzed: partial success, never all-or-nothing.
func (a *Aggregator) Analyze(positions []domain.PositionInput, pressures map[string]domain.CyclePressureInput, totalValue float64) (domain.PortfolioRiskAnalysis, []error) {
	var errs []error
	var dataGaps []string
	valid := make([]domain.PositionInput, 0, len(positions))

	for _, pos := range positions {
		if pos.Weight < 0 || pos.Weight > 1 {
			errs = append(errs, &domain.InvalidWeightError{
				Ticker: pos.Ticker,
				Weight: pos.Weight,
				Reason: "position weight outside [0,1]",
			})
			continue
		}
		if _, ok := pressures[pos.Ticker]; !ok && pos.Bucket != a.params.CashBucket {
			errs = append(errs, domain.MissingCycleAnalysis(pos.Ticker))
			dataGaps = append(dataGaps, pos.Ticker)
			continue
		}
		valid = append(valid, pos)
	}

	buckets := a.analyzeBuckets(valid, pressures)

	portfolioPressure := 0.0
	peakingWeight := 0.0
	var peakingTickers []string
	for _, pos := range valid {
		if pos.Bucket == a.params.CashBucket {
			continue
		}
		input := pressures[pos.Ticker]
		portfolioPressure += pos.Weight * input.Pressure
		if input.Phase == domain.BucketPhasePeaking || input.Phase == domain.BucketPhaseDownturn {
			peakingWeight += pos.Weight
			peakingTickers = append(peakingTickers, pos.Ticker)
		}
	}

	portfolioPhase := bucketPhaseTable.Lookup(portfolioPressure)
	pressureRisk := clip(a.params.PressureScale*portfolioPressure, 0, 100)
	phaseConcentrationRisk := clip(a.params.PeakingScale*peakingWeight, 0, 100)

	totalOverage := 0.0
	for _, b := range buckets {
		totalOverage += b.Overage
	}
	bucketConcentrationRisk := clip(a.params.OverageScale*totalOverage, 0, 100)

	storyWeights := storyConcentration(valid)
	maxStory := 0.0
	for _, w := range storyWeights {
		if w > maxStory {
			maxStory = w
		}
	}
	storyConcentrationRisk := clip(a.params.StoryScale*maxStory, 0, 100)

	transitionRisk := 0.35*pressureRisk +
		0.25*phaseConcentrationRisk +
		0.20*bucketConcentrationRisk +
		0.20*storyConcentrationRisk

	analysis := domain.PortfolioRiskAnalysis{
		TotalValue:              totalValue,
		PortfolioPressure:       portfolioPressure,
		PortfolioPhase:          portfolioPhase,
		PressureRisk:            pressureRisk,
		PhaseConcentrationRisk:  phaseConcentrationRisk,
		BucketConcentrationRisk: bucketConcentrationRisk,
		StoryConcentrationRisk:  storyConcentrationRisk,
		TransitionRisk:          transitionRisk,
		Mode:                    a.mode(transitionRisk, portfolioPhase),
		Buckets:                 buckets,
		StoryWeights:            storyWeights,
		PeakingWeight:           peakingWeight,
		PeakingTickers:          peakingTickers,
		DataGaps:                dataGaps,
		Suggestions:             a.suggestions(valid, buckets),
	}

	if len(dataGaps) > 0 {
		a.log.Warn().Strs("tickers", dataGaps).Msg("Positions excluded from aggregation: no cycle analysis")
	}

	return analysis, errs
}

// analyzeBuckets groups positions by bucket and computes each rollup
func (a *Aggregator) analyzeBuckets(positions []domain.PositionInput, pressures map[string]domain.CyclePressureInput) map[string]domain.BucketAnalysis {
	grouped := map[string][]domain.PositionInput{}
	for _, pos := range positions {
		grouped[pos.Bucket] = append(grouped[pos.Bucket], pos)
	}

	buckets := make(map[string]domain.BucketAnalysis, len(grouped))
	for bucket, members := range grouped {
		buckets[bucket] = a.analyzeBucket(bucket, members, pressures)
	}
	return buckets
}

func (a *Aggregator) analyzeBucket(bucket string, positions []domain.PositionInput, pressures map[string]domain.CyclePressureInput) domain.BucketAnalysis {
	maxWeight, ok := a.params.BucketLimits[bucket]
	if !ok {
		maxWeight = 1.0
	}

	totalWeight := 0.0
	weightedPressure := 0.0
	phaseScore := 0.0
	criticalWeight := 0.0
	contributors := make([]domain.Contributor, 0, len(positions))

	isCash := bucket == a.params.CashBucket

	for _, pos := range positions {
		totalWeight += pos.Weight

		input, ok := pressures[pos.Ticker]
		if !ok {
			continue
		}

		pressure := input.Pressure
		if isCash {
			pressure = 0
		}

		weightedPressure += pos.Weight * pressure
		phaseScore += pos.Weight * phaseScores[input.Phase]
		if len(input.CriticalSignals) > 0 {
			criticalWeight += pos.Weight
		}

		contributors = append(contributors, domain.Contributor{
			Ticker:       pos.Ticker,
			Weight:       pos.Weight,
			Pressure:     pressure,
			Contribution: pos.Weight * pressure,
		})
	}

	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].Contribution > contributors[j].Contribution
	})
	if len(contributors) > 5 {
		contributors = contributors[:5]
	}

	baseRisk := clip(a.params.PressureScale*weightedPressure, 0, 100)
	criticalBreadth := 0.0
	if totalWeight > 0 {
		criticalBreadth = criticalWeight / totalWeight
	}
	riskMultiplier := 1 + a.params.BreadthMultiplier*criticalBreadth

	return domain.BucketAnalysis{
		Bucket:           bucket,
		Weight:           totalWeight,
		MaxWeight:        maxWeight,
		Overage:          maxF(0, totalWeight-maxWeight),
		WeightedPressure: weightedPressure,
		PhaseScore:       phaseScore,
		Phase:            bucketPhaseTable.Lookup(phaseScore),
		BaseRisk:         baseRisk,
		CriticalBreadth:  criticalBreadth,
		RiskMultiplier:   riskMultiplier,
		TransitionRisk:   clip(baseRisk*riskMultiplier, 0, 100),
		TopContributors:  contributors,
	}
}

// mode picks the portfolio stance from transition risk and phase
func (a *Aggregator) mode(transitionRisk float64, phase domain.BucketPhase) domain.Mode {
	switch {
	case transitionRisk > a.params.DefenseRisk ||
		phase == domain.BucketPhasePeaking || phase == domain.BucketPhaseDownturn:
		return domain.ModeDefense
	case transitionRisk < a.params.OffenseRisk &&
		(phase == domain.BucketPhaseEarly || phase == domain.BucketPhaseMid):
		return domain.ModeOffense
	default:
		return domain.ModeBalanced
	}
}

// suggestions flags single-position and core-bucket concentration beyond
// the configured policy
func (a *Aggregator) suggestions(positions []domain.PositionInput, buckets map[string]domain.BucketAnalysis) []string {
	var out []string

	for _, pos := range positions {
		if pos.Bucket == a.params.CashBucket {
			continue
		}
		if pos.Weight > a.params.MaxPositionPct {
			out = append(out, fmt.Sprintf("%s is %.1f%% of the portfolio (policy max %.0f%%); consider trimming",
				pos.Ticker, pos.Weight*100, a.params.MaxPositionPct*100))
		}
	}

	if core, ok := buckets[a.params.CoreBucket]; ok && core.Weight > a.params.MaxCorePct {
		out = append(out, fmt.Sprintf("%s bucket is %.1f%% of the portfolio (policy max %.0f%%); rotation overdue",
			a.params.CoreBucket, core.Weight*100, a.params.MaxCorePct*100))
	}

	return out
}

func storyConcentration(positions []domain.PositionInput) map[string]float64 {
	weights := map[string]float64{}
	for _, pos := range positions {
		for _, story := range pos.StoryTags {
			weights[story] += pos.Weight
		}
	}
	return weights
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
