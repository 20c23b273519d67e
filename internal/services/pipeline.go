package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
	"cyclewatch/internal/modules/clusters"
	"cyclewatch/internal/modules/cycle"
	"cyclewatch/internal/modules/indicators"
	"cyclewatch/internal/modules/recommendations"
	"cyclewatch/internal/modules/scoring"
)

// Data-quality gates. Shallow windows and thin news coverage degrade the
// output rather than failing it: trend clusters switch off, confidence gets
// capped, news-driven signals go quiet.
const (
	minTrendLookback     = 60
	maxNaNShare          = 0.3
	minHeadlines         = 5
	minPositiveHeadlines = 3
	batchWorkers         = 8
)

// AnalyzeRequest carries everything one instrument analysis needs. The
// as-of time is threaded through to the recommendation; the pipeline never
// reads the wall clock.
type AnalyzeRequest struct {
	Ticker    string            `json:"ticker"`
	AsOf      time.Time         `json:"as_of"`
	Bars      []domain.PriceBar `json:"bars"`
	Headlines []domain.Headline `json:"headlines,omitempty"`
}

// InstrumentResult is the full pipeline output for one instrument plus the
// pressure rollup the portfolio aggregator consumes
type InstrumentResult struct {
	Report   domain.InstrumentReport   `json:"report"`
	Pressure domain.CyclePressureInput `json:"pressure"`
}

// BatchResult is the per-ticker result-or-error envelope of a batch run
type BatchResult struct {
	Ticker string           `json:"ticker"`
	Result InstrumentResult `json:"result,omitempty"`
	Err    error            `json:"-"`
}

// AnalysisService composes the per-instrument pipeline: snapshot metrics,
// indicator evaluation, signal clustering, dual scoring, cycle phase
// classification, and the recommendation.
type AnalysisService struct {
	params     config.Params
	evaluator  *indicators.Evaluator
	clusterer  *clusters.Clusterer
	scorer     *scoring.DualScorer
	classifier *cycle.Classifier
	engine     *recommendations.Engine
	log        zerolog.Logger
}

// NewAnalysisService wires the pipeline from one immutable parameter set
func NewAnalysisService(params config.Params, log zerolog.Logger) *AnalysisService {
	return &AnalysisService{
		params:     params,
		evaluator:  indicators.NewEvaluator(params, log),
		clusterer:  clusters.NewClusterer(params.Clusters),
		scorer:     scoring.NewDualScorer(params.Clusters),
		classifier: cycle.NewClassifier(params.News),
		engine:     recommendations.NewEngine(),
		log:        log.With().Str("module", "analysis").Logger(),
	}
}

// AnalyzeInstrument runs the full pipeline for one instrument. Identical
// inputs always yield identical outputs.
func (s *AnalysisService) AnalyzeInstrument(req AnalyzeRequest) (InstrumentResult, error) {
	if req.Ticker == "" {
		return InstrumentResult{}, fmt.Errorf("analyze: ticker is required")
	}
	if len(req.Bars) == 0 {
		return InstrumentResult{}, fmt.Errorf("analyze %s: no price bars", req.Ticker)
	}

	snap := BuildSnapshot(req.Ticker, req.AsOf, req.Bars)
	summary := s.evaluator.Evaluate(snap)

	agg := newsAggregate(req)
	opportunity := s.clusterer.Opportunity(snap, agg)
	sellRisk := s.clusterer.SellRisk(snap)
	if len(req.Bars) < minTrendLookback {
		muteTrendClusters(opportunity)
		muteTrendClusters(sellRisk)
	}

	score := s.scorer.Score(req.Ticker, opportunity, sellRisk)
	cycleRead := s.classifier.Analyze(snap, agg)

	if countPositives(req.Headlines) < minPositiveHeadlines {
		neutralizeGoodNews(&cycleRead)
	}
	degraded := snap.Metrics.NaNShare > maxNaNShare
	if degraded {
		capConfidence(&score, &cycleRead)
	}

	rec := s.engine.Recommend(req.AsOf, score, cycleRead, snap.Metrics, snap.LastClose())

	result := InstrumentResult{
		Report: domain.InstrumentReport{
			Ticker:         req.Ticker,
			Indicators:     summary,
			Score:          score,
			Cycle:          cycleRead,
			Recommendation: rec,
		},
		Pressure: domain.CyclePressureInput{
			Ticker:           req.Ticker,
			RiskTotal:        summary.TotalRisk,
			OpportunityTotal: summary.TotalOpportunity,
			Pressure:         summary.TotalRisk - summary.TotalOpportunity,
			Phase:            cycleRead.Phase.ToBucketPhase(),
			TransitionRisk:   cycleRead.PhaseTransitionRisk,
			DataQualityOK:    len(req.Bars) >= minTrendLookback && !degraded,
			CriticalSignals:  criticalSignals(summary),
		},
	}

	s.log.Debug().
		Str("ticker", req.Ticker).
		Str("phase", string(cycleRead.Phase)).
		Str("tier", string(rec.Tier)).
		Float64("sell_risk", score.SellRisk).
		Float64("opportunity", score.Opportunity).
		Msg("Instrument analyzed")

	return result, nil
}

// AnalyzeBatch fans the pipeline out across tickers with bounded
// parallelism. Every request produces a result or an error; one bad
// instrument never aborts its siblings.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, reqs []AnalyzeRequest) []BatchResult {
	results := make([]BatchResult, len(reqs))
	sem := make(chan struct{}, batchWorkers)
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req AnalyzeRequest) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results[i] = BatchResult{Ticker: req.Ticker, Err: err}
				return
			}

			result, err := s.AnalyzeInstrument(req)
			results[i] = BatchResult{Ticker: req.Ticker, Result: result, Err: err}
		}(i, req)
	}

	wg.Wait()
	return results
}

func newsAggregate(req AnalyzeRequest) *domain.NewsAggregate {
	if len(req.Headlines) < minHeadlines {
		return nil
	}
	total := 0.0
	for _, h := range req.Headlines {
		total += h.Sentiment
	}
	return &domain.NewsAggregate{
		Ticker:         req.Ticker,
		Headlines:      req.Headlines,
		SentimentTotal: total,
	}
}

// muteTrendClusters untriggers the clusters that need a full trend lookback
func muteTrendClusters(clusterSet []domain.SignalCluster) {
	for i := range clusterSet {
		switch clusterSet[i].Name {
		case "trend_deterioration", "breakout":
			clusterSet[i].Triggered = false
		}
	}
}

func countPositives(headlines []domain.Headline) int {
	n := 0
	for _, h := range headlines {
		if h.Sentiment > 0 {
			n++
		}
	}
	return n
}

// neutralizeGoodNews resets the effectiveness read when too few positive
// headlines exist to judge it
func neutralizeGoodNews(c *domain.CycleAnalysis) {
	c.GoodNewsEffectiveness = 50
	c.ConsecutiveFailures = 0
	c.GoodNewsAlert = false
}

// capConfidence degrades NaN-heavy windows: confidence tops out at 0.5 and
// strong biases fall back a notch
func capConfidence(score *domain.DualScoreResult, cycleRead *domain.CycleAnalysis) {
	if score.Confidence > 0.5 {
		score.Confidence = 0.5
	}
	if cycleRead.Confidence > 0.5 {
		cycleRead.Confidence = 0.5
	}
	switch score.Bias {
	case domain.BiasStrongBuy:
		score.Bias = domain.BiasBuy
	case domain.BiasStrongSell:
		score.Bias = domain.BiasSell
	}
}

func criticalSignals(summary domain.IndicatorSummary) []string {
	var out []string
	for _, result := range summary.Results {
		for _, rule := range result.RulesFired {
			if rule.Critical {
				out = append(out, rule.Name)
			}
		}
	}
	return out
}
