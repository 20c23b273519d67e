package domain

import "time"

// Trend classifies the 50/200-day moving average structure
type Trend string

const (
	TrendStrongBullish      Trend = "strong_bullish"
	TrendBullishTransition  Trend = "bullish_transition"
	TrendStrongBearish      Trend = "strong_bearish"
	TrendBearishTransition  Trend = "bearish_transition"
	TrendNeutral            Trend = "neutral"
	TrendUnknown            Trend = "unknown"
)

// Bullish reports whether the trend structure supports upside continuation
func (t Trend) Bullish() bool {
	return t == TrendStrongBullish || t == TrendBullishTransition
}

// Bearish reports whether the trend structure points down
func (t Trend) Bearish() bool {
	return t == TrendStrongBearish || t == TrendBearishTransition
}

// VolatilityRegime buckets annualized volatility into named bands
type VolatilityRegime string

const (
	VolRegimeLow      VolatilityRegime = "low"
	VolRegimeNormal   VolatilityRegime = "normal"
	VolRegimeElevated VolatilityRegime = "elevated"
	VolRegimeHigh     VolatilityRegime = "high"
)

// PriceBar is one daily OHLCV bar
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// SnapshotMetrics holds the derived scalar metrics of one instrument window.
// Everything downstream (indicators, clusters, cycle classification) reads
// from here; nothing recomputes rolling windows ad hoc.
type SnapshotMetrics struct {
	RSI14 float64 `json:"rsi_14"`

	SMA50  float64 `json:"sma_50"`
	SMA200 float64 `json:"sma_200"`
	EMA20  float64 `json:"ema_20"`
	EMA50  float64 `json:"ema_50"`

	Trend         Trend   `json:"trend_50_200"`
	PriceVsSMA50  float64 `json:"price_vs_sma_50"`
	PriceVsSMA200 float64 `json:"price_vs_sma_200"`

	High20d      float64 `json:"high_20d"`
	Low20d       float64 `json:"low_20d"`
	High50d      float64 `json:"high_50d"`
	Low50d       float64 `json:"low_50d"`
	Position20d  float64 `json:"position_20d_high"`
	Position50d  float64 `json:"position_50d_high"`

	ATR14  float64 `json:"atr_14"`
	ATRPct float64 `json:"atr_pct"`

	VolumeRatio  float64 `json:"volume_ratio"`
	VolumeZScore float64 `json:"volume_z_score"`

	Return5d  float64 `json:"return_5d"`
	Return10d float64 `json:"return_10d"`
	Return21d float64 `json:"return_21d"`
	Return63d float64 `json:"return_63d"`

	ROC5d  float64 `json:"roc_5d"`
	ROC10d float64 `json:"roc_10d"`
	ROC21d float64 `json:"roc_21d"`

	Volatility20d float64 `json:"volatility_20d"`
	Volatility50d float64 `json:"volatility_50d"`

	MaxDrawdown     float64 `json:"max_drawdown"`
	CurrentDrawdown float64 `json:"current_drawdown"`

	VolRegime         VolatilityRegime `json:"volatility_regime"`
	DownsideDeviation float64          `json:"downside_deviation"`

	// Distribution proxies: how the tape behaves around good prints
	HighVolumeWinRate  float64 `json:"high_volume_win_rate"`
	FailedBreakoutFreq float64 `json:"failed_breakout_freq"`
	IntradayWeakness   float64 `json:"intraday_weakness"`
	GapDownFreq        float64 `json:"gap_down_freq"`

	// NaNShare is the fraction of requested window metrics that could not
	// be computed; drives the data-quality gates.
	NaNShare float64 `json:"nan_share"`
}

// InstrumentSnapshot is an immutable per-run view of one instrument:
// its bar window plus derived metrics, stamped with an as-of time supplied
// by the caller (never read from the wall clock internally).
type InstrumentSnapshot struct {
	Ticker  string          `json:"ticker"`
	AsOf    time.Time       `json:"as_of"`
	Bars    []PriceBar      `json:"bars"`
	Metrics SnapshotMetrics `json:"metrics"`
}

// Closes returns the close series in bar order
func (s *InstrumentSnapshot) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high series in bar order
func (s *InstrumentSnapshot) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows returns the low series in bar order
func (s *InstrumentSnapshot) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// Volumes returns the volume series in bar order
func (s *InstrumentSnapshot) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// LastClose returns the most recent close, or 0 for an empty window
func (s *InstrumentSnapshot) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// Headline is one scored news item, as supplied by the news collaborator
type Headline struct {
	Title         string    `json:"title"`
	Source        string    `json:"source"`
	Sentiment     float64   `json:"sentiment"`
	Categories    []string  `json:"categories"`
	Quality       float64   `json:"quality"`
	Impact        int       `json:"impact"`
	PublishedAt   time.Time `json:"published_at"`
	ForwardReturn *float64  `json:"forward_return,omitempty"`
}

// NewsAggregate is the per-instrument news bundle consumed by the
// clusterer and the cycle classifier
type NewsAggregate struct {
	Ticker         string     `json:"ticker"`
	Headlines      []Headline `json:"headlines"`
	SentimentTotal float64    `json:"sentiment_total"`
}

// FiredRule records one rule that fired during an indicator evaluation
type FiredRule struct {
	Name        string  `json:"name"`
	Points      float64 `json:"points"`
	Description string  `json:"description"`
	Critical    bool    `json:"critical"`
}

// IndicatorResult is the standardized output of one indicator over one snapshot
type IndicatorResult struct {
	Name              string      `json:"name"`
	Category          Category    `json:"category"`
	Timeframe         Timeframe   `json:"timeframe"`
	Direction         Direction   `json:"direction"`
	Evidence          Evidence    `json:"evidence"`
	RulesFired        []FiredRule `json:"rules_fired"`
	RiskPoints        float64     `json:"risk_points"`
	OpportunityPoints float64     `json:"opportunity_points"`
	Alert             string      `json:"alert,omitempty"`
	WhyItMatters      string      `json:"why_it_matters"`
}

// CriticalCount returns how many fired rules are flagged critical
func (r IndicatorResult) CriticalCount() int {
	n := 0
	for _, rule := range r.RulesFired {
		if rule.Critical {
			n++
		}
	}
	return n
}

// IndicatorSummary aggregates all indicator results for one instrument
type IndicatorSummary struct {
	Ticker             string            `json:"ticker"`
	Results            []IndicatorResult `json:"results"`
	TotalRisk          float64           `json:"total_risk"`
	TotalOpportunity   float64           `json:"total_opportunity"`
	CycleRiskScore     float64           `json:"cycle_risk_score"`
	RiskLevel          string            `json:"risk_level"`
	RiskDrivers        []IndicatorResult `json:"risk_drivers"`
	OpportunityDrivers []IndicatorResult `json:"opportunity_drivers"`
}

// SignalCluster is a named weighted bundle of micro-signals
type SignalCluster struct {
	Name        string   `json:"name"`
	Signals     []string `json:"signals"`
	Weight      float64  `json:"weight"`
	Triggered   bool     `json:"triggered"`
	Strength    float64  `json:"strength"`
	Description string   `json:"description"`
}

// DualScoreResult carries the two independent 0-100 scores plus bias,
// confidence and the strongest underlying signals
type DualScoreResult struct {
	Ticker              string          `json:"ticker"`
	Opportunity         float64         `json:"opportunity_score"`
	SellRisk            float64         `json:"sell_risk_score"`
	OpportunityClusters []SignalCluster `json:"opportunity_clusters"`
	SellRiskClusters    []SignalCluster `json:"sell_risk_clusters"`
	Bias                Bias            `json:"bias"`
	Confidence          float64         `json:"confidence"`
	KeyFactors          []string        `json:"key_factors"`
}

// CycleAnalysis is the cycle-phase read for one instrument
type CycleAnalysis struct {
	Ticker                string             `json:"ticker"`
	Phase                 Phase              `json:"phase"`
	Confidence            float64            `json:"confidence"`
	CycleScore            float64            `json:"cycle_score"`
	Indicators            map[string]float64 `json:"cycle_indicators"`
	NewsRisk              float64            `json:"news_risk"`
	GoodNewsEffectiveness float64            `json:"good_news_effectiveness"`
	ConsecutiveFailures   int                `json:"consecutive_good_news_failures"`
	GoodNewsAlert         bool               `json:"good_news_alert"`
	KeySignals            []string           `json:"key_signals"`
	PhaseTransitionRisk   float64            `json:"phase_transition_risk"`
}

// PositionInput describes one held position for portfolio aggregation
type PositionInput struct {
	Ticker      string   `json:"ticker"`
	MarketValue float64  `json:"market_value"`
	Weight      float64  `json:"weight"`
	Bucket      string   `json:"bucket"`
	Profile     string   `json:"profile"`
	StoryTags   []string `json:"story_tags"`
}

// Contributor ranks one position's share of a bucket's pressure
type Contributor struct {
	Ticker       string  `json:"ticker"`
	Weight       float64 `json:"weight"`
	Pressure     float64 `json:"pressure"`
	Contribution float64 `json:"contribution"`
}

// BucketAnalysis is the risk rollup for one sector bucket
type BucketAnalysis struct {
	Bucket           string        `json:"bucket"`
	Weight           float64       `json:"weight"`
	MaxWeight        float64       `json:"max_weight"`
	Overage          float64       `json:"overage"`
	WeightedPressure float64       `json:"weighted_pressure"`
	PhaseScore       float64       `json:"phase_score"`
	Phase            BucketPhase   `json:"phase"`
	BaseRisk         float64       `json:"base_risk"`
	CriticalBreadth  float64       `json:"critical_breadth"`
	RiskMultiplier   float64       `json:"risk_multiplier"`
	TransitionRisk   float64       `json:"transition_risk"`
	TopContributors  []Contributor `json:"top_contributors"`
}

// PortfolioRiskAnalysis is the portfolio-level transition-risk rollup
type PortfolioRiskAnalysis struct {
	TotalValue              float64                   `json:"total_value"`
	PortfolioPressure       float64                   `json:"portfolio_pressure"`
	PortfolioPhase          BucketPhase               `json:"portfolio_phase"`
	PressureRisk            float64                   `json:"pressure_risk"`
	PhaseConcentrationRisk  float64                   `json:"phase_concentration_risk"`
	BucketConcentrationRisk float64                   `json:"bucket_concentration_risk"`
	StoryConcentrationRisk  float64                   `json:"story_concentration_risk"`
	TransitionRisk          float64                   `json:"transition_risk"`
	Mode                    Mode                      `json:"mode"`
	Buckets                 map[string]BucketAnalysis `json:"buckets"`
	StoryWeights            map[string]float64        `json:"story_weights"`
	PeakingWeight           float64                   `json:"peaking_weight"`
	PeakingTickers          []string                  `json:"peaking_tickers"`
	DataGaps                []string                  `json:"data_gaps,omitempty"`
	Suggestions             []string                  `json:"suggestions,omitempty"`
}

// Recommendation is the tiered, time-boxed call for one instrument
type Recommendation struct {
	Ticker     string             `json:"ticker"`
	Tier       Tier               `json:"tier"`
	Confidence float64            `json:"confidence"`
	Urgency    Urgency            `json:"urgency"`
	Reasons    []string           `json:"reasons"`
	KeyLevels  map[string]float64 `json:"key_levels,omitempty"`
	NextReview time.Time          `json:"next_review"`
	Sizing     string             `json:"sizing,omitempty"`
	Hedges     []string           `json:"hedges,omitempty"`
}

// BucketAction is a portfolio-level directive for one bucket
type BucketAction struct {
	Bucket        string     `json:"bucket"`
	Action        ActionType `json:"action"`
	CurrentWeight float64    `json:"current_weight"`
	TargetWeight  float64    `json:"target_weight"`
	Urgency       Urgency    `json:"urgency"`
	Reason        string     `json:"reason"`
	Timeframe     string     `json:"timeframe"`
}

// PositionAction is a directive for one position inside an actioned bucket
type PositionAction struct {
	Ticker        string     `json:"ticker"`
	Bucket        string     `json:"bucket"`
	Action        ActionType `json:"action"`
	CurrentWeight float64    `json:"current_weight"`
	TargetWeight  float64    `json:"target_weight"`
	Priority      int        `json:"priority"`
	Reason        string     `json:"reason"`
}

// InstrumentReport bundles the full per-instrument pipeline output
type InstrumentReport struct {
	Ticker         string           `json:"ticker"`
	Indicators     IndicatorSummary `json:"indicators"`
	Score          DualScoreResult  `json:"score"`
	Cycle          CycleAnalysis    `json:"cycle"`
	Recommendation Recommendation   `json:"recommendation"`
}

// PortfolioReport bundles the portfolio-level output
type PortfolioReport struct {
	Risk            PortfolioRiskAnalysis `json:"risk"`
	BucketActions   []BucketAction        `json:"bucket_actions"`
	PositionActions []PositionAction      `json:"position_actions"`
}
