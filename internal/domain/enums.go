package domain

// Direction indicates which side of the ledger an indicator contributes to
type Direction string

const (
	DirectionRisk        Direction = "RISK"
	DirectionOpportunity Direction = "OPPORTUNITY"
	DirectionNeutral     Direction = "NEUTRAL"
)

// Category classifies an indicator by the kind of evidence it reads
type Category string

const (
	CategoryMomentum   Category = "MOMENTUM"
	CategoryTrend      Category = "TREND"
	CategoryVolatility Category = "VOLATILITY"
	CategoryVolume     Category = "VOLUME"
	CategoryRelative   Category = "RELATIVE"
	CategoryNews       Category = "NEWS"
)

// Timeframe is the bar resolution an indicator evaluates on
type Timeframe string

const (
	TimeframeDaily  Timeframe = "DAILY"
	TimeframeWeekly Timeframe = "WEEKLY"
	TimeframeMulti  Timeframe = "MULTI"
)

// Phase is an instrument's position in the boom/bust demand cycle
type Phase string

const (
	PhaseEarly        Phase = "early"
	PhaseMid          Phase = "mid"
	PhaseLateMid      Phase = "late_mid"
	PhaseLate         Phase = "late"
	PhaseRolloverRisk Phase = "rollover_risk"
)

// IsLateStage reports whether the phase warrants tighter review cadence
// and a defensive tilt in recommendations.
func (p Phase) IsLateStage() bool {
	return p == PhaseLate || p == PhaseRolloverRisk
}

// BucketPhase is the coarser phase used for bucket and portfolio rollups
type BucketPhase string

const (
	BucketPhaseEarly    BucketPhase = "EARLY"
	BucketPhaseMid      BucketPhase = "MID"
	BucketPhaseLate     BucketPhase = "LATE"
	BucketPhasePeaking  BucketPhase = "PEAKING"
	BucketPhaseDownturn BucketPhase = "DOWNTURN"
)

// Bias is the overall directional read from the dual score
type Bias string

const (
	BiasStrongBuy  Bias = "STRONG_BUY"
	BiasBuy        Bias = "BUY"
	BiasHold       Bias = "HOLD"
	BiasSell       Bias = "SELL"
	BiasStrongSell Bias = "STRONG_SELL"
)

// Tier is the recommended action band for a single instrument
type Tier string

const (
	TierExitRiskOff      Tier = "Exit/Risk-Off"
	TierTrim             Tier = "Trim 25-50%"
	TierHoldTakeProfits  Tier = "Hold/Take-Profits"
	TierHoldAdd          Tier = "Hold/Add"
	TierHedge            Tier = "Hedge"
)

// Urgency ranks how quickly a recommendation should be acted on
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

// Mode is the portfolio operating stance derived from transition risk
type Mode string

const (
	ModeOffense  Mode = "OFFENSE"
	ModeBalanced Mode = "BALANCED"
	ModeDefense  Mode = "DEFENSE"
)

// ActionType labels bucket and position actions
type ActionType string

const (
	ActionReduce ActionType = "REDUCE"
	ActionAdd    ActionType = "ADD"
	ActionTrim   ActionType = "TRIM"
	ActionHold   ActionType = "HOLD"
)
