package domain

// CyclePressureInput is the per-instrument rollup the portfolio aggregator
// consumes: totals from the indicator evaluation plus the coarse bucket
// phase derived from the cycle read.
type CyclePressureInput struct {
	Ticker           string      `json:"ticker"`
	RiskTotal        float64     `json:"risk_total"`
	OpportunityTotal float64     `json:"opportunity_total"`
	Pressure         float64     `json:"cycle_pressure"`
	Phase            BucketPhase `json:"phase"`
	TransitionRisk   float64     `json:"transition_risk"`
	DataQualityOK    bool        `json:"data_quality_ok"`
	CriticalSignals  []string    `json:"critical_signals_fired"`
}

// ToBucketPhase folds the fine-grained instrument phase into the coarse
// scale used by portfolio aggregation.
func (p Phase) ToBucketPhase() BucketPhase {
	switch p {
	case PhaseEarly:
		return BucketPhaseEarly
	case PhaseMid:
		return BucketPhaseMid
	case PhaseLateMid:
		return BucketPhaseLate
	case PhaseLate:
		return BucketPhasePeaking
	default:
		return BucketPhaseDownturn
	}
}
