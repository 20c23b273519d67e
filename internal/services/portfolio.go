package services

import (
	"github.com/rs/zerolog"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
	"cyclewatch/internal/modules/portfolio"
	"cyclewatch/internal/modules/recommendations"
)

// PortfolioService joins per-instrument pressure inputs into the portfolio
// risk rollup and its bucket/position action plan. This is the barrier step
// of the pipeline: it consumes only already-computed instrument analyses.
type PortfolioService struct {
	aggregator *portfolio.Aggregator
	planner    *recommendations.Planner
	log        zerolog.Logger
}

// NewPortfolioService wires the aggregator and planner from one parameter set
func NewPortfolioService(params config.Params, log zerolog.Logger) *PortfolioService {
	return &PortfolioService{
		aggregator: portfolio.NewAggregator(params.Portfolio, log),
		planner:    recommendations.NewPlanner(params.Portfolio),
		log:        log.With().Str("module", "portfolio_service").Logger(),
	}
}

// Analyze aggregates positions against their pressure inputs and derives
// the action plan. Per-position contract violations come back in the error
// slice; the report always covers every analyzable position.
func (p *PortfolioService) Analyze(positions []domain.PositionInput, pressures map[string]domain.CyclePressureInput, totalValue float64) (domain.PortfolioReport, []error) {
	risk, errs := p.aggregator.Analyze(positions, pressures, totalValue)

	bucketActions := p.planner.BucketActions(risk)
	positionActions := p.planner.PositionActions(risk, pressures, bucketActions)

	p.log.Info().
		Str("mode", string(risk.Mode)).
		Float64("transition_risk", risk.TransitionRisk).
		Int("bucket_actions", len(bucketActions)).
		Int("position_actions", len(positionActions)).
		Msg("Portfolio analyzed")

	return domain.PortfolioReport{
		Risk:            risk,
		BucketActions:   bucketActions,
		PositionActions: positionActions,
	}, errs
}
