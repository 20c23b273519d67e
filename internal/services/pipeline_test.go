package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
)

func testService() *AnalysisService {
	return NewAnalysisService(config.DefaultParams(), zerolog.Nop())
}

func floatPtr(v float64) *float64 { return &v }

func TestAnalyzeInstrumentValidation(t *testing.T) {
	svc := testService()

	_, err := svc.AnalyzeInstrument(AnalyzeRequest{AsOf: snapAsOf, Bars: risingBars(100)})
	require.Error(t, err, "missing ticker")

	_, err = svc.AnalyzeInstrument(AnalyzeRequest{Ticker: "MU", AsOf: snapAsOf})
	require.Error(t, err, "missing bars")
}

func TestAnalyzeInstrumentEndToEnd(t *testing.T) {
	req := AnalyzeRequest{Ticker: "MU", AsOf: snapAsOf, Bars: risingBars(250)}

	result, err := testService().AnalyzeInstrument(req)
	require.NoError(t, err)

	report := result.Report
	assert.Equal(t, "MU", report.Ticker)
	assert.Equal(t, "MU", report.Score.Ticker)
	assert.NotEmpty(t, report.Indicators.Results)
	assert.NotZero(t, report.Recommendation.Tier)
	assert.False(t, report.Recommendation.NextReview.Before(snapAsOf))

	pressure := result.Pressure
	assert.Equal(t, "MU", pressure.Ticker)
	assert.InDelta(t, report.Indicators.TotalRisk-report.Indicators.TotalOpportunity, pressure.Pressure, 1e-9)
	assert.Equal(t, report.Cycle.Phase.ToBucketPhase(), pressure.Phase)
	assert.True(t, pressure.DataQualityOK)
}

func TestAnalyzeInstrumentIdempotent(t *testing.T) {
	req := AnalyzeRequest{Ticker: "MU", AsOf: snapAsOf, Bars: risingBars(250)}
	svc := testService()

	first, err := svc.AnalyzeInstrument(req)
	require.NoError(t, err)
	second, err := svc.AnalyzeInstrument(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestShortLookbackMutesTrendClusters(t *testing.T) {
	req := AnalyzeRequest{Ticker: "MU", AsOf: snapAsOf, Bars: risingBars(30)}

	result, err := testService().AnalyzeInstrument(req)
	require.NoError(t, err)

	assert.False(t, result.Pressure.DataQualityOK)
	for _, c := range result.Report.Score.SellRiskClusters {
		if c.Name == "trend_deterioration" {
			assert.False(t, c.Triggered, "trend cluster must stay quiet below the lookback floor")
		}
	}
	for _, c := range result.Report.Score.OpportunityClusters {
		if c.Name == "breakout" {
			assert.False(t, c.Triggered)
		}
	}
}

func TestThinNewsNeutralizesGoodNews(t *testing.T) {
	// Two positive headlines both failing forward, but below the coverage
	// floor: the effectiveness read stays neutral
	req := AnalyzeRequest{
		Ticker: "MU",
		AsOf:   snapAsOf,
		Bars:   risingBars(250),
		Headlines: []domain.Headline{
			{Title: "Record earnings beat", Sentiment: 2, ForwardReturn: floatPtr(-0.03)},
			{Title: "Strong HBM guidance", Sentiment: 1.5, ForwardReturn: floatPtr(-0.02)},
		},
	}

	result, err := testService().AnalyzeInstrument(req)
	require.NoError(t, err)

	assert.Equal(t, 50.0, result.Report.Cycle.GoodNewsEffectiveness)
	assert.False(t, result.Report.Cycle.GoodNewsAlert)
	assert.Zero(t, result.Report.Cycle.ConsecutiveFailures)
}

func TestAnalyzeBatchPartialSuccess(t *testing.T) {
	reqs := []AnalyzeRequest{
		{Ticker: "MU", AsOf: snapAsOf, Bars: risingBars(250)},
		{Ticker: "WDC", AsOf: snapAsOf}, // no bars
		{Ticker: "ONTO", AsOf: snapAsOf, Bars: risingBars(100)},
	}

	results := testService().AnalyzeBatch(context.Background(), reqs)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, "MU", results[0].Ticker)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
}

func TestAnalyzeBatchCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := testService().AnalyzeBatch(ctx, []AnalyzeRequest{
		{Ticker: "MU", AsOf: snapAsOf, Bars: risingBars(250)},
	})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestPortfolioServiceActionPlan(t *testing.T) {
	positions := []domain.PositionInput{
		{Ticker: "MU", Weight: 0.18, Bucket: "Memory"},
		{Ticker: "WDC", Weight: 0.10, Bucket: "Memory"},
	}
	pressures := map[string]domain.CyclePressureInput{
		"MU":  {Ticker: "MU", Pressure: 40, Phase: domain.BucketPhasePeaking, DataQualityOK: true},
		"WDC": {Ticker: "WDC", Pressure: 30, Phase: domain.BucketPhasePeaking, DataQualityOK: true},
	}

	report, errs := NewPortfolioService(config.DefaultParams(), zerolog.Nop()).Analyze(positions, pressures, 100000)
	require.Empty(t, errs)

	require.Len(t, report.BucketActions, 1)
	reduce := report.BucketActions[0]
	assert.Equal(t, domain.ActionReduce, reduce.Action)
	assert.InDelta(t, 0.18, reduce.TargetWeight, 1e-9)

	// MU contributes 7.2, WDC 3.0: one hard trim, one soft trim
	require.Len(t, report.PositionActions, 2)
	assert.Equal(t, "MU", report.PositionActions[0].Ticker)
	assert.Equal(t, 1, report.PositionActions[0].Priority)
	assert.Equal(t, "WDC", report.PositionActions[1].Ticker)
	assert.Equal(t, 2, report.PositionActions[1].Priority)
}
