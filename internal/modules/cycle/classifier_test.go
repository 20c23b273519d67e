package cycle

import (
	"math"
	"testing"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
)

func testClassifier() *Classifier {
	return NewClassifier(config.DefaultParams().News)
}

func snapWithMetrics(m domain.SnapshotMetrics) *domain.InstrumentSnapshot {
	return &domain.InstrumentSnapshot{Ticker: "MU", Metrics: m}
}

func floatPtr(v float64) *float64 { return &v }

func TestQuietTapeIsEarlyPhase(t *testing.T) {
	analysis := testClassifier().Analyze(snapWithMetrics(domain.SnapshotMetrics{RSI14: 50}), nil)

	if analysis.Phase != domain.PhaseEarly {
		t.Errorf("phase = %v, want early", analysis.Phase)
	}
	if analysis.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", analysis.Confidence)
	}
	if analysis.CycleScore != 0 {
		t.Errorf("cycle score = %v, want 0", analysis.CycleScore)
	}
	// The news-shift indicator is always present, even with no headlines
	if _, ok := analysis.Indicators["negative_news_shift"]; !ok {
		t.Error("negative_news_shift indicator missing")
	}
	if analysis.PhaseTransitionRisk != 0 {
		t.Errorf("transition risk = %v, want 0", analysis.PhaseTransitionRisk)
	}
}

func TestOverheatedTapeClassifiesLate(t *testing.T) {
	m := domain.SnapshotMetrics{
		RSI14:         85,   // rsi_overheating = (85-75)*4 = 40
		Return63d:     0.9,  // price_extended = 90
		Volatility20d: 0.75, // expansion (1.5-1)*333 caps at 100
		Volatility50d: 0.5,
		Return21d:     0.2,
	}
	analysis := testClassifier().Analyze(snapWithMetrics(m), nil)

	// indicators: rsi 40, extended 90, news shift 0, vol expansion 100
	wantScore := (40.0 + 90 + 0 + 100) / 4
	if math.Abs(analysis.CycleScore-wantScore) > 1e-9 {
		t.Errorf("cycle score = %v, want %v", analysis.CycleScore, wantScore)
	}
	if analysis.Phase != domain.PhaseLateMid {
		t.Errorf("phase = %v, want late_mid", analysis.Phase)
	}

	wantRisk := math.Min((wantScore-50)*3, 100)
	if math.Abs(analysis.PhaseTransitionRisk-wantRisk) > 1e-9 {
		t.Errorf("transition risk = %v, want %v", analysis.PhaseTransitionRisk, wantRisk)
	}
}

func TestPhaseBoundaries(t *testing.T) {
	tests := []struct {
		score      float64
		wantPhase  domain.Phase
		confidence float64
	}{
		{0, domain.PhaseEarly, 0.8},
		{19.999, domain.PhaseEarly, 0.8},
		{20, domain.PhaseMid, 0.7},
		{40, domain.PhaseLateMid, 0.6},
		{60, domain.PhaseLate, 0.7},
		{79.999, domain.PhaseLate, 0.7},
		{80, domain.PhaseRolloverRisk, 0.9},
		{95, domain.PhaseRolloverRisk, 0.9},
	}

	for _, tt := range tests {
		read := phaseTable.Lookup(tt.score)
		if read.Phase != tt.wantPhase {
			t.Errorf("phase(%v) = %v, want %v", tt.score, read.Phase, tt.wantPhase)
		}
		if read.Confidence != tt.confidence {
			t.Errorf("confidence(%v) = %v, want %v", tt.score, read.Confidence, tt.confidence)
		}
	}
}

func TestTransitionRiskByPhase(t *testing.T) {
	tests := []struct {
		score float64
		phase domain.Phase
		want  float64
	}{
		{55, domain.PhaseLateMid, 15},
		{70, domain.PhaseLate, 25},
		{90, domain.PhaseRolloverRisk, 100},
		{30, domain.PhaseMid, 0},
		{50, domain.PhaseEarly, 15},
	}

	for _, tt := range tests {
		if got := transitionRisk(tt.score, tt.phase); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("transitionRisk(%v,%v) = %v, want %v", tt.score, tt.phase, got, tt.want)
		}
	}
}

func TestGoodNewsEffectiveness(t *testing.T) {
	headlines := []domain.Headline{
		{Title: "Record quarterly earnings beat expectations", Sentiment: 2, ForwardReturn: floatPtr(-0.01)},
		{Title: "New fab capacity coming online ahead of plan", Sentiment: 1.5, ForwardReturn: floatPtr(-0.02)},
		{Title: "Guidance cut on weak demand", Sentiment: -2},
		{Title: "Datacenter wins keep piling up", Sentiment: 1, ForwardReturn: floatPtr(0.03)},
	}

	analysis := AnalyzeGoodNews("MU", headlines)

	if analysis.PositiveCount != 3 {
		t.Fatalf("positives = %d, want 3", analysis.PositiveCount)
	}
	wantRate := 2.0 / 3.0
	if math.Abs(analysis.FailureRate-wantRate) > 1e-9 {
		t.Errorf("failure rate = %v, want %v", analysis.FailureRate, wantRate)
	}
	if math.Abs(analysis.Effectiveness-(100-wantRate*100)) > 1e-9 {
		t.Errorf("effectiveness = %v", analysis.Effectiveness)
	}
	// Two failures in a row before the final success, so the streak resets
	if analysis.ConsecutiveFailures != 0 {
		t.Errorf("consecutive failures = %d, want 0", analysis.ConsecutiveFailures)
	}
	// Failure rate 2/3 >= 0.6 still trips the alert
	if !analysis.AlertTriggered {
		t.Error("alert should trigger on failure rate >= 0.6")
	}
}

func TestGoodNewsNeutralWithoutPositives(t *testing.T) {
	analysis := AnalyzeGoodNews("MU", []domain.Headline{
		{Title: "Guidance cut on weak demand", Sentiment: -2},
	})

	if analysis.Effectiveness != 50 {
		t.Errorf("effectiveness = %v, want neutral 50", analysis.Effectiveness)
	}
	if analysis.AlertTriggered {
		t.Error("alert should not trigger with no positive headlines")
	}
}

func TestConsecutiveFailureAlert(t *testing.T) {
	headlines := []domain.Headline{
		{Title: "Upbeat analyst day", Sentiment: 1, ForwardReturn: floatPtr(0.02)},
		{Title: "Strong HBM demand signal", Sentiment: 1.2, ForwardReturn: floatPtr(-0.01)},
		{Title: "Pricing momentum continues", Sentiment: 1.1},
	}

	analysis := AnalyzeGoodNews("MU", headlines)

	// Missing forward data counts as a failure: price went nowhere on good news
	if analysis.ConsecutiveFailures != 2 {
		t.Errorf("consecutive failures = %d, want 2", analysis.ConsecutiveFailures)
	}
	if !analysis.AlertTriggered {
		t.Error("alert should trigger on 2 consecutive failures")
	}
}
