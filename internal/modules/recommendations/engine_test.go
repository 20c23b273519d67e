package recommendations

import (
	"testing"
	"time"

	"cyclewatch/internal/domain"
)

var testAsOf = time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)

func score(ticker string, opportunity, sellRisk float64) domain.DualScoreResult {
	return domain.DualScoreResult{Ticker: ticker, Opportunity: opportunity, SellRisk: sellRisk}
}

func quietCycle() domain.CycleAnalysis {
	return domain.CycleAnalysis{Phase: domain.PhaseMid, GoodNewsEffectiveness: 50}
}

func TestTierBoundaryExitVsTrim(t *testing.T) {
	engine := NewEngine()

	exit := engine.Recommend(testAsOf, score("MU", 0, 80.0), quietCycle(), domain.SnapshotMetrics{}, 100)
	if exit.Tier != domain.TierExitRiskOff {
		t.Errorf("tier at sell 80.0 = %v, want Exit/Risk-Off", exit.Tier)
	}
	if exit.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", exit.Confidence)
	}

	trim := engine.Recommend(testAsOf, score("MU", 0, 79.999), quietCycle(), domain.SnapshotMetrics{}, 100)
	if trim.Tier != domain.TierTrim {
		t.Errorf("tier at sell 79.999 = %v, want Trim 25-50%%", trim.Tier)
	}
	if trim.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", trim.Confidence)
	}
}

func TestLatePhaseRaisesSellRisk(t *testing.T) {
	cycle := quietCycle()
	cycle.Phase = domain.PhaseLate

	// 45 raw + 20 late-phase adjustment crosses the trim threshold
	rec := NewEngine().Recommend(testAsOf, score("MU", 0, 45), cycle, domain.SnapshotMetrics{}, 100)
	if rec.Tier != domain.TierTrim {
		t.Errorf("tier = %v, want Trim 25-50%%", rec.Tier)
	}
}

func TestGoodNewsAdjustmentsAreExclusive(t *testing.T) {
	// Alert plus low effectiveness adds 25 once, not 25+15
	cycle := quietCycle()
	cycle.GoodNewsAlert = true
	cycle.GoodNewsEffectiveness = 10

	rec := NewEngine().Recommend(testAsOf, score("MU", 0, 40), cycle, domain.SnapshotMetrics{}, 100)
	if rec.Tier != domain.TierTrim {
		t.Errorf("tier = %v, want Trim 25-50%% from 40+25", rec.Tier)
	}
}

func TestEarlyPhaseOpportunityBoost(t *testing.T) {
	cycle := quietCycle()
	cycle.Phase = domain.PhaseEarly

	// 62 raw + 10 early boost reaches the high-conviction add branch
	rec := NewEngine().Recommend(testAsOf, score("MU", 62, 10), cycle, domain.SnapshotMetrics{Volatility20d: 0.15}, 100)
	if rec.Tier != domain.TierHoldAdd {
		t.Errorf("tier = %v, want Hold/Add", rec.Tier)
	}
	if rec.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", rec.Confidence)
	}
	if rec.Sizing != "Add 15% (low volatility entry)" {
		t.Errorf("sizing = %q", rec.Sizing)
	}
}

func TestSellRiskBranchesTakePrecedence(t *testing.T) {
	// sell 55 with opp 20 lands on Hold/Take-Profits, not Hedge: the
	// moderate-sell-risk row is checked first and wins
	rec := NewEngine().Recommend(testAsOf, score("MU", 20, 55), quietCycle(), domain.SnapshotMetrics{}, 200)

	if rec.Tier != domain.TierHoldTakeProfits {
		t.Fatalf("tier = %v, want Hold/Take-Profits", rec.Tier)
	}
	if rec.Confidence != 0.6 {
		t.Errorf("confidence = %v, want 0.6", rec.Confidence)
	}
}

func TestHedgeSuggestions(t *testing.T) {
	m := domain.SnapshotMetrics{RSI14: 75, Volatility20d: 0.5}
	suggestions := hedgeSuggestions(m, 200)

	if len(suggestions) != 4 {
		t.Fatalf("suggestions = %v, want covered calls, collar, put spread, vol hedge", suggestions)
	}
	if suggestions[0] != "Covered calls: sell calls at 220.00 (10% OTM)" {
		t.Errorf("suggestions[0] = %q", suggestions[0])
	}
	if suggestions[1] != "Collar: buy puts at 180.00, sell calls at 220.00" {
		t.Errorf("suggestions[1] = %q", suggestions[1])
	}

	quiet := hedgeSuggestions(domain.SnapshotMetrics{RSI14: 50, Volatility20d: 0.2}, 200)
	if len(quiet) != 2 {
		t.Errorf("quiet suggestions = %v, want just the two base structures", quiet)
	}
}

func TestHedgesAttachToExitTier(t *testing.T) {
	exit := NewEngine().Recommend(testAsOf, score("MU", 0, 85), quietCycle(), domain.SnapshotMetrics{}, 100)
	if len(exit.Hedges) == 0 {
		t.Error("exit tier should carry hedge suggestions")
	}

	hold := NewEngine().Recommend(testAsOf, score("MU", 0, 10), quietCycle(), domain.SnapshotMetrics{}, 100)
	if hold.Hedges != nil {
		t.Errorf("hedges = %v, want none on hold tier", hold.Hedges)
	}
}

func TestUrgencyLadder(t *testing.T) {
	tests := []struct {
		name  string
		score domain.DualScoreResult
		cycle domain.CycleAnalysis
		want  domain.Urgency
	}{
		{"quiet", score("MU", 0, 10), quietCycle(), domain.UrgencyLow},
		{"sell above 60", score("MU", 0, 65), quietCycle(), domain.UrgencyMedium},
		{"transition risk", score("MU", 0, 10),
			domain.CycleAnalysis{Phase: domain.PhaseMid, GoodNewsEffectiveness: 50, PhaseTransitionRisk: 75},
			domain.UrgencyHigh},
		{"alert and extreme sell", score("MU", 0, 85),
			domain.CycleAnalysis{Phase: domain.PhaseMid, GoodNewsEffectiveness: 50, GoodNewsAlert: true},
			domain.UrgencyCritical},
	}

	for _, tt := range tests {
		rec := NewEngine().Recommend(testAsOf, tt.score, tt.cycle, domain.SnapshotMetrics{}, 100)
		if rec.Urgency != tt.want {
			t.Errorf("%s: urgency = %v, want %v", tt.name, rec.Urgency, tt.want)
		}
	}
}

func TestReasonsFixedOrderCappedAtThree(t *testing.T) {
	cycle := domain.CycleAnalysis{
		Phase:                 domain.PhaseLate,
		PhaseTransitionRisk:   70,
		GoodNewsAlert:         true,
		GoodNewsEffectiveness: 20,
	}
	m := domain.SnapshotMetrics{RSI14: 85, Return63d: 0.6, Volatility20d: 0.6}

	rec := NewEngine().Recommend(testAsOf, score("MU", 0, 90), cycle, m, 100)

	if len(rec.Reasons) != 3 {
		t.Fatalf("reasons = %v, want exactly 3", rec.Reasons)
	}
	if rec.Reasons[0] != "Cycle phase: late" {
		t.Errorf("reasons[0] = %q", rec.Reasons[0])
	}
	if rec.Reasons[1] != "High transition risk (70/100)" {
		t.Errorf("reasons[1] = %q", rec.Reasons[1])
	}
	if rec.Reasons[2] != "Good news not working - distribution detected" {
		t.Errorf("reasons[2] = %q", rec.Reasons[2])
	}
}

func TestReviewCadenceTightensLateStage(t *testing.T) {
	// LOW urgency normally reviews in 7 days; late stage caps it at 3
	cycle := quietCycle()
	cycle.Phase = domain.PhaseLate

	rec := NewEngine().Recommend(testAsOf, score("MU", 0, 10), cycle, domain.SnapshotMetrics{}, 100)
	if got := rec.NextReview; !got.Equal(testAsOf.AddDate(0, 0, 3)) {
		t.Errorf("next review = %v, want +3d", got)
	}

	quiet := NewEngine().Recommend(testAsOf, score("MU", 0, 10), quietCycle(), domain.SnapshotMetrics{}, 100)
	if got := quiet.NextReview; !got.Equal(testAsOf.AddDate(0, 0, 7)) {
		t.Errorf("next review = %v, want +7d", got)
	}
}

func TestTrimSizingScalesWithRSI(t *testing.T) {
	tests := []struct {
		rsi  float64
		want string
	}{
		{85, "Reduce by 50% (extremely overbought)"},
		{77, "Reduce by 35% (very overbought)"},
		{65, "Reduce by 25% (take profits)"},
	}

	for _, tt := range tests {
		rec := NewEngine().Recommend(testAsOf, score("MU", 0, 65), quietCycle(), domain.SnapshotMetrics{RSI14: tt.rsi}, 100)
		if rec.Tier != domain.TierTrim {
			t.Fatalf("tier = %v, want Trim 25-50%%", rec.Tier)
		}
		if rec.Sizing != tt.want {
			t.Errorf("rsi %v: sizing = %q, want %q", tt.rsi, rec.Sizing, tt.want)
		}
	}
}

func TestKeyLevelsOmitMissingData(t *testing.T) {
	m := domain.SnapshotMetrics{Low20d: 88, High20d: 112, SMA50: 100}
	rec := NewEngine().Recommend(testAsOf, score("MU", 0, 10), quietCycle(), m, 100)

	if rec.KeyLevels["support"] != 88 || rec.KeyLevels["resistance"] != 112 {
		t.Errorf("key levels = %v", rec.KeyLevels)
	}
	if _, ok := rec.KeyLevels["sma_200"]; ok {
		t.Error("sma_200 should be omitted when unavailable")
	}
}
