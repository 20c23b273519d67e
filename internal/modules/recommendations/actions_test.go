package recommendations

import (
	"math"
	"strings"
	"testing"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
)

func testPlanner() *Planner {
	return NewPlanner(config.DefaultParams().Portfolio)
}

func analysisWith(buckets map[string]domain.BucketAnalysis) domain.PortfolioRiskAnalysis {
	return domain.PortfolioRiskAnalysis{Buckets: buckets, Mode: domain.ModeBalanced}
}

func TestOverBucketEmitsReduce(t *testing.T) {
	analysis := analysisWith(map[string]domain.BucketAnalysis{
		"Memory": {
			Bucket:         "Memory",
			Weight:         0.28,
			MaxWeight:      0.18,
			Overage:        0.10,
			Phase:          domain.BucketPhasePeaking,
			TransitionRisk: 75,
		},
	})

	actions := testPlanner().BucketActions(analysis)
	if len(actions) != 1 {
		t.Fatalf("actions = %v, want 1", actions)
	}

	a := actions[0]
	if a.Action != domain.ActionReduce {
		t.Errorf("action = %v, want REDUCE", a.Action)
	}
	if math.Abs(a.TargetWeight-0.18) > 1e-9 {
		t.Errorf("target weight = %v, want policy max 0.18", a.TargetWeight)
	}
	if a.Urgency != domain.UrgencyMedium {
		t.Errorf("urgency = %v, want MEDIUM below 80 transition risk", a.Urgency)
	}
	if a.Timeframe != "2-4 weeks" {
		t.Errorf("timeframe = %q", a.Timeframe)
	}
	if !strings.Contains(a.Reason, "Over limit by 10.0%") {
		t.Errorf("reason = %q, want overage called out", a.Reason)
	}
}

func TestReduceUrgencyEscalates(t *testing.T) {
	analysis := analysisWith(map[string]domain.BucketAnalysis{
		"Memory": {Bucket: "Memory", Weight: 0.20, MaxWeight: 0.18, TransitionRisk: 85},
	})

	actions := testPlanner().BucketActions(analysis)
	if len(actions) != 1 {
		t.Fatalf("actions = %v, want 1", actions)
	}
	if actions[0].Urgency != domain.UrgencyHigh {
		t.Errorf("urgency = %v, want HIGH above 80", actions[0].Urgency)
	}
	if actions[0].Timeframe != "1-2 weeks" {
		t.Errorf("timeframe = %q", actions[0].Timeframe)
	}
}

func TestUnderweightLowRiskAdds(t *testing.T) {
	analysis := analysisWith(map[string]domain.BucketAnalysis{
		"Equipment": {Bucket: "Equipment", Weight: 0.05, MaxWeight: 0.18, TransitionRisk: 20},
	})

	actions := testPlanner().BucketActions(analysis)
	if len(actions) != 1 {
		t.Fatalf("actions = %v, want 1", actions)
	}

	a := actions[0]
	if a.Action != domain.ActionAdd {
		t.Errorf("action = %v, want ADD", a.Action)
	}
	if math.Abs(a.TargetWeight-0.75*0.18) > 1e-9 {
		t.Errorf("target weight = %v, want 0.135", a.TargetWeight)
	}
	if a.Urgency != domain.UrgencyLow || a.Timeframe != "4-8 weeks" {
		t.Errorf("urgency/timeframe = %v/%q", a.Urgency, a.Timeframe)
	}
}

func TestCashBucketNeverActioned(t *testing.T) {
	cash := config.DefaultParams().Portfolio.CashBucket
	analysis := analysisWith(map[string]domain.BucketAnalysis{
		cash: {Bucket: cash, Weight: 0.60, MaxWeight: 0.18, Overage: 0.42, TransitionRisk: 90},
	})

	if actions := testPlanner().BucketActions(analysis); len(actions) != 0 {
		t.Errorf("actions = %v, want none for cash", actions)
	}
}

func TestBucketActionsSortedByUrgency(t *testing.T) {
	analysis := analysisWith(map[string]domain.BucketAnalysis{
		"Equipment": {Bucket: "Equipment", Weight: 0.05, MaxWeight: 0.18, TransitionRisk: 20},
		"Memory":    {Bucket: "Memory", Weight: 0.25, MaxWeight: 0.18, TransitionRisk: 85},
		"Logic":     {Bucket: "Logic", Weight: 0.22, MaxWeight: 0.18, TransitionRisk: 72},
	})

	actions := testPlanner().BucketActions(analysis)
	if len(actions) != 3 {
		t.Fatalf("actions = %v, want 3", actions)
	}
	if actions[0].Bucket != "Memory" || actions[1].Bucket != "Logic" || actions[2].Bucket != "Equipment" {
		t.Errorf("order = %v, %v, %v; want HIGH, MEDIUM, LOW",
			actions[0].Bucket, actions[1].Bucket, actions[2].Bucket)
	}
}

func TestPositionTrimLadder(t *testing.T) {
	analysis := analysisWith(map[string]domain.BucketAnalysis{
		"Memory": {
			Bucket: "Memory",
			TopContributors: []domain.Contributor{
				{Ticker: "MU", Weight: 0.10, Pressure: 35, Contribution: 3.5},
				{Ticker: "WDC", Weight: 0.08, Pressure: 25, Contribution: 2.0},
				{Ticker: "STX", Weight: 0.05, Pressure: 10, Contribution: 0.5},
			},
		},
	})
	bucketActions := []domain.BucketAction{
		{Bucket: "Memory", Action: domain.ActionReduce},
	}

	actions := testPlanner().PositionActions(analysis, nil, bucketActions)
	if len(actions) != 3 {
		t.Fatalf("actions = %v, want 3", actions)
	}

	mu := actions[0]
	if mu.Ticker != "MU" || mu.Action != domain.ActionTrim || mu.Priority != 1 {
		t.Errorf("top contributor = %+v, want MU TRIM priority 1", mu)
	}
	if math.Abs(mu.TargetWeight-0.05) > 1e-9 {
		t.Errorf("MU target = %v, want half of 0.10", mu.TargetWeight)
	}

	wdc := actions[1]
	if wdc.Ticker != "WDC" || wdc.Action != domain.ActionTrim || wdc.Priority != 2 {
		t.Errorf("mid contributor = %+v, want WDC TRIM priority 2", wdc)
	}
	if math.Abs(wdc.TargetWeight-0.08*0.7) > 1e-9 {
		t.Errorf("WDC target = %v, want 70%% of 0.08", wdc.TargetWeight)
	}

	stx := actions[2]
	if stx.Ticker != "STX" || stx.Action != domain.ActionHold || stx.Priority != 3 {
		t.Errorf("low contributor = %+v, want STX HOLD priority 3", stx)
	}
	if stx.TargetWeight != stx.CurrentWeight {
		t.Errorf("STX target = %v, want unchanged", stx.TargetWeight)
	}
}

func TestCriticalSignalsForceTopPriority(t *testing.T) {
	analysis := analysisWith(map[string]domain.BucketAnalysis{
		"Memory": {
			Bucket: "Memory",
			TopContributors: []domain.Contributor{
				{Ticker: "MU", Weight: 0.06, Pressure: 18, Contribution: 1.08},
			},
		},
	})
	bucketActions := []domain.BucketAction{{Bucket: "Memory", Action: domain.ActionReduce}}
	pressures := map[string]domain.CyclePressureInput{
		"MU": {Ticker: "MU", CriticalSignals: []string{"FIRST_FAILURE_120D", "RSI_4W_OVERBOUGHT_CRITICAL"}},
	}

	actions := testPlanner().PositionActions(analysis, pressures, bucketActions)
	if len(actions) != 1 {
		t.Fatalf("actions = %v, want 1", actions)
	}
	// Low contribution alone would be a HOLD; two critical signals escalate
	if actions[0].Action != domain.ActionTrim || actions[0].Priority != 1 {
		t.Errorf("action = %+v, want TRIM priority 1", actions[0])
	}
}

func TestOffenseModeSurfacesAdds(t *testing.T) {
	analysis := analysisWith(map[string]domain.BucketAnalysis{
		"Equipment": {
			Bucket: "Equipment",
			TopContributors: []domain.Contributor{
				{Ticker: "ONTO", Weight: 0.04, Pressure: -5, Contribution: -0.2},
			},
		},
	})
	analysis.Mode = domain.ModeOffense
	pressures := map[string]domain.CyclePressureInput{
		"ONTO": {
			Ticker:           "ONTO",
			OpportunityTotal: 70,
			RiskTotal:        20,
			Phase:            domain.BucketPhaseEarly,
		},
	}

	actions := testPlanner().PositionActions(analysis, pressures, nil)
	if len(actions) != 1 {
		t.Fatalf("actions = %v, want 1 add candidate", actions)
	}

	a := actions[0]
	if a.Action != domain.ActionAdd || a.Priority != 4 {
		t.Errorf("action = %+v, want ADD priority 4", a)
	}
	if math.Abs(a.TargetWeight-0.06) > 1e-9 {
		t.Errorf("target = %v, want 1.5x of 0.04", a.TargetWeight)
	}

	// Same book in BALANCED mode produces nothing
	analysis.Mode = domain.ModeBalanced
	if actions := testPlanner().PositionActions(analysis, pressures, nil); len(actions) != 0 {
		t.Errorf("balanced actions = %v, want none", actions)
	}
}
