package indicators

import (
	"testing"

	"cyclewatch/internal/domain"
)

func TestSustainedRSIRules(t *testing.T) {
	tests := []struct {
		name            string
		weeksAbove      int
		weeksBelow      int
		trend           string
		wantRisk        float64
		wantOpportunity float64
		wantDirection   domain.Direction
	}{
		{"no streak", 0, 0, "neutral", 0, 0, domain.DirectionNeutral},
		{"one week overbought is noise", 1, 0, "rising", 0, 0, domain.DirectionNeutral},
		{"two weeks overbought", 2, 0, "falling", 20, 0, domain.DirectionRisk},
		{"two weeks overbought still rising", 2, 0, "rising", 25, 0, domain.DirectionRisk},
		{"three weeks overbought", 3, 0, "neutral", 20, 0, domain.DirectionRisk},
		{"four weeks overbought is critical", 4, 0, "rising", 40, 0, domain.DirectionRisk},
		{"six weeks overbought stays at critical tier", 6, 0, "falling", 40, 0, domain.DirectionRisk},
		{"two weeks oversold", 0, 2, "falling", 0, 25, domain.DirectionOpportunity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk, opportunity, rules, direction, _ := sustainedRSIRules(tt.weeksAbove, tt.weeksBelow, tt.trend)

			if risk != tt.wantRisk {
				t.Errorf("risk = %v, want %v", risk, tt.wantRisk)
			}
			if opportunity != tt.wantOpportunity {
				t.Errorf("opportunity = %v, want %v", opportunity, tt.wantOpportunity)
			}
			if direction != tt.wantDirection {
				t.Errorf("direction = %v, want %v", direction, tt.wantDirection)
			}

			var total float64
			for _, r := range rules {
				total += r.Points
			}
			if total != tt.wantRisk+tt.wantOpportunity {
				t.Errorf("rule points = %v, want %v", total, tt.wantRisk+tt.wantOpportunity)
			}
		})
	}
}

func TestSustainedRSIMonotonic(t *testing.T) {
	// Longer overbought streaks never score less than shorter ones
	prev := 0.0
	for weeks := 0; weeks <= 8; weeks++ {
		risk, _, _, _, _ := sustainedRSIRules(weeks, 0, "neutral")
		if risk < prev {
			t.Errorf("risk at %d weeks = %v, below %v at %d weeks", weeks, risk, prev, weeks-1)
		}
		prev = risk
	}
}

func TestConsecutiveWeeks(t *testing.T) {
	weekly := []float64{80, 60, 76, 78, 79}

	if got := consecutiveWeeksAbove(weekly, 75); got != 3 {
		t.Errorf("consecutiveWeeksAbove = %d, want 3", got)
	}
	if got := consecutiveWeeksBelow(weekly, 25); got != 0 {
		t.Errorf("consecutiveWeeksBelow = %d, want 0", got)
	}
	if got := consecutiveWeeksBelow([]float64{30, 20, 18}, 25); got != 2 {
		t.Errorf("consecutiveWeeksBelow = %d, want 2", got)
	}
	if got := consecutiveWeeksAbove(nil, 75); got != 0 {
		t.Errorf("consecutiveWeeksAbove(nil) = %d, want 0", got)
	}
}

func TestWeeklyRSITrend(t *testing.T) {
	tests := []struct {
		name   string
		weekly []float64
		want   string
	}{
		{"too short", []float64{50, 55}, "neutral"},
		{"strictly rising", []float64{50, 55, 60}, "rising"},
		{"strictly falling", []float64{60, 55, 50}, "falling"},
		{"net up with wobble", []float64{50, 48, 56}, "rising"},
		{"net down with wobble", []float64{56, 58, 50}, "falling"},
		{"flat", []float64{50, 55, 50}, "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := weeklyRSITrend(tt.weekly); got != tt.want {
				t.Errorf("weeklyRSITrend = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSustainedRSIShortWindowNeutral(t *testing.T) {
	snap := snapFromCloses("MU", flatSeries(100, 30))
	result := NewSustainedRSI().Evaluate(snap)

	if result.Direction != domain.DirectionNeutral {
		t.Errorf("direction = %v, want NEUTRAL", result.Direction)
	}
	if result.RiskPoints != 0 || result.OpportunityPoints != 0 {
		t.Errorf("points = %v/%v, want 0/0", result.RiskPoints, result.OpportunityPoints)
	}
	if len(result.RulesFired) != 0 {
		t.Errorf("rules fired = %d, want 0", len(result.RulesFired))
	}
}
