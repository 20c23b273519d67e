package clusters

import (
	"math"
	"testing"
	"time"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
)

func testClusterer() *Clusterer {
	return NewClusterer(config.DefaultParams().Clusters)
}

func snapWithMetrics(m domain.SnapshotMetrics, lastClose float64) *domain.InstrumentSnapshot {
	return &domain.InstrumentSnapshot{
		Ticker:  "MU",
		AsOf:    time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Bars:    []domain.PriceBar{{Close: lastClose, High: lastClose, Low: lastClose}},
		Metrics: m,
	}
}

func findCluster(t *testing.T, cs []domain.SignalCluster, name string) domain.SignalCluster {
	t.Helper()
	for _, c := range cs {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cluster %q not found", name)
	return domain.SignalCluster{}
}

func TestSingleSignalDoesNotTrigger(t *testing.T) {
	// One fired signal is noise; clusters need two to trigger
	m := domain.SnapshotMetrics{RSI14: 82}
	snap := snapWithMetrics(m, 100)

	overheating := findCluster(t, testClusterer().SellRisk(snap), "overheating")

	if len(overheating.Signals) != 1 {
		t.Fatalf("signals = %v, want exactly rsi_extreme", overheating.Signals)
	}
	if overheating.Triggered {
		t.Error("cluster triggered on a single signal")
	}
	if math.Abs(overheating.Strength-0.4) > 1e-9 {
		t.Errorf("strength = %v, want 0.4", overheating.Strength)
	}
}

func TestOverheatingClusterFullStack(t *testing.T) {
	m := domain.SnapshotMetrics{
		RSI14:         85,
		Return21d:     0.12,
		Return63d:     0.6,
		Volatility20d: 0.45,
		VolumeZScore:  -1.5,
	}
	snap := snapWithMetrics(m, 100)

	overheating := findCluster(t, testClusterer().SellRisk(snap), "overheating")

	if !overheating.Triggered {
		t.Fatal("overheating should trigger with every signal firing")
	}
	if len(overheating.Signals) != 5 {
		t.Errorf("signals = %v, want 5", overheating.Signals)
	}
	// 0.4+0.3+0.3+0.2+0.2 sums past the cap
	if overheating.Strength != 1.0 {
		t.Errorf("strength = %v, want capped at 1.0", overheating.Strength)
	}
	if overheating.Weight != 0.35 {
		t.Errorf("weight = %v, want 0.35", overheating.Weight)
	}
}

func TestMomentumClusterTiers(t *testing.T) {
	tests := []struct {
		name         string
		metrics      domain.SnapshotMetrics
		wantSignals  int
		wantStrength float64
	}{
		{
			name:         "strong return tier",
			metrics:      domain.SnapshotMetrics{Return21d: 0.06, RSI14: 50},
			wantSignals:  1,
			wantStrength: 0.3,
		},
		{
			name:         "modest return tier",
			metrics:      domain.SnapshotMetrics{Return21d: 0.03, RSI14: 50},
			wantSignals:  1,
			wantStrength: 0.2,
		},
		{
			name: "oversold in bullish structure",
			metrics: domain.SnapshotMetrics{
				RSI14: 28,
				Trend: domain.TrendStrongBullish,
			},
			wantSignals:  2,
			wantStrength: 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapWithMetrics(tt.metrics, 100)
			momentum := findCluster(t, testClusterer().Opportunity(snap, nil), "technical_momentum")

			if len(momentum.Signals) != tt.wantSignals {
				t.Errorf("signals = %v, want %d", momentum.Signals, tt.wantSignals)
			}
			if math.Abs(momentum.Strength-tt.wantStrength) > 1e-9 {
				t.Errorf("strength = %v, want %v", momentum.Strength, tt.wantStrength)
			}
			if momentum.Triggered != (tt.wantSignals >= 2) {
				t.Errorf("triggered = %v with %d signals", momentum.Triggered, tt.wantSignals)
			}
		})
	}
}

func TestValueClusterReadsNews(t *testing.T) {
	m := domain.SnapshotMetrics{
		CurrentDrawdown: -0.3,
		Position20d:     0.1,
		RSI14:           40,
	}
	snap := snapWithMetrics(m, 100)
	c := testClusterer()

	withoutNews := findCluster(t, c.Opportunity(snap, nil), "value_reversal")
	if len(withoutNews.Signals) != 2 {
		t.Fatalf("signals without news = %v, want 2", withoutNews.Signals)
	}

	news := &domain.NewsAggregate{Ticker: "MU", SentimentTotal: 3.5}
	withNews := findCluster(t, c.Opportunity(snap, news), "value_reversal")
	if len(withNews.Signals) != 3 {
		t.Fatalf("signals with news = %v, want 3", withNews.Signals)
	}
	if math.Abs(withNews.Strength-0.9) > 1e-9 {
		t.Errorf("strength = %v, want 0.9", withNews.Strength)
	}
}

func TestBreakoutClusterNearHighs(t *testing.T) {
	m := domain.SnapshotMetrics{
		High20d:       100,
		VolumeZScore:  2.5,
		Volatility20d: 0.30,
		Volatility50d: 0.20,
		Return5d:      0.08,
		Return21d:     0.03,
	}
	snap := snapWithMetrics(m, 99)

	breakout := findCluster(t, testClusterer().Opportunity(snap, nil), "breakout")

	if !breakout.Triggered {
		t.Fatal("breakout should trigger")
	}
	if len(breakout.Signals) != 4 {
		t.Errorf("signals = %v, want 4", breakout.Signals)
	}
	if breakout.Strength != 1.0 {
		t.Errorf("strength = %v, want capped at 1.0", breakout.Strength)
	}
}

func TestTrendDeteriorationCluster(t *testing.T) {
	m := domain.SnapshotMetrics{
		PriceVsSMA50:  -0.08,
		PriceVsSMA200: 0.05,
		Return21d:     -0.04,
		Trend:         domain.TrendBearishTransition,
	}
	snap := snapWithMetrics(m, 90)

	cluster := findCluster(t, testClusterer().SellRisk(snap), "trend_deterioration")

	if len(cluster.Signals) != 4 {
		t.Errorf("signals = %v, want 4", cluster.Signals)
	}
	// 0.3+0.3+0.4+0.2 capped
	if cluster.Strength != 1.0 {
		t.Errorf("strength = %v, want 1.0", cluster.Strength)
	}
}

func TestDistributionClusterQuiet(t *testing.T) {
	// Healthy tape: nothing fires
	m := domain.SnapshotMetrics{
		HighVolumeWinRate:  0.6,
		FailedBreakoutFreq: 0.1,
		IntradayWeakness:   0.1,
		GapDownFreq:        0.02,
	}
	snap := snapWithMetrics(m, 100)

	cluster := findCluster(t, testClusterer().SellRisk(snap), "distribution")

	if len(cluster.Signals) != 0 || cluster.Triggered || cluster.Strength != 0 {
		t.Errorf("quiet tape fired %v", cluster.Signals)
	}
}

func TestVolatilityShiftCluster(t *testing.T) {
	m := domain.SnapshotMetrics{
		ATRPct:            0.06,
		Return21d:         0.01,
		VolRegime:         domain.VolRegimeElevated,
		Volatility20d:     0.30,
		Volatility50d:     0.28,
		DownsideDeviation: 0.015,
	}
	snap := snapWithMetrics(m, 100)

	cluster := findCluster(t, testClusterer().SellRisk(snap), "volatility_shift")

	// wide ranges with no progress plus elevated regime
	if len(cluster.Signals) != 2 {
		t.Fatalf("signals = %v, want 2", cluster.Signals)
	}
	if !cluster.Triggered {
		t.Error("cluster should trigger with two signals")
	}
	if math.Abs(cluster.Strength-0.6) > 1e-9 {
		t.Errorf("strength = %v, want 0.6", cluster.Strength)
	}
}
