package clusters

import (
	"math"

	"cyclewatch/internal/domain"
)

func (c *Clusterer) overheatingCluster(m domain.SnapshotMetrics) domain.SignalCluster {
	b := newBuilder("overheating", "Extended price with crowded momentum", c.weights.Overheating)

	switch {
	case m.RSI14 > 80:
		b.hit("rsi_extreme", 0.4)
	case m.RSI14 > 70:
		b.hit("rsi_overbought", 0.3)
	}

	if m.RSI14 > 70 && m.Return21d > 0.1 {
		b.hit("overbought_and_extended", 0.3)
	}

	switch {
	case m.Return63d > 0.5:
		b.hit("parabolic_quarter", 0.3)
	case m.Return63d > 0.3:
		b.hit("hot_quarter", 0.2)
	}

	if m.Volatility20d > 0.4 && m.Return21d > 0.05 {
		b.hit("volatile_advance", 0.2)
	}

	if m.RSI14 > 70 && m.VolumeZScore < -1 {
		b.hit("overbought_on_fading_volume", 0.2)
	}

	return b.done()
}

func (c *Clusterer) trendDeteriorationCluster(m domain.SnapshotMetrics) domain.SignalCluster {
	b := newBuilder("trend_deterioration", "Moving-average structure breaking down", c.weights.TrendDeterioration)

	if m.PriceVsSMA50 < -0.05 {
		b.hit("well_below_50dma", 0.3)
	}

	if m.PriceVsSMA50 < 0 && m.Return21d < -0.02 {
		b.hit("below_50dma_and_falling", 0.3)
	}

	if m.Trend.Bearish() {
		b.hit("bearish_ma_structure", 0.4)
	}

	if m.PriceVsSMA50 < 0 && m.PriceVsSMA200 > 0 {
		b.hit("lost_50dma_holding_200dma", 0.2)
	}

	return b.done()
}

func (c *Clusterer) distributionCluster(m domain.SnapshotMetrics) domain.SignalCluster {
	b := newBuilder("distribution", "Institutional selling into strength", c.weights.Distribution)

	switch {
	case m.HighVolumeWinRate < 0.3:
		b.hit("high_volume_days_failing", 0.4)
	case m.HighVolumeWinRate < 0.4:
		b.hit("high_volume_days_weak", 0.2)
	}

	switch {
	case m.FailedBreakoutFreq > 0.3:
		b.hit("frequent_failed_breakouts", 0.3)
	case m.FailedBreakoutFreq > 0.2:
		b.hit("some_failed_breakouts", 0.2)
	}

	switch {
	case m.IntradayWeakness < -0.3:
		b.hit("persistent_intraday_fades", 0.3)
	case m.IntradayWeakness < -0.2:
		b.hit("intraday_fades", 0.2)
	}

	if m.GapDownFreq > 0.1 {
		b.hit("recurring_gap_downs", 0.2)
	}

	return b.done()
}

func (c *Clusterer) volatilityShiftCluster(m domain.SnapshotMetrics) domain.SignalCluster {
	b := newBuilder("volatility_shift", "Volatility regime turning against the trend", c.weights.VolatilityShift)

	if m.ATRPct > 0.05 && math.Abs(m.Return21d) < 0.02 {
		b.hit("wide_ranges_no_progress", 0.4)
	}

	switch m.VolRegime {
	case domain.VolRegimeHigh:
		b.hit("high_volatility_regime", 0.3)
	case domain.VolRegimeElevated:
		b.hit("elevated_volatility_regime", 0.2)
	}

	if m.Volatility20d > 1.3*m.Volatility50d {
		b.hit("short_term_vol_spike", 0.3)
	}

	if m.DownsideDeviation > 0.02 {
		b.hit("heavy_downside_days", 0.2)
	}

	return b.done()
}
