package clusters

import (
	"cyclewatch/internal/domain"
)

func (c *Clusterer) momentumCluster(m domain.SnapshotMetrics) domain.SignalCluster {
	b := newBuilder("technical_momentum", "Price and volume momentum aligned to the upside", c.weights.Momentum)

	switch {
	case m.Return21d > 0.05:
		b.hit("strong_21d_return", 0.3)
	case m.Return21d > 0.02:
		b.hit("positive_21d_return", 0.2)
	}

	switch {
	case m.RSI14 < 30:
		b.hit("rsi_deeply_oversold", 0.4)
	case m.RSI14 < 35:
		b.hit("rsi_oversold", 0.2)
	}

	if m.Trend.Bullish() {
		b.hit("bullish_ma_structure", 0.3)
	}

	if m.VolumeZScore > 1.5 && m.Return5d > 0 {
		b.hit("volume_confirmed_advance", 0.2)
	}

	return b.done()
}

func (c *Clusterer) valueCluster(m domain.SnapshotMetrics, news *domain.NewsAggregate) domain.SignalCluster {
	b := newBuilder("value_reversal", "Beaten-down price with stabilizing tape", c.weights.Value)

	switch {
	case m.CurrentDrawdown < -0.25:
		b.hit("deep_drawdown", 0.4)
	case m.CurrentDrawdown < -0.15:
		b.hit("meaningful_drawdown", 0.2)
	}

	if m.VolRegime == domain.VolRegimeLow {
		b.hit("low_volatility_regime", 0.2)
	}

	if m.Position20d < 0.2 {
		b.hit("near_range_lows", 0.2)
	}

	if news != nil && news.SentimentTotal > 2 {
		b.hit("positive_news_flow", 0.3)
	}

	return b.done()
}

func (c *Clusterer) breakoutCluster(snap *domain.InstrumentSnapshot) domain.SignalCluster {
	m := snap.Metrics
	b := newBuilder("breakout", "Range break with volume and expanding volatility", c.weights.Breakout)

	if m.High20d > 0 && snap.LastClose() >= 0.98*m.High20d {
		b.hit("at_20d_highs", 0.3)
	}

	if m.VolumeZScore > 2 {
		b.hit("volume_surge", 0.3)
	}

	if m.Volatility20d > 1.2*m.Volatility50d {
		b.hit("volatility_expansion", 0.2)
	}

	if m.Return5d > 0 && m.Return5d > 2*m.Return21d {
		b.hit("accelerating_short_term", 0.2)
	}

	return b.done()
}
