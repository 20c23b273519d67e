// Package services orchestrates the per-instrument analysis pipeline and
// the portfolio rollup. It owns the data-quality gates: shallow windows and
// thin news coverage degrade the output instead of failing the batch.
package services

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"cyclewatch/internal/domain"
	"cyclewatch/pkg/formulas"
)

// BuildSnapshot derives the full metric set from an ordered daily bar
// window. Metrics whose lookback is not met stay zero and count toward the
// snapshot's NaN share; nothing here returns an error.
func BuildSnapshot(ticker string, asOf time.Time, bars []domain.PriceBar) *domain.InstrumentSnapshot {
	snap := &domain.InstrumentSnapshot{
		Ticker: ticker,
		AsOf:   asOf,
		Bars:   bars,
	}
	if len(bars) == 0 {
		snap.Metrics.Trend = domain.TrendUnknown
		snap.Metrics.NaNShare = 1
		return snap
	}

	closes := snap.Closes()
	highs := snap.Highs()
	lows := snap.Lows()
	volumes := snap.Volumes()
	returns := formulas.CalculateReturns(closes)
	current := closes[len(closes)-1]

	attempted, missing := 0, 0
	take := func(v *float64) float64 {
		attempted++
		if v == nil {
			missing++
			return 0
		}
		return *v
	}

	m := domain.SnapshotMetrics{}
	m.RSI14 = take(formulas.CalculateRSI(closes, 14))
	m.SMA50 = take(formulas.SMA(closes, 50))
	m.SMA200 = take(formulas.SMA(closes, 200))
	m.EMA20 = take(formulas.EMA(closes, 20))
	m.EMA50 = take(formulas.EMA(closes, 50))

	m.Trend = classifyTrend(current, m.SMA50, m.SMA200)
	if m.SMA50 > 0 {
		m.PriceVsSMA50 = (current - m.SMA50) / m.SMA50
	}
	if m.SMA200 > 0 {
		m.PriceVsSMA200 = (current - m.SMA200) / m.SMA200
	}

	attempted++
	if len(bars) >= 20 {
		m.High20d = formulas.RollingMax(highs, 20)
		m.Low20d = formulas.RollingMin(lows, 20)
		m.Position20d = formulas.RangePosition(current, m.Low20d, m.High20d)
	} else {
		missing++
	}
	attempted++
	if len(bars) >= 50 {
		m.High50d = formulas.RollingMax(highs, 50)
		m.Low50d = formulas.RollingMin(lows, 50)
		m.Position50d = formulas.RangePosition(current, m.Low50d, m.High50d)
	} else {
		missing++
	}

	m.ATR14 = take(formulas.CalculateATR(highs, lows, closes, 14))
	if current > 0 {
		m.ATRPct = m.ATR14 / current
	}

	if volSMA := formulas.SMA(volumes, 20); volSMA != nil && *volSMA > 0 {
		m.VolumeRatio = volumes[len(volumes)-1] / *volSMA
	}
	m.VolumeZScore = formulas.VolumeZScore(volumes, 20)

	m.Return5d = formulas.PeriodReturn(closes, 5)
	m.Return10d = formulas.PeriodReturn(closes, 10)
	m.Return21d = formulas.PeriodReturn(closes, 21)
	m.Return63d = formulas.PeriodReturn(closes, 63)
	m.ROC5d = formulas.RateOfChange(closes, 5)
	m.ROC10d = formulas.RateOfChange(closes, 10)
	m.ROC21d = formulas.RateOfChange(closes, 21)

	m.Volatility20d = formulas.WindowVolatility(returns, 20)
	m.Volatility50d = formulas.WindowVolatility(returns, 50)
	m.VolRegime = classifyVolRegime(m.Volatility20d)
	m.DownsideDeviation = formulas.DownsideDeviation(returns, 0)

	m.MaxDrawdown = formulas.MaxDrawdown(closes)
	m.CurrentDrawdown = formulas.CurrentDrawdown(closes)

	m.HighVolumeWinRate = highVolumeWinRate(bars, returns)
	m.FailedBreakoutFreq = failedBreakoutFreq(bars)
	m.IntradayWeakness = intradayWeakness(bars, 20)
	m.GapDownFreq = gapDownFreq(bars)

	if attempted > 0 {
		m.NaNShare = float64(missing) / float64(attempted)
	}

	snap.Metrics = m
	return snap
}

// classifyTrend reads the 50/200-day moving average structure
func classifyTrend(current, sma50, sma200 float64) domain.Trend {
	if sma50 == 0 || sma200 == 0 {
		return domain.TrendUnknown
	}
	switch {
	case current > sma50 && sma50 > sma200:
		return domain.TrendStrongBullish
	case current > sma50 && sma50 < sma200:
		return domain.TrendBullishTransition
	case current < sma50 && sma50 < sma200:
		return domain.TrendStrongBearish
	case current < sma50 && sma50 > sma200:
		return domain.TrendBearishTransition
	default:
		return domain.TrendNeutral
	}
}

func classifyVolRegime(annualizedVol float64) domain.VolatilityRegime {
	switch {
	case annualizedVol < 0.15:
		return domain.VolRegimeLow
	case annualizedVol < 0.25:
		return domain.VolRegimeNormal
	case annualizedVol < 0.35:
		return domain.VolRegimeElevated
	default:
		return domain.VolRegimeHigh
	}
}

// highVolumeWinRate measures how often the tape closes up on its heaviest
// volume days (top quintile). Persistent losses on heavy volume read as
// distribution. Neutral 0.5 when the window has no qualifying days.
func highVolumeWinRate(bars []domain.PriceBar, returns []float64) float64 {
	if len(bars) < 2 || len(returns) == 0 {
		return 0.5
	}

	sorted := make([]float64, len(bars))
	for i, b := range bars {
		sorted[i] = b.Volume
	}
	sort.Float64s(sorted)
	threshold := stat.Quantile(0.8, stat.Empirical, sorted, nil)

	wins, total := 0, 0
	for i := 1; i < len(bars); i++ {
		if bars[i].Volume < threshold {
			continue
		}
		total++
		if returns[i-1] > 0 {
			wins++
		}
	}
	if total == 0 {
		return 0.5
	}
	return float64(wins) / float64(total)
}

// failedBreakoutFreq counts days making a higher high that still close below
// the prior day's low, as a share of all higher-high days
func failedBreakoutFreq(bars []domain.PriceBar) float64 {
	if len(bars) < 50 {
		return 0
	}

	failed, total := 0, 0
	for i := 20; i < len(bars); i++ {
		if bars[i].High <= bars[i-1].High {
			continue
		}
		total++
		if bars[i].Close < bars[i-1].Low {
			failed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(failed) / float64(total)
}

// intradayWeakness averages (close-high)/(high-low) over the trailing
// window: 0 means closing at the high, -1 closing at the low
func intradayWeakness(bars []domain.PriceBar, window int) float64 {
	start := len(bars) - window
	if start < 0 {
		start = 0
	}

	sum, n := 0.0, 0
	for _, b := range bars[start:] {
		spread := b.High - b.Low
		if spread <= 0 {
			continue
		}
		sum += (b.Close - b.High) / spread
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// gapDownFreq is the share of sessions opening more than 1% below the prior
// close
func gapDownFreq(bars []domain.PriceBar) float64 {
	if len(bars) < 2 {
		return 0
	}

	gaps := 0
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev <= 0 {
			continue
		}
		if (bars[i].Open-prev)/prev < -0.01 {
			gaps++
		}
	}
	return float64(gaps) / float64(len(bars)-1)
}
