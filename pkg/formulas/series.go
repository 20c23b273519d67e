package formulas

import (
	"github.com/markcheno/go-talib"
)

// SMA returns the current simple moving average or nil if insufficient data
func SMA(values []float64, period int) *float64 {
	if len(values) < period {
		return nil
	}

	sma := talib.Sma(values, period)
	if len(sma) > 0 && !isNaN(sma[len(sma)-1]) {
		result := sma[len(sma)-1]
		return &result
	}
	return nil
}

// SMASeries returns the full simple moving average series
func SMASeries(values []float64, period int) []float64 {
	if len(values) < period {
		return nil
	}
	return talib.Sma(values, period)
}

// EMA returns the current exponential moving average or nil if insufficient data
func EMA(values []float64, period int) *float64 {
	if len(values) < period {
		return nil
	}

	ema := talib.Ema(values, period)
	if len(ema) > 0 && !isNaN(ema[len(ema)-1]) {
		result := ema[len(ema)-1]
		return &result
	}
	return nil
}

// PeriodReturn calculates the fractional return over the trailing period:
// close[t] / close[t-period] - 1. Returns 0 when the window is too short.
func PeriodReturn(closes []float64, period int) float64 {
	if len(closes) <= period {
		return 0
	}
	base := closes[len(closes)-period-1]
	if base == 0 {
		return 0
	}
	return closes[len(closes)-1]/base - 1
}

// RateOfChange calculates the trailing rate of change as a percentage
func RateOfChange(closes []float64, period int) float64 {
	return PeriodReturn(closes, period) * 100
}

// RollingMax returns the maximum over the trailing window
func RollingMax(values []float64, window int) float64 {
	if len(values) == 0 {
		return 0
	}
	start := len(values) - window
	if start < 0 {
		start = 0
	}
	max := values[start]
	for _, v := range values[start+1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// RollingMin returns the minimum over the trailing window
func RollingMin(values []float64, window int) float64 {
	if len(values) == 0 {
		return 0
	}
	start := len(values) - window
	if start < 0 {
		start = 0
	}
	min := values[start]
	for _, v := range values[start+1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// RangePosition places the current value within the trailing high/low range:
// 0 at the low, 1 at the high. Returns 0.5 for a flat range.
func RangePosition(current, low, high float64) float64 {
	if high == low {
		return 0.5
	}
	return (current - low) / (high - low)
}

// VolumeZScore computes how many standard deviations the latest volume sits
// from its trailing window mean. Returns 0 for degenerate windows.
func VolumeZScore(volumes []float64, window int) float64 {
	if len(volumes) < window {
		return 0
	}

	recent := volumes[len(volumes)-window:]
	mean := Mean(recent)
	std := StdDev(recent)
	if std == 0 {
		return 0
	}
	return (volumes[len(volumes)-1] - mean) / std
}
