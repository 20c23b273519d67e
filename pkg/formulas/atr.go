package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateATR calculates the Average True Range over the given period.
// Returns the current ATR value or nil if insufficient data.
func CalculateATR(highs, lows, closes []float64, period int) *float64 {
	if len(closes) < period+1 || len(highs) != len(closes) || len(lows) != len(closes) {
		return nil
	}

	atr := talib.Atr(highs, lows, closes, period)

	if len(atr) > 0 && !isNaN(atr[len(atr)-1]) {
		result := atr[len(atr)-1]
		return &result
	}

	return nil
}

// ATRSeries returns the full ATR series for the given bars
func ATRSeries(highs, lows, closes []float64, period int) []float64 {
	if len(closes) < period+1 || len(highs) != len(closes) || len(lows) != len(closes) {
		return nil
	}
	return talib.Atr(highs, lows, closes, period)
}

// ATRPercentSeries expresses each ATR value as a fraction of the close
func ATRPercentSeries(highs, lows, closes []float64, period int) []float64 {
	atr := ATRSeries(highs, lows, closes, period)
	if atr == nil {
		return nil
	}

	out := make([]float64, len(atr))
	for i := range atr {
		if closes[i] != 0 {
			out[i] = atr[i] / closes[i]
		}
	}
	return out
}
