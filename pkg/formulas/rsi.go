package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateRSI calculates the Relative Strength Index
//
// RSI Formula:
//   RSI = 100 - (100 / (1 + RS))
//   where RS = Average Gain / Average Loss over N periods
//
// Returns the current RSI value (0-100) or nil if insufficient data
func CalculateRSI(closes []float64, length int) *float64 {
	if len(closes) < length+1 {
		return nil
	}

	rsi := talib.Rsi(closes, length)

	if len(rsi) > 0 && !isNaN(rsi[len(rsi)-1]) {
		result := rsi[len(rsi)-1]
		return &result
	}

	return nil
}

// RSISeries returns the full RSI series for the given closes. Leading
// values that cannot be computed are zero, following the talib convention.
func RSISeries(closes []float64, length int) []float64 {
	if len(closes) < length+1 {
		return nil
	}
	return talib.Rsi(closes, length)
}

// WeeklyRSI compresses a daily RSI series into weekly readings by averaging
// non-overlapping 5-bar chunks, oldest chunk first. Entries that could not
// be computed are skipped; a chunk with no valid entries is dropped.
func WeeklyRSI(dailyRSI []float64, weeks int) []float64 {
	const barsPerWeek = 5

	need := weeks * barsPerWeek
	if len(dailyRSI) < need {
		return nil
	}

	window := dailyRSI[len(dailyRSI)-need:]
	out := make([]float64, 0, weeks)

	for w := 0; w < weeks; w++ {
		chunk := window[w*barsPerWeek : (w+1)*barsPerWeek]
		sum, n := 0.0, 0
		for _, v := range chunk {
			if !isNaN(v) && v > 0 {
				sum += v
				n++
			}
		}
		if n > 0 {
			out = append(out, sum/float64(n))
		}
	}

	return out
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
