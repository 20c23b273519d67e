package formulas

// Drawdowns are signed: 0 at a fresh peak, negative below it.
// A reading of -0.25 means the price sits 25% under its running peak.

// MaxDrawdown calculates the deepest peak-to-trough decline in the series
func MaxDrawdown(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}

	worst := 0.0
	peak := prices[0]

	for _, price := range prices {
		if price > peak {
			peak = price
		}
		if peak > 0 {
			dd := (price - peak) / peak
			if dd < worst {
				worst = dd
			}
		}
	}

	return worst
}

// CurrentDrawdown calculates how far the latest price sits below the
// running peak of the series
func CurrentDrawdown(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}

	peak := prices[0]
	for _, price := range prices {
		if price > peak {
			peak = price
		}
	}

	if peak <= 0 {
		return 0
	}
	return (prices[len(prices)-1] - peak) / peak
}

// DaysSincePeak returns how many bars have elapsed since the series peak
func DaysSincePeak(prices []float64) int {
	if len(prices) == 0 {
		return 0
	}

	peak := prices[0]
	peakIdx := 0
	for i, price := range prices {
		if price > peak {
			peak = price
			peakIdx = i
		}
	}

	return len(prices) - 1 - peakIdx
}
