package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64
// values. Fewer than two samples have no sample deviation and yield 0.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the sample variance of a slice of float64 values.
// Fewer than two samples yield 0.
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// CalculateReturns converts prices to percentage returns
// Returns[i] = (Price[i] - Price[i-1]) / Price[i-1]
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// AnnualizedVolatility calculates annualized volatility from daily returns
// Formula: Std Dev of Daily Returns x sqrt(252 trading days)
func AnnualizedVolatility(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}

	return StdDev(dailyReturns) * math.Sqrt(252)
}

// WindowVolatility calculates annualized volatility over the trailing window
// of daily returns
func WindowVolatility(dailyReturns []float64, window int) float64 {
	if len(dailyReturns) < window {
		return 0
	}
	return AnnualizedVolatility(dailyReturns[len(dailyReturns)-window:])
}

// DownsideDeviation calculates the standard deviation of returns below the
// threshold (daily, not annualized)
func DownsideDeviation(dailyReturns []float64, threshold float64) float64 {
	downside := make([]float64, 0, len(dailyReturns))
	for _, r := range dailyReturns {
		if r < threshold {
			downside = append(downside, r)
		}
	}
	if len(downside) < 2 {
		return 0
	}
	return StdDev(downside)
}
