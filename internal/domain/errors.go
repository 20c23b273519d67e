package domain

import (
	"errors"
	"fmt"
)

// ErrMissingCycleAnalysis marks a position whose ticker has no computed
// cycle analysis. The position is excluded from aggregation and recorded as
// a data-quality gap; siblings proceed.
var ErrMissingCycleAnalysis = errors.New("missing cycle analysis for position")

// InvalidWeightError reports a position weight outside [0,1] or a grossly
// inconsistent bucket/portfolio weight total. Surfaced per instrument or
// bucket only; never aborts the batch.
type InvalidWeightError struct {
	Ticker string
	Weight float64
	Reason string
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("invalid weight %.4f for %s: %s", e.Weight, e.Ticker, e.Reason)
}

// MissingCycleAnalysis wraps ErrMissingCycleAnalysis with the offending ticker
func MissingCycleAnalysis(ticker string) error {
	return fmt.Errorf("%w: %s", ErrMissingCycleAnalysis, ticker)
}
