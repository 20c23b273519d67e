package cycle

import (
	"fmt"

	"cyclewatch/internal/domain"
)

// GoodNewsAnalysis captures the "good news not working" read: positive
// headlines whose forward returns went nowhere signal distribution.
type GoodNewsAnalysis struct {
	Ticker              string   `json:"ticker"`
	PositiveCount       int      `json:"positive_count"`
	FailureRate         float64  `json:"failure_rate"`
	Effectiveness       float64  `json:"effectiveness_score"`
	ConsecutiveFailures int      `json:"consecutive_failures"`
	DistributionSignals []string `json:"distribution_signals,omitempty"`
	AlertTriggered      bool     `json:"alert_triggered"`
}

// AnalyzeGoodNews measures how the tape responded to positive headlines.
// A positive headline whose average forward return is zero or negative
// counts as a failure; a missing forward return also counts, since price
// going nowhere after good news is the signal being hunted. With no
// positive headlines the score is a neutral 50.
func AnalyzeGoodNews(ticker string, headlines []domain.Headline) GoodNewsAnalysis {
	var positives []domain.Headline
	for _, h := range headlines {
		if h.Sentiment > 0 {
			positives = append(positives, h)
		}
	}

	if len(positives) == 0 {
		return GoodNewsAnalysis{Ticker: ticker, Effectiveness: 50}
	}

	failures := 0
	consecutive := 0
	var signals []string

	for _, h := range positives {
		avgReturn := 0.0
		if h.ForwardReturn != nil {
			avgReturn = *h.ForwardReturn
		}
		if avgReturn <= 0 {
			failures++
			consecutive++
			signals = append(signals, fmt.Sprintf("Positive headline failed: %s", truncate(h.Title, 30)))
		} else {
			consecutive = 0
		}
	}

	failureRate := float64(failures) / float64(len(positives))

	return GoodNewsAnalysis{
		Ticker:              ticker,
		PositiveCount:       len(positives),
		FailureRate:         failureRate,
		Effectiveness:       100 - failureRate*100,
		ConsecutiveFailures: consecutive,
		DistributionSignals: signals,
		AlertTriggered:      consecutive >= 2 || failureRate >= 0.6,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
