// Package cycle classifies an instrument's position in the boom/bust demand
// cycle. A handful of named indicators each scale to 0-100 when fired; the
// mean of the fired set drives a phase boundary table and a transition-risk
// formula keyed to the assigned phase.
package cycle

import (
	"fmt"
	"math"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
	"cyclewatch/internal/modules/news"
)

// phaseRead pairs the phase label with its fixed confidence
type phaseRead struct {
	Phase      domain.Phase
	Confidence float64
}

// phaseTable maps cycle score to phase, first match wins top-down
var phaseTable = domain.NewBoundaryTable(
	phaseRead{domain.PhaseEarly, 0.8},
	domain.BoundaryRow[phaseRead]{LowerBound: 80, Value: phaseRead{domain.PhaseRolloverRisk, 0.9}},
	domain.BoundaryRow[phaseRead]{LowerBound: 60, Value: phaseRead{domain.PhaseLate, 0.7}},
	domain.BoundaryRow[phaseRead]{LowerBound: 40, Value: phaseRead{domain.PhaseLateMid, 0.6}},
	domain.BoundaryRow[phaseRead]{LowerBound: 20, Value: phaseRead{domain.PhaseMid, 0.7}},
)

// Classifier builds the cycle read for one instrument from its derived
// metrics and news aggregate
type Classifier struct {
	news *news.Scorer
}

// NewClassifier creates a cycle classifier sharing the headline scorer
func NewClassifier(params config.NewsParams) *Classifier {
	return &Classifier{news: news.NewScorer(params)}
}

// Analyze classifies the cycle phase for one instrument. The news shift
// indicator is always present, so a classified instrument always carries at
// least one cycle indicator even on an empty news window.
func (c *Classifier) Analyze(snap *domain.InstrumentSnapshot, agg *domain.NewsAggregate) domain.CycleAnalysis {
	m := snap.Metrics
	var headlines []domain.Headline
	if agg != nil {
		headlines = agg.Headlines
	}

	indicators := map[string]float64{}
	var keySignals []string

	switch {
	case m.RSI14 > 75:
		indicators["rsi_overheating"] = math.Min((m.RSI14-75)*4, 100)
		keySignals = append(keySignals, fmt.Sprintf("RSI extremely overbought (%.1f)", m.RSI14))
	case m.RSI14 > 70:
		indicators["rsi_overbought"] = math.Min((m.RSI14-70)*3.3, 100)
		keySignals = append(keySignals, fmt.Sprintf("RSI overbought (%.1f)", m.RSI14))
	}

	switch {
	case m.Return63d > 0.5:
		indicators["price_extended"] = math.Min(m.Return63d*100, 100)
		keySignals = append(keySignals, fmt.Sprintf("Extended gains (%+.1f%%)", m.Return63d*100))
	case m.Return63d > 0.3:
		indicators["price_extended"] = math.Min(m.Return63d*133, 100)
		keySignals = append(keySignals, fmt.Sprintf("Strong gains (%+.1f%%)", m.Return63d*100))
	}

	cycleNewsRisk := c.news.CycleNewsRisk(headlines)
	indicators["negative_news_shift"] = cycleNewsRisk
	if cycleNewsRisk > 60 {
		keySignals = append(keySignals, "Negative cycle keywords in news")
	}

	if m.Volatility50d > 0 && m.Volatility20d > m.Volatility50d*1.3 {
		indicators["volatility_expansion"] = math.Min((m.Volatility20d/m.Volatility50d-1)*333, 100)
		keySignals = append(keySignals, "Volatility expansion without price progress")
	}

	if capex := c.news.CountCapexExpansion(headlines); capex > 2 {
		indicators["capex_expansion"] = math.Min(float64(capex)*20, 100)
		keySignals = append(keySignals, fmt.Sprintf("Capex expansion headlines (%d)", capex))
	}

	momentum := math.Abs(m.Return21d)
	if momentum < 0.05 && m.Volatility20d > 0.3 {
		indicators["momentum_volatility_divergence"] = math.Min(m.Volatility20d*200-momentum*100, 100)
		keySignals = append(keySignals, "High volatility with low momentum")
	}

	cycleScore := meanOf(indicators)
	read := phaseTable.Lookup(cycleScore)
	goodNews := AnalyzeGoodNews(snap.Ticker, headlines)

	return domain.CycleAnalysis{
		Ticker:                snap.Ticker,
		Phase:                 read.Phase,
		Confidence:            read.Confidence,
		CycleScore:            cycleScore,
		Indicators:            indicators,
		NewsRisk:              c.news.OverallRisk(headlines),
		GoodNewsEffectiveness: goodNews.Effectiveness,
		ConsecutiveFailures:   goodNews.ConsecutiveFailures,
		GoodNewsAlert:         goodNews.AlertTriggered,
		KeySignals:            keySignals,
		PhaseTransitionRisk:   transitionRisk(cycleScore, read.Phase),
	}
}

// transitionRisk estimates how close the instrument is to its next phase
func transitionRisk(cycleScore float64, phase domain.Phase) float64 {
	switch phase {
	case domain.PhaseLateMid:
		return math.Min((cycleScore-50)*3, 100)
	case domain.PhaseLate:
		return math.Min((cycleScore-60)*2.5, 100)
	case domain.PhaseRolloverRisk:
		return math.Min(cycleScore*1.2, 100)
	default:
		return math.Max(0, (cycleScore-40)*1.5)
	}
}

func meanOf(values map[string]float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
