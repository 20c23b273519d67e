// Package news holds the single shared headline-scoring implementation.
// Every consumer (signal clustering, cycle classification) calls into this
// package so the heuristics cannot drift apart.
package news

import (
	"strings"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
)

// Scorer scores headlines against the configured lexicons and weights
type Scorer struct {
	params config.NewsParams
}

// NewScorer creates a headline scorer from engine parameters
func NewScorer(params config.NewsParams) *Scorer {
	return &Scorer{params: params}
}

// HeadlineRisk scores one headline's risk contribution on a 0-100 scale.
//
// Base points come from sentiment severity, then scale by the strongest
// matching category weight, the impact multiplier and an inverse-quality
// factor. Cycle-warning keywords add a flat 20; hype wording from a
// low-quality source adds a 15 froth penalty.
func (s *Scorer) HeadlineRisk(h domain.Headline) float64 {
	score := 0.0

	switch {
	case h.Sentiment < -2:
		score += 40
	case h.Sentiment < -1:
		score += 25
	case h.Sentiment < 0:
		score += 10
	}

	categoryWeight := 1.0
	if len(h.Categories) > 0 {
		categoryWeight = 0.0
		for _, cat := range h.Categories {
			w, ok := s.params.CategoryWeights[cat]
			if !ok {
				w = 0.5
			}
			if w > categoryWeight {
				categoryWeight = w
			}
		}
	}
	score *= categoryWeight

	score *= 1.0 + float64(h.Impact)*0.3
	score *= 2.0 - h.Quality

	text := strings.ToLower(h.Title)
	if s.HasCycleWarning(text) {
		score += 20
	}
	if s.hasFroth(text) && h.Quality < 0.6 {
		score += 15
	}

	return clamp(score, 0, 100)
}

// OverallRisk averages per-headline risk across the aggregate
func (s *Scorer) OverallRisk(headlines []domain.Headline) float64 {
	if len(headlines) == 0 {
		return 0
	}

	total := 0.0
	for _, h := range headlines {
		total += s.HeadlineRisk(h)
	}
	return clamp(total/float64(len(headlines)), 0, 100)
}

// CycleNewsRisk measures the share of headlines carrying cycle-warning
// language or sharply negative earnings/guidance sentiment, scaled to 0-100.
func (s *Scorer) CycleNewsRisk(headlines []domain.Headline) float64 {
	if len(headlines) == 0 {
		return 0
	}

	risky := 0
	for _, h := range headlines {
		text := strings.ToLower(h.Title)
		if s.HasCycleWarning(text) {
			risky++
			continue
		}
		if h.Sentiment < -1 && hasAnyCategory(h, "earnings", "guidance") {
			risky++
		}
	}

	return float64(risky) / float64(len(headlines)) * 100
}

// CountCapexExpansion counts headlines pairing capital-spending language
// with expansion language, a late-cycle tell.
func (s *Scorer) CountCapexExpansion(headlines []domain.Headline) int {
	capexWords := []string{"capex", "capital expenditure", "investment", "spending"}
	expandWords := []string{"expand", "increase", "growth", "rise"}

	count := 0
	for _, h := range headlines {
		text := strings.ToLower(h.Title)
		if containsAny(text, capexWords) && containsAny(text, expandWords) {
			count++
		}
	}
	return count
}

// HasCycleWarning reports whether lowercase text contains any configured
// cycle-warning keyword
func (s *Scorer) HasCycleWarning(textLower string) bool {
	return containsAny(textLower, s.params.CycleWarningKeywords)
}

// SectorRelevant reports whether lowercase text mentions the covered sector
func (s *Scorer) SectorRelevant(textLower string) bool {
	return containsAny(textLower, s.params.SectorKeywords)
}

func (s *Scorer) hasFroth(textLower string) bool {
	return containsAny(textLower, s.params.FrothKeywords)
}

func hasAnyCategory(h domain.Headline, categories ...string) bool {
	for _, want := range categories {
		for _, have := range h.Categories {
			if have == want {
				return true
			}
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
