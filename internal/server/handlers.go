package server

import (
	"encoding/json"
	"net/http"
	"runtime"

	"cyclewatch/internal/domain"
	"cyclewatch/internal/services"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "cyclewatch",
	})
}

// handleSystemStatus handles system status requests
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "running",
		"memory": map[string]interface{}{
			"alloc_mb":       m.Alloc / 1024 / 1024,
			"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
			"sys_mb":         m.Sys / 1024 / 1024,
			"num_gc":         m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	})
}

// handleAnalyze runs the full pipeline for one instrument
// POST /api/analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req services.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.analysis.AnalyzeInstrument(req)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// batchResponseItem is the per-ticker result-or-error wire shape
type batchResponseItem struct {
	Ticker string                     `json:"ticker"`
	Result *services.InstrumentResult `json:"result,omitempty"`
	Error  string                     `json:"error,omitempty"`
}

// handleAnalyzeBatch fans the pipeline out over multiple instruments.
// Failures stay per-ticker; the batch itself always answers 200.
// POST /api/analyze/batch
func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []services.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results := s.analysis.AnalyzeBatch(r.Context(), reqs)

	items := make([]batchResponseItem, len(results))
	for i, res := range results {
		items[i] = batchResponseItem{Ticker: res.Ticker}
		if res.Err != nil {
			items[i].Error = res.Err.Error()
			continue
		}
		result := res.Result
		items[i].Result = &result
	}

	s.writeJSON(w, http.StatusOK, items)
}

// portfolioRiskRequest carries positions plus their already-computed
// pressure inputs
type portfolioRiskRequest struct {
	Positions  []domain.PositionInput               `json:"positions"`
	Pressures  map[string]domain.CyclePressureInput `json:"pressures"`
	TotalValue float64                              `json:"total_value"`
}

// handlePortfolioRisk computes the portfolio rollup and action plan
// POST /api/portfolio/risk
func (s *Server) handlePortfolioRisk(w http.ResponseWriter, r *http.Request) {
	var req portfolioRiskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Positions) == 0 {
		s.writeError(w, http.StatusBadRequest, "positions are required")
		return
	}

	report, errs := s.portfolio.Analyze(req.Positions, req.Pressures, req.TotalValue)

	issues := make([]string, 0, len(errs))
	for _, err := range errs {
		issues = append(issues, err.Error())
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"report": report,
		"issues": issues,
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
