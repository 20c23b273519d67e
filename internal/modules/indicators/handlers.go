package indicators

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
)

// Handlers provides HTTP handlers for the indicators module
type Handlers struct {
	evaluator *Evaluator
	log       zerolog.Logger
}

// NewHandlers creates a new indicators handlers instance
func NewHandlers(params config.Params, log zerolog.Logger) *Handlers {
	return &Handlers{
		evaluator: NewEvaluator(params, log),
		log:       log.With().Str("module", "indicators_handlers").Logger(),
	}
}

// EvaluateRequest carries one instrument's bar window for evaluation
type EvaluateRequest struct {
	Ticker string            `json:"ticker"`
	AsOf   time.Time         `json:"as_of"`
	Bars   []domain.PriceBar `json:"bars"`
}

// HandleEvaluate handles POST /api/indicators/evaluate
// Runs the full indicator set over the supplied bar window
func (h *Handlers) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode evaluate request")
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Ticker == "" {
		h.writeError(w, "Ticker is required", http.StatusBadRequest)
		return
	}
	if len(req.Bars) == 0 {
		h.writeError(w, "Bars are required", http.StatusBadRequest)
		return
	}

	snap := &domain.InstrumentSnapshot{
		Ticker: req.Ticker,
		AsOf:   req.AsOf,
		Bars:   req.Bars,
	}

	summary := h.evaluator.Evaluate(snap)
	h.writeJSON(w, summary, http.StatusOK)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, map[string]string{"error": message}, status)
}
