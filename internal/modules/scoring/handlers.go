package scoring

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"cyclewatch/internal/config"
	"cyclewatch/internal/domain"
	"cyclewatch/internal/modules/clusters"
)

// Handlers provides HTTP handlers for the scoring module
type Handlers struct {
	clusterer *clusters.Clusterer
	scorer    *DualScorer
	log       zerolog.Logger
}

// NewHandlers creates a new scoring handlers instance
func NewHandlers(params config.Params, log zerolog.Logger) *Handlers {
	return &Handlers{
		clusterer: clusters.NewClusterer(params.Clusters),
		scorer:    NewDualScorer(params.Clusters),
		log:       log.With().Str("module", "scoring_handlers").Logger(),
	}
}

// ScoreRequest carries the derived metrics and optional news bundle for
// one instrument
type ScoreRequest struct {
	Ticker    string                 `json:"ticker"`
	LastClose float64                `json:"last_close"`
	Metrics   domain.SnapshotMetrics `json:"metrics"`
	News      *domain.NewsAggregate  `json:"news,omitempty"`
}

// HandleScore handles POST /api/score
// Builds the signal clusters and scores both sides
func (h *Handlers) HandleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode score request")
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Ticker == "" {
		h.writeError(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	snap := &domain.InstrumentSnapshot{
		Ticker:  req.Ticker,
		Bars:    []domain.PriceBar{{Close: req.LastClose, High: req.LastClose, Low: req.LastClose}},
		Metrics: req.Metrics,
	}

	result := h.scorer.Score(req.Ticker, h.clusterer.Opportunity(snap, req.News), h.clusterer.SellRisk(snap))
	h.writeJSON(w, result, http.StatusOK)
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
