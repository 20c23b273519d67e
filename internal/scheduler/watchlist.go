package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cyclewatch/internal/clients/yahoo"
	"cyclewatch/internal/domain"
	"cyclewatch/internal/services"
)

// WatchlistJob refreshes the analysis for every watchlist ticker: it pulls a
// year of daily bars, runs the full pipeline, and logs tier flips against the
// previous run. Results live only in memory; callers wanting the latest pass
// hit the HTTP API instead.
type WatchlistJob struct {
	tickers  []string
	client   *yahoo.Client
	analysis *services.AnalysisService
	hours    *MarketHoursService
	log      zerolog.Logger

	mu        sync.Mutex
	lastTiers map[string]domain.Tier
}

// NewWatchlistJob creates the watchlist refresh job
func NewWatchlistJob(tickers []string, client *yahoo.Client, analysis *services.AnalysisService, hours *MarketHoursService, log zerolog.Logger) *WatchlistJob {
	return &WatchlistJob{
		tickers:   tickers,
		client:    client,
		analysis:  analysis,
		hours:     hours,
		log:       log.With().Str("job", "watchlist_refresh").Logger(),
		lastTiers: make(map[string]domain.Tier),
	}
}

// Name returns the job name
func (j *WatchlistJob) Name() string {
	return "watchlist_refresh"
}

// Run fetches bars and re-analyzes the whole watchlist
func (j *WatchlistJob) Run() error {
	now := time.Now()
	if !j.hours.IsTradingDay(now) {
		j.log.Debug().Msg("Not a session day, skipping refresh")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	reqs := make([]services.AnalyzeRequest, 0, len(j.tickers))
	var fetchErrs int
	for _, ticker := range j.tickers {
		bars, err := j.client.GetDailyBars(ctx, ticker, "1y")
		if err != nil {
			j.log.Warn().Err(err).Str("ticker", ticker).Msg("Bar fetch failed")
			fetchErrs++
			continue
		}
		reqs = append(reqs, services.AnalyzeRequest{Ticker: ticker, AsOf: now, Bars: bars})
	}

	results := j.analysis.AnalyzeBatch(ctx, reqs)

	j.mu.Lock()
	defer j.mu.Unlock()
	for _, res := range results {
		if res.Err != nil {
			j.log.Warn().Err(res.Err).Str("ticker", res.Ticker).Msg("Analysis failed")
			continue
		}
		rec := res.Result.Report.Recommendation
		prev, seen := j.lastTiers[res.Ticker]
		if seen && prev != rec.Tier {
			j.log.Info().
				Str("ticker", res.Ticker).
				Str("from", string(prev)).
				Str("to", string(rec.Tier)).
				Str("urgency", string(rec.Urgency)).
				Msg("Recommendation tier changed")
		} else {
			j.log.Debug().
				Str("ticker", res.Ticker).
				Str("tier", string(rec.Tier)).
				Msg("Tier unchanged")
		}
		j.lastTiers[res.Ticker] = rec.Tier
	}

	if fetchErrs == len(j.tickers) && len(j.tickers) > 0 {
		return fmt.Errorf("all %d bar fetches failed", fetchErrs)
	}

	j.log.Info().
		Int("analyzed", len(results)).
		Int("fetch_errors", fetchErrs).
		Msg("Watchlist refreshed")
	return nil
}
