// Package scheduler runs cyclewatch's background refresh jobs on cron
// schedules and keeps the last outcome of each job for inspection.
package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a runnable background task
type Job interface {
	Run() error
	Name() string
}

// RunInfo records the most recent execution of a job
type RunInfo struct {
	At       time.Time     `json:"at"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Scheduler wraps robfig/cron with run timing and per-job outcome tracking
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger

	mu       sync.Mutex
	lastRuns map[string]RunInfo
}

// New creates a scheduler. Schedules use the six-field form with seconds,
// e.g. "0 30 16 * * MON-FRI".
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		log:      log.With().Str("component", "scheduler").Logger(),
		lastRuns: make(map[string]RunInfo),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for in-flight jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a job against a cron schedule
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() { s.runJob(job) })
	if err != nil {
		return err
	}

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")
	return nil
}

// RunNow executes a job immediately, outside its schedule
func (s *Scheduler) RunNow(job Job) error {
	return s.runJob(job)
}

// LastRun returns the most recent execution record for a job name
func (s *Scheduler) LastRun(name string) (RunInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.lastRuns[name]
	return info, ok
}

func (s *Scheduler) runJob(job Job) error {
	start := time.Now()
	err := job.Run()
	elapsed := time.Since(start)

	s.mu.Lock()
	s.lastRuns[job.Name()] = RunInfo{At: start, Duration: elapsed, Err: err}
	s.mu.Unlock()

	if err != nil {
		s.log.Error().
			Err(err).
			Str("job", job.Name()).
			Dur("duration_ms", elapsed).
			Msg("Job failed")
		return err
	}

	s.log.Debug().
		Str("job", job.Name()).
		Dur("duration_ms", elapsed).
		Msg("Job completed")
	return nil
}
