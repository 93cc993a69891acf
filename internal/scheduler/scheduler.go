package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quantfeed/tickersync/internal/model"
)

// State of the trigger loop.
type State int

const (
	// StateIdle means the loop is waiting for the next trigger time.
	StateIdle State = iota
	// StateRunning means a sync job is executing.
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Job is one complete fetch-then-load cycle. An error return marks the run
// failed; it is logged at the job boundary and never stops the loop.
type Job interface {
	Run(ctx context.Context) (model.JobResult, error)
}

// JobFunc is a function adapter for Job.
type JobFunc func(ctx context.Context) (model.JobResult, error)

func (f JobFunc) Run(ctx context.Context) (model.JobResult, error) {
	return f(ctx)
}

// Config holds scheduler configuration.
type Config struct {
	DailyAt      string        // Local wall-clock trigger time, "HH:MM" (default: "09:00")
	PollInterval time.Duration // Trigger check interval (default: 60s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DailyAt:      "09:00",
		PollInterval: 60 * time.Second,
	}
}

// Scheduler drives the daily sync job. It polls the clock at a bounded
// interval rather than sleeping until the exact trigger, which keeps it
// robust against system clock adjustments. At most one job runs at a time,
// and at most one run completes per calendar day.
type Scheduler struct {
	cfg    Config
	job    Job
	clock  Clock
	logger *slog.Logger

	triggerHour   int
	triggerMinute int

	mu         sync.Mutex
	state      State
	lastRunDay string // day key of the last completed run, "" before the first
	lastResult *model.JobResult
}

// New creates a Scheduler. A nil clock uses the system clock.
func New(cfg Config, job Job, clock Clock, logger *slog.Logger) (*Scheduler, error) {
	if cfg.DailyAt == "" {
		cfg.DailyAt = DefaultConfig().DailyAt
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	trigger, err := time.Parse("15:04", cfg.DailyAt)
	if err != nil {
		return nil, fmt.Errorf("parse daily trigger time %q: %w", cfg.DailyAt, err)
	}

	return &Scheduler{
		cfg:           cfg,
		job:           job,
		clock:         clock,
		logger:        logger,
		triggerHour:   trigger.Hour(),
		triggerMinute: trigger.Minute(),
		state:         StateIdle,
	}, nil
}

// Run drives the trigger loop until ctx is cancelled. Job failures are
// logged and absorbed; only cancellation ends the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"daily_at", s.cfg.DailyAt,
		"poll_interval", s.cfg.PollInterval,
	)

	for {
		s.Tick(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-s.clock.After(s.cfg.PollInterval):
		}
	}
}

// Tick performs one trigger check, running the job when the daily trigger
// time has been crossed and no run has completed for the current calendar
// day. Returns true when a job executed.
func (s *Scheduler) Tick(ctx context.Context) bool {
	now := s.clock.Now()

	s.mu.Lock()
	if s.state != StateIdle || !s.dueLocked(now) {
		s.mu.Unlock()
		return false
	}
	s.state = StateRunning
	s.mu.Unlock()

	result := s.runJob(ctx)

	s.mu.Lock()
	s.state = StateIdle
	// A failed run still counts for the day; the next attempt is the next
	// day's trigger.
	s.lastRunDay = dayKey(now)
	s.lastResult = &result
	s.mu.Unlock()

	return true
}

// RunOnce executes a single sync job immediately, ignoring the trigger.
// Used for manual/on-demand runs.
func (s *Scheduler) RunOnce(ctx context.Context) model.JobResult {
	s.mu.Lock()
	s.state = StateRunning
	s.mu.Unlock()

	result := s.runJob(ctx)

	s.mu.Lock()
	s.state = StateIdle
	s.lastResult = &result
	s.mu.Unlock()

	return result
}

// State returns the current loop state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastResult returns the most recent job outcome, or nil before any run.
func (s *Scheduler) LastResult() *model.JobResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// dueLocked reports whether the daily trigger has been crossed and no run
// has completed for now's calendar day. Callers hold s.mu.
func (s *Scheduler) dueLocked(now time.Time) bool {
	trigger := time.Date(now.Year(), now.Month(), now.Day(),
		s.triggerHour, s.triggerMinute, 0, 0, now.Location())
	return !now.Before(trigger) && s.lastRunDay != dayKey(now)
}

// runJob executes the job, absorbing any error into the result and logging
// the outcome with a per-run ID.
func (s *Scheduler) runJob(ctx context.Context) model.JobResult {
	runID := uuid.New()
	start := s.clock.Now()

	s.logger.Info("sync job started", "run_id", runID, "started_at", start)

	result, err := s.job.Run(ctx)
	result.RunID = runID
	result.Duration = s.clock.Now().Sub(start)

	if err != nil {
		result.Success = false
		result.Err = err
		s.logger.Error("sync job failed",
			"run_id", runID,
			"error", err,
			"duration", result.Duration,
		)
		return result
	}

	result.Success = true
	s.logger.Info("sync job succeeded",
		"run_id", runID,
		"records", result.Records,
		"rows_written", result.Written,
		"rows_skipped", result.Skipped,
		"duration", result.Duration,
	)
	return result
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
