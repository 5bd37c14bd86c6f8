package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// minSweepInterval bounds how often the session registry is swept.
const minSweepInterval = time.Minute

// PurgeFunc empties the word list, either directly or by enqueueing a task.
type PurgeFunc func(ctx context.Context) error

// SessionSweeper closes sessions idle for longer than the given duration.
type SessionSweeper interface {
	Sweep(idle time.Duration) int
}

// Config selects which jobs the scheduler runs.
type Config struct {
	PurgeEnabled  bool
	PurgeSchedule string        // 5-field cron expression
	SessionIdle   time.Duration // Zero disables the session sweep
}

// Scheduler runs the periodic word purge and the idle session sweep.
type Scheduler struct {
	config   Config
	purge    PurgeFunc
	sessions SessionSweeper

	cron       *cron.Cron
	purgeEntry cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// New creates a scheduler. purge and sessions may be nil when the
// corresponding job is disabled.
func New(cfg Config, purge PurgeFunc, sessions SessionSweeper) *Scheduler {
	return &Scheduler{
		config:   cfg,
		purge:    purge,
		sessions: sessions,
		cron:     cron.New(cron.WithParser(newParser())),
	}
}

// Start registers the enabled jobs and starts the cron loop. It fails if
// the purge schedule does not parse. Cancelling ctx stops the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)

	jobs := 0
	if s.config.PurgeEnabled && s.purge != nil {
		if err := ValidateCronSchedule(s.config.PurgeSchedule); err != nil {
			cancel()
			return fmt.Errorf("invalid cron schedule '%s': %w", s.config.PurgeSchedule, err)
		}
		entryID, err := s.cron.AddFunc(s.config.PurgeSchedule, func() { s.runPurge(runCtx) })
		if err != nil {
			cancel()
			return fmt.Errorf("failed to schedule purge job: %w", err)
		}
		s.purgeEntry = entryID
		jobs++
	}

	if s.config.SessionIdle > 0 && s.sessions != nil {
		interval := SweepInterval(s.config.SessionIdle)
		s.cron.Schedule(cron.Every(interval), cron.FuncJob(s.runSweep))
		log.Printf("[SESSION] sweeping idle sessions every %v", interval)
		jobs++
	}

	if jobs == 0 {
		cancel()
		log.Printf("[PURGE] scheduler: nothing to schedule")
		return nil
	}

	s.cancelFunc = cancel
	s.cron.Start()
	s.isRunning = true

	if s.purgeEntry != 0 {
		nextRun, _ := GetNextRunTime(s.config.PurgeSchedule)
		log.Printf("[PURGE] scheduler started with schedule '%s'. Next run: %v", s.config.PurgeSchedule, nextRun)
	}

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	stopped := s.cron.Stop()
	s.cancelFunc()
	s.cancelFunc = nil
	<-stopped.Done()

	s.isRunning = false
	log.Printf("[PURGE] scheduler stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextPurge returns when the purge job fires next, or nil when it is not scheduled.
func (s *Scheduler) NextPurge() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || s.purgeEntry == 0 {
		return nil
	}
	t := s.cron.Entry(s.purgeEntry).Next
	return &t
}

// RunPurgeNow runs the purge job immediately and returns its error.
func (s *Scheduler) RunPurgeNow(ctx context.Context) error {
	if s.purge == nil {
		return fmt.Errorf("purge not configured")
	}
	return s.purge(ctx)
}

func (s *Scheduler) runPurge(ctx context.Context) {
	start := time.Now()
	if err := s.purge(ctx); err != nil {
		log.Printf("[PURGE] failed: %v", err)
		return
	}
	log.Printf("[PURGE] word list purged in %v", time.Since(start).Round(time.Millisecond))
}

func (s *Scheduler) runSweep() {
	if n := s.sessions.Sweep(s.config.SessionIdle); n > 0 {
		log.Printf("[SESSION] closed %d idle sessions", n)
	}
}

// SweepInterval is half the idle timeout, never less than a minute.
func SweepInterval(idle time.Duration) time.Duration {
	interval := idle / 2
	if interval < minSweepInterval {
		return minSweepInterval
	}
	return interval
}

// ValidateCronSchedule checks if a cron expression is valid.
func ValidateCronSchedule(schedule string) error {
	_, err := newParser().Parse(schedule)
	return err
}

// GetNextRunTime calculates when a schedule fires next.
func GetNextRunTime(schedule string) (*time.Time, error) {
	sched, err := newParser().Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}

func newParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
}
