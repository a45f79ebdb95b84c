// Package scheduler reloads the dataset on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arijit3111w/estateai/internal/domain/dataset"
	"github.com/arijit3111w/estateai/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DefaultTimeout bounds one scheduled refresh.
const DefaultTimeout = time.Minute

// Refresher reloads the dataset.
type Refresher interface {
	Refresh(ctx context.Context) (dataset.Report, error)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTimeout bounds each refresh run. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// Scheduler runs Refresh on a cron spec. Runs never overlap; a tick that
// fires while a refresh is in progress is skipped.
type Scheduler struct {
	spec      string
	refresher Refresher
	timeout   time.Duration
	log       logger.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running atomic.Bool
	runs    atomic.Int64
	skipped atomic.Int64
}

// New creates a scheduler. An empty spec yields a scheduler whose Start is a no-op.
func New(spec string, refresher Refresher, opts ...Option) *Scheduler {
	s := &Scheduler{
		spec:      spec,
		refresher: refresher,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("scheduler")
	}
	return s
}

// Validate checks the spec without starting anything.
func Validate(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidSchedule, spec, err)
	}
	return nil
}

// Start registers the refresh job and starts the cron runner.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec == "" {
		s.log.Info(ctx, "scheduled refresh disabled")
		return nil
	}
	if err := Validate(s.spec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(s.spec, func() { s.RunNow(ctx) }); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	c.Start()
	s.cron = c
	s.log.Info(ctx, "scheduled refresh started", logger.String("spec", s.spec))
	return nil
}

// Stop halts the runner and waits for an in-flight refresh to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.log.Info(context.Background(), "scheduled refresh stopped")
}

// RunNow performs one refresh immediately. It reports whether the refresh ran.
func (s *Scheduler) RunNow(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		s.log.Warn(ctx, "refresh still in progress, skipping tick")
		return false
	}
	defer s.running.Store(false)
	s.runs.Add(1)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	rep, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.log.Error(ctx, "scheduled refresh failed", logger.Error(err))
		return true
	}
	s.log.Info(ctx, "scheduled refresh completed",
		logger.Int("accepted", rep.Accepted),
		logger.Int("lines", rep.LinesRead),
		logger.Float64("ms", float64(time.Since(start).Microseconds())/1000))
	return true
}

// Runs reports how many refreshes have started.
func (s *Scheduler) Runs() int64 { return s.runs.Load() }

// Skipped reports how many ticks were dropped because a refresh was running.
func (s *Scheduler) Skipped() int64 { return s.skipped.Load() }
