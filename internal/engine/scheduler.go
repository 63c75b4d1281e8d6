package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the monitoring sweep at a fixed rate, with a short delay
// before the first run so the process finishes starting up. Overlapping
// runs are skipped, both by the cron chain and by the engine itself.
type Scheduler struct {
	cron         *cron.Cron
	engine       *Engine
	log          *slog.Logger
	initialDelay time.Duration

	// sweepCtx is canceled by Stop so a sweep already in flight stops
	// dispatching new product checks.
	sweepCtx    context.Context
	cancelSweep context.CancelFunc

	mu         sync.Mutex
	firstSweep *time.Timer
}

// NewScheduler creates a Scheduler that sweeps every sweepInterval,
// starting initialDelay after Start is called.
func NewScheduler(
	eng *Engine,
	sweepInterval time.Duration,
	initialDelay time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:         c,
		engine:       eng,
		log:          log,
		initialDelay: initialDelay,
		sweepCtx:     ctx,
		cancelSweep:  cancel,
	}

	if _, err := c.AddFunc(
		"@every "+sweepInterval.String(),
		s.runSweep,
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Start arms the first sweep and begins the periodic schedule.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "initial_delay", s.initialDelay)

	s.mu.Lock()
	s.firstSweep = time.AfterFunc(s.initialDelay, s.runSweep)
	s.mu.Unlock()

	s.cron.Start()
}

// Stop cancels any pending first sweep, cancels the sweep context so a
// running sweep stops dispatching new product checks, and gracefully stops
// the schedule. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")

	s.mu.Lock()
	if s.firstSweep != nil {
		s.firstSweep.Stop()
	}
	s.mu.Unlock()

	s.cancelSweep()

	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runSweep() {
	s.log.Info("scheduled sweep starting")
	if _, err := s.engine.RunSweep(s.sweepCtx); err != nil {
		s.log.Error("scheduled sweep failed", "error", err)
	}
}
