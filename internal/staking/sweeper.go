package staking

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/stakeline/stakeline/internal/logging"
	"github.com/stakeline/stakeline/internal/util"
)

// Sweeper periodically drives the manager's expiration sweep. The interval
// is a liveness knob, not a correctness requirement: the sweep itself is
// idempotent, so running more or less often than the interval is safe.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	clk      clock.Clock

	mu      sync.Mutex
	lastRun time.Time
	stop    chan struct{}
	done    chan struct{}
}

// NewSweeper creates a sweeper that runs the expiration sweep every interval.
func NewSweeper(manager *Manager, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		manager:  manager,
		interval: interval,
		clk:      manager.clk,
	}
}

// Start launches the background sweep loop. Calling Start on a running
// sweeper is a no-op.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	stop, done := s.stop, s.done
	util.SafeGoWithName("expiration-sweeper", func() {
		defer close(done)
		s.loop(stop)
	})
}

func (s *Sweeper) loop(stop chan struct{}) {
	ticker := s.clk.Ticker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.RunOnce(context.Background())
		}
	}
}

// RunOnce executes a single sweep immediately and records the run time.
func (s *Sweeper) RunOnce(ctx context.Context) int {
	completed, err := s.manager.RunExpirationSweep(ctx)
	if err != nil {
		logging.Error("expiration sweep failed", logging.Err(err), logging.Component("sweeper"))
	}

	s.mu.Lock()
	s.lastRun = s.clk.Now()
	s.mu.Unlock()

	return completed
}

// Stop terminates the background loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// LastRun returns when the sweep last ran, zero if it never has.
func (s *Sweeper) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}
