package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SweepFunc expires unanswered appointments as of now and reports how many moved
type SweepFunc func(ctx context.Context, now time.Time) (int, error)

// Sweeper runs a SweepFunc once at start and then on every tick
type Sweeper struct {
	sweep    SweepFunc
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweeper creates a sweeper that calls sweep every interval
func NewSweeper(sweep SweepFunc, interval time.Duration, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		sweep:    sweep,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// Start launches the sweep loop. Calling Start on a running sweeper does nothing.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.logger.Info().Dur("interval", s.interval).Msg("Starting appointment sweeper")
	go s.run(ctx, s.done)
}

// Stop ends the loop and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info().Msg("Appointment sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep. Failures are logged; the next tick tries again.
func (s *Sweeper) RunOnce(ctx context.Context) int {
	expired, err := s.sweep(ctx, s.now())
	if err != nil {
		if ctx.Err() != nil {
			return expired
		}
		s.logger.Error().Err(err).Int("expired", expired).Msg("Appointment sweep failed")
		return expired
	}
	s.logger.Debug().Int("expired", expired).Msg("Appointment sweep finished")
	return expired
}
