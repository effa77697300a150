package npc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AttackTimer calls its tick function for one monster every interval. The
// first call happens one interval after Run starts. Calls never overlap.
type AttackTimer struct {
	id       string
	interval time.Duration
	tick     func(id string)
	logger   *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

// NewAttackTimer creates a timer for the monster id.
//
// Precondition: interval > 0; tick and logger must be non-nil.
func NewAttackTimer(id string, interval time.Duration, tick func(id string), logger *zap.Logger) *AttackTimer {
	return &AttackTimer{
		id:       id,
		interval: interval,
		tick:     tick,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Run fires ticks until ctx is cancelled or Stop is called.
//
// Postcondition: Always returns nil; a panicking tick is logged and the timer keeps running.
func (t *AttackTimer) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.stop:
			return nil
		case <-ticker.C:
			t.fire()
		}
	}
}

func (t *AttackTimer) fire() {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("attack timer tick panicked",
				zap.String("monster", t.id),
				zap.Any("panic", r),
			)
		}
	}()
	t.tick(t.id)
}

// Stop ends Run. It is safe to call more than once.
func (t *AttackTimer) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// Scheduler owns one AttackTimer per monster and runs them in an errgroup.
// Timers may be added and removed while the scheduler runs.
type Scheduler struct {
	engine *Engine
	logger *zap.Logger

	mu      sync.Mutex
	timers  map[string]*AttackTimer
	group   *errgroup.Group
	ctx     context.Context
	running bool
}

// NewScheduler creates a Scheduler that ticks monsters through engine.
//
// Precondition: engine and logger must be non-nil.
func NewScheduler(engine *Engine, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		engine: engine,
		logger: logger,
		timers: make(map[string]*AttackTimer),
	}
}

// Add registers a timer for m using the interval chosen at spawn.
//
// Postcondition: Returns an error if m already has a timer.
func (s *Scheduler) Add(m *Monster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.timers[m.ID]; exists {
		return fmt.Errorf("monster %q already has an attack timer", m.ID)
	}
	t := NewAttackTimer(m.ID, m.Interval(), s.engine.Tick, s.logger)
	s.timers[m.ID] = t
	if s.running {
		s.group.Go(func() error { return t.Run(s.ctx) })
	}
	return nil
}

// Remove stops and forgets the monster's timer.
func (s *Scheduler) Remove(id string) {
	s.mu.Lock()
	t, ok := s.timers[id]
	delete(s.timers, id)
	s.mu.Unlock()
	if ok {
		t.Stop()
	}
}

// Len returns the number of registered timers.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Run starts every registered timer and blocks until ctx is cancelled.
//
// Postcondition: All timers are stopped when Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.group, s.ctx, s.running = g, gctx, true
	for _, t := range s.timers {
		g.Go(func() error { return t.Run(gctx) })
	}
	count := len(s.timers)
	s.mu.Unlock()

	s.logger.Info("attack timers started", zap.Int("timers", count))
	<-gctx.Done()

	s.mu.Lock()
	s.running = false
	for _, t := range s.timers {
		t.Stop()
	}
	s.mu.Unlock()

	err := g.Wait()
	s.logger.Info("attack timers stopped")
	return err
}
