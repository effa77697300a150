package gameserver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/storage/boltstore"
)

// Snapshotter periodically writes every monster's state to the bolt store,
// and once more on shutdown, so dead timers and sampled intervals survive a
// restart.
type Snapshotter struct {
	monsters *npc.Manager
	store    *boltstore.Store
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewSnapshotter creates a Snapshotter.
//
// Precondition: monsters, store and logger must be non-nil; interval > 0.
func NewSnapshotter(monsters *npc.Manager, store *boltstore.Store, interval time.Duration, logger *zap.Logger) *Snapshotter {
	return &Snapshotter{
		monsters: monsters,
		store:    store,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// Save writes the current state of all monsters, replacing older snapshots.
func (s *Snapshotter) Save() error {
	states := s.monsters.SnapshotAll()
	if err := s.store.ReplaceMonsters(states, s.now()); err != nil {
		return fmt.Errorf("saving monster snapshot: %w", err)
	}
	s.logger.Debug("monster snapshot saved", zap.Int("monsters", len(states)))
	return nil
}

// Run saves every interval until ctx is cancelled, then saves a final time.
//
// Postcondition: Returns the error of the final save, if any. Periodic save
// failures are logged and retried on the next tick.
func (s *Snapshotter) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return s.Save()
		case <-ticker.C:
			if err := s.Save(); err != nil {
				s.logger.Warn("periodic snapshot failed", zap.Error(err))
			}
		}
	}
}
