package gameserver

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/game/world"
	"github.com/cory-johannsen/mudtrix/internal/storage/boltstore"
)

// Placements collects the monster spawns declared by every room, in room ID order.
func Placements(w *world.Manager) []npc.Placement {
	var out []npc.Placement
	for _, room := range w.AllRooms() {
		for _, sp := range room.Spawns {
			out = append(out, npc.Placement{Room: room.ID, Template: sp.Template, Count: sp.Count})
		}
	}
	return out
}

// StartMonsters reinstates the monsters saved in store. When store holds no
// snapshot the world is populated from its room spawns instead.
//
// Precondition: engine, sched, templates, w and logger must be non-nil. A nil
// store always populates.
func StartMonsters(engine *npc.Engine, sched *npc.Scheduler, templates map[string]*npc.Template, w *world.Manager, store *boltstore.Store, logger *zap.Logger) ([]*npc.Monster, error) {
	if store != nil {
		states, err := store.LoadMonsters()
		if err != nil {
			return nil, fmt.Errorf("loading monster snapshot: %w", err)
		}
		if len(states) > 0 {
			savedAt, _ := store.SavedAt()
			logger.Info("restoring monsters from snapshot",
				zap.Int("monsters", len(states)),
				zap.Time("saved_at", savedAt),
			)
			return npc.Reinstate(engine, sched, templates, states)
		}
	}
	return npc.Populate(engine, sched, templates, Placements(w))
}
