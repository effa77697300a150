package gameserver

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/game/world"
)

// MonsterEchoChance is the chance that a living monster echoes on a zone tick.
const MonsterEchoChance = 0.3

// IrregularTicker runs a periodic tick for each registered zone. Zone
// callbacks run one after another, in zone ID order.
//
// Invariant: all callbacks are invoked at most once per tick interval.
type IrregularTicker struct {
	interval time.Duration
	mu       sync.Mutex
	ticks    map[string]func()
}

// NewIrregularTicker returns a ticker that fires every interval.
//
// Precondition: interval must be > 0.
func NewIrregularTicker(interval time.Duration) *IrregularTicker {
	if interval <= 0 {
		panic("gameserver.NewIrregularTicker: interval must be > 0")
	}
	return &IrregularTicker{
		interval: interval,
		ticks:    make(map[string]func()),
	}
}

// RegisterTick registers a callback for zoneID. Replaces any existing callback.
func (z *IrregularTicker) RegisterTick(zoneID string, fn func()) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.ticks[zoneID] = fn
}

// Unregister removes the tick callback for zoneID.
func (z *IrregularTicker) Unregister(zoneID string) {
	z.mu.Lock()
	defer z.mu.Unlock()
	delete(z.ticks, zoneID)
}

// Run fires the registered callbacks until ctx is cancelled.
//
// Postcondition: Returns ctx.Err() once cancelled.
func (z *IrregularTicker) Run(ctx context.Context) error {
	ticker := time.NewTicker(z.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			z.fire()
		}
	}
}

func (z *IrregularTicker) fire() {
	z.mu.Lock()
	ids := make([]string, 0, len(z.ticks))
	for id := range z.ticks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	callbacks := make([]func(), 0, len(ids))
	for _, id := range ids {
		callbacks = append(callbacks, z.ticks[id])
	}
	z.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

// ZoneEchoes returns the tick callback of zone: every weather room may echo
// the weather and every living monster in the zone may echo.
func ZoneEchoes(zone *world.Zone, engine *npc.Engine, rooms *RoomHooks, roller *dice.Roller) func() {
	ids := make([]string, 0, len(zone.Rooms))
	for id := range zone.Rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return func() {
		for _, id := range ids {
			room := zone.Rooms[id]
			if room.Type == world.RoomTypeWeather {
				rooms.Weather(room)
			}
			for _, m := range engine.Monsters().InstancesInRoom(id) {
				if len(m.Template.Echoes) > 0 && roller.Chance(MonsterEchoChance) {
					engine.Echo(m.ID)
				}
			}
		}
	}
}
