package gameserver

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/game/world"
	"github.com/cory-johannsen/mudtrix/internal/storage/boltstore"
)

func openBolt(t *testing.T) *boltstore.Store {
	t.Helper()
	s, err := boltstore.Open(filepath.Join(t.TempDir(), "monsters.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func (h *harness) start(t *testing.T, store *boltstore.Store) []*npc.Monster {
	t.Helper()
	logger := zaptest.NewLogger(t)
	templates, err := npc.TemplateMap(npc.Builtin())
	require.NoError(t, err)
	sched := npc.NewScheduler(h.engine, logger)
	out, err := StartMonsters(h.engine, sched, templates, h.world, store, logger)
	require.NoError(t, err)
	assert.Equal(t, len(out), sched.Len())
	return out
}

func TestPlacements_FromRoomSpawns(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	hall, _ := h.world.GetRoom("hall")
	hall.Spawns = []world.MonsterSpawn{{Template: "spider", Count: 2}}
	gate, _ := h.world.GetRoom("gate")
	gate.Spawns = []world.MonsterSpawn{{Template: "boggart", Count: 1}}

	assert.Equal(t, []npc.Placement{
		{Room: "gate", Template: "boggart", Count: 1},
		{Room: "hall", Template: "spider", Count: 2},
	}, Placements(h.world))
}

func TestStartMonsters_PopulatesWithoutSnapshot(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	hall, _ := h.world.GetRoom("hall")
	hall.Spawns = []world.MonsterSpawn{{Template: "spider", Count: 2}}

	out := h.start(t, nil)
	require.Len(t, out, 2)
	assert.Len(t, h.monsters.InstancesInRoom("hall"), 2)
	for _, m := range out {
		assert.Equal(t, npc.ModeRoam, m.Mode())
	}
}

func TestSnapshot_RestoresMonstersAcrossRestarts(t *testing.T) {
	store := openBolt(t)
	first := newHarness(t, dice.FixedSource{})
	spider := first.spawn(t, "spider", "hall")
	first.engine.AtHit(spider.ID, npc.Weapon{Name: "wand", Magic: true}, "u1", 5)

	snap := NewSnapshotter(first.monsters, store, time.Hour, zaptest.NewLogger(t))
	require.NoError(t, snap.Save())

	second := newHarness(t, dice.FixedSource{})
	hall, _ := second.world.GetRoom("hall")
	hall.Spawns = []world.MonsterSpawn{{Template: "spider", Count: 3}}
	out := second.start(t, store)

	require.Len(t, out, 1, "a snapshot wins over room spawns")
	m := out[0]
	assert.Equal(t, spider.ID, m.ID)
	assert.Equal(t, spider.FullHealth()-5, m.Health())
	assert.Equal(t, npc.ModeBattle, m.Mode())
	assert.Equal(t, "u1", m.LastAttacker())
	assert.Equal(t, "hall", second.monsters.Location(m.ID))
}

func TestSnapshotter_SavesOnShutdown(t *testing.T) {
	store := openBolt(t)
	h := newHarness(t, dice.FixedSource{})
	h.spawn(t, "spider", "hall")
	h.spawn(t, "spider", "courtyard")

	snap := NewSnapshotter(h.monsters, store, time.Hour, zaptest.NewLogger(t))
	snap.now = func() time.Time { return h.now }
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, snap.Run(ctx))

	states, err := store.LoadMonsters()
	require.NoError(t, err)
	assert.Len(t, states, 2)
	savedAt, err := store.SavedAt()
	require.NoError(t, err)
	assert.True(t, savedAt.Equal(h.now))
}
