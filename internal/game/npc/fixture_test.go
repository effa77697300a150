package npc_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
	"github.com/cory-johannsen/mudtrix/internal/game/world"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingHooks struct {
	mu        sync.Mutex
	defeated  []npc.State
	killers   []string
	relocated [][3]string
}

func (h *recordingHooks) OnMonsterDefeated(st npc.State, attacker string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.defeated = append(h.defeated, st)
	h.killers = append(h.killers, attacker)
}

func (h *recordingHooks) OnPlayerRelocated(uid, from, to string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relocated = append(h.relocated, [3]string{uid, from, to})
}

type fixture struct {
	world    *world.Manager
	players  *session.Manager
	monsters *npc.Manager
	engine   *npc.Engine
	hooks    *recordingHooks
	clock    *testClock
}

// testWorld builds hall <-> corridor <-> tower, a cell monsters cannot enter
// and a vault monsters cannot leave.
func testWorld(t *testing.T) *world.Manager {
	t.Helper()
	zone := &world.Zone{
		ID:        "castle",
		Name:      "Castle",
		StartRoom: "hall",
		Rooms: map[string]*world.Room{
			"hall": {ID: "hall", ZoneID: "castle", Title: "Great Hall",
				Exits: []world.Exit{{Direction: world.North, TargetRoom: "corridor"}}},
			"corridor": {ID: "corridor", ZoneID: "castle", Title: "Corridor",
				Exits: []world.Exit{
					{Direction: world.South, TargetRoom: "hall"},
					{Direction: world.Up, TargetRoom: "tower"},
					{Direction: world.East, TargetRoom: "cell", NoMob: true},
				}},
			"tower": {ID: "tower", ZoneID: "castle", Title: "Tower",
				Exits: []world.Exit{{Direction: world.Down, TargetRoom: "corridor"}}},
			"cell": {ID: "cell", ZoneID: "castle", Title: "Dark Cell",
				Exits: []world.Exit{{Direction: world.West, TargetRoom: "corridor"}}},
			"vault": {ID: "vault", ZoneID: "castle", Title: "Vault",
				Exits: []world.Exit{{Direction: world.West, TargetRoom: "corridor", NoMob: true}}},
		},
	}
	m, err := world.NewManager([]*world.Zone{zone})
	require.NoError(t, err)
	require.NoError(t, m.ValidateExits())
	return m
}

func newFixture(t *testing.T, src dice.Source, defeatRoom string) *fixture {
	t.Helper()
	f := &fixture{
		world:    testWorld(t),
		players:  session.NewManager(),
		monsters: npc.NewManager(),
		hooks:    &recordingHooks{},
		clock:    &testClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	logger := zap.NewNop()
	f.engine = npc.NewEngine(npc.Deps{
		Monsters:   f.monsters,
		Topology:   f.world,
		Roster:     f.players,
		Messenger:  f.players,
		Roller:     dice.NewRoller(src, logger),
		Logger:     logger,
		Hooks:      f.hooks,
		Clock:      f.clock.Now,
		DefeatRoom: defeatRoom,
	})
	return f
}

func builtin(t *testing.T, id string) *npc.Template {
	t.Helper()
	for _, tmpl := range npc.Builtin() {
		if tmpl.ID == id {
			return tmpl
		}
	}
	t.Fatalf("no builtin template %q", id)
	return nil
}

// spawn creates an active monster of the given builtin template at home.
func (f *fixture) spawn(t *testing.T, id, home string) *npc.Monster {
	t.Helper()
	m, err := f.engine.Spawn(builtin(t, id), home)
	require.NoError(t, err)
	require.True(t, f.engine.Activate(m.ID))
	return m
}

func (f *fixture) join(t *testing.T, uid, name, room string) *session.Player {
	t.Helper()
	p, err := f.players.AddPlayer(uid, name, 0, room, false, session.NewStats("Gryffindor"))
	require.NoError(t, err)
	return p
}

func drain(p *session.Player) []string {
	var out []string
	for {
		select {
		case l := <-p.Outbox.Lines():
			out = append(out, l)
		default:
			return out
		}
	}
}

var magicWand = npc.Weapon{Name: "wand", Magic: true}
