package gameserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/mudtrix/internal/game/attr"
	"github.com/cory-johannsen/mudtrix/internal/game/command"
	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
	"github.com/cory-johannsen/mudtrix/internal/game/spell"
	"github.com/cory-johannsen/mudtrix/internal/game/world"
	"github.com/cory-johannsen/mudtrix/internal/scripting"
)

const castleScript = `
function on_enter(room_id, uid, from)
	if room_id == "armory" then
		engine.player.tell(uid, "The wands rattle as you enter.")
	end
end

function on_monster_defeated(monster_id, uid)
	local name = engine.player.get(uid, "name")
	engine.room.broadcast(engine.player.get(uid, "room"), name .. " has vanquished " .. monster_id)
	engine.player.set(uid, "will", 77)
end
`

// testZone builds:
//
//	intro -n-> hall -n-> armory (wand rack)
//	           hall -e-> courtyard (weather)
//	           hall -u-> gate (outro)
func testZone() *world.Zone {
	return &world.Zone{
		ID:         "castle",
		Name:       "Castle",
		StartRoom:  "intro",
		ScriptFile: "castle.lua",
		Rooms: map[string]*world.Room{
			"intro": {ID: "intro", ZoneID: "castle", Title: "Entrance", Type: world.RoomTypeIntro,
				Description: "Stone steps lead up to the doors.",
				Properties:  map[string]string{"char_health": "30"},
				Exits:       []world.Exit{{Direction: world.North, TargetRoom: "hall"}}},
			"hall": {ID: "hall", ZoneID: "castle", Title: "Great Hall",
				Description: "Candles float beneath the ceiling.",
				Exits: []world.Exit{
					{Direction: world.South, TargetRoom: "intro"},
					{Direction: world.North, TargetRoom: "armory"},
					{Direction: world.East, TargetRoom: "courtyard"},
					{Direction: world.Up, TargetRoom: "gate"},
					{Direction: world.West, TargetRoom: "passage", Hidden: true},
				}},
			"armory": {ID: "armory", ZoneID: "castle", Title: "Wand Room", Type: world.RoomTypeWandRack,
				Exits: []world.Exit{{Direction: world.South, TargetRoom: "hall"}}},
			"courtyard": {ID: "courtyard", ZoneID: "castle", Title: "Courtyard", Type: world.RoomTypeWeather,
				Exits: []world.Exit{{Direction: world.West, TargetRoom: "hall"}}},
			"gate": {ID: "gate", ZoneID: "castle", Title: "Castle Gate", Type: world.RoomTypeOutro,
				Exits: []world.Exit{{Direction: world.Down, TargetRoom: "hall"}}},
			"passage": {ID: "passage", ZoneID: "castle", Title: "Secret Passage",
				Exits: []world.Exit{{Direction: world.East, TargetRoom: "hall"}}},
		},
	}
}

type harness struct {
	world    *world.Manager
	sessions *session.Manager
	monsters *npc.Manager
	engine   *npc.Engine
	rooms    *RoomHooks
	bridge   *MonsterBridge
	scripts  *scripting.Manager
	store    *attr.MemoryStore
	roller   *dice.Roller
	svc      *GameService
	now      time.Time
}

func newHarness(t *testing.T, src dice.Source) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	zone := testZone()
	w, err := world.NewManager([]*world.Zone{zone})
	require.NoError(t, err)
	require.NoError(t, w.ValidateExits())

	h := &harness{
		world:    w,
		sessions: session.NewManager(),
		monsters: npc.NewManager(),
		store:    attr.NewMemoryStore(),
		roller:   dice.NewRoller(src, logger),
		now:      time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC),
	}

	h.scripts = scripting.NewManager(h.roller, logger)
	dir := t.TempDir()
	path := filepath.Join(dir, zone.ScriptFile)
	require.NoError(t, os.WriteFile(path, []byte(castleScript), 0644))
	require.NoError(t, h.scripts.LoadZoneFile(zone.ID, path, 0))
	t.Cleanup(h.scripts.Close)

	templates, err := npc.TemplateMap(npc.Builtin())
	require.NoError(t, err)

	h.rooms = NewRoomHooks(w, h.sessions, h.scripts, h.store, h.roller, logger)
	h.bridge = NewMonsterBridge(w, h.sessions, h.scripts, h.rooms, templates, logger)
	h.engine = npc.NewEngine(npc.Deps{
		Monsters:   h.monsters,
		Topology:   w,
		Roster:     h.sessions,
		Messenger:  h.sessions,
		Roller:     h.roller,
		Logger:     logger,
		Hooks:      h.bridge,
		Clock:      func() time.Time { return h.now },
		DefeatRoom: "intro",
	})
	h.bridge.BindScripts(h.monsters)

	caster := spell.NewCaster(h.sessions, h.sessions, h.monsters, h.engine, h.roller, spell.DefaultWand(), logger)
	h.svc = NewGameService(Deps{
		World:    w,
		Sessions: h.sessions,
		Engine:   h.engine,
		Caster:   caster,
		Book:     spell.DefaultBook(),
		Commands: command.DefaultRegistry(),
		Rooms:    h.rooms,
		Store:    h.store,
		Roller:   h.roller,
		Logger:   logger,
	})
	return h
}

func (h *harness) join(t *testing.T, uid, name string) *session.Player {
	t.Helper()
	return h.joinAs(t, JoinRequest{UID: uid, Name: name})
}

func (h *harness) joinAs(t *testing.T, req JoinRequest) *session.Player {
	t.Helper()
	p, err := h.svc.Join(context.Background(), req)
	require.NoError(t, err)
	return p
}

// place moves a player without running room hooks and clears their outbox.
func (h *harness) place(t *testing.T, p *session.Player, roomID string) {
	t.Helper()
	_, err := h.sessions.MovePlayer(p.UID, roomID)
	require.NoError(t, err)
	drain(p)
}

func (h *harness) spawn(t *testing.T, templateID, home string) *npc.Monster {
	t.Helper()
	templates, err := npc.TemplateMap(npc.Builtin())
	require.NoError(t, err)
	m, err := h.engine.Spawn(templates[templateID], home)
	require.NoError(t, err)
	require.True(t, h.engine.Activate(m.ID))
	return m
}

func (h *harness) giveWand(t *testing.T, p *session.Player) {
	t.Helper()
	_, err := h.sessions.Update(p.UID, func(s *session.Stats) { s.HasWand = true })
	require.NoError(t, err)
}

func drain(p *session.Player) []string {
	var out []string
	for {
		select {
		case l, ok := <-p.Outbox.Lines():
			if !ok {
				return out
			}
			out = append(out, l)
		default:
			return out
		}
	}
}

func joined(lines []string) string {
	return strings.Join(lines, "\n")
}
