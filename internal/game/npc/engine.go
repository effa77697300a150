package npc

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
)

// Topology is the room graph as seen by monsters.
type Topology interface {
	// MobDestinations returns the rooms reachable through exits monsters may traverse.
	MobDestinations(roomID string) []string
	// Title returns the display name of a room.
	Title(roomID string) string
	// RoomExists reports whether roomID is a loaded room.
	RoomExists(roomID string) bool
}

// Roster gives monsters access to the players they fight.
type Roster interface {
	// EligibleInRoom returns the UIDs of non-superuser players in roomID.
	EligibleInRoom(roomID string) []string
	// Update mutates a player's attributes under that player's lock.
	Update(uid string, fn func(s *session.Stats)) (session.Stats, error)
	// Respawn restores a defeated player.
	Respawn(uid string) (session.Stats, error)
	// MovePlayer relocates a player and returns the room they left.
	MovePlayer(uid, roomID string) (string, error)
	// PlayerName returns the display name of a connected player.
	PlayerName(uid string) (string, bool)
}

// Messenger delivers text to players.
type Messenger interface {
	Direct(uid, text string)
	Broadcast(roomID, text string, exclude ...string)
}

// Hooks are notified of combat outcomes. They run after the monster's lock
// has been released, so they may call back into the Engine.
type Hooks interface {
	// OnMonsterDefeated fires once per death, with the killing player.
	OnMonsterDefeated(st State, attackerUID string)
	// OnPlayerRelocated fires when a defeated player is carried off.
	OnPlayerRelocated(uid, from, to string)
}

// NopHooks ignores every notification.
type NopHooks struct{}

func (NopHooks) OnMonsterDefeated(State, string)          {}
func (NopHooks) OnPlayerRelocated(string, string, string) {}

// Deps bundles the collaborators of an Engine.
type Deps struct {
	Monsters  *Manager
	Topology  Topology
	Roster    Roster
	Messenger Messenger
	Roller    *dice.Roller
	Logger    *zap.Logger
	// Hooks defaults to NopHooks.
	Hooks Hooks
	// Clock defaults to time.Now.
	Clock func() time.Time
	// DefeatRoom is used for monsters whose template names none.
	DefeatRoom string
}

// Engine runs the monster state machines and resolves combat.
type Engine struct {
	monsters   *Manager
	topo       Topology
	roster     Roster
	msg        Messenger
	hooks      Hooks
	roller     *dice.Roller
	now        func() time.Time
	logger     *zap.Logger
	defeatRoom string
}

// NewEngine creates an Engine.
//
// Precondition: Monsters, Topology, Roster, Messenger, Roller and Logger must be non-nil.
func NewEngine(d Deps) *Engine {
	if d.Hooks == nil {
		d.Hooks = NopHooks{}
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return &Engine{
		monsters:   d.Monsters,
		topo:       d.Topology,
		roster:     d.Roster,
		msg:        d.Messenger,
		hooks:      d.Hooks,
		roller:     d.Roller,
		now:        d.Clock,
		logger:     d.Logger,
		defeatRoom: d.DefeatRoom,
	}
}

// Monsters returns the Manager the engine drives.
func (e *Engine) Monsters() *Manager { return e.monsters }

// step collects work that must run after the monster lock is released.
type step struct {
	after []func()
}

func (s *step) later(fn func()) { s.after = append(s.after, fn) }

func (s *step) run() {
	for _, fn := range s.after {
		fn()
	}
}

// action advances one monster by one tick. loc is the monster's current room.
type action func(e *Engine, m *Monster, loc string, st *step)

type behavior struct {
	initial Mode
	actions map[Mode]action
}

var behaviors = map[Kind]behavior{
	KindMobile: {
		initial: ModeRoam,
		actions: map[Mode]action{
			ModeRoam:   (*Engine).roam,
			ModeBattle: (*Engine).attack,
			ModePursue: (*Engine).pursue,
		},
	},
	KindStatic: {
		initial: ModeAlive,
		actions: map[Mode]action{
			ModeAlive: (*Engine).haunt,
		},
	},
}

// Spawn creates a monster at home with a tick interval sampled once from the
// template's range. The monster starts inactive; call Activate once the world
// is ready.
//
// Postcondition: Returns the monster or an error if home is unknown.
func (e *Engine) Spawn(tmpl *Template, home string) (*Monster, error) {
	if !e.topo.RoomExists(home) {
		return nil, fmt.Errorf("spawning %q: unknown home room %q", tmpl.ID, home)
	}
	secs := e.roller.Between(tmpl.TickInterval.Min, tmpl.TickInterval.Max)
	m, err := e.monsters.Spawn(tmpl, home, time.Duration(secs)*time.Second)
	if err != nil {
		return nil, err
	}
	e.logger.Info("monster spawned",
		zap.String("monster", m.ID),
		zap.String("home", home),
		zap.Duration("interval", m.interval),
	)
	return m, nil
}

// Activate clears the inactive flag so timer ticks take effect.
func (e *Engine) Activate(id string) bool {
	m, ok := e.monsters.Get(id)
	if !ok {
		return false
	}
	m.SetInactive(false)
	return true
}

// Tick advances the monster by exactly one step.
//
// Postcondition: Inactive monsters and monsters without a known room are
// left untouched. Dead monsters are reset once their dead timer has elapsed.
func (e *Engine) Tick(id string) {
	m, ok := e.monsters.Get(id)
	if !ok {
		return
	}
	var st step
	m.mu.Lock()
	e.tickLocked(m, &st)
	m.mu.Unlock()
	st.run()
}

func (e *Engine) tickLocked(m *Monster, st *step) {
	if m.inactive {
		return
	}
	if m.mode == ModeDead {
		e.resetLocked(m)
		return
	}
	loc := e.monsters.Location(m.ID)
	if loc == "" || !e.topo.RoomExists(loc) {
		e.logger.Debug("tick skipped, no location", zap.String("monster", m.ID))
		return
	}
	act, ok := behaviors[m.Template.Kind].actions[m.mode]
	if !ok {
		e.logger.Warn("no action for mode",
			zap.String("monster", m.ID),
			zap.Stringer("mode", m.mode),
		)
		return
	}
	act(e, m, loc, st)
}

// roam heals the monster, switches to battle when prey is present and
// otherwise wanders with the template's move chance.
func (e *Engine) roam(m *Monster, loc string, st *step) {
	m.health = m.FullHealth()
	if len(e.roster.EligibleInRoom(loc)) > 0 {
		e.setMode(m, ModeBattle)
		return
	}
	if !e.roller.Chance(m.Template.MoveChance) {
		return
	}
	dests := e.topo.MobDestinations(loc)
	if len(dests) == 0 {
		if m.home != loc {
			e.moveLocked(m, loc, m.home)
		}
		return
	}
	fresh := make([]string, 0, len(dests))
	for _, d := range dests {
		if d != m.lastLocation {
			fresh = append(fresh, d)
		}
	}
	if len(fresh) > 0 {
		dests = fresh
	}
	m.lastLocation = loc
	e.moveLocked(m, loc, dests[e.roller.Pick(len(dests))])
}

// attack strikes one eligible player, or hands over to pursue when the room is empty.
func (e *Engine) attack(m *Monster, loc string, st *step) {
	players := e.roster.EligibleInRoom(loc)
	if len(players) == 0 {
		e.setMode(m, ModePursue)
		return
	}
	target := e.chooseTarget(m, players)
	if e.strike(m, loc, target, st) {
		e.setMode(m, ModePursue)
	}
}

// pursue follows players into a neighboring room.
func (e *Engine) pursue(m *Monster, loc string, st *step) {
	if len(e.roster.EligibleInRoom(loc)) > 0 {
		e.setMode(m, ModeBattle)
		return
	}
	var found []string
	attackerRoom := ""
	for _, d := range e.topo.MobDestinations(loc) {
		players := e.roster.EligibleInRoom(d)
		if len(players) == 0 {
			continue
		}
		found = append(found, d)
		if attackerRoom == "" && contains(players, m.lastAttacker) {
			attackerRoom = d
		}
	}
	if len(found) == 0 {
		e.setMode(m, ModeRoam)
		return
	}
	dest := attackerRoom
	if dest == "" {
		dest = found[e.roller.Pick(len(found))]
	}
	m.lastLocation = loc
	e.moveLocked(m, loc, dest)
}

// haunt damages every eligible player in the room. Static monsters never move.
func (e *Engine) haunt(m *Monster, loc string, st *step) {
	for _, uid := range e.roster.EligibleInRoom(loc) {
		e.strike(m, loc, uid, st)
	}
}

// chooseTarget prefers the last attacker when present, otherwise picks at random.
//
// Precondition: len(candidates) > 0.
func (e *Engine) chooseTarget(m *Monster, candidates []string) string {
	if m.lastAttacker != "" && contains(candidates, m.lastAttacker) {
		return m.lastAttacker
	}
	return candidates[e.roller.Pick(len(candidates))]
}

func (e *Engine) setMode(m *Monster, mode Mode) {
	if m.mode == mode {
		return
	}
	e.logger.Debug("monster mode change",
		zap.String("monster", m.ID),
		zap.Stringer("from", m.mode),
		zap.Stringer("to", mode),
	)
	m.mode = mode
}

func (e *Engine) moveLocked(m *Monster, from, to string) {
	e.msg.Broadcast(from, fmt.Sprintf("%s drifts in the direction of %s.", m.Name(), e.topo.Title(to)))
	e.monsters.place(m.ID, to)
	e.msg.Broadcast(to, fmt.Sprintf("%s appears from the %s.", m.Name(), e.topo.Title(from)))
	e.logger.Debug("monster moved",
		zap.String("monster", m.ID),
		zap.String("from", from),
		zap.String("to", to),
	)
}

// Echo broadcasts one of the monster's irregular echoes into its room.
//
// Postcondition: Returns false for dead or detached monsters and monsters without echoes.
func (e *Engine) Echo(id string) bool {
	m, ok := e.monsters.Get(id)
	if !ok || len(m.Template.Echoes) == 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == ModeDead || m.inactive {
		return false
	}
	loc := e.monsters.Location(id)
	if loc == "" {
		return false
	}
	echoes := m.Template.Echoes
	e.msg.Broadcast(loc, echoes[e.roller.Pick(len(echoes))])
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
