package gameserver

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
	"github.com/cory-johannsen/mudtrix/internal/game/world"
	"github.com/cory-johannsen/mudtrix/internal/scripting"
)

// MonsterBridge receives combat outcomes from the monster engine and feeds
// them to players and zone scripts. It implements npc.Hooks.
type MonsterBridge struct {
	world     *world.Manager
	sessions  *session.Manager
	scripts   *scripting.Manager
	rooms     *RoomHooks
	templates map[string]*npc.Template
	logger    *zap.Logger
}

// NewMonsterBridge creates a MonsterBridge.
//
// Precondition: w, sessions, rooms and logger must be non-nil. A nil scripts
// disables the Lua defeat hook.
func NewMonsterBridge(w *world.Manager, sessions *session.Manager, scripts *scripting.Manager, rooms *RoomHooks, templates map[string]*npc.Template, logger *zap.Logger) *MonsterBridge {
	return &MonsterBridge{
		world:     w,
		sessions:  sessions,
		scripts:   scripts,
		rooms:     rooms,
		templates: templates,
		logger:    logger,
	}
}

// OnMonsterDefeated bumps the killer's kill counter and runs the
// on_monster_defeated hook of the zone the monster died in. Templates without
// a kill counter are counted under their ID.
func (b *MonsterBridge) OnMonsterDefeated(st npc.State, attackerUID string) {
	counter := st.TemplateID
	if tmpl, ok := b.templates[st.TemplateID]; ok && tmpl.KillCounter != "" {
		counter = tmpl.KillCounter
	}
	if _, err := b.sessions.Update(attackerUID, func(s *session.Stats) { s.Kills[counter]++ }); err != nil {
		b.logger.Debug("kill counter not updated", zap.String("uid", attackerUID), zap.Error(err))
	}
	if b.scripts == nil {
		return
	}
	room, ok := b.world.GetRoom(st.Location)
	if !ok {
		room, ok = b.world.GetRoom(st.Home)
	}
	if !ok {
		return
	}
	_, _ = b.scripts.CallHook(room.ZoneID, scripting.HookOnMonsterDefeated,
		lua.LString(st.ID), lua.LString(attackerUID))
}

// OnPlayerRelocated runs the destination room's hooks for a player carried
// off by a monster, and shows them where they woke up.
func (b *MonsterBridge) OnPlayerRelocated(uid, from, to string) {
	b.rooms.Enter(uid, from, to)
	b.sessions.Direct(uid, fmt.Sprintf("You wake up in {c%s{n.", b.world.Title(to)))
}

// BindScripts exposes players, rooms and monsters to the Lua engine.* modules.
func (b *MonsterBridge) BindScripts(monsters *npc.Manager) {
	if b.scripts == nil {
		return
	}
	b.scripts.GetPlayer = func(uid string) *scripting.PlayerInfo {
		p, ok := b.sessions.GetPlayer(uid)
		if !ok {
			return nil
		}
		s := p.Stats()
		return &scripting.PlayerInfo{
			UID:       p.UID,
			Name:      p.Name,
			Room:      p.RoomID(),
			House:     s.House,
			Health:    s.Health,
			HealthMax: s.HealthMax,
			Will:      s.Will,
			Score:     s.Score,
			Respawns:  s.Respawns,
		}
	}
	b.scripts.SetAttribute = b.setAttribute
	b.scripts.Tell = b.sessions.Direct
	b.scripts.Broadcast = func(roomID, msg string) { b.sessions.Broadcast(roomID, msg) }
	b.scripts.QueryRoom = func(roomID string) *scripting.RoomInfo {
		r, ok := b.world.GetRoom(roomID)
		if !ok {
			return nil
		}
		return &scripting.RoomInfo{ID: r.ID, Title: r.Title, Type: r.Type}
	}
	b.scripts.MonstersInRoom = func(roomID string) []scripting.MonsterInfo {
		var out []scripting.MonsterInfo
		for _, m := range monsters.InstancesInRoom(roomID) {
			out = append(out, scripting.MonsterInfo{
				ID:       m.ID,
				Template: m.Template.ID,
				Name:     m.Name(),
				Mode:     m.Mode().String(),
				Health:   m.Health(),
			})
		}
		return out
	}
}

// setAttribute lets scripts change the integer attributes of a player.
func (b *MonsterBridge) setAttribute(uid, name string, value int) error {
	var apply func(s *session.Stats)
	switch name {
	case session.AttrScore:
		apply = func(s *session.Stats) { s.Score = value }
	case session.AttrHealth:
		apply = func(s *session.Stats) { s.Health = min(value, s.HealthMax) }
	case session.AttrHealthMax:
		apply = func(s *session.Stats) { s.HealthMax = value }
	case session.AttrWill:
		apply = func(s *session.Stats) { s.Will = value }
	case session.AttrRespawns:
		apply = func(s *session.Stats) { s.Respawns = value }
	default:
		return fmt.Errorf("attribute %q cannot be set from scripts", name)
	}
	_, err := b.sessions.Update(uid, apply)
	return err
}
