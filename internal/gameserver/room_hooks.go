package gameserver

import (
	"context"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/attr"
	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
	"github.com/cory-johannsen/mudtrix/internal/game/world"
	"github.com/cory-johannsen/mudtrix/internal/scripting"
)

// WeatherSkip is the highest weather draw that still produces an echo. Draws
// run from 0 to WeatherDraw inclusive.
const (
	WeatherDraw = 15
	WeatherSkip = 10
)

// DefaultWeatherEchoes are used by weather rooms that define no echoes.
var DefaultWeatherEchoes = []string{
	"The rain coming down from the iron-grey sky intensifies.",
	"A gush of wind throws the rain right in your face. Despite your cloak you shiver.",
	"The rainfall eases a bit and the sky momentarily brightens.",
	"For a moment it looks like the rain is slowing, then it begins anew with renewed force.",
	"The rain pummels you with large, heavy drops. You hear the rumble of thunder in the distance.",
	"The wind is picking up, howling around you, throwing water droplets in your face. It's cold.",
	"Bright fingers of lightning flash over the sky, moments later followed by a deafening rumble.",
	"It rains so hard you can hardly see your hand in front of you. You'll soon be drenched to the bone.",
	"Lightning strikes in several thundering bolts, striking the trees in the forest to your west.",
	"You hear the distant howl of what sounds like some sort of dog or wolf.",
	"Large clouds rush across the sky, throwing their load of rain over the world.",
}

// WandRackText greets wandless players entering a wand rack room.
const WandRackText = "A rack of wands stands against the wall. Type 'get wand' to take one."

// SuperuserWarning returns the banner shown to superusers in intro rooms.
func SuperuserWarning(name string) string {
	rule := strings.Repeat("-", 78)
	return fmt.Sprintf("{r%s\nWARNING: YOU ARE PLAYING AS A SUPERUSER (%s). TO EXPLORE NORMALLY YOU NEED "+
		"\nTO CREATE AND LOG IN AS A REGULAR USER INSTEAD. IF YOU CONTINUE, KNOW THAT "+
		"\nMANY FUNCTIONS AND PUZZLES WILL IGNORE THE PRESENCE OF A SUPERUSER.\n%s{n", rule, name, rule)
}

// RoomHooks runs room behavior when a player arrives: the built-in intro,
// outro and wand rack rooms first, then the zone's Lua on_enter hook.
type RoomHooks struct {
	world    *world.Manager
	sessions *session.Manager
	scripts  *scripting.Manager
	store    attr.Store
	roller   *dice.Roller
	logger   *zap.Logger
}

// NewRoomHooks creates RoomHooks.
//
// Precondition: all arguments except scripts must be non-nil. A nil scripts
// disables Lua hooks.
func NewRoomHooks(w *world.Manager, sessions *session.Manager, scripts *scripting.Manager, store attr.Store, roller *dice.Roller, logger *zap.Logger) *RoomHooks {
	return &RoomHooks{
		world:    w,
		sessions: sessions,
		scripts:  scripts,
		store:    store,
		roller:   roller,
		logger:   logger,
	}
}

// Enter runs the hooks of room to for a player arriving from room from.
// from is empty when the player has just joined.
func (h *RoomHooks) Enter(uid, from, to string) {
	room, ok := h.world.GetRoom(to)
	if !ok {
		return
	}
	switch room.Type {
	case world.RoomTypeIntro:
		h.intro(uid, room)
	case world.RoomTypeOutro:
		h.outro(uid)
	case world.RoomTypeWandRack:
		if p, ok := h.sessions.GetPlayer(uid); ok && !p.Stats().HasWand {
			h.sessions.Direct(uid, WandRackText)
		}
	}
	if h.scripts != nil {
		_, _ = h.scripts.CallHook(room.ZoneID, scripting.HookOnEnter,
			lua.LString(to), lua.LString(uid), lua.LString(from))
	}
}

// intro grants the room's character health and sorts house-less players.
func (h *RoomHooks) intro(uid string, room *world.Room) {
	p, ok := h.sessions.GetPlayer(uid)
	if !ok {
		return
	}
	health := room.CharHealth()
	_, err := h.sessions.Update(uid, func(s *session.Stats) {
		s.Health = health
		s.HealthMax = health
		if s.House == "" {
			s.House = session.Houses[h.roller.Pick(len(session.Houses))]
		}
	})
	if err != nil {
		return
	}
	if p.Superuser {
		h.sessions.Direct(uid, SuperuserWarning(p.Name))
	}
	h.logger.Debug("intro room",
		zap.String("uid", uid),
		zap.String("room", room.ID),
		zap.Int("health", health),
	)
}

// outro strips the game attributes so the next intro grants fresh ones.
func (h *RoomHooks) outro(uid string) {
	hadWand := false
	_, err := h.sessions.Update(uid, func(s *session.Stats) {
		hadWand = s.HasWand
		s.Health = 0
		s.HealthMax = 0
		s.HasWand = false
	})
	if err != nil {
		return
	}
	if hadWand {
		h.sessions.Direct(uid, fmt.Sprintf(WandFadeText, "Your wand"))
	}
	if err := session.ClearCombatAttributes(context.Background(), h.store, uid); err != nil {
		h.logger.Warn("clearing combat attributes", zap.String("uid", uid), zap.Error(err))
	}
}

// Weather broadcasts one weather echo into a weather room. Roughly a third of
// the calls stay silent.
//
// Postcondition: Returns true iff an echo was sent.
func (h *RoomHooks) Weather(room *world.Room) bool {
	echoes := room.Echoes
	if len(echoes) == 0 {
		echoes = DefaultWeatherEchoes
	}
	n := h.roller.Between(0, WeatherDraw)
	if n > WeatherSkip {
		return false
	}
	h.sessions.Broadcast(room.ID, fmt.Sprintf("{w%s{n", echoes[n%len(echoes)]))
	return true
}
