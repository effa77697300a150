package gameserver

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
	"github.com/cory-johannsen/mudtrix/internal/game/spell"
	"github.com/cory-johannsen/mudtrix/internal/game/world"
)

// Bare-handed attacks deal HitDamage and never count as magic.
const HitDamage = 1.0

// WandFadeText is shown when a wand leaves a player, %s is the wand name.
const WandFadeText = "%s suddenly and magically fades into nothingness, as if it was never there ..."

var fists = npc.Weapon{Name: "fists", Magic: false}

// cast resolves a spell command. line is the full input so multi-word
// incantations resolve to their spell.
func (s *GameService) cast(p *session.Player, line string) {
	sp, ok := s.book.Lookup(line)
	if !ok {
		s.tell(p, "You mumble, but no spell answers.")
		return
	}
	outcome, err := s.caster.Cast(p.UID, p.RoomID(), sp)
	if err != nil {
		if !errors.Is(err, spell.ErrNoWand) {
			s.logger.Warn("cast failed", zap.String("uid", p.UID), zap.String("spell", sp.Name), zap.Error(err))
		}
		return
	}
	s.logger.Debug("cast",
		zap.String("uid", p.UID),
		zap.String("spell", sp.Name),
		zap.Int("outcome", int(outcome)),
	)
}

// hit strikes a monster in the room with bare hands.
func (s *GameService) hit(p *session.Player, raw string) {
	name := trimArg(raw)
	if name == "" {
		s.tell(p, "Hit what?")
		return
	}
	m, ok := s.engine.Monsters().FindInRoom(p.RoomID(), name)
	if !ok {
		s.tell(p, fmt.Sprintf("You don't see '%s' here.", name))
		return
	}
	s.tell(p, fmt.Sprintf("You swing your fists at %s.", m.Name()))
	s.sessions.Broadcast(p.RoomID(), fmt.Sprintf("%s swings at %s.", p.Name, m.Name()), p.UID)
	if s.engine.AtHit(m.ID, fists, p.UID, HitDamage) {
		if _, err := s.sessions.Update(p.UID, func(st *session.Stats) { st.Score += spell.KillBonus }); err != nil {
			s.logger.Debug("kill bonus failed", zap.String("uid", p.UID), zap.Error(err))
		}
	}
}

func wandArg(raw string) bool {
	arg := strings.ToLower(trimArg(raw))
	return arg == "" || arg == "wand"
}

// getWand takes a wand from a wand rack.
func (s *GameService) getWand(p *session.Player, raw string) {
	if !wandArg(raw) {
		s.tell(p, fmt.Sprintf("You can't take '%s'.", trimArg(raw)))
		return
	}
	room, ok := s.world.GetRoom(p.RoomID())
	if !ok || room.Type != world.RoomTypeWandRack {
		s.tell(p, "There is no wand here to take.")
		return
	}
	had := false
	if _, err := s.sessions.Update(p.UID, func(st *session.Stats) {
		had = st.HasWand
		st.HasWand = true
	}); err != nil {
		return
	}
	if had {
		s.tell(p, "You already carry a wand.")
		return
	}
	s.tell(p, "You take a wand from the rack. It hums faintly in your hand.")
	s.sessions.Broadcast(room.ID, fmt.Sprintf("%s takes a wand from the rack.", p.Name), p.UID)
}

// dropWand gives up the player's wand, which vanishes.
func (s *GameService) dropWand(p *session.Player, raw string) {
	if !wandArg(raw) {
		s.tell(p, fmt.Sprintf("You don't carry '%s'.", trimArg(raw)))
		return
	}
	had := false
	if _, err := s.sessions.Update(p.UID, func(st *session.Stats) {
		had = st.HasWand
		st.HasWand = false
	}); err != nil {
		return
	}
	if !had {
		s.tell(p, "You don't carry a wand.")
		return
	}
	s.sessions.Broadcast(p.RoomID(), fmt.Sprintf(WandFadeText, "The wand"))
}
