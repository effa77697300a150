package gameserver

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/mudtrix/internal/game/session"
)

// say broadcasts speech to the speaker's room.
func (s *GameService) say(p *session.Player, message string) {
	message = trimArg(message)
	if message == "" {
		s.tell(p, "Say what?")
		return
	}
	s.tell(p, fmt.Sprintf("You say, \"%s\"", message))
	s.sessions.Broadcast(p.RoomID(), fmt.Sprintf("%s says, \"%s\"", p.Name, message), p.UID)
}

// emote broadcasts an action to everyone in the room, the actor included.
func (s *GameService) emote(p *session.Player, action string) {
	action = trimArg(action)
	if action == "" {
		s.tell(p, "Emote what?")
		return
	}
	s.sessions.Broadcast(p.RoomID(), fmt.Sprintf("%s %s", p.Name, action))
}

// who lists every connected player and where they are.
func (s *GameService) who(p *session.Player) {
	players := s.sessions.AllPlayers()
	var b strings.Builder
	fmt.Fprintf(&b, "{wPlayers online (%d):{n", len(players))
	for _, other := range players {
		fmt.Fprintf(&b, "\n  %-16s %s", other.Name, s.world.Title(other.RoomID()))
	}
	s.tell(p, b.String())
}
