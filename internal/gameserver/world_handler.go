package gameserver

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/session"
	"github.com/cory-johannsen/mudtrix/internal/game/world"
)

// move walks the player through an exit of their room.
func (s *GameService) move(p *session.Player, dir world.Direction) {
	from := p.RoomID()
	dest, err := s.world.Navigate(from, dir)
	if err != nil {
		s.tell(p, "You can't go that way.")
		s.logger.Debug("move refused",
			zap.String("uid", p.UID),
			zap.String("direction", string(dir)),
			zap.Error(err),
		)
		return
	}
	err = s.relocate(p, dest.ID,
		fmt.Sprintf("%s leaves %s.", p.Name, dir),
		fmt.Sprintf("%s arrives.", p.Name),
	)
	if err != nil {
		s.tell(p, "You can't go that way.")
		return
	}
	s.look(p)
}

// look shows the player's current room.
func (s *GameService) look(p *session.Player) {
	room, ok := s.world.GetRoom(p.RoomID())
	if !ok {
		s.tell(p, "You are nowhere.")
		return
	}
	s.tell(p, s.renderRoom(p.UID, room))
}

// renderRoom formats a room as seen by uid.
//
// Postcondition: The viewer is never listed among the players present.
func (s *GameService) renderRoom(uid string, room *world.Room) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{c%s{n\n%s", room.Title, room.Description)

	if exits := room.VisibleExits(); len(exits) > 0 {
		dirs := make([]string, 0, len(exits))
		for _, e := range exits {
			dirs = append(dirs, string(e.Direction))
		}
		fmt.Fprintf(&b, "\n{wExits:{n %s", strings.Join(dirs, ", "))
	}

	if monsters := s.engine.Monsters().InstancesInRoom(room.ID); len(monsters) > 0 {
		names := make([]string, 0, len(monsters))
		for _, m := range monsters {
			names = append(names, m.Name())
		}
		fmt.Fprintf(&b, "\n{wYou see:{n {r%s{n", strings.Join(names, ", "))
	}

	var others []string
	for _, id := range s.sessions.PlayerUIDsInRoom(room.ID) {
		if id == uid {
			continue
		}
		if name, ok := s.sessions.PlayerName(id); ok {
			others = append(others, name)
		}
	}
	if len(others) > 0 {
		fmt.Fprintf(&b, "\n{wAlso here:{n %s", strings.Join(others, ", "))
	}
	return b.String()
}

// exits lists every visible exit with its destination.
func (s *GameService) exits(p *session.Player) {
	room, ok := s.world.GetRoom(p.RoomID())
	if !ok {
		s.tell(p, "You are nowhere.")
		return
	}
	exits := room.VisibleExits()
	if len(exits) == 0 {
		s.tell(p, "There are no obvious exits.")
		return
	}
	var b strings.Builder
	b.WriteString("{wObvious exits:{n")
	for _, e := range exits {
		fmt.Fprintf(&b, "\n  %-10s - %s", e.Direction, s.world.Title(e.TargetRoom))
		if e.Locked {
			b.WriteString(" (locked)")
		}
	}
	s.tell(p, b.String())
}

// teleport moves a superuser straight to a room by ID.
func (s *GameService) teleport(p *session.Player, raw string) {
	target := trimArg(raw)
	if target == "" {
		s.tell(p, "Usage: teleport <room>")
		return
	}
	if !s.world.RoomExists(target) {
		s.tell(p, fmt.Sprintf("No room %q exists.", target))
		return
	}
	err := s.relocate(p, target,
		fmt.Sprintf("%s vanishes in a puff of smoke.", p.Name),
		fmt.Sprintf("%s appears in a puff of smoke.", p.Name),
	)
	if err != nil {
		s.tell(p, "The teleport fizzles.")
		return
	}
	s.logger.Info("teleport", zap.String("uid", p.UID), zap.String("room", target))
	s.look(p)
}
