package gameserver

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/command"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
)

// Player-facing texts of the character commands.
const (
	ScoreUsage      = "Usage: score <player> [= <value>]"
	ScoreNotInteger = "The value entered is not an integer"
	RemindUsage     = "Usage: remind <number>      ; number refers to the section of the puzzles."
	RemindInvalid   = "Please enter a valid serial number of the puzzle you want to remind yourself."
	NoStatusText    = "{rNo health, will or score attributes. Contact your administrator.{n"
)

// Puzzles are the riddles that hint at the spells, numbered from 1.
var Puzzles = []string{
	"Eight legs that skitter, a web across the way.\nTwo words will blast them back, the first you'd spin to say.",
	"A chill upon the stairs, all happiness drained dry.\nCall up your guardian, let its silver light fly.",
	"What frightens you the most is the shape the wardrobe wears.\nLaugh at it out loud and it trips upon the stairs.",
}

var helpCategories = []struct {
	name  string
	label string
}{
	{command.CategoryMovement, "Movement"},
	{command.CategoryWorld, "World"},
	{command.CategoryCharacter, "Character"},
	{command.CategorySpells, "Spells"},
	{command.CategoryCombat, "Combat"},
	{command.CategoryCommunication, "Communication"},
	{command.CategorySystem, "System"},
	{command.CategoryAdmin, "Admin"},
}

// help lists the commands the player may use, grouped by category.
func (s *GameService) help(p *session.Player) {
	var b strings.Builder
	b.WriteString("{WAvailable commands:{n")
	byCategory := s.commands.CommandsByCategory(p.Superuser)
	for _, cat := range helpCategories {
		cmds := byCategory[cat.name]
		if len(cmds) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n  {Y%s:{n", cat.label)
		for _, cmd := range cmds {
			aliases := ""
			if len(cmd.Aliases) > 0 {
				aliases = " (" + strings.Join(cmd.Aliases, ", ") + ")"
			}
			fmt.Fprintf(&b, "\n    {g%-12s{n%s - %s", cmd.Name, aliases, cmd.Help)
		}
	}
	s.tell(p, b.String())
}

// score shows, sets or adds to a player's score. Only builders and
// superusers may change a score.
func (s *GameService) score(p *session.Player, raw string) {
	args := command.ParseScore(raw)
	if args.Player == "" {
		s.tell(p, ScoreUsage)
		return
	}
	target, ok := s.sessions.FindByName(args.Player)
	if !ok {
		target, ok = s.sessions.FindInRoom(p.RoomID(), args.Player)
	}
	if !ok {
		s.tell(p, fmt.Sprintf("Could not find '%s'.", args.Player))
		return
	}

	if args.Op == command.ScoreShow {
		s.tell(p, fmt.Sprintf("The current score of %s is %d", target.Name, target.Stats().Score))
		return
	}
	if !p.Builder && !p.Superuser {
		s.tell(p, "You are not allowed to change scores.")
		return
	}
	if !args.Valid {
		s.tell(p, ScoreNotInteger)
		return
	}

	switch args.Op {
	case command.ScoreSet:
		if _, err := s.sessions.Update(target.UID, func(st *session.Stats) { st.Score = args.Value }); err != nil {
			s.tell(p, fmt.Sprintf("Could not find '%s'.", args.Player))
			return
		}
		s.tell(p, fmt.Sprintf("Set score of %s to %s", target.Name, args.Raw))
	case command.ScoreAdd:
		if _, err := s.sessions.Update(target.UID, func(st *session.Stats) { st.Score += args.Value }); err != nil {
			s.tell(p, fmt.Sprintf("Could not find '%s'.", args.Player))
			return
		}
		s.tell(p, fmt.Sprintf("Added %s to current score of %s.", args.Raw, target.Name))
	}
	s.logger.Info("score changed",
		zap.String("by", p.UID),
		zap.String("target", target.UID),
		zap.String("value", args.Raw),
	)
}

// house reveals the house of a player in the room, or the caller's own.
func (s *GameService) house(p *session.Player, raw string) {
	target := p
	if name := trimArg(raw); name != "" {
		found, ok := s.sessions.FindInRoom(p.RoomID(), name)
		if !ok {
			s.tell(p, fmt.Sprintf("Could not find '%s'.", name))
			return
		}
		target = found
	}
	s.tell(p, fmt.Sprintf("{c%s{n's house is {y%s{n.", target.Name, target.Stats().House))
}

// status prints the caller's non-zero health, will and score.
func (s *GameService) status(p *session.Player) {
	st := p.Stats()
	if st.Health == 0 && st.Will == 0 && st.Score == 0 {
		s.tell(p, NoStatusText)
		return
	}
	lines := []string{"{gYour Status:\n"}
	if st.Health != 0 {
		lines = append(lines, fmt.Sprintf("{wHealth : {y%d{n", st.Health))
	}
	if st.Will != 0 {
		lines = append(lines, fmt.Sprintf("{wWill   : {y%d{n", st.Will))
	}
	if st.Score != 0 {
		lines = append(lines, fmt.Sprintf("{wScore  : {y%d{n", st.Score))
	}
	s.tell(p, strings.Join(lines, "\n"))
}

// remind repeats one of the spell puzzles.
func (s *GameService) remind(p *session.Player, raw string) {
	arg := trimArg(raw)
	if arg == "" {
		s.tell(p, RemindUsage)
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(Puzzles) {
		s.tell(p, RemindInvalid)
		return
	}
	s.tell(p, fmt.Sprintf("{cPuzzle(%d){n\n%s", n, Puzzles[n-1]))
}
