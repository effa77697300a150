// Package gameserver runs the game in one process: it joins players into the
// world, routes their commands to handlers and connects the monster engine to
// rooms, players and zone scripts.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/attr"
	"github.com/cory-johannsen/mudtrix/internal/game/command"
	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
	"github.com/cory-johannsen/mudtrix/internal/game/spell"
	"github.com/cory-johannsen/mudtrix/internal/game/world"
)

// AttrLocation stores the room a player was in when they left.
const AttrLocation = "location"

// UnknownCommandText is shown for input that resolves to no command.
const UnknownCommandText = "Unknown command: %q. Type 'help' for a list of commands."

// Deps bundles the collaborators of a GameService.
type Deps struct {
	World    *world.Manager
	Sessions *session.Manager
	Engine   *npc.Engine
	Caster   *spell.Caster
	Book     *spell.Book
	Commands *command.Registry
	Rooms    *RoomHooks
	// Store persists player attributes between sessions.
	Store  attr.Store
	Roller *dice.Roller
	Logger *zap.Logger
}

// GameService owns the command loop of every connected player.
//
// All methods are safe for concurrent use. Commands from one player are
// expected to arrive sequentially from that player's connection.
type GameService struct {
	world    *world.Manager
	sessions *session.Manager
	engine   *npc.Engine
	caster   *spell.Caster
	book     *spell.Book
	commands *command.Registry
	rooms    *RoomHooks
	store    attr.Store
	roller   *dice.Roller
	logger   *zap.Logger
}

// NewGameService creates a GameService.
//
// Precondition: every field of d must be non-nil.
func NewGameService(d Deps) *GameService {
	return &GameService{
		world:    d.World,
		sessions: d.Sessions,
		engine:   d.Engine,
		caster:   d.Caster,
		book:     d.Book,
		commands: d.Commands,
		rooms:    d.Rooms,
		store:    d.Store,
		roller:   d.Roller,
		logger:   d.Logger,
	}
}

// JoinRequest describes an authenticated character entering the game.
type JoinRequest struct {
	// UID keys the character's persisted attributes.
	UID       string
	Name      string
	AccountID int64
	Superuser bool
	Builder   bool
}

// Join loads the character's attributes, places them in their last room (or
// the start room) and runs that room's entry hooks.
//
// Precondition: the world must declare a start room.
// Postcondition: Returns the connected Player, or an error if the UID is
// already in the game or its attributes cannot be read.
func (s *GameService) Join(ctx context.Context, req JoinRequest) (*session.Player, error) {
	stats, found, err := session.LoadStats(ctx, s.store, req.UID)
	if err != nil {
		return nil, fmt.Errorf("joining %s: %w", req.Name, err)
	}

	roomID := s.resumeRoom(ctx, req.UID)
	p, err := s.sessions.AddPlayer(req.UID, req.Name, req.AccountID, roomID, req.Superuser, stats)
	if err != nil {
		return nil, fmt.Errorf("joining %s: %w", req.Name, err)
	}
	p.Builder = req.Builder

	s.logger.Info("player joined",
		zap.String("uid", req.UID),
		zap.String("name", req.Name),
		zap.String("room", roomID),
		zap.Bool("returning", found),
	)
	s.sessions.Broadcast(roomID, fmt.Sprintf("%s has entered the game.", req.Name), req.UID)
	s.rooms.Enter(req.UID, "", roomID)
	s.look(p)
	return p, nil
}

func (s *GameService) resumeRoom(ctx context.Context, uid string) string {
	start := s.world.StartRoom()
	if start == nil {
		return ""
	}
	loc, err := s.store.Get(ctx, uid, AttrLocation)
	if err != nil {
		if !errors.Is(err, attr.ErrNotFound) {
			s.logger.Warn("reading location", zap.String("uid", uid), zap.Error(err))
		}
		return start.ID
	}
	if !s.world.RoomExists(loc) {
		return start.ID
	}
	return loc
}

// Leave removes the player and saves their attributes and location.
//
// Postcondition: The player is disconnected even when saving fails; the save
// error is returned.
func (s *GameService) Leave(ctx context.Context, uid string) error {
	p, ok := s.sessions.GetPlayer(uid)
	if !ok {
		return fmt.Errorf("%w: %q", session.ErrPlayerNotFound, uid)
	}
	roomID := p.RoomID()
	stats, err := s.sessions.RemovePlayer(uid)
	if err != nil {
		return err
	}
	s.sessions.Broadcast(roomID, fmt.Sprintf("%s has left the game.", p.Name))

	if err := session.SaveStats(ctx, s.store, uid, stats); err != nil {
		return fmt.Errorf("saving %s: %w", p.Name, err)
	}
	if err := s.store.Set(ctx, uid, AttrLocation, roomID); err != nil {
		return fmt.Errorf("saving %s location: %w", p.Name, err)
	}
	s.logger.Info("player left",
		zap.String("uid", uid),
		zap.String("room", roomID),
		zap.Int("score", stats.Score),
	)
	return nil
}

// Dispatch runs one line of player input.
//
// Postcondition: Returns true when the player asked to quit. Failures are
// reported to the player, never to the caller.
func (s *GameService) Dispatch(uid, line string) (quit bool) {
	p, ok := s.sessions.GetPlayer(uid)
	if !ok {
		return true
	}
	parsed := command.Parse(line)
	if parsed.Command == "" {
		return false
	}

	cmd, ok := s.commands.Resolve(parsed.Command)
	if !ok || (cmd.Superuser && !p.Superuser) {
		s.tell(p, fmt.Sprintf(UnknownCommandText, parsed.Command))
		return false
	}
	s.logger.Debug("dispatch",
		zap.String("uid", uid),
		zap.String("command", cmd.Name),
		zap.String("args", parsed.RawArgs),
	)

	switch cmd.Handler {
	case command.HandlerMove:
		s.move(p, world.ParseDirection(cmd.Name))
	case command.HandlerLook:
		s.look(p)
	case command.HandlerExits:
		s.exits(p)
	case command.HandlerSay:
		s.say(p, parsed.RawArgs)
	case command.HandlerEmote:
		s.emote(p, parsed.RawArgs)
	case command.HandlerWho:
		s.who(p)
	case command.HandlerHelp:
		s.help(p)
	case command.HandlerScore:
		s.score(p, parsed.RawArgs)
	case command.HandlerHouse:
		s.house(p, parsed.RawArgs)
	case command.HandlerStatus:
		s.status(p)
	case command.HandlerRemind:
		s.remind(p, parsed.RawArgs)
	case command.HandlerCast:
		s.cast(p, line)
	case command.HandlerHit:
		s.hit(p, parsed.RawArgs)
	case command.HandlerGet:
		s.getWand(p, parsed.RawArgs)
	case command.HandlerDrop:
		s.dropWand(p, parsed.RawArgs)
	case command.HandlerTeleport:
		s.teleport(p, parsed.RawArgs)
	case command.HandlerQuit:
		s.tell(p, "Goodbye.")
		return true
	default:
		s.logger.Warn("command has no handler",
			zap.String("command", cmd.Name),
			zap.String("handler", cmd.Handler),
		)
		s.tell(p, fmt.Sprintf(UnknownCommandText, parsed.Command))
	}
	return false
}

func (s *GameService) tell(p *session.Player, text string) {
	s.sessions.Direct(p.UID, text)
}

// relocate moves a player, tells both rooms and runs the entry hooks.
func (s *GameService) relocate(p *session.Player, to, leaveText, arriveText string) error {
	from, err := s.sessions.MovePlayer(p.UID, to)
	if err != nil {
		return err
	}
	if leaveText != "" {
		s.sessions.Broadcast(from, leaveText, p.UID)
	}
	if arriveText != "" {
		s.sessions.Broadcast(to, arriveText, p.UID)
	}
	s.rooms.Enter(p.UID, from, to)
	return nil
}

func trimArg(raw string) string {
	return strings.TrimSpace(raw)
}
