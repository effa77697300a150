package spell

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
)

// Score awarded for casting. Failing still counts as practice.
const (
	SuccessScore = 2
	FailScore    = 1
	KillBonus    = 10
)

// NoWandText is shown to players who try to cast without a wand.
const NoWandText = "You need a wand to cast spells."

// ErrNoWand is returned when the caster carries no wand.
var ErrNoWand = errors.New("caster has no wand")

// Outcome reports what a cast achieved.
type Outcome int

const (
	Fizzled Outcome = iota
	// Cast means the spell worked but hit nothing.
	Cast
	Hit
	Killed
)

// Players is the caster's view of player attributes.
type Players interface {
	Update(uid string, fn func(s *session.Stats)) (session.Stats, error)
	PlayerName(uid string) (string, bool)
}

// Messenger delivers spell text.
type Messenger interface {
	Direct(uid, text string)
	Broadcast(roomID, text string, exclude ...string)
}

// Monsters finds spell targets near the caster.
type Monsters interface {
	FindInRoom(roomID, prefix string) (*npc.Monster, bool)
}

// Combat applies hits to monsters.
type Combat interface {
	AtHit(id string, w npc.Weapon, attackerUID string, damage float64) bool
}

// Caster resolves spells for players.
type Caster struct {
	players  Players
	msg      Messenger
	monsters Monsters
	combat   Combat
	roller   *dice.Roller
	wand     Wand
	logger   *zap.Logger
}

// NewCaster creates a Caster whose players all use wand.
//
// Precondition: all arguments must be non-nil.
func NewCaster(players Players, msg Messenger, monsters Monsters, combat Combat, roller *dice.Roller, wand Wand, logger *zap.Logger) *Caster {
	return &Caster{
		players:  players,
		msg:      msg,
		monsters: monsters,
		combat:   combat,
		roller:   roller,
		wand:     wand,
		logger:   logger,
	}
}

// Wand returns the wand spells are cast through.
func (c *Caster) Wand() Wand { return c.wand }

// Cast lets uid, standing in roomID, attempt sp.
//
// Precondition: sp must be non-nil.
// Postcondition: Returns ErrNoWand without drawing when the player holds no
// wand. Otherwise one uniform draw decides success; score rises either way.
// A missing target is not an error.
func (c *Caster) Cast(uid, roomID string, sp *Spell) (Outcome, error) {
	var hasWand bool
	if _, err := c.players.Update(uid, func(s *session.Stats) { hasWand = s.HasWand }); err != nil {
		return Fizzled, fmt.Errorf("casting %s: %w", sp.Name, err)
	}
	if !hasWand {
		c.msg.Direct(uid, NoWandText)
		return Fizzled, ErrNoWand
	}

	if !c.roller.Chance(sp.Chance(c.wand)) {
		c.msg.Direct(uid, sp.Fail)
		c.addScore(uid, FailScore)
		c.logger.Debug("spell fizzled", zap.String("player", uid), zap.String("spell", sp.Name))
		return Fizzled, nil
	}

	name, _ := c.players.PlayerName(uid)
	c.msg.Direct(uid, sp.Caster)
	c.msg.Broadcast(roomID, fmt.Sprintf(sp.Room, name), uid)
	c.addScore(uid, SuccessScore)

	if sp.Target == "" {
		return Cast, nil
	}
	target, ok := c.monsters.FindInRoom(roomID, sp.Target)
	if !ok {
		return Cast, nil
	}
	weapon := npc.Weapon{Name: c.wand.Name, Magic: c.wand.Magic}
	if c.combat.AtHit(target.ID, weapon, uid, sp.Damage) {
		c.addScore(uid, KillBonus)
		c.logger.Info("spell killed monster",
			zap.String("player", uid),
			zap.String("spell", sp.Name),
			zap.String("monster", target.ID),
		)
		return Killed, nil
	}
	return Hit, nil
}

func (c *Caster) addScore(uid string, n int) {
	if _, err := c.players.Update(uid, func(s *session.Stats) { s.Score += n }); err != nil {
		c.logger.Debug("score update failed", zap.String("player", uid), zap.Error(err))
	}
}
