package npc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/session"
)

const (
	defaultWeaponIneffective = "Your weapon just passes through your enemy, causing no effect!"
	winTail                  = "In a moment they pause their creepy motion. But you have a " +
		"feeling it is only temporarily weakened. " +
		"You fear it's only a matter of time before it comes into life somewhere again."
)

// Weapon describes whatever a player hits a monster with.
type Weapon struct {
	Name string
	// Magic weapons can harm monsters that require magic.
	Magic bool
}

// strike resolves one monster attack against one player.
//
// Postcondition: Returns true when the target was already beaten and has
// been sent through the defeat path instead of being damaged.
func (e *Engine) strike(m *Monster, loc, target string, st *step) bool {
	dmg := e.roller.Roll(m.Template.DamageExpr())
	defeated := false
	after, err := e.roster.Update(target, func(s *session.Stats) {
		if s.Health <= 0 {
			defeated = true
			return
		}
		drain(s, m.Template.Resource, dmg)
		s.Score -= m.Template.ScorePenalty
	})
	if err != nil {
		e.logger.Debug("attack target vanished",
			zap.String("monster", m.ID),
			zap.String("target", target),
			zap.Error(err),
		)
		return false
	}
	if defeated {
		e.defeat(m, loc, target, st)
		return true
	}

	verb := m.Template.AttackVerbs[e.roller.Pick(len(m.Template.AttackVerbs))]
	name, _ := e.roster.PlayerName(target)
	switch m.Template.Resource {
	case ResourceWill:
		e.msg.Direct(target, fmt.Sprintf("%s %s you! Your will weakens. (%d)", m.Name(), verb, dmg))
	default:
		e.msg.Direct(target, fmt.Sprintf("%s %s you! (%d damage)", m.Name(), verb, dmg))
	}
	e.msg.Broadcast(loc, fmt.Sprintf("%s %s %s!", m.Name(), verb, name), target)
	e.logger.Debug("monster attack",
		zap.String("monster", m.ID),
		zap.String("target", target),
		zap.Int("damage", dmg),
		zap.Int("target_health", after.Health),
		zap.Int("target_will", after.Will),
	)
	return false
}

// drain applies damage to the chosen resource. Will damage spills into
// health once will is exhausted.
func drain(s *session.Stats, res Resource, dmg int) {
	if res == ResourceWill {
		if s.Will >= dmg {
			s.Will -= dmg
			return
		}
		dmg -= s.Will
		s.Will = 0
	}
	s.Health -= dmg
}

// defeat tells the beaten player and the room, optionally carries the player
// to the defeat room, and respawns them.
func (e *Engine) defeat(m *Monster, loc, target string, st *step) {
	t := m.Template.Texts
	text := t.Defeat
	if text == "" {
		text = fmt.Sprintf("You feel your consciousness slip away ... you fall to the ground as %s envelops you ...\n", m.Name())
	}
	e.msg.Direct(target, text)

	name, _ := e.roster.PlayerName(target)
	dest := m.Template.DefeatRoom
	if dest == "" {
		dest = e.defeatRoom
	}
	relocate := dest != "" && dest != loc && e.topo.RoomExists(dest)

	room := t.DefeatRoom
	if room == "" {
		if relocate {
			room = fmt.Sprintf("\n%s envelops the fallen ... and then their body is suddenly gone!", m.Name())
		} else {
			room = fmt.Sprintf("%s falls to the ground!", name)
		}
	}
	e.msg.Broadcast(loc, room, target)

	if relocate {
		if from, err := e.roster.MovePlayer(target, dest); err == nil {
			st.later(func() { e.hooks.OnPlayerRelocated(target, from, dest) })
		}
	}
	if _, err := e.roster.Respawn(target); err != nil {
		e.logger.Debug("respawn failed", zap.String("target", target), zap.Error(err))
	}
	e.logger.Info("player defeated",
		zap.String("monster", m.ID),
		zap.String("player", target),
		zap.Bool("relocated", relocate),
	)
}

// AtHit applies a player's hit to a monster.
//
// Precondition: damage >= 0.
// Postcondition: Returns true only when this call killed the monster. Dead or
// detached monsters ignore the hit. Non-magic weapons never change health of
// a monster that requires magic. Health stays within [0, fullHealth].
func (e *Engine) AtHit(id string, w Weapon, attackerUID string, damage float64) bool {
	m, ok := e.monsters.Get(id)
	if !ok {
		return false
	}
	var st step
	m.mu.Lock()
	killed := e.atHitLocked(m, w, attackerUID, damage, &st)
	m.mu.Unlock()
	st.run()
	return killed
}

func (e *Engine) atHitLocked(m *Monster, w Weapon, attacker string, damage float64, st *step) bool {
	loc := e.monsters.Location(m.ID)
	if m.mode == ModeDead || loc == "" {
		return false
	}
	m.lastAttacker = attacker

	if m.Template.RequiresMagic && !w.Magic {
		text := m.Template.Texts.WeaponIneffective
		if text == "" {
			text = defaultWeaponIneffective
		}
		e.msg.Direct(attacker, text)
		return false
	}

	m.health -= damage
	if m.health <= 0 {
		e.kill(m, loc, attacker, st)
		return true
	}
	m.clampLocked()
	if m.Template.Kind == KindMobile {
		e.setMode(m, ModeBattle)
	}
	e.msg.Broadcast(loc, fmt.Sprintf("%s wails, shudders and writhes.", m.Name()))
	e.logger.Debug("monster hit",
		zap.String("monster", m.ID),
		zap.String("attacker", attacker),
		zap.String("weapon", w.Name),
		zap.Float64("damage", damage),
		zap.Float64("health", m.health),
	)
	return false
}

func (e *Engine) kill(m *Monster, loc, attacker string, st *step) {
	name, _ := e.roster.PlayerName(attacker)
	t := m.Template.Texts

	text := t.Win
	if text == "" {
		text = fmt.Sprintf("After your last hit, %s fold in on itself. %s", m.Name(), winTail)
	}
	e.msg.Direct(attacker, text)
	room := t.WinRoom
	if room == "" {
		room = fmt.Sprintf("After %s's last hit, %s fold in on itself. %s", name, m.Name(), winTail)
	}
	e.msg.Broadcast(loc, room, attacker)

	m.deadAt = e.now()
	m.health = 0
	m.mode = ModeDead
	// Snapshot before detaching so Location names the room of the kill.
	snap := e.monsters.snapshotLocked(m)
	e.monsters.detach(m.ID)

	st.later(func() { e.hooks.OnMonsterDefeated(snap, attacker) })
	e.logger.Info("monster defeated",
		zap.String("monster", m.ID),
		zap.String("attacker", attacker),
		zap.String("room", loc),
	)
}

// Reset respawns a dead monster at home once its dead timer has elapsed.
//
// Postcondition: Returns true iff the monster was respawned. Monsters that are
// not dead, or whose timer has not run out, are left unchanged.
func (e *Engine) Reset(id string) bool {
	m, ok := e.monsters.Get(id)
	if !ok {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return e.resetLocked(m)
}

func (e *Engine) resetLocked(m *Monster) bool {
	if m.mode != ModeDead {
		return false
	}
	if e.now().Sub(m.deadAt) < m.Template.DeadTimerDuration() {
		return false
	}
	m.health = m.FullHealth()
	m.mode = m.Template.InitialMode()
	m.lastAttacker = ""
	m.lastLocation = ""
	e.monsters.place(m.ID, m.home)

	text := m.Template.Texts.Respawn
	if text == "" {
		text = fmt.Sprintf("%s fades into existence from out of thin air. It's looking pissed.", m.Name())
	}
	e.msg.Broadcast(m.home, text)
	e.logger.Info("monster respawned", zap.String("monster", m.ID), zap.String("home", m.home))
	return true
}
