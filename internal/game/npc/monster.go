package npc

import (
	"sync"
	"time"
)

// Monster is one live monster. All fields are guarded by mu; the engine holds
// mu for the whole of a tick or hit so a monster never sees two interleaved
// mutations.
//
// A Monster's room is owned by the Manager, not the Monster.
type Monster struct {
	ID       string
	Template *Template

	mu           sync.Mutex
	health       float64
	mode         Mode
	lastAttacker string
	deadAt       time.Time
	inactive     bool
	home         string
	lastLocation string
	interval     time.Duration
}

func newMonster(id string, tmpl *Template, home string, interval time.Duration) *Monster {
	return &Monster{
		ID:       id,
		Template: tmpl,
		health:   float64(tmpl.FullHealth),
		mode:     tmpl.InitialMode(),
		inactive: true,
		home:     home,
		interval: interval,
	}
}

// Name returns the display name from the template.
func (m *Monster) Name() string { return m.Template.Name }

// Health returns current hit points.
func (m *Monster) Health() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.health
}

// FullHealth returns maximum hit points.
func (m *Monster) FullHealth() float64 { return float64(m.Template.FullHealth) }

// Mode returns the current behavior mode.
func (m *Monster) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// LastAttacker returns the UID of the player who last hit the monster.
func (m *Monster) LastAttacker() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAttacker
}

// DeadAt returns when the monster last died. Meaningful only in ModeDead.
func (m *Monster) DeadAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deadAt
}

// Home returns the respawn room.
func (m *Monster) Home() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.home
}

// Interval returns the attack timer period chosen at spawn.
func (m *Monster) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// Inactive reports whether timer ticks are suppressed.
func (m *Monster) Inactive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inactive
}

// SetInactive toggles timer suppression.
func (m *Monster) SetInactive(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inactive = v
}

// clampLocked keeps health inside [0, fullHealth].
func (m *Monster) clampLocked() {
	full := m.FullHealth()
	if m.health > full {
		m.health = full
	}
	if m.health < 0 {
		m.health = 0
	}
}
