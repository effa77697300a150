package session

import (
	"sync"
)

// Character defaults for freshly created players.
const (
	DefaultHealthMax    = 100
	DefaultWill         = 100
	RespawnScorePenalty = 50
	RespawnMessage      = "You lost a life and respawn with all your default powers"
)

// Houses a new player may be sorted into.
var Houses = []string{"Gryffindor", "Hufflepuff", "Ravenclaw", "Slytherin"}

// Stats holds the combat-relevant attributes of a player.
type Stats struct {
	Health    int
	HealthMax int
	Will      int
	Score     int
	Respawns  int
	House     string
	// Kills counts defeated monsters keyed by kill counter name.
	Kills map[string]int
	// HasWand reports whether the player carries a wand.
	HasWand bool
}

// NewStats returns the attributes of a freshly created character.
func NewStats(house string) Stats {
	return Stats{
		Health:    DefaultHealthMax,
		HealthMax: DefaultHealthMax,
		Will:      DefaultWill,
		House:     house,
		Kills:     map[string]int{},
	}
}

// Respawn restores a defeated player and applies the life penalty.
//
// Postcondition: Health == HealthMax, Will == DefaultWill, Score reduced by
// RespawnScorePenalty and Respawns incremented.
func (s *Stats) Respawn() {
	s.Health = s.HealthMax
	s.Score -= RespawnScorePenalty
	s.Will = DefaultWill
	s.Respawns++
}

// Clone returns a deep copy.
func (s Stats) Clone() Stats {
	out := s
	out.Kills = make(map[string]int, len(s.Kills))
	for k, v := range s.Kills {
		out.Kills[k] = v
	}
	return out
}

// Player is a connected character.
type Player struct {
	UID       string
	Name      string
	AccountID int64
	// Superuser players are never targeted by monsters.
	Superuser bool
	// Builder players may change other players' scores.
	Builder bool
	Outbox  *Outbox

	mu     sync.Mutex
	roomID string
	stats  Stats
}

// RoomID returns the player's current room.
func (p *Player) RoomID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.roomID
}

// Stats returns a copy of the player's attributes.
func (p *Player) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats.Clone()
}

// Eligible reports whether monsters may target the player.
func (p *Player) Eligible() bool {
	return !p.Superuser
}
