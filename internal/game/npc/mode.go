// Package npc implements the monster engine: templates, live monster records,
// the per-kind state machine, combat resolution and the attack timers that
// drive it.
package npc

import "fmt"

// Mode is the behavior phase of a monster. A monster is in exactly one Mode.
type Mode int

// Mobile monsters cycle Roam, Battle and Pursue. Static monsters use Alive.
// Both kinds use Dead while awaiting respawn.
const (
	ModeRoam Mode = iota
	ModeBattle
	ModePursue
	ModeAlive
	ModeDead
)

var modeNames = map[Mode]string{
	ModeRoam:   "roam",
	ModeBattle: "battle",
	ModePursue: "pursue",
	ModeAlive:  "alive",
	ModeDead:   "dead",
}

// String returns the lowercase mode name.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode converts a mode name back into a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, fmt.Errorf("unknown mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Kind selects which state machine a monster runs.
type Kind string

const (
	// KindMobile monsters roam, fight and pursue players through exits.
	KindMobile Kind = "mobile"
	// KindStatic monsters stay put and damage everyone in their room.
	KindStatic Kind = "static"
)

// Resource is the player attribute a monster drains.
type Resource string

const (
	ResourceHealth Resource = "health"
	// ResourceWill drains will first and spills into health once will is gone.
	ResourceWill Resource = "will"
)
