// Package world provides the game world model: zones, rooms, exits, and directions.
package world

import (
	"fmt"
	"strconv"
)

// Direction is a compass direction or a named exit such as "portrait".
type Direction string

// Standard compass directions and vertical movements.
const (
	North     Direction = "north"
	South     Direction = "south"
	East      Direction = "east"
	West      Direction = "west"
	Northeast Direction = "northeast"
	Northwest Direction = "northwest"
	Southeast Direction = "southeast"
	Southwest Direction = "southwest"
	Up        Direction = "up"
	Down      Direction = "down"
)

// StandardDirections contains all standard compass and vertical directions.
var StandardDirections = []Direction{
	North, South, East, West,
	Northeast, Northwest, Southeast, Southwest,
	Up, Down,
}

var directionAliases = map[string]Direction{
	"n": North, "s": South, "e": East, "w": West,
	"ne": Northeast, "nw": Northwest, "se": Southeast, "sw": Southwest,
	"u": Up, "d": Down,
}

// ParseDirection expands a short alias ("n", "sw") into its Direction.
// Any other input is returned unchanged as a named exit.
func ParseDirection(s string) Direction {
	if d, ok := directionAliases[s]; ok {
		return d
	}
	return Direction(s)
}

// IsStandard reports whether d is one of the ten standard directions.
func (d Direction) IsStandard() bool {
	for _, sd := range StandardDirections {
		if d == sd {
			return true
		}
	}
	return false
}

// Room types with special entry behavior.
const (
	RoomTypeIntro    = "intro"
	RoomTypeOutro    = "outro"
	RoomTypeWeather  = "weather"
	RoomTypeWandRack = "wand_rack"
)

// DefaultCharHealth is the health granted by an intro room without char_health.
const DefaultCharHealth = 20

// Exit represents a passage from one room to another.
type Exit struct {
	Direction  Direction
	TargetRoom string
	// Locked blocks everyone.
	Locked bool
	// Hidden exits are omitted from room descriptions.
	Hidden bool
	// NoMob blocks monsters but not players.
	NoMob bool
}

// MobTraversable reports whether a monster may pass through e.
func (e Exit) MobTraversable() bool {
	return !e.Locked && !e.NoMob
}

// MonsterSpawn places Count monsters of Template in a room at world population.
type MonsterSpawn struct {
	Template string
	Count    int
}

// Room represents a location in the game world.
type Room struct {
	ID          string
	ZoneID      string
	Title       string
	Description string
	Exits       []Exit
	// Type selects entry hooks: intro, outro, weather, wand_rack, or empty.
	Type string
	// Echoes are irregular atmosphere lines broadcast by weather rooms.
	Echoes []string
	// Properties holds free-form tags such as char_health.
	Properties map[string]string
	Spawns     []MonsterSpawn
}

// ExitForDirection returns the exit in the given direction, if one exists.
//
// Postcondition: Returns (exit, true) if found, or (Exit{}, false) otherwise.
func (r *Room) ExitForDirection(dir Direction) (Exit, bool) {
	for _, e := range r.Exits {
		if e.Direction == dir {
			return e, true
		}
	}
	return Exit{}, false
}

// VisibleExits returns all non-hidden exits from this room.
func (r *Room) VisibleExits() []Exit {
	var visible []Exit
	for _, e := range r.Exits {
		if !e.Hidden {
			visible = append(visible, e)
		}
	}
	return visible
}

// CharHealth returns the starting health an intro room grants.
//
// Postcondition: Returns DefaultCharHealth when the property is absent or invalid.
func (r *Room) CharHealth() int {
	if v, ok := r.Properties["char_health"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultCharHealth
}

// Zone groups related rooms into a themed area.
type Zone struct {
	ID          string
	Name        string
	Description string
	StartRoom   string
	Rooms       map[string]*Room
	// ScriptFile is the Lua file for this zone's hooks. Empty = no scripts.
	ScriptFile string
}

// Validate checks zone invariants. Exit targets are checked across zones by
// Manager.ValidateExits.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (z *Zone) Validate() error {
	if z.ID == "" {
		return fmt.Errorf("zone ID must not be empty")
	}
	if z.Name == "" {
		return fmt.Errorf("zone %q: name must not be empty", z.ID)
	}
	if len(z.Rooms) == 0 {
		return fmt.Errorf("zone %q: must contain at least one room", z.ID)
	}
	if z.StartRoom != "" {
		if _, ok := z.Rooms[z.StartRoom]; !ok {
			return fmt.Errorf("zone %q: start_room %q not found in rooms", z.ID, z.StartRoom)
		}
	}
	for id, room := range z.Rooms {
		if room.ID != id {
			return fmt.Errorf("zone %q: room key %q does not match room ID %q", z.ID, id, room.ID)
		}
		if room.Title == "" {
			return fmt.Errorf("zone %q: room %q: title must not be empty", z.ID, id)
		}
		switch room.Type {
		case "", RoomTypeIntro, RoomTypeOutro, RoomTypeWeather, RoomTypeWandRack:
		default:
			return fmt.Errorf("zone %q: room %q: unknown type %q", z.ID, id, room.Type)
		}
		for _, exit := range room.Exits {
			if exit.TargetRoom == "" {
				return fmt.Errorf("zone %q: room %q: exit %q has empty target", z.ID, id, exit.Direction)
			}
		}
		for _, sp := range room.Spawns {
			if sp.Template == "" || sp.Count < 1 {
				return fmt.Errorf("zone %q: room %q: spawn needs a template and count >= 1", z.ID, id)
			}
		}
	}
	return nil
}
