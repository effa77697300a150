package world

import (
	"fmt"
	"sort"
	"sync"
)

// Manager provides thread-safe access to the loaded world state.
// It indexes rooms across all zones for O(1) lookup by room ID.
type Manager struct {
	mu        sync.RWMutex
	zones     map[string]*Zone
	rooms     map[string]*Room
	startRoom string
}

// NewManager creates a Manager from the given zones.
//
// Precondition: the first zone declaring a start_room provides the global start room.
// Postcondition: Returns a Manager with all rooms indexed by ID, or an error on duplicate IDs.
func NewManager(zones []*Zone) (*Manager, error) {
	m := &Manager{
		zones: make(map[string]*Zone, len(zones)),
		rooms: make(map[string]*Room),
	}

	for _, z := range zones {
		if _, exists := m.zones[z.ID]; exists {
			return nil, fmt.Errorf("duplicate zone ID: %q", z.ID)
		}
		m.zones[z.ID] = z
		for id, room := range z.Rooms {
			if existing, exists := m.rooms[id]; exists {
				return nil, fmt.Errorf("duplicate room ID %q: in zone %q and %q", id, existing.ZoneID, z.ID)
			}
			m.rooms[id] = room
		}
		if m.startRoom == "" {
			m.startRoom = z.StartRoom
		}
	}
	return m, nil
}

// ValidateExits checks that every exit target resolves to a known room across
// all loaded zones.
//
// Postcondition: Returns nil if all exits resolve, or an error naming the first dangling target.
func (m *Manager) ValidateExits() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.sortedRoomIDs() {
		room := m.rooms[id]
		for _, exit := range room.Exits {
			if _, ok := m.rooms[exit.TargetRoom]; !ok {
				return fmt.Errorf("zone %q: room %q: exit %q targets unknown room %q",
					room.ZoneID, room.ID, exit.Direction, exit.TargetRoom)
			}
		}
	}
	return nil
}

// GetRoom returns the room with the given ID.
func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// RoomExists reports whether id names a loaded room.
func (m *Manager) RoomExists(id string) bool {
	_, ok := m.GetRoom(id)
	return ok
}

// Title returns the room's title, or the ID itself when the room is unknown.
func (m *Manager) Title(id string) string {
	if r, ok := m.GetRoom(id); ok {
		return r.Title
	}
	return id
}

// Navigate resolves player movement from a room in a direction.
//
// Postcondition: Returns the destination room, or an error if the exit
// doesn't exist, is locked, or the target room is missing.
func (m *Manager) Navigate(fromRoomID string, dir Direction) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	from, ok := m.rooms[fromRoomID]
	if !ok {
		return nil, fmt.Errorf("room %q not found", fromRoomID)
	}
	exit, ok := from.ExitForDirection(dir)
	if !ok {
		return nil, fmt.Errorf("no exit %q from %q", dir, fromRoomID)
	}
	if exit.Locked {
		return nil, fmt.Errorf("the way %s is locked", dir)
	}
	target, ok := m.rooms[exit.TargetRoom]
	if !ok {
		return nil, fmt.Errorf("exit %q from %q targets unknown room %q", dir, fromRoomID, exit.TargetRoom)
	}
	return target, nil
}

// MobDestinations returns the distinct rooms a monster can reach in one step
// from roomID, in exit order.
//
// Postcondition: Returns nil for unknown rooms or rooms with no traversable exits.
func (m *Manager) MobDestinations(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	from, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	seen := make(map[string]bool, len(from.Exits))
	var out []string
	for _, e := range from.Exits {
		if !e.MobTraversable() || seen[e.TargetRoom] {
			continue
		}
		if _, ok := m.rooms[e.TargetRoom]; !ok {
			continue
		}
		seen[e.TargetRoom] = true
		out = append(out, e.TargetRoom)
	}
	return out
}

// RoomsOfType returns every room with the given type, sorted by ID.
func (m *Manager) RoomsOfType(roomType string) []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Room
	for _, id := range m.sortedRoomIDs() {
		if r := m.rooms[id]; r.Type == roomType {
			out = append(out, r)
		}
	}
	return out
}

// AllRooms returns every room sorted by ID.
func (m *Manager) AllRooms() []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.sortedRoomIDs()
	out := make([]*Room, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.rooms[id])
	}
	return out
}

// StartRoom returns the global start room.
//
// Postcondition: Returns the start room or nil if no zone declares one.
func (m *Manager) StartRoom() *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.startRoom == "" {
		return nil
	}
	return m.rooms[m.startRoom]
}

// RoomCount returns the total number of rooms across all zones.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// AllZones returns all loaded zones sorted by ID.
func (m *Manager) AllZones() []*Zone {
	m.mu.RLock()
	defer m.mu.RUnlock()
	zones := make([]*Zone, 0, len(m.zones))
	for _, z := range m.zones {
		zones = append(zones, z)
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].ID < zones[j].ID })
	return zones
}

func (m *Manager) sortedRoomIDs() []string {
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
