package npc

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Manager tracks every monster and which room it occupies.
// All methods are safe for concurrent use.
//
// Lock order: Monster.mu before Manager.mu. Manager methods never take a
// monster lock.
type Manager struct {
	mu       sync.RWMutex
	monsters map[string]*Monster
	location map[string]string
	roomSets map[string]map[string]bool
	counter  map[string]int
}

// NewManager creates an empty monster Manager.
func NewManager() *Manager {
	return &Manager{
		monsters: make(map[string]*Monster),
		location: make(map[string]string),
		roomSets: make(map[string]map[string]bool),
		counter:  make(map[string]int),
	}
}

// Spawn creates an inactive monster from tmpl placed in home.
//
// Precondition: tmpl must be validated; home must be non-empty; interval > 0.
// Postcondition: Returns a monster with full health in the template's initial mode.
func (m *Manager) Spawn(tmpl *Template, home string, interval time.Duration) (*Monster, error) {
	if home == "" {
		return nil, fmt.Errorf("spawning %q: home room must not be empty", tmpl.ID)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("spawning %q: interval must be positive", tmpl.ID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var id string
	for {
		m.counter[tmpl.ID]++
		id = fmt.Sprintf("%s-%d", tmpl.ID, m.counter[tmpl.ID])
		if _, taken := m.monsters[id]; !taken {
			break
		}
	}
	mon := newMonster(id, tmpl, home, interval)
	m.monsters[id] = mon
	m.placeLocked(id, home)
	return mon, nil
}

// Restore recreates a monster from a snapshot, keeping its ID and room.
//
// Precondition: tmpl.ID must equal st.TemplateID.
// Postcondition: Returns an error if the ID is already in use.
func (m *Manager) Restore(tmpl *Template, st State) (*Monster, error) {
	if tmpl.ID != st.TemplateID {
		return nil, fmt.Errorf("restoring %q: template %q does not match snapshot template %q", st.ID, tmpl.ID, st.TemplateID)
	}
	if st.Interval <= 0 {
		return nil, fmt.Errorf("restoring %q: interval must be positive", st.ID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.monsters[st.ID]; taken {
		return nil, fmt.Errorf("restoring %q: id already in use", st.ID)
	}
	mon := newMonster(st.ID, tmpl, st.Home, st.Interval)
	mon.health = st.Health
	mon.mode = st.Mode
	mon.lastAttacker = st.LastAttacker
	mon.deadAt = st.DeadAt
	mon.inactive = st.Inactive
	mon.lastLocation = st.LastLocation
	mon.clampLocked()
	m.monsters[st.ID] = mon
	if st.Location != "" && st.Mode != ModeDead {
		m.placeLocked(st.ID, st.Location)
	}
	return mon, nil
}

// Remove forgets a monster entirely.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detachLocked(id)
	delete(m.monsters, id)
}

// Get returns the monster with the given ID.
func (m *Manager) Get(id string) (*Monster, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mon, ok := m.monsters[id]
	return mon, ok
}

// All returns every monster sorted by ID.
func (m *Manager) All() []*Monster {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Monster, 0, len(m.monsters))
	for _, mon := range m.monsters {
		out = append(out, mon)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// InstancesInRoom returns the monsters attached to roomID sorted by ID.
func (m *Manager) InstancesInRoom(roomID string) []*Monster {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.roomSets[roomID]))
	for id := range m.roomSets[roomID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*Monster, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.monsters[id])
	}
	return out
}

// FindInRoom returns the first monster in roomID whose name, template ID or
// instance ID starts with prefix, case-insensitively.
//
// Postcondition: Detached monsters are never returned.
func (m *Manager) FindInRoom(roomID, prefix string) (*Monster, bool) {
	p := strings.ToLower(strings.TrimSpace(prefix))
	if p == "" {
		return nil, false
	}
	for _, mon := range m.InstancesInRoom(roomID) {
		if strings.HasPrefix(strings.ToLower(mon.Name()), p) ||
			strings.HasPrefix(mon.Template.ID, p) ||
			strings.HasPrefix(mon.ID, p) {
			return mon, true
		}
	}
	return nil, false
}

// Location returns the monster's room, or "" when it is detached.
func (m *Manager) Location(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.location[id]
}

func (m *Manager) place(id, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.placeLocked(id, roomID)
}

func (m *Manager) detach(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detachLocked(id)
}

func (m *Manager) placeLocked(id, roomID string) {
	m.detachLocked(id)
	m.location[id] = roomID
	if m.roomSets[roomID] == nil {
		m.roomSets[roomID] = make(map[string]bool)
	}
	m.roomSets[roomID][id] = true
}

func (m *Manager) detachLocked(id string) {
	old, ok := m.location[id]
	if !ok {
		return
	}
	delete(m.location, id)
	if rs := m.roomSets[old]; rs != nil {
		delete(rs, id)
		if len(rs) == 0 {
			delete(m.roomSets, old)
		}
	}
}
