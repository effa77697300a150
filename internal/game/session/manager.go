package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrPlayerNotFound is returned for UIDs with no connected player.
var ErrPlayerNotFound = errors.New("player not found")

// ErrPlayerConnected is returned by AddPlayer for a UID that is already playing.
var ErrPlayerConnected = errors.New("player already connected")

// Manager tracks all active players and room occupancy.
// All methods are safe for concurrent use.
//
// Lock order: Manager.mu before Player.mu. Attribute mutations hold only the
// player's own lock, so concurrent monsters attacking one player are serialized.
type Manager struct {
	mu       sync.RWMutex
	players  map[string]*Player
	roomSets map[string]map[string]bool
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{
		players:  make(map[string]*Player),
		roomSets: make(map[string]map[string]bool),
	}
}

// AddPlayer registers a connected player in roomID.
//
// Precondition: uid, name and roomID must be non-empty.
// Postcondition: Returns the Player, or an error if the UID is already connected.
func (m *Manager) AddPlayer(uid, name string, accountID int64, roomID string, superuser bool, stats Stats) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.players[uid]; exists {
		return nil, fmt.Errorf("%w: %q", ErrPlayerConnected, uid)
	}
	if stats.Kills == nil {
		stats.Kills = map[string]int{}
	}
	p := &Player{
		UID:       uid,
		Name:      name,
		AccountID: accountID,
		Superuser: superuser,
		Outbox:    NewOutbox(uid, DefaultOutboxSize),
		roomID:    roomID,
		stats:     stats,
	}
	m.players[uid] = p
	m.addToRoom(roomID, uid)
	return p, nil
}

// RemovePlayer removes a player and closes their outbox.
//
// Postcondition: Returns the removed Player's final stats or ErrPlayerNotFound.
func (m *Manager) RemovePlayer(uid string) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[uid]
	if !ok {
		return Stats{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, uid)
	}
	m.removeFromRoom(p.RoomID(), uid)
	p.Outbox.Close()
	delete(m.players, uid)
	return p.Stats(), nil
}

// MovePlayer moves a player into newRoomID.
//
// Postcondition: Returns the old room ID, or ErrPlayerNotFound.
func (m *Manager) MovePlayer(uid, newRoomID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[uid]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrPlayerNotFound, uid)
	}
	p.mu.Lock()
	old := p.roomID
	p.roomID = newRoomID
	p.mu.Unlock()

	m.removeFromRoom(old, uid)
	m.addToRoom(newRoomID, uid)
	return old, nil
}

// GetPlayer returns the connected player for uid.
func (m *Manager) GetPlayer(uid string) (*Player, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[uid]
	return p, ok
}

// PlayerName returns the display name of a connected player.
func (m *Manager) PlayerName(uid string) (string, bool) {
	p, ok := m.GetPlayer(uid)
	if !ok {
		return "", false
	}
	return p.Name, true
}

// FindInRoom returns the first player in roomID whose name starts with prefix,
// case-insensitively.
func (m *Manager) FindInRoom(roomID, prefix string) (*Player, bool) {
	prefix = strings.ToLower(prefix)
	for _, uid := range m.PlayerUIDsInRoom(roomID) {
		if p, ok := m.GetPlayer(uid); ok && strings.HasPrefix(strings.ToLower(p.Name), prefix) {
			return p, true
		}
	}
	return nil, false
}

// FindByName returns a connected player by exact, case-insensitive name.
func (m *Manager) FindByName(name string) (*Player, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.players {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

// PlayerUIDsInRoom returns the UIDs of all players in roomID, sorted.
func (m *Manager) PlayerUIDsInRoom(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := m.roomSets[roomID]
	out := make([]string, 0, len(set))
	for uid := range set {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out
}

// EligibleInRoom returns the UIDs of non-superuser players in roomID, sorted.
func (m *Manager) EligibleInRoom(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	for uid := range m.roomSets[roomID] {
		if p, ok := m.players[uid]; ok && p.Eligible() {
			out = append(out, uid)
		}
	}
	sort.Strings(out)
	return out
}

// AllPlayers returns every connected player sorted by name.
func (m *Manager) AllPlayers() []*Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Update applies fn to the player's attributes under the player's lock.
//
// Postcondition: Returns a copy of the attributes after fn, or ErrPlayerNotFound.
func (m *Manager) Update(uid string, fn func(s *Stats)) (Stats, error) {
	p, ok := m.GetPlayer(uid)
	if !ok {
		return Stats{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, uid)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.stats)
	return p.stats.Clone(), nil
}

// Respawn applies the respawn penalty to a defeated player and tells them.
func (m *Manager) Respawn(uid string) (Stats, error) {
	s, err := m.Update(uid, func(s *Stats) { s.Respawn() })
	if err != nil {
		return Stats{}, err
	}
	m.Direct(uid, RespawnMessage)
	return s, nil
}

// Direct sends text to one player. Unknown players are ignored.
func (m *Manager) Direct(uid, text string) {
	if p, ok := m.GetPlayer(uid); ok {
		_ = p.Outbox.Push(text)
	}
}

// Broadcast sends text to every player in roomID except the excluded UIDs.
func (m *Manager) Broadcast(roomID, text string, exclude ...string) {
	skip := make(map[string]bool, len(exclude))
	for _, uid := range exclude {
		skip[uid] = true
	}
	for _, uid := range m.PlayerUIDsInRoom(roomID) {
		if !skip[uid] {
			m.Direct(uid, text)
		}
	}
}

func (m *Manager) addToRoom(roomID, uid string) {
	if m.roomSets[roomID] == nil {
		m.roomSets[roomID] = make(map[string]bool)
	}
	m.roomSets[roomID][uid] = true
}

func (m *Manager) removeFromRoom(roomID, uid string) {
	if rs, ok := m.roomSets[roomID]; ok {
		delete(rs, uid)
		if len(rs) == 0 {
			delete(m.roomSets, roomID)
		}
	}
}
