package npc

import "time"

// State is a point-in-time copy of a monster, used for persistence.
type State struct {
	ID           string        `json:"id"`
	TemplateID   string        `json:"template_id"`
	Health       float64       `json:"health"`
	Mode         Mode          `json:"mode"`
	LastAttacker string        `json:"last_attacker,omitempty"`
	DeadAt       time.Time     `json:"dead_at"`
	Inactive     bool          `json:"inactive"`
	Home         string        `json:"home"`
	LastLocation string        `json:"last_location,omitempty"`
	Location     string        `json:"location,omitempty"`
	Interval     time.Duration `json:"interval"`
}

// Snapshot copies the monster's state.
//
// Precondition: the caller must not hold m.mu.
func (mgr *Manager) Snapshot(m *Monster) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return mgr.snapshotLocked(m)
}

func (mgr *Manager) snapshotLocked(m *Monster) State {
	return State{
		ID:           m.ID,
		TemplateID:   m.Template.ID,
		Health:       m.health,
		Mode:         m.mode,
		LastAttacker: m.lastAttacker,
		DeadAt:       m.deadAt,
		Inactive:     m.inactive,
		Home:         m.home,
		LastLocation: m.lastLocation,
		Location:     mgr.Location(m.ID),
		Interval:     m.interval,
	}
}

// SnapshotAll copies every monster's state sorted by ID.
func (mgr *Manager) SnapshotAll() []State {
	all := mgr.All()
	out := make([]State, 0, len(all))
	for _, m := range all {
		out = append(out, mgr.Snapshot(m))
	}
	return out
}
