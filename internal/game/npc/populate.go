package npc

import (
	"fmt"

	"go.uber.org/zap"
)

// Placement asks for Count monsters of Template in Room.
type Placement struct {
	Room     string
	Template string
	Count    int
}

// Populate spawns every placement, then activates all spawned monsters and
// registers their timers. Monsters stay inactive until every placement has
// succeeded.
//
// Postcondition: On error no monster from this call is active or scheduled.
func Populate(e *Engine, s *Scheduler, templates map[string]*Template, placements []Placement) ([]*Monster, error) {
	var spawned []*Monster
	rollback := func() {
		for _, m := range spawned {
			e.monsters.Remove(m.ID)
		}
	}
	for _, p := range placements {
		tmpl, ok := templates[p.Template]
		if !ok {
			rollback()
			return nil, fmt.Errorf("room %q: unknown monster template %q", p.Room, p.Template)
		}
		count := p.Count
		if count < 1 {
			count = 1
		}
		for range count {
			m, err := e.Spawn(tmpl, p.Room)
			if err != nil {
				rollback()
				return nil, err
			}
			spawned = append(spawned, m)
		}
	}
	for _, m := range spawned {
		if err := s.Add(m); err != nil {
			for _, done := range spawned {
				s.Remove(done.ID)
			}
			rollback()
			return nil, err
		}
	}
	for _, m := range spawned {
		e.Activate(m.ID)
	}
	e.logger.Info("monsters populated", zap.Int("count", len(spawned)))
	return spawned, nil
}

// Reinstate recreates monsters from snapshots and schedules them. Snapshots
// whose template is unknown are skipped with a warning.
func Reinstate(e *Engine, s *Scheduler, templates map[string]*Template, states []State) ([]*Monster, error) {
	var out []*Monster
	for _, st := range states {
		tmpl, ok := templates[st.TemplateID]
		if !ok {
			e.logger.Warn("dropping snapshot with unknown template",
				zap.String("monster", st.ID),
				zap.String("template", st.TemplateID),
			)
			continue
		}
		m, err := e.monsters.Restore(tmpl, st)
		if err != nil {
			return out, fmt.Errorf("reinstating monsters: %w", err)
		}
		if err := s.Add(m); err != nil {
			return out, fmt.Errorf("reinstating monsters: %w", err)
		}
		out = append(out, m)
	}
	e.logger.Info("monsters reinstated", zap.Int("count", len(out)))
	return out, nil
}
