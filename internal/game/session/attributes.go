package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/mudtrix/internal/game/attr"
)

// Attribute names used when persisting Stats.
const (
	AttrScore     = "score"
	AttrHealth    = "health"
	AttrHealthMax = "health_max"
	AttrWill      = "will"
	AttrRespawns  = "respawns"
	AttrHouse     = "house"
	AttrWand      = "wand"
	attrKillsPfx  = "kills."
)

// SaveStats writes every attribute of s for entity.
func SaveStats(ctx context.Context, store attr.Store, entity string, s Stats) error {
	ints := map[string]int{
		AttrScore:     s.Score,
		AttrHealth:    s.Health,
		AttrHealthMax: s.HealthMax,
		AttrWill:      s.Will,
		AttrRespawns:  s.Respawns,
	}
	for name, v := range ints {
		if err := attr.SetInt(ctx, store, entity, name, v); err != nil {
			return fmt.Errorf("saving %s.%s: %w", entity, name, err)
		}
	}
	if err := store.Set(ctx, entity, AttrHouse, s.House); err != nil {
		return fmt.Errorf("saving %s.%s: %w", entity, AttrHouse, err)
	}
	if err := store.Set(ctx, entity, AttrWand, strconv.FormatBool(s.HasWand)); err != nil {
		return fmt.Errorf("saving %s.%s: %w", entity, AttrWand, err)
	}
	for kind, n := range s.Kills {
		if err := attr.SetInt(ctx, store, entity, attrKillsPfx+kind, n); err != nil {
			return fmt.Errorf("saving %s kills.%s: %w", entity, kind, err)
		}
	}
	return nil
}

// LoadStats reads the attributes of entity.
//
// Postcondition: found is false when the entity has no attributes at all; the
// returned Stats then holds NewStats defaults with an empty house.
func LoadStats(ctx context.Context, store attr.Store, entity string) (s Stats, found bool, err error) {
	all, err := store.All(ctx, entity)
	if err != nil {
		return Stats{}, false, fmt.Errorf("loading %s: %w", entity, err)
	}
	s = NewStats("")
	if len(all) == 0 {
		return s, false, nil
	}

	intField := func(name string, dst *int) error {
		v, ok := all[name]
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("attribute %s.%s: %w", entity, name, err)
		}
		*dst = n
		return nil
	}
	for name, dst := range map[string]*int{
		AttrScore:     &s.Score,
		AttrHealth:    &s.Health,
		AttrHealthMax: &s.HealthMax,
		AttrWill:      &s.Will,
		AttrRespawns:  &s.Respawns,
	} {
		if err := intField(name, dst); err != nil {
			return Stats{}, false, err
		}
	}
	s.House = all[AttrHouse]
	s.HasWand = all[AttrWand] == "true"
	for name, v := range all {
		kind, ok := strings.CutPrefix(name, attrKillsPfx)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Stats{}, false, fmt.Errorf("attribute %s.%s: %w", entity, name, err)
		}
		s.Kills[kind] = n
	}
	return s, true, nil
}

// ClearCombatAttributes removes the health attributes so the next intro room
// grants fresh ones.
func ClearCombatAttributes(ctx context.Context, store attr.Store, entity string) error {
	for _, name := range []string{AttrHealth, AttrHealthMax, AttrWand} {
		if err := store.Delete(ctx, entity, name); err != nil {
			return fmt.Errorf("deleting %s.%s: %w", entity, name, err)
		}
	}
	return nil
}
