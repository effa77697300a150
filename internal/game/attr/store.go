// Package attr defines the key-value attribute boundary used to persist typed
// game records.
package attr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"
)

// ErrNotFound is returned by Get when the attribute is not set.
var ErrNotFound = errors.New("attribute not found")

// Store persists string attributes per entity.
//
// Implementations MUST be safe for concurrent use.
type Store interface {
	// Get returns the attribute value or ErrNotFound.
	Get(ctx context.Context, entity, name string) (string, error)
	// Set creates or replaces an attribute.
	Set(ctx context.Context, entity, name, value string) error
	// Delete removes an attribute. Deleting a missing attribute is not an error.
	Delete(ctx context.Context, entity, name string) error
	// All returns every attribute of entity. Unknown entities yield an empty map.
	All(ctx context.Context, entity string) (map[string]string, error)
}

// MemoryStore is an in-process Store used in offline mode and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, entity, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[entity][name]
	if !ok {
		return "", fmt.Errorf("%s.%s: %w", entity, name, ErrNotFound)
	}
	return v, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, entity, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[entity] == nil {
		m.data[entity] = make(map[string]string)
	}
	m.data[entity][name] = value
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, entity, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[entity], name)
	return nil
}

// All implements Store.
func (m *MemoryStore) All(_ context.Context, entity string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.data[entity]))
	for k, v := range m.data[entity] {
		out[k] = v
	}
	return out, nil
}

// GetInt reads an integer attribute, returning def when it is absent.
func GetInt(ctx context.Context, s Store, entity, name string, def int) (int, error) {
	v, err := s.Get(ctx, entity, name)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("attribute %s.%s: %w", entity, name, err)
	}
	return n, nil
}

// SetInt writes an integer attribute.
func SetInt(ctx context.Context, s Store, entity, name string, v int) error {
	return s.Set(ctx, entity, name, strconv.Itoa(v))
}

// GetTime reads an RFC3339Nano timestamp attribute, returning the zero time when absent.
func GetTime(ctx context.Context, s Store, entity, name string) (time.Time, error) {
	v, err := s.Get(ctx, entity, name)
	if errors.Is(err, ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("attribute %s.%s: %w", entity, name, err)
	}
	return t, nil
}

// SetTime writes a timestamp attribute.
func SetTime(ctx context.Context, s Store, entity, name string, t time.Time) error {
	return s.Set(ctx, entity, name, t.UTC().Format(time.RFC3339Nano))
}

// Names returns the attribute names of m sorted, for stable iteration.
func Names(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
