package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/mudtrix/internal/game/attr"
)

func TestSaveLoadStats(t *testing.T) {
	ctx := context.Background()
	store := attr.NewMemoryStore()

	s := NewStats("Ravenclaw")
	s.Score = 42
	s.Health = 17
	s.HealthMax = 20
	s.Respawns = 2
	s.HasWand = true
	s.Kills["spiders"] = 3

	require.NoError(t, SaveStats(ctx, store, "char:1", s))

	got, found, err := LoadStats(ctx, store, "char:1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, s, got)
}

func TestLoadStats_Missing(t *testing.T) {
	got, found, err := LoadStats(context.Background(), attr.NewMemoryStore(), "char:9")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, DefaultHealthMax, got.Health)
	assert.Empty(t, got.House)
}

func TestLoadStats_Corrupt(t *testing.T) {
	ctx := context.Background()
	store := attr.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "char:1", AttrScore, "many"))
	_, _, err := LoadStats(ctx, store, "char:1")
	assert.Error(t, err)
}

func TestClearCombatAttributes(t *testing.T) {
	ctx := context.Background()
	store := attr.NewMemoryStore()
	require.NoError(t, SaveStats(ctx, store, "char:1", NewStats("Hufflepuff")))
	require.NoError(t, ClearCombatAttributes(ctx, store, "char:1"))

	_, err := store.Get(ctx, "char:1", AttrHealth)
	assert.ErrorIs(t, err, attr.ErrNotFound)
	house, err := store.Get(ctx, "char:1", AttrHouse)
	require.NoError(t, err)
	assert.Equal(t, "Hufflepuff", house)
}
