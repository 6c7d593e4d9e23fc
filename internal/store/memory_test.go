package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardroom/internal/domain"
)

func sampleState() *domain.GameState {
	return domain.NewGameState(
		[]domain.Resource{{ID: "wood", Name: "Wood"}},
		[]domain.BoardSpace{{ID: "forest", Name: "Forest", Capacity: 2}},
		[]*domain.Player{{ID: "p1", Name: "Alice", Workers: 3}},
		domain.ModeHotseat,
	)
}

func TestMemoryStoreUnknownRoom(t *testing.T) {
	m := NewMemoryStore()
	state, version, err := m.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, state)
	assert.Zero(t, version)
}

func TestMemoryStoreVersioning(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	v, err := m.Init(ctx, "r1", sampleState())
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	state, v, err := m.Get(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, int64(1), v)

	state.CurrentTurn = 5
	v, err = m.Set(ctx, "r1", state, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	// A writer holding the old version loses.
	_, err = m.Set(ctx, "r1", state, 1)
	assert.ErrorIs(t, err, ErrVersionConflict)

	// Version 0 bypasses the check.
	v, err = m.Set(ctx, "r1", state, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	// Reinit resets the counter.
	v, err = m.Init(ctx, "r1", sampleState())
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestMemoryStoreCopiesOnRead(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	_, err := m.Init(ctx, "r1", sampleState())
	require.NoError(t, err)

	first, _, err := m.Get(ctx, "r1")
	require.NoError(t, err)
	first.Players[0].Workers = 0
	first.Board[0].CurrentWorkers = 99

	second, _, err := m.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 3, second.Players[0].Workers)
	assert.Equal(t, 0, second.Board[0].CurrentWorkers)
}

func TestMemoryStoreListRooms(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	_, err := m.Init(ctx, "a", sampleState())
	require.NoError(t, err)
	_, err = m.Init(ctx, "b", sampleState())
	require.NoError(t, err)

	infos, err := m.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	ids := []string{infos[0].ID, infos[1].ID}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
	assert.False(t, infos[0].CreatedAt.Before(infos[1].CreatedAt))
}

func TestMemoryStoreSetups(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	_, err := m.GetSetup(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	rec, err := m.SaveSetup(ctx, SetupRecord{
		Name: "two village",
		Data: domain.SetupTemplate{
			Resources: []domain.Resource{{ID: "wood"}},
			Board:     []domain.BoardSpace{{ID: "forest", Capacity: 2}},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := m.GetSetup(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "two village", got.Name)
	require.Len(t, got.Data.Board, 1)

	list, err := m.ListSetups(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
