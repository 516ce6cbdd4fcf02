package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/logger"
)

func TestMemoryStoreCRUD(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	batch := &domain.Batch{
		ID:        "test-batch-1",
		Label:     "country loaf",
		Status:    domain.BatchFermenting,
		StartedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	require.NoError(t, store.Save(ctx, batch))

	loaded, err := store.Load(ctx, "test-batch-1")
	require.NoError(t, err)
	assert.Equal(t, batch.ID, loaded.ID)

	_, err = store.Load(ctx, "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	active, err := store.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	require.NoError(t, store.Delete(ctx, "test-batch-1"))
	_, err = store.Load(ctx, "test-batch-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "nonexistent"), domain.ErrNotFound)
}

func TestMemoryStoreListActiveFilters(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	batches := []*domain.Batch{
		{ID: "b1", Status: domain.BatchReady, StartedAt: base.Add(time.Hour)},
		{ID: "b2", Status: domain.BatchFermenting, StartedAt: base},
		{ID: "b3", Status: domain.BatchCompleted, StartedAt: base},
		{ID: "b4", Status: domain.BatchAbandoned, StartedAt: base},
	}
	for _, b := range batches {
		require.NoError(t, store.Save(ctx, b))
	}

	active, err := store.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "b2", active[0].ID, "oldest batch first")
	assert.Equal(t, "b1", active[1].ID)
}

func TestMemoryStoreCopiesBatches(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	batch := &domain.Batch{
		ID:         "b1",
		Status:     domain.BatchFermenting,
		Milestones: []*domain.Milestone{{Kind: domain.MilestoneExpected}},
	}
	require.NoError(t, store.Save(ctx, batch))

	// Changes after Save do not leak into the store.
	batch.Milestones[0].Fired = true
	loaded, err := store.Load(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, loaded.Milestones[0].Fired)

	// Nor do changes to a loaded copy.
	loaded.Status = domain.BatchCompleted
	again, err := store.Load(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchFermenting, again.Status)
}

func TestMemoryStoreListActiveTieBreak(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Save(ctx, &domain.Batch{ID: id, StartedAt: at}))
	}

	active, err := store.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{active[0].ID, active[1].ID, active[2].ID})
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.Batch{ID: "b1", Label: "loaf", Status: domain.BatchFermenting}))

	require.NoError(t, store.Update(ctx, "b1", func(b *domain.Batch) error {
		b.Status = domain.BatchReady
		return nil
	}))
	loaded, err := store.Load(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, domain.BatchReady, loaded.Status)

	// A failing fn leaves the stored batch untouched.
	errStop := errors.New("stop")
	err = store.Update(ctx, "b1", func(b *domain.Batch) error {
		b.Label = "changed"
		return errStop
	})
	assert.ErrorIs(t, err, errStop)
	loaded, err = store.Load(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "loaf", loaded.Label)

	err = store.Update(ctx, "missing", func(*domain.Batch) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
