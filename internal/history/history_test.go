// internal/history/history_test.go
package history

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stratum-labs/stratum/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id string) models.DecompositionRecord {
	return models.DecompositionRecord{
		ID:         id,
		RootTaskID: "root-" + id,
		NodeCount:  3,
		CreatedAt:  time.Now(),
	}
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, record(fmt.Sprintf("run-%d", i))))
	}

	assert.Equal(t, 3, store.Len())

	_, err := store.Get(ctx, "run-0")
	assert.ErrorIs(t, err, ErrNotFound)

	rec, err := store.Get(ctx, "run-4")
	require.NoError(t, err)
	assert.Equal(t, "run-4", rec.ID)
}

func TestMemoryStoreRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10)

	for _, id := range []string{"one", "two", "three"} {
		require.NoError(t, store.Append(ctx, record(id)))
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "three", recent[0].ID)
	assert.Equal(t, "two", recent[1].ID)

	all, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryStoreMinimumCapacity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	require.NoError(t, store.Append(ctx, record("a")))
	require.NoError(t, store.Append(ctx, record("b")))

	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(64)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Append(ctx, record(fmt.Sprintf("run-%d", i)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 64, store.Len())
}
