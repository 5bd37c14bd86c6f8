package words

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/wordlist/internal/database"
	"github.com/mrlokans/wordlist/internal/entities"
)

func setupTestStore(t *testing.T) (*database.Database, *Store) {
	t.Helper()

	db, err := database.NewQuietDatabase(filepath.Join(t.TempDir(), "words.db"))
	require.NoError(t, err)

	store := NewStore(db.DB, Options{})
	t.Cleanup(func() {
		_ = store.Close()
		_ = db.Close()
	})
	return db, store
}

func insertWords(t *testing.T, store *Store, words ...entities.Word) {
	t.Helper()
	for _, w := range words {
		require.NoError(t, store.Insert(context.Background(), w))
	}
}

func wordTexts(words []entities.Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Word
	}
	return out
}

func receive(t *testing.T, sub *Subscription) []entities.Word {
	t.Helper()
	select {
	case words, ok := <-sub.C():
		require.True(t, ok, "subscription closed unexpectedly")
		return words
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func assertNoSnapshot(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case words := <-sub.C():
		t.Fatalf("unexpected snapshot: %v", wordTexts(words))
	default:
	}
}

func TestStore_InsertAndScan(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	insertWords(t, store,
		entities.Word{ID: 2, Word: "banana", Meaning: "a fruit"},
		entities.Word{ID: 1, Word: "apple", Meaning: "a fruit"},
	)

	asc, err := store.ScanAscending().Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "banana"}, wordTexts(asc))

	desc, err := store.ScanDescending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"banana", "apple"}, wordTexts(desc))
}

func TestStore_InsertDuplicateIDIsIgnored(t *testing.T) {
	_, store := setupTestStore(t)

	insertWords(t, store, entities.Word{ID: 1, Word: "apple", Meaning: "x"})

	err := store.Insert(context.Background(), entities.Word{ID: 1, Word: "zebra", Meaning: "y"})
	require.NoError(t, err)

	words, err := store.ScanDescending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.Word{{ID: 1, Word: "apple", Meaning: "x"}}, words)
}

func TestStore_DeleteAll(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	insertWords(t, store,
		entities.Word{ID: 1, Word: "apple", Meaning: "a fruit"},
		entities.Word{ID: 2, Word: "banana", Meaning: "a fruit"},
	)

	require.NoError(t, store.DeleteAll(ctx))

	asc, err := store.ScanAscending().Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, asc)

	desc, err := store.ScanDescending(ctx)
	require.NoError(t, err)
	assert.Empty(t, desc)

	t.Run("on empty table", func(t *testing.T) {
		assert.NoError(t, store.DeleteAll(ctx))
	})
}

func TestStore_DescendingIsReverseOfAscending(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	insertWords(t, store,
		entities.Word{ID: 5, Word: "pear", Meaning: "a"},
		entities.Word{ID: 3, Word: "Pear", Meaning: "b"},
		entities.Word{ID: 4, Word: "fig", Meaning: "c"},
		entities.Word{ID: 1, Word: "fig", Meaning: "d"},
		entities.Word{ID: 2, Word: "apple", Meaning: "e"},
	)

	asc, err := store.ScanAscending().Snapshot(ctx)
	require.NoError(t, err)
	desc, err := store.ScanDescending(ctx)
	require.NoError(t, err)

	require.Len(t, desc, len(asc))
	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
	// Byte-wise ordering puts upper case first; equal words tie-break on id.
	assert.Equal(t, []string{"Pear", "apple", "fig", "fig", "pear"}, wordTexts(asc))
	assert.Equal(t, int64(1), asc[2].ID)
	assert.Equal(t, int64(4), asc[3].ID)
}

func TestStore_ConcurrentInserts(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := entities.Word{ID: int64(i), Word: fmt.Sprintf("word%02d", i), Meaning: "m"}
			assert.NoError(t, store.Insert(ctx, w))
		}(i)
	}
	wg.Wait()

	words, err := store.ScanAscending().Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, words, 40)
	for i, w := range words {
		assert.Equal(t, fmt.Sprintf("word%02d", i), w.Word)
	}
}

func TestStore_ConcurrentInsertsSameID(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Insert(ctx, entities.Word{ID: 7, Word: fmt.Sprintf("w%d", i)}))
		}(i)
	}
	wg.Wait()

	words, err := store.ScanDescending(ctx)
	require.NoError(t, err)
	assert.Len(t, words, 1)
}

func TestStore_EngineFailurePropagates(t *testing.T) {
	db, store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, db.Close())

	err := store.Insert(ctx, entities.Word{ID: 1, Word: "apple"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert word")

	err = store.DeleteAll(ctx)
	require.Error(t, err)

	_, err = store.ScanDescending(ctx)
	assert.Error(t, err)

	rows, ok := store.RawQuery(ctx, Query{})
	assert.False(t, ok)
	assert.Nil(t, rows)
}

func TestStore_Close(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	sub, err := store.ScanAscending().Observe(ctx)
	require.NoError(t, err)
	receive(t, sub)

	require.NoError(t, store.Close())

	t.Run("writes are rejected", func(t *testing.T) {
		err := store.Insert(ctx, entities.Word{ID: 1, Word: "late"})
		assert.ErrorIs(t, err, ErrStoreClosed)
		assert.ErrorIs(t, store.DeleteAll(ctx), ErrStoreClosed)
	})

	t.Run("subscriptions end", func(t *testing.T) {
		_, ok := <-sub.C()
		assert.False(t, ok)
	})

	t.Run("observe is rejected", func(t *testing.T) {
		_, err := store.ScanAscending().Observe(ctx)
		assert.ErrorIs(t, err, ErrStoreClosed)
	})

	t.Run("second close reports closed", func(t *testing.T) {
		assert.ErrorIs(t, store.Close(), ErrStoreClosed)
	})
}

func TestStore_QueuedWritesAreAppliedOnClose(t *testing.T) {
	db, err := database.NewQuietDatabase(filepath.Join(t.TempDir(), "words.db"))
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db.DB, Options{QueueSize: 1})

	var wg sync.WaitGroup
	for i := range 5 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Insert(context.Background(), entities.Word{ID: int64(i), Word: fmt.Sprintf("w%d", i)})
		}(i)
	}
	wg.Wait()
	require.NoError(t, store.Close())

	var count int64
	require.NoError(t, db.DB.Model(&entities.Word{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)
}
