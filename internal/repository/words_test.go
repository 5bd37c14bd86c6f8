package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/wordlist/internal/database"
	"github.com/mrlokans/wordlist/internal/database/words"
	"github.com/mrlokans/wordlist/internal/entities"
)

type fakeStore struct {
	views    int
	inserted []entities.Word
	err      error
}

func (f *fakeStore) Insert(_ context.Context, word entities.Word) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, word)
	return nil
}

func (f *fakeStore) ScanAscending() *words.LiveView {
	f.views++
	return &words.LiveView{}
}

func TestWordRepository_TakesOneLiveView(t *testing.T) {
	store := &fakeStore{}

	repo := NewWordRepository(store)

	assert.Equal(t, 1, store.views)
	assert.Same(t, repo.AllWords(), repo.AllWords())
	assert.Equal(t, 1, store.views)
}

func TestWordRepository_InsertDelegates(t *testing.T) {
	store := &fakeStore{}
	repo := NewWordRepository(store)

	w := entities.Word{ID: 1, Word: "apple", Meaning: "a fruit"}
	require.NoError(t, repo.Insert(context.Background(), w))

	assert.Equal(t, []entities.Word{w}, store.inserted)
}

func TestWordRepository_InsertErrorIsUnchanged(t *testing.T) {
	engineErr := errors.New("disk full")
	repo := NewWordRepository(&fakeStore{err: engineErr})

	err := repo.Insert(context.Background(), entities.Word{ID: 1})

	assert.Same(t, engineErr, err)
}

func TestWordRepository_WithStore(t *testing.T) {
	db, err := database.NewQuietDatabase(filepath.Join(t.TempDir(), "words.db"))
	require.NoError(t, err)
	defer db.Close()
	store := words.NewStore(db.DB, words.Options{})
	defer store.Close()

	repo := NewWordRepository(store)
	ctx := context.Background()

	sub, err := repo.AllWords().Observe(ctx)
	require.NoError(t, err)
	defer sub.Close()
	<-sub.C()

	require.NoError(t, repo.Insert(ctx, entities.Word{ID: 2, Word: "banana", Meaning: "a fruit"}))
	require.NoError(t, repo.Insert(ctx, entities.Word{ID: 1, Word: "apple", Meaning: "a fruit"}))

	list, err := repo.AllWords().Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entities.Word{
		{ID: 1, Word: "apple", Meaning: "a fruit"},
		{ID: 2, Word: "banana", Meaning: "a fruit"},
	}, list)

	latest := <-sub.C()
	assert.Equal(t, list, latest)
	assert.Equal(t, words.OrderAscending, repo.AllWords().Order())
}
