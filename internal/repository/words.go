// Package repository narrows the word store down to what the UI layer uses:
// one live list of words in ascending order and one insert operation.
package repository

import (
	"context"

	"github.com/mrlokans/wordlist/internal/database/words"
	"github.com/mrlokans/wordlist/internal/entities"
)

// WordStore is the part of words.Store the repository depends on.
type WordStore interface {
	Insert(ctx context.Context, word entities.Word) error
	ScanAscending() *words.LiveView
}

// WordRepository exposes the current word list and inserts into it.
type WordRepository struct {
	store    WordStore
	allWords *words.LiveView
}

// NewWordRepository binds the repository to store and takes the one live
// view it will hand out for its whole lifetime.
func NewWordRepository(store WordStore) *WordRepository {
	return &WordRepository{
		store:    store,
		allWords: store.ScanAscending(),
	}
}

// AllWords returns the live list of words ordered by word ascending.
func (r *WordRepository) AllWords() *words.LiveView {
	return r.allWords
}

// Insert blocks until the store's writer has applied the insert.
func (r *WordRepository) Insert(ctx context.Context, word entities.Word) error {
	return r.store.Insert(ctx, word)
}
