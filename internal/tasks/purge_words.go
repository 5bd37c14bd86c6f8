package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// WordPurger removes every stored word.
type WordPurger interface {
	DeleteAll(ctx context.Context) error
}

// PurgeWordsTask empties the word table. It carries no payload.
type PurgeWordsTask struct{}

// Config returns the queue configuration for purge tasks.
func (t PurgeWordsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_words",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PurgeWordsProcessor creates a processor function for PurgeWordsTask.
func PurgeWordsProcessor(purger WordPurger) backlite.QueueProcessor[PurgeWordsTask] {
	return func(ctx context.Context, task PurgeWordsTask) error {
		if purger == nil {
			return fmt.Errorf("word purger not configured")
		}

		if err := purger.DeleteAll(ctx); err != nil {
			return fmt.Errorf("purge words: %w", err)
		}

		log.Printf("[TASK] Purged word list")
		return nil
	}
}

// NewPurgeWordsQueue creates a backlite queue for purge tasks.
func NewPurgeWordsQueue(purger WordPurger) backlite.Queue {
	return backlite.NewQueue(PurgeWordsProcessor(purger))
}
