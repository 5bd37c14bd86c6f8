package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/wordlist/internal/entities"
)

// WordInserter stores a single word. Inserting an existing id is a no-op,
// so a retried import never duplicates rows.
type WordInserter interface {
	Insert(ctx context.Context, word entities.Word) error
}

// ImportWordsTask inserts a batch of words in the background.
type ImportWordsTask struct {
	Words []entities.Word `json:"words"`
}

// Config returns the queue configuration for word imports.
func (t ImportWordsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_words",
		MaxAttempts: 3,
		Backoff:     10 * time.Second,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportWordsProcessor creates a processor function for ImportWordsTask.
func ImportWordsProcessor(inserter WordInserter) backlite.QueueProcessor[ImportWordsTask] {
	return func(ctx context.Context, task ImportWordsTask) error {
		if inserter == nil {
			return fmt.Errorf("word inserter not configured")
		}

		for i, w := range task.Words {
			if err := inserter.Insert(ctx, w); err != nil {
				return fmt.Errorf("import word %d of %d (id %d): %w", i+1, len(task.Words), w.ID, err)
			}
		}

		log.Printf("[TASK] Imported %d words", len(task.Words))
		return nil
	}
}

// NewImportWordsQueue creates a backlite queue for word import tasks.
func NewImportWordsQueue(inserter WordInserter) backlite.Queue {
	return backlite.NewQueue(ImportWordsProcessor(inserter))
}
