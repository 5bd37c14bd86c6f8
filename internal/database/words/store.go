// Package words owns word_table: the single persisted collection of vocabulary
// words and the live views over it.
//
// # Writes
//
// Insert and DeleteAll never touch the database from the caller's goroutine.
// They are handed to one writer goroutine that applies them in arrival order,
// so writes are serialized without any extra locking around the table.
//
// # Live views
//
// ScanAscending returns a LiveView. Observers of a live view receive the
// current result set on subscribe and a fresh snapshot after every committed
// write that changed the table. The store keeps one registry of subscribers
// keyed by Order and re-runs each shape once per change.
//
// # Usage
//
//	store := words.NewStore(db.DB, words.Options{})
//	defer store.Close()
//
//	sub, err := store.ScanAscending().Observe(ctx)
//	...
//	err = store.Insert(ctx, entities.Word{ID: 1, Word: "apple", Meaning: "a fruit"})
//	list := <-sub.C()
package words

import (
	"context"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/wordlist/internal/entities"
)

// DefaultQueueSize is the number of writes that may wait for the writer
// before Insert and DeleteAll start blocking.
const DefaultQueueSize = 64

// Options configures a Store.
type Options struct {
	// QueueSize is the capacity of the write queue. Default: DefaultQueueSize
	QueueSize int
}

// applyFunc performs one write and reports whether the table changed.
type applyFunc func(db *gorm.DB) (changed bool, err error)

type writeRequest struct {
	op     string
	apply  applyFunc
	result chan error
}

// Store is the only component with write access to word_table.
type Store struct {
	db *gorm.DB

	writes  chan writeRequest
	closeMu sync.RWMutex
	closed  bool
	wg      sync.WaitGroup

	// liveMu guards the subscriber registry and orders snapshot delivery.
	liveMu sync.Mutex
	subs   map[Order]map[*Subscription]struct{}
}

// NewStore creates a store over db and starts its writer goroutine.
// The word table must already exist (see database.NewDatabase).
func NewStore(db *gorm.DB, opts Options) *Store {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	s := &Store{
		db:     db,
		writes: make(chan writeRequest, opts.QueueSize),
		subs:   make(map[Order]map[*Subscription]struct{}),
	}
	s.wg.Add(1)
	go s.writer()
	return s
}

// Insert adds word to the table. A word whose ID already exists is silently
// ignored; the stored row is left untouched and no error is returned.
//
// The write runs on the store's writer goroutine. If ctx ends after the write
// was queued, Insert returns ctx.Err() but the write is still applied.
func (s *Store) Insert(ctx context.Context, word entities.Word) error {
	return s.submit(ctx, "insert word", func(db *gorm.DB) (bool, error) {
		row := word
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return false, res.Error
		}
		return res.RowsAffected > 0, nil
	})
}

// DeleteAll removes every word.
func (s *Store) DeleteAll(ctx context.Context) error {
	return s.submit(ctx, "delete all words", func(db *gorm.DB) (bool, error) {
		res := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.Word{})
		if res.Error != nil {
			return false, res.Error
		}
		return res.RowsAffected > 0, nil
	})
}

// ScanAscending returns the live view of all words ordered by word ascending.
func (s *Store) ScanAscending() *LiveView {
	return &LiveView{store: s, order: OrderAscending}
}

// ScanDescending returns a one-shot snapshot of all words ordered by word descending.
func (s *Store) ScanDescending(ctx context.Context) ([]entities.Word, error) {
	words, err := s.scan(ctx, OrderDescending)
	if err != nil {
		return nil, fmt.Errorf("scan words descending: %w", err)
	}
	return words, nil
}

// RawQuery runs q against word_table. It returns false when the query could
// not be run at all, which is different from a query that matched no rows.
func (s *Store) RawQuery(ctx context.Context, q Query) ([]entities.Word, bool) {
	where, args, err := q.compile()
	if err != nil {
		log.Printf("[WORDS] rejected query: %v", err)
		return nil, false
	}

	tx := s.db.WithContext(ctx).Model(&entities.Word{})
	if where != "" {
		tx = tx.Where(where, args...)
	}
	tx = tx.Order(q.orderClause())
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	words := []entities.Word{}
	if err := tx.Find(&words).Error; err != nil {
		log.Printf("[WORDS] query failed: %v", err)
		return nil, false
	}
	return words, true
}

// Close stops accepting writes, waits for queued writes to be applied and
// ends every live subscription.
func (s *Store) Close() error {
	s.closeMu.Lock()
	if s.closed {
		s.closeMu.Unlock()
		return ErrStoreClosed
	}
	s.closed = true
	close(s.writes)
	s.closeMu.Unlock()

	s.wg.Wait()

	s.liveMu.Lock()
	var all []*Subscription
	for _, set := range s.subs {
		for sub := range set {
			all = append(all, sub)
		}
	}
	s.liveMu.Unlock()
	for _, sub := range all {
		sub.Close()
	}
	return nil
}

func (s *Store) submit(ctx context.Context, op string, apply applyFunc) error {
	req := writeRequest{op: op, apply: apply, result: make(chan error, 1)}

	s.closeMu.RLock()
	if s.closed {
		s.closeMu.RUnlock()
		return ErrStoreClosed
	}
	select {
	case s.writes <- req:
	case <-ctx.Done():
		s.closeMu.RUnlock()
		return ctx.Err()
	}
	s.closeMu.RUnlock()

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) writer() {
	defer s.wg.Done()
	for req := range s.writes {
		// Queued writes are applied even if the submitter has gone away.
		changed, err := req.apply(s.db.WithContext(context.Background()))
		if err != nil {
			req.result <- fmt.Errorf("%s: %w", req.op, err)
			continue
		}
		if changed {
			s.refresh()
		}
		req.result <- nil
	}
}

func (s *Store) scan(ctx context.Context, order Order) ([]entities.Word, error) {
	words := []entities.Word{}
	err := s.db.WithContext(ctx).Order(order.clause()).Find(&words).Error
	if err != nil {
		return nil, err
	}
	return words, nil
}
