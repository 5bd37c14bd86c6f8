// Package session ties the word list to UI sessions.
//
// Each session owns one WordController: it holds the live word list for the
// session's lifetime and runs inserts as tasks on the session's own
// cancellable scope. A Registry maps session IDs to controllers, and Manager
// binds registry entries to browser sessions stored by scs.
package session

import (
	"context"
	"sync"

	"github.com/mrlokans/wordlist/internal/database/words"
	"github.com/mrlokans/wordlist/internal/entities"
)

// WordSource is what a controller needs from the repository.
type WordSource interface {
	AllWords() *words.LiveView
	Insert(ctx context.Context, word entities.Word) error
}

// WordController is the per-session view of the word list.
type WordController struct {
	allWords *words.LiveView
	repo     WordSource

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewWordController creates a controller whose task scope is derived from parent.
func NewWordController(parent context.Context, repo WordSource) *WordController {
	ctx, cancel := context.WithCancel(parent)
	return &WordController{
		allWords: repo.AllWords(),
		repo:     repo,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// AllWords returns the live word list, ascending by word.
func (c *WordController) AllWords() *words.LiveView {
	return c.allWords
}

// Context is the session scope. It is cancelled by Close.
func (c *WordController) Context() context.Context {
	return c.ctx
}

// Insert schedules word for insertion on the session scope and returns
// immediately. Closing the session abandons interest in the result; a write
// already handed to the store is still committed.
func (c *WordController) Insert(word entities.Word) *PendingInsert {
	p := newPendingInsert()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		p.finish(ErrSessionClosed)
		return p
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		p.finish(c.repo.Insert(c.ctx, word))
	}()
	return p
}

// Close cancels the session scope and waits for its insert tasks to settle.
func (c *WordController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// Closed reports whether Close has been called.
func (c *WordController) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// PendingInsert is the outcome of an insert scheduled by a WordController.
type PendingInsert struct {
	done chan struct{}
	err  error
}

func newPendingInsert() *PendingInsert {
	return &PendingInsert{done: make(chan struct{})}
}

func (p *PendingInsert) finish(err error) {
	p.err = err
	close(p.done)
}

// Done is closed once the insert has committed or failed.
func (p *PendingInsert) Done() <-chan struct{} {
	return p.done
}

// Err returns the insert's result. It is only meaningful after Done is closed.
func (p *PendingInsert) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Wait blocks until the insert settles or ctx ends.
func (p *PendingInsert) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
