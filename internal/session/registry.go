package session

import (
	"context"
	"log"
	"sync"
	"time"
)

type entry struct {
	controller *WordController
	lastSeen   time.Time
}

// Registry keeps one WordController per session ID.
type Registry struct {
	parent context.Context
	repo   WordSource
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry creates a registry whose controllers share repo and derive
// their scopes from parent.
func NewRegistry(parent context.Context, repo WordSource) *Registry {
	return &Registry{
		parent:  parent,
		repo:    repo,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Get returns the controller for id, creating it on first use.
func (r *Registry) Get(id string) *WordController {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		e = &entry{controller: NewWordController(r.parent, r.repo)}
		r.entries[id] = e
		log.Printf("[SESSION] started %s (active: %d)", shortID(id), len(r.entries))
	}
	e.lastSeen = r.now()
	return e.controller
}

// Lookup returns the controller for id without creating one.
func (r *Registry) Lookup(id string) (*WordController, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.controller, true
}

// End closes and forgets the controller for id.
func (r *Registry) End(id string) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	e.controller.Close()
	log.Printf("[SESSION] ended %s", shortID(id))
	return nil
}

// Sweep ends every session not seen within idle and returns how many it ended.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*WordController
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.controller)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
	if len(stale) > 0 {
		log.Printf("[SESSION] swept %d idle sessions", len(stale))
	}
	return len(stale)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// CloseAll ends every session. Used at shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.entries
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range all {
		e.controller.Close()
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
