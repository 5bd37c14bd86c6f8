package words

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/mrlokans/wordlist/internal/entities"
)

// Order is the shape of a full-table scan. It keys the live-view registry.
type Order int

const (
	OrderAscending Order = iota
	OrderDescending
)

func (o Order) String() string {
	if o == OrderDescending {
		return "desc"
	}
	return "asc"
}

// clause orders by word, breaking ties on id in the same direction so that
// the descending scan is exactly the reverse of the ascending one.
func (o Order) clause() string {
	if o == OrderDescending {
		return "word DESC, id DESC"
	}
	return "word ASC, id ASC"
}

// LiveView is a live query over word_table. It is cheap to hold; nothing runs
// until someone observes it.
type LiveView struct {
	store *Store
	order Order
}

// Order reports the scan shape of the view.
func (v *LiveView) Order() Order {
	return v.order
}

// Snapshot runs the view's query once.
func (v *LiveView) Snapshot(ctx context.Context) ([]entities.Word, error) {
	words, err := v.store.scan(ctx, v.order)
	if err != nil {
		return nil, fmt.Errorf("scan words %s: %w", v.order, err)
	}
	return words, nil
}

// Observe subscribes to the view. The subscription's channel first receives
// the current result set, then a fresh snapshot after every write that
// changed the table. It is closed when ctx ends, when Close is called or when
// the store is closed.
func (v *LiveView) Observe(ctx context.Context) (*Subscription, error) {
	s := v.store

	s.closeMu.RLock()
	closed := s.closed
	s.closeMu.RUnlock()
	if closed {
		return nil, ErrStoreClosed
	}

	sub := &Subscription{
		store: s,
		order: v.order,
		ch:    make(chan []entities.Word, 1),
		done:  make(chan struct{}),
	}

	// Holding liveMu across the initial query keeps a concurrent refresh from
	// delivering a newer snapshot before this older one.
	s.liveMu.Lock()
	words, err := s.scan(ctx, v.order)
	if err != nil {
		s.liveMu.Unlock()
		return nil, fmt.Errorf("observe words %s: %w", v.order, err)
	}
	if s.subs[v.order] == nil {
		s.subs[v.order] = make(map[*Subscription]struct{})
	}
	s.subs[v.order][sub] = struct{}{}
	sub.deliver(words)
	s.liveMu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()

	return sub, nil
}

// Subscription receives snapshots of a live view. A slow reader only ever
// sees the most recent snapshot; older undelivered ones are discarded.
type Subscription struct {
	store *Store
	order Order

	mu     sync.Mutex
	ch     chan []entities.Word
	done   chan struct{}
	closed bool
}

// C returns the snapshot channel.
func (sub *Subscription) C() <-chan []entities.Word {
	return sub.ch
}

// Done is closed once the subscription has ended.
func (sub *Subscription) Done() <-chan struct{} {
	return sub.done
}

// Close ends the subscription. It is safe to call more than once.
func (sub *Subscription) Close() {
	sub.store.liveMu.Lock()
	delete(sub.store.subs[sub.order], sub)
	sub.store.liveMu.Unlock()

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)
	close(sub.done)
}

func (sub *Subscription) deliver(words []entities.Word) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	select {
	case <-sub.ch:
	default:
	}
	sub.ch <- slices.Clone(words)
}

// refresh re-runs every shape that has subscribers and pushes the result.
// It is called by the writer after a committed change.
func (s *Store) refresh() {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()

	for order, set := range s.subs {
		if len(set) == 0 {
			continue
		}
		words, err := s.scan(context.Background(), order)
		if err != nil {
			log.Printf("[WORDS] live refresh of %s view failed: %v", order, err)
			continue
		}
		for sub := range set {
			sub.deliver(words)
		}
	}
}

// SubscriberCount reports how many subscriptions are open for order.
func (s *Store) SubscriberCount(order Order) int {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()
	return len(s.subs[order])
}
