// Package ledger implements the core ledger operations: the category tree,
// account balance derivation, and the validated transaction log. It consumes
// persistence through the service.Storage contract and holds no state of its
// own beyond the store handle.
package ledger

import (
	"context"
	"sync"

	"github.com/Veraticus/tally/internal/service"
)

// Ledger exposes the mutation and query operations of the ledger core.
type Ledger struct {
	store service.Storage
}

// New creates a ledger over the given store.
func New(store service.Storage) *Ledger {
	return &Ledger{store: store}
}

// Watch returns a channel that receives a tick after every committed store
// mutation, until ctx is done. Consumers recompute balances or reports from
// a fresh snapshot on each tick; the signal coalesces, so treat results as
// eventually-consistent.
func (l *Ledger) Watch(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)

	// The store may deliver a notification concurrently with cancellation:
	// Subscribe's cancel only stops future deliveries, not one already in
	// flight. The mutex and closed flag make close(ch) safe against that
	// late delivery.
	var mu sync.Mutex
	closed := false

	cancel := l.store.Subscribe(func() {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- struct{}{}:
		default: // a tick is already pending
		}
	})

	go func() {
		<-ctx.Done()
		cancel()

		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()

	return ch
}
