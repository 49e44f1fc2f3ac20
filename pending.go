package rawr

import (
	"sync"
)

// Outcome is the single resolution of a pending call.
type Outcome[T any] struct {
	Value T
	Err   error
}

// PendingTable maps in-flight request ids to single-use completion handles.
//
// Every entry is removed exactly once: by Resolve, Reject, Remove or
// CancelAll. Handles are buffered, so resolving never blocks on the waiter.
// All methods are safe for concurrent use.
type PendingTable[T any] struct {
	mu      sync.Mutex
	next    ReqID
	entries map[ReqID]chan Outcome[T]
	closed  error
}

// NewPendingTable returns an empty table whose first id is 0.
func NewPendingTable[T any]() *PendingTable[T] {
	return &PendingTable[T]{entries: make(map[ReqID]chan Outcome[T])}
}

// Insert allocates the next free id and registers a completion handle for it.
// It fails with the cancellation reason once CancelAll has run.
func (p *PendingTable[T]) Insert() (ReqID, <-chan Outcome[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed != nil {
		return 0, nil, p.closed
	}
	id := p.next
	p.next++
	// After a wraparound the counter can land on an id that is still in flight.
	for _, busy := p.entries[id]; busy; _, busy = p.entries[id] {
		id = p.next
		p.next++
	}
	ch := make(chan Outcome[T], 1)
	p.entries[id] = ch
	return id, ch, nil
}

// Resolve completes id with v. It reports false, leaving the table
// untouched, if id is not pending.
func (p *PendingTable[T]) Resolve(id ReqID, v T) bool {
	return p.complete(id, Outcome[T]{Value: v})
}

// Reject completes id with err. It reports false if id is not pending.
func (p *PendingTable[T]) Reject(id ReqID, err error) bool {
	return p.complete(id, Outcome[T]{Err: err})
}

func (p *PendingTable[T]) complete(id ReqID, out Outcome[T]) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, ok := p.entries[id]
	if !ok {
		return false
	}
	delete(p.entries, id)
	ch <- out
	return true
}

// Remove drops id without completing it. Used when the waiter itself gives up.
func (p *PendingTable[T]) Remove(id ReqID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.entries[id]; !ok {
		return false
	}
	delete(p.entries, id)
	return true
}

// CancelAll rejects every pending entry with reason, empties the table and
// closes it to further inserts. It returns the number of rejected entries.
// Only the first call has any effect. A nil reason means ErrConnectionClosed.
func (p *PendingTable[T]) CancelAll(reason error) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed != nil {
		return 0
	}
	if reason == nil {
		reason = ErrConnectionClosed
	}
	p.closed = reason
	n := len(p.entries)
	for id, ch := range p.entries {
		delete(p.entries, id)
		ch <- Outcome[T]{Err: reason}
	}
	return n
}

// Len returns the number of pending entries.
func (p *PendingTable[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Closed returns the cancellation reason, or nil while the table is open.
func (p *PendingTable[T]) Closed() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
