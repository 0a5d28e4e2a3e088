package double

import (
	"sync"

	"github.com/google/uuid"
)

// Recorded is one entry in the global invocation ledger.
//
// Entries reference invocations by ID; the arguments are retained as
// opaque values so cross-object matchers can be evaluated without
// reaching back into the owning Spy.
type Recorded struct {
	// Index is the global monotonic position, strictly increasing,
	// assigned under the ledger's single critical section.
	Index int64

	// SpyID identifies the Spy that recorded the call.
	SpyID uuid.UUID

	// InvocationID references the Spy-owned Invocation.
	InvocationID uuid.UUID

	// Method is the owning Spy's human-readable label.
	Method string

	// Args holds the call arguments as opaque values.
	Args []any
}

// Ledger is the shared, order-preserving timeline of calls across all
// spies in one scope. It backs cross-object ordering verification.
//
// Index assignment and append happen inside one critical section, so the
// total order reflects true call order exactly to the extent callers
// reach the ledger under the same lock. Entries are append-only and
// cleared wholesale between tests.
//
// Thread-safety: all methods are safe for concurrent use. Snapshot is
// synchronous and never blocks on in-flight calls beyond the lock.
type Ledger struct {
	mu      sync.Mutex
	next    int64
	entries []Recorded
}

// NewLedger creates an empty ledger whose first index is 1.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records a call and returns its freshly assigned index.
func (l *Ledger) Append(spyID, invocationID uuid.UUID, method string, args []any) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.entries = append(l.entries, Recorded{
		Index:        l.next,
		SpyID:        spyID,
		InvocationID: invocationID,
		Method:       method,
		Args:         args,
	})
	return l.next
}

// Snapshot returns a copy of all entries in index order.
func (l *Ledger) Snapshot() []Recorded {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]Recorded, len(l.entries))
	copy(cp, l.entries)
	return cp
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear empties the ledger and resets index assignment.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.next = 0
}
