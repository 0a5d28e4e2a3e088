package double

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Invocation is an immutable record of one call: its arguments plus a
// unique identity.
//
// An Invocation is created once per call and owned by the Spy that
// recorded it; the global ledger references it by ID but never mutates
// it. Invocations disappear only through an explicit clear of the
// owning Spy.
type Invocation struct {
	// ID is globally unique across all spies and scopes.
	ID uuid.UUID

	// Args holds the call's arguments in positional order.
	Args []any

	// Ordinal is the 1-based position of this invocation within the
	// owning Spy's log.
	Ordinal int64
}

// IDSource supplies invocation and spy identities.
// Implemented by UUIDSource (production) and FixedIDSource (tests).
type IDSource interface {
	NewID() uuid.UUID
}

// UUIDSource generates time-sortable UUIDv7 identities.
//
// UUIDv7 embeds a timestamp in the most significant bits, making IDs
// sortable by creation time, which helps when reading ledger dumps.
//
// Thread-safety: UUIDSource is stateless and safe for concurrent use.
type UUIDSource struct{}

// NewID creates a new UUIDv7.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDSource) NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// FixedIDSource returns deterministic sequential IDs for tests.
//
// This enables reproducible golden transcript comparison: the Nth ID is
// always "00000000-0000-0000-0000-<N zero padded>".
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedIDSource struct {
	mu sync.Mutex
	n  int64
}

// NewFixedIDSource creates a source whose first ID ends in ...0001.
func NewFixedIDSource() *FixedIDSource {
	return &FixedIDSource{}
}

// NewID returns the next deterministic ID.
func (s *FixedIDSource) NewID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", s.n))
}
