package double

import (
	"context"
	"sync"
)

// Scope is the isolation boundary for one test: it owns the global
// invocation ledger, the default-value table, and the shared-spy
// namespace. Concurrently running tests each get their own Scope, which
// is what prevents cross-test interference without serializing tests.
//
// Scopes are explicit values, constructor-injected into spies; nothing
// in this package mutates process-wide state. A package-level default
// scope exists only as a fallback for callers that opt out of
// injection (see FromContext).
type Scope struct {
	ledger   *Ledger
	defaults *Defaults
	shared   *Registry

	mu          sync.Mutex
	spies       []Handle
	sharedSpies []Handle // registry-created, dropped with the namespace on Clear
}

// NewScope creates a fresh, fully isolated scope.
func NewScope() *Scope {
	return &Scope{
		ledger:   NewLedger(),
		defaults: NewDefaults(),
		shared:   NewRegistry(),
	}
}

// Ledger returns the scope's global invocation ledger.
func (s *Scope) Ledger() *Ledger { return s.ledger }

// Defaults returns the scope's default-value table.
func (s *Scope) Defaults() *Defaults { return s.defaults }

// Shared returns the scope's shared-spy namespace.
func (s *Scope) Shared() *Registry { return s.shared }

// register tracks a spy so Clear can reach every spy built against
// this scope.
func (s *Scope) register(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spies = append(s.spies, h)
}

// registerShared tracks a registry-created spy. Its handle lives only
// until the next Clear: the namespace forgets the spy then, and a
// retained handle would otherwise accumulate across create/clear
// cycles.
func (s *Scope) registerShared(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sharedSpies = append(s.sharedSpies, h)
}

// Clear resets the ledger, the shared-spy namespace, and every spy
// constructed against this scope. Spy identities survive; logs, stubs
// and actions do not. This is the between-tests reset ("clearAll").
//
// Lock order is registry before scope: SharedSpy constructs new spies
// under the registry lock, and construction registers with the scope.
// Clear therefore resets the namespace after releasing the scope lock;
// it never nests the registry lock inside it.
func (s *Scope) Clear() {
	s.mu.Lock()
	s.ledger.Clear()
	for _, h := range s.spies {
		h.Clear()
	}
	shared := s.sharedSpies
	s.sharedSpies = nil
	s.mu.Unlock()

	for _, h := range shared {
		h.Clear()
	}
	s.shared.Clear()
}

type scopeKey struct{}

// WithScope attaches a scope to a context, threading it through the
// test's execution without ambient globals.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

var defaultScope = sync.OnceValue(NewScope)

// FromContext returns the scope attached to ctx, falling back to the
// process-wide default scope. Tests that run concurrently must attach
// their own scope (or inject one directly) rather than rely on the
// fallback.
func FromContext(ctx context.Context) *Scope {
	if s, ok := ctx.Value(scopeKey{}).(*Scope); ok {
		return s
	}
	return defaultScope()
}
