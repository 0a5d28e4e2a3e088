package double

import (
	"sync"

	"github.com/google/uuid"
)

// Handle is the type-erased view of a Spy held by registries and mock
// containers. Concrete spies are recovered with an explicit type check,
// never a silent cast.
type Handle interface {
	ID() uuid.UUID
	Label() string
	Arity() int
	Effect() Effect
	InvocationCount() int
	Clear()
}

// Registry is the shared ("static") spy namespace: names resolve to a
// list of type-erased handles, one per distinct output type, created
// lazily on first access.
//
// Thread-safety: safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	spies map[string][]Handle
}

// NewRegistry creates an empty namespace.
func NewRegistry() *Registry {
	return &Registry{spies: make(map[string][]Handle)}
}

// Clear empties the namespace. Spies created through it are forgotten;
// the next typed access creates fresh ones.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spies = make(map[string][]Handle)
}

// Names returns the registered names, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.spies))
	for name := range r.spies {
		names = append(names, name)
	}
	return names
}

// SharedSpy looks up or creates the shared spy for name with output
// type O in the scope's namespace.
//
// Several output types may coexist under one name (operation
// overloads); each gets its own handle. A handle that exists with the
// right output type but a different arity or effect is a configuration
// error, returned rather than silently miscast.
//
// Construction happens under the registry lock, which nests the scope
// lock inside it (registration). Scope.Clear honors the same order, so
// concurrent create and clear never wedge.
func SharedSpy[O any](scope *Scope, name string, arity int, effect Effect) (*Spy[O], error) {
	r := scope.Shared()
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range r.spies[name] {
		spy, ok := h.(*Spy[O])
		if !ok {
			continue
		}
		if spy.Arity() != arity || spy.Effect() != effect {
			return nil, newError(CodeConfiguration,
				"shared spy %q already registered with arity %d effect %s, requested arity %d effect %s",
				name, spy.Arity(), spy.Effect(), arity, effect)
		}
		return spy, nil
	}

	spy := NewSpy[O](scope, name, arity, effect, registryOwned())
	r.spies[name] = append(r.spies[name], spy)
	return spy, nil
}
