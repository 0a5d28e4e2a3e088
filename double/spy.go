package double

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/doppel/match"
)

// Spy is the per-operation engine: it owns the invocation log, the stub
// table and the action table for a single mocked operation signature.
// One Spy exists per operation per mock instance (or per name, for
// shared operations resolved through a Registry).
//
// O is the operation's output type. Arguments are an ordered list of
// type-erased values of fixed arity; generated mocks provide the typed
// veneer on top.
//
// Thread-safety model:
//   - Call/CallErr/CallCtx/CallCtxErr: safe from any goroutine
//   - When/WhenCalled/RegisterAction: safe from any goroutine
//   - Verification reads: safe concurrently with writes to other spies;
//     reads of this spy take the same lock as its writes
//
// INVARIANTS:
//   - invocation order equals call order (no reordering)
//   - stub/action tables are insertion-ordered; resolution is by
//     precedence with most-recently-registered winning ties
type Spy[O any] struct {
	id      uuid.UUID
	label   string
	arity   int
	effect  Effect
	scope   *Scope
	ids     IDSource
	logger  *slog.Logger
	logging bool
	outType reflect.Type

	mu          sync.Mutex
	invocations []*Invocation
	stubs       []*Stub[O]
	actions     []*action
	outcomes    map[uuid.UUID]outcome[O]
}

// outcome is the recorded result of one resolved invocation, inspected
// later by Throws verification.
type outcome[O any] struct {
	value O
	err   error
}

type spyConfig struct {
	logging       bool
	logger        *slog.Logger
	ids           IDSource
	registryOwned bool
}

// SpyOption configures a Spy at construction.
type SpyOption func(*spyConfig)

// WithLogging enables a debug log line per recorded call.
func WithLogging(enabled bool) SpyOption {
	return func(c *spyConfig) { c.logging = enabled }
}

// WithLogger sets the logger used when logging is enabled.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) SpyOption {
	return func(c *spyConfig) { c.logger = l }
}

// WithIDSource overrides identity generation (for deterministic tests).
// Defaults to UUIDSource.
func WithIDSource(ids IDSource) SpyOption {
	return func(c *spyConfig) { c.ids = ids }
}

// registryOwned marks a spy as owned by the scope's shared namespace;
// the scope drops its handle when the namespace is cleared.
func registryOwned() SpyOption {
	return func(c *spyConfig) { c.registryOwned = true }
}

// NewSpy creates a Spy for one operation signature.
//
// The effect tag is validated here; exactly one call path is legal for
// the spy's lifetime. Invalid effect or negative arity is engine misuse
// and panics with a configuration error.
func NewSpy[O any](scope *Scope, label string, arity int, effect Effect, opts ...SpyOption) *Spy[O] {
	if !effect.Valid() {
		panic(newError(CodeConfiguration, "spy %q constructed with invalid effect %s", label, effect))
	}
	if arity < 0 {
		panic(newError(CodeConfiguration, "spy %q constructed with negative arity %d", label, arity))
	}
	cfg := spyConfig{logger: slog.Default(), ids: UUIDSource{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Spy[O]{
		id:       cfg.ids.NewID(),
		label:    label,
		arity:    arity,
		effect:   effect,
		scope:    scope,
		ids:      cfg.ids,
		logger:   cfg.logger,
		logging:  cfg.logging,
		outType:  reflect.TypeOf((*O)(nil)).Elem(),
		outcomes: make(map[uuid.UUID]outcome[O]),
	}
	if cfg.registryOwned {
		scope.registerShared(s)
	} else {
		scope.register(s)
	}
	return s
}

// ID returns the spy's unique identity.
func (s *Spy[O]) ID() uuid.UUID { return s.id }

// Label returns the human-readable operation label.
func (s *Spy[O]) Label() string { return s.label }

// Arity returns the fixed argument count of the operation.
func (s *Spy[O]) Arity() int { return s.arity }

// Effect returns the spy's control-flow shape.
func (s *Spy[O]) Effect() Effect { return s.effect }

// Call invokes a none-effect spy. Unstubbed calls with no registered
// default halt the test loudly: an un-programmed mock was exercised.
func (s *Spy[O]) Call(args ...any) O {
	s.requireEffect(EffectNone, "Call")
	out, err := s.invoke(context.Background(), args)
	if err != nil {
		panic(newError(CodeConfiguration,
			"stub for %s produced error %v, but effect none cannot throw", s.label, err))
	}
	return out
}

// CallErr invokes a throws-effect spy. Unstubbed calls surface as a
// catchable unstubbed error.
func (s *Spy[O]) CallErr(args ...any) (O, error) {
	s.requireEffect(EffectThrows, "CallErr")
	return s.invoke(context.Background(), args)
}

// CallCtx invokes an async-effect spy; the stored response producer may
// block on ctx before returning.
func (s *Spy[O]) CallCtx(ctx context.Context, args ...any) O {
	s.requireEffect(EffectAsync, "CallCtx")
	out, err := s.invoke(ctx, args)
	if err != nil {
		panic(newError(CodeConfiguration,
			"stub for %s produced error %v, but effect async cannot throw", s.label, err))
	}
	return out
}

// CallCtxErr invokes an async-throws-effect spy.
func (s *Spy[O]) CallCtxErr(ctx context.Context, args ...any) (O, error) {
	s.requireEffect(EffectAsyncThrows, "CallCtxErr")
	return s.invoke(ctx, args)
}

func (s *Spy[O]) requireEffect(want Effect, path string) {
	if s.effect != want {
		panic(newError(CodeConfiguration,
			"%s is the %s call path, but spy %q has effect %s", path, want, s.label, s.effect))
	}
}

// invoke is the shared call pipeline:
//  1. record the invocation in the spy log and the scope ledger
//  2. emit a debug line if logging is enabled
//  3. run every matching action
//  4. resolve at most one stub by precedence
//  5. fall back to the default-value table, else unstubbed
//  6. resolve the response and record the outcome
func (s *Spy[O]) invoke(ctx context.Context, args []any) (O, error) {
	if len(args) != s.arity {
		panic(newError(CodeConfiguration,
			"%s called with %d arguments, arity is %d", s.label, len(args), s.arity))
	}
	recorded := make([]any, len(args))
	copy(recorded, args)

	s.mu.Lock()
	inv := &Invocation{
		ID:      s.ids.NewID(),
		Args:    recorded,
		Ordinal: int64(len(s.invocations) + 1),
	}
	s.invocations = append(s.invocations, inv)
	acts := s.matchActionsLocked(recorded)
	// Ledger append inside the spy lock keeps this spy's ledger order
	// consistent with its log order. Lock order is spy then ledger;
	// the ledger never calls back into a spy.
	s.scope.Ledger().Append(s.id, inv.ID, s.label, recorded)
	s.mu.Unlock()

	if s.logging {
		s.logger.Debug("recorded call",
			"label", s.label,
			"ordinal", inv.Ordinal,
			"args", formatArgs(recorded))
	}

	// Side effects are fire-and-forget relative to the return value,
	// and run before stub resolution. Actions execute outside the spy
	// lock so they may re-enter the spy (stub, verify, even call).
	for _, a := range acts {
		a.run(recorded)
	}

	resp, ok := s.resolveResponder(recorded)
	if !ok {
		if v, found := s.scope.Defaults().Lookup(s.outType); found {
			out, castOK := v.(O)
			if !castOK {
				panic(newError(CodeConfiguration,
					"default value for %s has type %T, want %s", s.label, v, s.outType))
			}
			s.recordOutcome(inv.ID, out, nil)
			return out, nil
		}
		err := newError(CodeUnstubbed,
			"unstubbed call %s%s and no default value for %s", s.label, formatArgs(recorded), s.outType)
		if s.effect.Throwing() {
			var zero O
			s.recordOutcome(inv.ID, zero, err)
			return zero, err
		}
		panic(err)
	}

	out, err := resp.resolve(ctx, recorded)
	s.recordOutcome(inv.ID, out, err)
	return out, err
}

// resolveResponder picks at most one stub: highest aggregate precedence
// wins; equal precedence resolves to the most recently registered. The
// responder is copied out under the lock so a concurrent re-stub cannot
// race the resolution.
func (s *Spy[O]) resolveResponder(args []any) (responder[O], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *Stub[O]
	for i := len(s.stubs) - 1; i >= 0; i-- {
		st := s.stubs[i]
		if st.resp.kind == responderNone {
			// When without a Then configures nothing.
			continue
		}
		if !st.call.MatchesArgs(args) {
			continue
		}
		// Strictly-greater keeps the later-registered stub on ties,
		// because the scan runs in reverse registration order.
		if best == nil || st.call.Precedence() > best.call.Precedence() {
			best = st
		}
	}
	if best == nil {
		return responder[O]{}, false
	}
	return best.resp, true
}

// matchActionsLocked gathers every matching action, ordered by
// descending precedence with reverse-insertion order inside a bucket.
// Caller holds s.mu.
func (s *Spy[O]) matchActionsLocked(args []any) []*action {
	var matched []*action
	for i := len(s.actions) - 1; i >= 0; i-- {
		a := s.actions[i]
		if a.call.MatchesArgs(args) {
			matched = append(matched, a)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].prec > matched[j].prec
	})
	return matched
}

func (s *Spy[O]) recordOutcome(id uuid.UUID, value O, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[id] = outcome[O]{value: value, err: err}
}

// When begins stubbing: it returns the Stub registered for the given
// matcher tuple, creating one if this exact tuple of matcher instances
// has not been stubbed before. Configuring the returned Stub again
// replaces its response (last write wins, no accumulation).
func (s *Spy[O]) When(ms ...match.Matcher) *Stub[O] {
	call := s.newCall(ms)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.stubs {
		if st.call.SameMatchers(call) {
			return st
		}
	}
	st := &Stub[O]{spy: s, call: call}
	s.stubs = append(s.stubs, st)
	return st
}

// WhenCalled begins action registration for calls matching the given
// tuple. Registration always appends: several actions may coexist, and
// all matching ones fire per call. Actions never affect which stub
// resolves.
func (s *Spy[O]) WhenCalled(ms ...match.Matcher) *ActionCall[O] {
	return &ActionCall[O]{spy: s, call: s.newCall(ms)}
}

// RegisterAction is the non-fluent form of WhenCalled(...).Do(run).
func (s *Spy[O]) RegisterAction(run func(args []any), ms ...match.Matcher) {
	call := s.newCall(ms)
	s.addAction(&action{call: call, prec: call.Precedence(), run: run})
}

func (s *Spy[O]) addAction(a *action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, a)
}

func (s *Spy[O]) removeAction(target *action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.actions[:0]
	for _, a := range s.actions {
		if a != target {
			kept = append(kept, a)
		}
	}
	s.actions = kept
}

// newCall builds the fixed-arity matcher tuple. A matcher count that
// does not fit the operation's signature is engine misuse.
func (s *Spy[O]) newCall(ms []match.Matcher) match.Call {
	call, err := match.NewCall(s.arity, ms...)
	if err != nil {
		panic(newError(CodeConfiguration, "%s: %v", s.label, err))
	}
	return call
}

// Invocations returns a copy of the invocation log in call order.
func (s *Spy[O]) Invocations() []*Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]*Invocation, len(s.invocations))
	copy(cp, s.invocations)
	return cp
}

// InvocationCount returns the number of recorded calls.
func (s *Spy[O]) InvocationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invocations)
}

// Clear empties the invocation log, stub table, action table and
// recorded outcomes. The spy's identity and configuration survive.
func (s *Spy[O]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invocations = nil
	s.stubs = nil
	s.actions = nil
	s.outcomes = make(map[uuid.UUID]outcome[O])
}

// matchingInvocations returns invocations matched by call, in order.
func (s *Spy[O]) matchingInvocations(call match.Call) []*Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*Invocation
	for _, inv := range s.invocations {
		if call.MatchesArgs(inv.Args) {
			matched = append(matched, inv)
		}
	}
	return matched
}

// failuresFor returns the errors of matching invocations whose resolved
// outcome was a failure, in call order. Outcomes are recorded at call
// completion, so async responses are already resolved by the time a
// verification inspects them.
func (s *Spy[O]) failuresFor(call match.Call) []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, inv := range s.invocations {
		if !call.MatchesArgs(inv.Args) {
			continue
		}
		if o, ok := s.outcomes[inv.ID]; ok && o.err != nil {
			errs = append(errs, o.err)
		}
	}
	return errs
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%v", a)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
