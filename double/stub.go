package double

import (
	"context"

	"github.com/roach88/doppel/match"
)

type responderKind int

const (
	responderNone responderKind = iota
	responderValue
	responderError
	responderFn
	responderAwait
)

// responder produces a stub's response. It is a value type copied out
// of the stub under the spy lock, so resolution never races a re-stub.
type responder[O any] struct {
	kind  responderKind
	value O
	err   error
	fn    func(args []any) (O, error)
	await func(ctx context.Context, args []any) (O, error)
}

func (r responder[O]) resolve(ctx context.Context, args []any) (O, error) {
	switch r.kind {
	case responderValue:
		return r.value, nil
	case responderError:
		var zero O
		return zero, r.err
	case responderFn:
		return r.fn(args)
	case responderAwait:
		return r.await(ctx, args)
	default:
		var zero O
		return zero, nil
	}
}

// Stub is a registered matcher-to-response pair. The object is stable
// for a given matcher tuple; configuration calls swap its response, and
// the last write wins.
type Stub[O any] struct {
	spy  *Spy[O]
	call match.Call
	resp responder[O] // guarded by spy.mu
}

// Precedence returns the stub's aggregate matcher precedence.
func (st *Stub[O]) Precedence() int { return st.call.Precedence() }

// ThenReturn makes the stub respond with a fixed value.
func (st *Stub[O]) ThenReturn(v O) *Stub[O] {
	st.set(responder[O]{kind: responderValue, value: v})
	return st
}

// ThenReturnFn makes the stub respond through a per-call handler. The
// handler receives the invocation's exact typed arguments, not
// matcher-projected values. Returning a non-nil error is only legal for
// throwing effects.
func (st *Stub[O]) ThenReturnFn(fn func(args []any) (O, error)) *Stub[O] {
	st.set(responder[O]{kind: responderFn, fn: fn})
	return st
}

// ThenThrow makes the stub respond with an error. Only throwing effects
// can surface one; configuring it elsewhere is engine misuse.
func (st *Stub[O]) ThenThrow(err error) *Stub[O] {
	if !st.spy.Effect().Throwing() {
		panic(newError(CodeConfiguration,
			"ThenThrow on %s: effect %s cannot throw", st.spy.Label(), st.spy.Effect()))
	}
	st.set(responder[O]{kind: responderError, err: err})
	return st
}

// ThenAwait makes the stub respond through a context-aware handler that
// may block. Only async effects have a suspension point.
func (st *Stub[O]) ThenAwait(fn func(ctx context.Context, args []any) (O, error)) *Stub[O] {
	if !st.spy.Effect().Awaits() {
		panic(newError(CodeConfiguration,
			"ThenAwait on %s: effect %s has no suspension point", st.spy.Label(), st.spy.Effect()))
	}
	st.set(responder[O]{kind: responderAwait, await: fn})
	return st
}

// Do registers an action with this stub's matcher tuple. The action is
// independent of the stub's response and fires on every matching call.
func (st *Stub[O]) Do(run func(args []any)) *Stub[O] {
	st.spy.addAction(&action{call: st.call, prec: st.call.Precedence(), run: run})
	return st
}

func (st *Stub[O]) set(r responder[O]) {
	st.spy.mu.Lock()
	defer st.spy.mu.Unlock()
	st.resp = r
}
