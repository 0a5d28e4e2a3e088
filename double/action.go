package double

import "github.com/roach88/doppel/match"

// action is a registered side-effecting hook. Unlike stubs, every
// matching action fires on a call, ordered by descending precedence
// with the most recently registered first inside a bucket.
type action struct {
	call match.Call
	prec int // call.Precedence(), cached at registration
	run  func(args []any)
}

// ActionCall is the fluent entry point for attaching actions to a
// matcher tuple without programming a response (see Spy.WhenCalled).
type ActionCall[O any] struct {
	spy  *Spy[O]
	call match.Call
}

// Do registers a hook fired on every call matching the tuple. May be
// called repeatedly; each call appends another action.
func (ac *ActionCall[O]) Do(run func(args []any)) *ActionCall[O] {
	ac.spy.addAction(&action{call: ac.call, prec: ac.call.Precedence(), run: run})
	return ac
}
