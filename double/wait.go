package double

import (
	"context"
	"sync"
	"time"

	"github.com/roach88/doppel/match"
)

// WaitUntilCalled blocks until the spy receives a call matching the
// given tuple, the timeout elapses, or ctx is canceled.
//
// It works by registering a one-shot action that resolves on the first
// match. The action is deregistered on every exit path, so no waiting
// state leaks into subsequent calls. A timeout returns a waitTimeout
// error, distinct from stubbing failures; cancellation returns the
// context's error.
//
// Only calls made after registration count; a call that happened before
// WaitUntilCalled does not resolve the wait.
func (s *Spy[O]) WaitUntilCalled(ctx context.Context, timeout time.Duration, ms ...match.Matcher) error {
	call, err := match.NewCall(s.arity, ms...)
	if err != nil {
		return newError(CodeConfiguration, "%s: %v", s.label, err)
	}

	matched := make(chan struct{})
	var once sync.Once
	a := &action{
		call: call,
		prec: call.Precedence(),
		run: func([]any) {
			once.Do(func() { close(matched) })
		},
	}
	s.addAction(a)
	defer s.removeAction(a)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-matched:
		return nil
	case <-timer.C:
		return newError(CodeWaitTimeout,
			"timed out after %s waiting for %s%s", timeout, s.label, call.Description())
	case <-ctx.Done():
		return ctx.Err()
	}
}
