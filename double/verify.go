package double

import (
	"strings"

	"github.com/roach88/doppel/match"
)

// TestingT is the reporting surface for verification failures. It is
// satisfied by *testing.T and by testify's TestingT. Failures report
// through it rather than being thrown, so several assertions in one
// test each report independently.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
}

// spyView is the read-only slice of a Spy that verification needs,
// independent of the output type parameter.
type spyView interface {
	Label() string
	Effect() Effect
	matchingInvocations(call match.Call) []*Invocation
	failuresFor(call match.Call) []error
}

// Assert is a read-only query over one spy's invocation log, filtered
// by an argument matcher tuple. It never mutates the log.
type Assert struct {
	t    TestingT
	spy  spyView
	call match.Call
}

// Verify begins verification of calls matching the given tuple. Raw
// values may be passed through match.Args lifting at the call site.
func (s *Spy[O]) Verify(t TestingT, ms ...match.Matcher) *Assert {
	return &Assert{t: t, spy: s, call: s.newCall(ms)}
}

// CalledCount returns the number of matching invocations.
func (a *Assert) CalledCount() int {
	return len(a.spy.matchingInvocations(a.call))
}

// Called asserts on the matching call count. With no count matcher the
// assertion is "called at least once"; otherwise every supplied matcher
// must accept the actual count.
func (a *Assert) Called(countMatchers ...match.Matcher) {
	a.t.Helper()
	n := a.CalledCount()
	if len(countMatchers) == 0 {
		if n < 1 {
			a.fail(newError(CodeUnfulfilledCallCount,
				"expected %s%s to be called at least once, was called %d times",
				a.spy.Label(), a.call.Description(), n))
		}
		return
	}
	for _, cm := range countMatchers {
		if !cm.Matches(n) {
			a.fail(newError(CodeUnfulfilledCallCount,
				"expected call count matching %s for %s%s, got %d",
				cm.Description(), a.spy.Label(), a.call.Description(), n))
			return
		}
	}
}

// NeverCalled asserts the matching call count is zero.
func (a *Assert) NeverCalled() {
	a.t.Helper()
	a.Called(match.Equal(0))
}

// Throws asserts that at least one matching invocation resolved to a
// failure satisfying every error matcher. With no matcher, any failure
// satisfies the assertion. Only throwing effects record failures.
func (a *Assert) Throws(errMatchers ...match.Matcher) {
	a.t.Helper()
	if !a.spy.Effect().Throwing() {
		a.fail(newError(CodeConfiguration,
			"Throws on %s: effect %s cannot throw", a.spy.Label(), a.spy.Effect()))
		return
	}
	failures := a.spy.failuresFor(a.call)
	if len(failures) == 0 {
		a.fail(newError(CodeDidNotThrow,
			"expected %s%s to throw, but no matching invocation failed",
			a.spy.Label(), a.call.Description()))
		return
	}
	if len(errMatchers) == 0 {
		errMatchers = []match.Matcher{match.AnyError()}
	}
	for _, err := range failures {
		if errorMatchesAll(err, errMatchers) {
			return
		}
	}
	a.fail(newError(CodeDidNotMatchThrown,
		"%s%s threw %s, none matching %s",
		a.spy.Label(), a.call.Description(), formatErrors(failures), describeAll(errMatchers)))
}

// Captured runs an inspector over the arguments of every matching
// invocation, in call order. The inspector's own error surfaces as a
// failure; a matcher tuple that matched nothing is reported distinctly.
func (a *Assert) Captured(inspect func(i int, args []any) error) {
	a.t.Helper()
	invs := a.spy.matchingInvocations(a.call)
	if len(invs) == 0 {
		a.fail(newError(CodeNoMatchingInvocations,
			"no invocations of %s match %s", a.spy.Label(), a.call.Description()))
		return
	}
	for i, inv := range invs {
		if err := inspect(i, inv.Args); err != nil {
			a.t.Errorf("captured arguments of %s%s, invocation %d: %v",
				a.spy.Label(), a.call.Description(), i, err)
		}
	}
}

func (a *Assert) fail(err *MockingError) {
	a.t.Helper()
	a.t.Errorf("%v", err)
}

func errorMatchesAll(err error, ms []match.Matcher) bool {
	for _, m := range ms {
		if !m.Matches(err) {
			return false
		}
	}
	return true
}

func describeAll(ms []match.Matcher) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.Description()
	}
	return strings.Join(parts, ", ")
}

func formatErrors(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = "[" + err.Error() + "]"
	}
	return strings.Join(parts, ", ")
}
