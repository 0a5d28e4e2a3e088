package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/doppel/double"
	"github.com/roach88/doppel/match"
)

// reportSink collects verification failures from the engine's
// TestingT-shaped reporting channel into a check result.
type reportSink struct {
	failures []string
}

func (r *reportSink) Helper() {}

func (r *reportSink) Errorf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

type runner struct {
	scope      *double.Scope
	spies      map[string]*double.Spy[any]
	transcript *Transcript
}

// Run executes a validated scenario against a fresh, isolated scope
// and returns its transcript. The returned error covers structural
// problems only; check failures land in the transcript.
func Run(sc *Scenario) (*Transcript, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	ids := double.NewFixedIDSource()
	r := &runner{
		scope:      double.NewScope(),
		spies:      make(map[string]*double.Spy[any], len(sc.Doubles)),
		transcript: &Transcript{Scenario: sc.Name, Pass: true},
	}
	for _, d := range sc.Doubles {
		eff, err := double.ParseEffect(d.Effect)
		if err != nil {
			return nil, err
		}
		r.spies[d.Label] = double.NewSpy[any](r.scope, d.Label, d.Arity, eff, double.WithIDSource(ids))
		if d.Default != nil {
			double.RegisterDefault(r.scope.Defaults(), d.Default)
		}
	}

	for i, st := range sc.Steps {
		if err := r.step(st); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return r.transcript, nil
}

func (r *runner) step(st Step) error {
	switch {
	case st.Stub != nil:
		return r.stub(st.Stub)
	case st.Call != nil:
		return r.call(st.Call)
	case st.VerifyCount != nil:
		return r.verifyCount(st.VerifyCount)
	case st.VerifyThrows != nil:
		return r.verifyThrows(st.VerifyThrows)
	case st.VerifyOrder != nil:
		return r.verifyOrder(st.VerifyOrder)
	case st.Clear != nil:
		return r.clear(st.Clear)
	default:
		return errors.New("empty step")
	}
}

func (r *runner) stub(st *StubStep) error {
	spy := r.spies[st.Double]
	stub := spy.When(match.Args(st.Args...)...)
	if st.Throw != "" {
		stub.ThenThrow(errors.New(st.Throw))
		return nil
	}
	stub.ThenReturn(st.Return)
	return nil
}

func (r *runner) call(st *CallStep) error {
	spy := r.spies[st.Double]
	ev := Event{Double: st.Double, Args: st.Args}

	switch spy.Effect() {
	case double.EffectNone:
		ev.Result, ev.Error = recoverCall(func() any { return spy.Call(st.Args...) })
	case double.EffectAsync:
		ev.Result, ev.Error = recoverCall(func() any { return spy.CallCtx(context.Background(), st.Args...) })
	case double.EffectThrows:
		v, err := spy.CallErr(st.Args...)
		ev.Result, ev.Error = v, errString(err)
	case double.EffectAsyncThrows:
		v, err := spy.CallCtxErr(context.Background(), st.Args...)
		ev.Result, ev.Error = v, errString(err)
	}
	if ev.Error != "" {
		ev.Result = nil
	}

	// The invocation is recorded before resolution, so the ledger holds
	// the entry even when the call failed.
	ev.Index = int64(r.scope.Ledger().Len())
	r.transcript.Events = append(r.transcript.Events, ev)
	return nil
}

func (r *runner) verifyCount(st *VerifyCountStep) error {
	spy := r.spies[st.Double]
	ms := match.Args(st.Args...)
	if st.Args == nil {
		ms = anyMatchers(spy.Arity())
	}

	sink := &reportSink{}
	spy.Verify(sink, ms...).Called(match.Equal(st.Count))
	r.addCheck("verify_count",
		fmt.Sprintf("%s%s called %d time(s)", st.Double, formatValues(st.Args), st.Count),
		sink.failures)
	return nil
}

func (r *runner) verifyThrows(st *VerifyThrowsStep) error {
	spy := r.spies[st.Double]
	ms := match.Args(st.Args...)
	if st.Args == nil {
		ms = anyMatchers(spy.Arity())
	}

	sink := &reportSink{}
	assert := spy.Verify(sink, ms...)
	detail := fmt.Sprintf("%s%s throws", st.Double, formatValues(st.Args))
	if st.Error == "" {
		assert.Throws()
	} else {
		want := st.Error
		assert.Throws(match.That(func(err error) bool { return err.Error() == want }))
		detail = fmt.Sprintf("%s %q", detail, want)
	}
	r.addCheck("verify_throws", detail, sink.failures)
	return nil
}

func (r *runner) verifyOrder(st *VerifyOrderStep) error {
	expectations := make([]double.Expectation, len(st.Expect))
	details := make([]string, len(st.Expect))
	for i, item := range st.Expect {
		spy := r.spies[item.Double]
		ms := match.Args(item.Args...)
		if item.Args == nil {
			ms = anyMatchers(spy.Arity())
		}
		expectations[i] = spy.Expect(ms...)
		details[i] = item.Double + formatValues(item.Args)
	}

	sink := &reportSink{}
	double.VerifyInOrder(sink, r.scope, expectations...)
	r.addCheck("verify_order", strings.Join(details, " then "), sink.failures)
	return nil
}

func (r *runner) clear(st *ClearStep) error {
	if st.Double == "" {
		r.scope.Clear()
		return nil
	}
	r.spies[st.Double].Clear()
	return nil
}

func (r *runner) addCheck(kind, detail string, failures []string) {
	ck := Check{Kind: kind, Detail: detail, Pass: len(failures) == 0, Failures: failures}
	if !ck.Pass {
		r.transcript.Pass = false
	}
	r.transcript.Checks = append(r.transcript.Checks, ck)
}

// recoverCall converts an unstubbed-call panic into a recorded failure
// so a scenario can demonstrate the halt without crashing the harness.
func recoverCall(call func() any) (result any, errMsg string) {
	defer func() {
		if p := recover(); p != nil {
			errMsg = fmt.Sprintf("%v", p)
		}
	}()
	return call(), ""
}

func anyMatchers(arity int) []match.Matcher {
	ms := make([]match.Matcher, arity)
	for i := range ms {
		ms[i] = match.Any()
	}
	return ms
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
