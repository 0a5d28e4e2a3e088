package double

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/doppel/match"
)

func TestSpy_ConcurrentCalls_AllRecorded(t *testing.T) {
	scope, spy := newTestSpy[int](t, "op", 1, EffectNone)
	spy.When(match.Any()).ThenReturn(0)

	var g errgroup.Group
	for i := 0; i < 100; i++ {
		g.Go(func() error {
			spy.Call(i)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 100, spy.InvocationCount())
	assert.Equal(t, 100, scope.Ledger().Len())

	invs := spy.Invocations()
	for i, inv := range invs {
		assert.Equal(t, int64(i+1), inv.Ordinal, "ordinals reflect log order")
	}
}

func TestSpy_ConcurrentStubRegistration_DistinctStubs(t *testing.T) {
	_, spy := newTestSpy[int](t, "op", 1, EffectNone)

	var g errgroup.Group
	for i := 0; i < 100; i++ {
		g.Go(func() error {
			spy.When(match.Equal(i)).ThenReturn(i)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	spy.mu.Lock()
	n := len(spy.stubs)
	spy.mu.Unlock()
	assert.Equal(t, 100, n, "one stub per distinct matcher")

	for i := 0; i < 100; i++ {
		assert.Equal(t, i, spy.Call(i))
	}
}

func TestSpy_ConcurrentActionRegistrationAndCalls(t *testing.T) {
	_, spy := newTestSpy[int](t, "op", 1, EffectNone)
	spy.When(match.Any()).ThenReturn(0)

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			spy.RegisterAction(func([]any) {}, match.Any())
			return nil
		})
		g.Go(func() error {
			spy.Call(i)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 50, spy.InvocationCount())
}

func TestScopes_ConcurrentTestsDoNotInterfere(t *testing.T) {
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			scope := NewScope()
			spy := NewSpy[string](scope, fmt.Sprintf("op-%d", i), 1, EffectNone)
			spy.When(match.Any()).ThenReturn("v")

			for j := 0; j < 10; j++ {
				spy.Call(j)
			}
			if got := scope.Ledger().Len(); got != 10 {
				return fmt.Errorf("scope %d: ledger has %d entries, want 10", i, got)
			}
			scope.Clear()
			if got := scope.Ledger().Len(); got != 0 {
				return fmt.Errorf("scope %d: clear left %d entries", i, got)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
