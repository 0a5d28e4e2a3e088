package double

import (
	"strings"
	"sync"
)

// Mock aggregates every Spy belonging to one mock instance, giving
// instance-level operations: zero-interaction verification and a
// between-tests reset.
type Mock struct {
	mu    sync.Mutex
	spies []Handle
}

// NewMock creates a container over the given spy handles.
func NewMock(handles ...Handle) *Mock {
	m := &Mock{}
	m.Attach(handles...)
	return m
}

// Attach adds spies to the container. Generated mocks attach one spy
// per operation at construction.
func (m *Mock) Attach(handles ...Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spies = append(m.spies, handles...)
}

// TotalInvocations returns the invocation count summed across all
// owned spies.
func (m *Mock) TotalInvocations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, h := range m.spies {
		total += h.InvocationCount()
	}
	return total
}

// Clear empties every owned spy's invocation, stub and action lists,
// keeping identities. Used between tests.
func (m *Mock) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.spies {
		h.Clear()
	}
}

// touched returns the labels of spies with at least one invocation.
func (m *Mock) touched() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var labels []string
	for _, h := range m.spies {
		if h.InvocationCount() > 0 {
			labels = append(labels, h.Label())
		}
	}
	return labels
}

// VerifyZeroInteractions asserts no operation of the mock was called.
func VerifyZeroInteractions(t TestingT, m *Mock) {
	t.Helper()
	if n := m.TotalInvocations(); n > 0 {
		t.Errorf("%v", newError(CodeUnfulfilledCallCount,
			"expected zero interactions, got %d call(s) to %s",
			n, strings.Join(m.touched(), ", ")))
	}
}
