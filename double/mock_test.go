package double

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doppel/match"
)

func TestMock_TotalInvocations(t *testing.T) {
	scope := NewScope()
	get := NewSpy[string](scope, "get", 1, EffectNone)
	put := NewSpy[bool](scope, "put", 2, EffectNone)
	get.When(match.Any()).ThenReturn("v")
	put.When(match.Any(), match.Any()).ThenReturn(true)

	m := NewMock(get, put)
	assert.Equal(t, 0, m.TotalInvocations())

	get.Call("k")
	put.Call("k", "v")
	put.Call("k2", "v2")

	assert.Equal(t, 3, m.TotalInvocations())
}

func TestMock_Clear_EmptiesEveryOwnedSpy(t *testing.T) {
	scope := NewScope()
	get := NewSpy[string](scope, "get", 1, EffectNone)
	put := NewSpy[bool](scope, "put", 2, EffectNone)
	get.When(match.Any()).ThenReturn("v")
	put.When(match.Any(), match.Any()).ThenReturn(true)

	m := NewMock(get, put)
	get.Call("k")
	put.Call("k", "v")

	getID, putID := get.ID(), put.ID()
	m.Clear()

	assert.Equal(t, 0, m.TotalInvocations())
	assert.Equal(t, getID, get.ID())
	assert.Equal(t, putID, put.ID())
}

func TestVerifyZeroInteractions(t *testing.T) {
	scope := NewScope()
	get := NewSpy[string](scope, "get", 1, EffectNone)
	get.When(match.Any()).ThenReturn("v")
	m := NewMock(get)

	rt := &recordingT{}
	VerifyZeroInteractions(rt, m)
	assert.Empty(t, rt.failures)

	get.Call("k")
	VerifyZeroInteractions(rt, m)
	require.Len(t, rt.failures, 1)
	assert.Contains(t, rt.failures[0], "get", "failure names the touched operation")
}
