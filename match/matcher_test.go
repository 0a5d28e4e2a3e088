package match

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecedenceBuckets_Increasing(t *testing.T) {
	assert.Less(t, Any().Precedence(), TypeOf[string]().Precedence())
	assert.Less(t, TypeOf[string]().Precedence(), That(func(string) bool { return true }).Precedence())
	assert.Less(t, That(func(string) bool { return true }).Precedence(), Equal("x").Precedence())
	assert.Less(t, Equal("x").Precedence(), Identical(&struct{}{}).Precedence())
	assert.Less(t, Identical(&struct{}{}).Precedence(), Custom("high", PrecedenceCustomHigh, nil).Precedence())
	assert.Less(t, Custom("high", PrecedenceCustomHigh, nil).Precedence(), Custom("extreme", PrecedenceCustomExtreme, nil).Precedence())
}

func TestCustom_PrecedenceClamped(t *testing.T) {
	assert.Equal(t, PrecedenceMax, Custom("over", 5000, nil).Precedence())
	assert.Equal(t, 0, Custom("under", -5, nil).Precedence())
}

func TestAny_MatchesEverything(t *testing.T) {
	m := Any()
	assert.True(t, m.Matches("x"))
	assert.True(t, m.Matches(42))
	assert.True(t, m.Matches(nil))
}

func TestTypeOf(t *testing.T) {
	m := TypeOf[string]()
	assert.True(t, m.Matches("hello"))
	assert.False(t, m.Matches(42))
	assert.False(t, m.Matches(nil))
}

func TestEqual(t *testing.T) {
	m := Equal("apple")
	assert.True(t, m.Matches("apple"))
	assert.False(t, m.Matches("banana"))
	assert.False(t, m.Matches(13), "different type never equals")
}

func TestExact_DeepEquality(t *testing.T) {
	m := Exact([]string{"a", "b"})
	assert.True(t, m.Matches([]string{"a", "b"}))
	assert.False(t, m.Matches([]string{"a"}))
}

func TestThat_TypedPredicate(t *testing.T) {
	m := That(func(n int) bool { return n%2 == 0 })
	assert.True(t, m.Matches(4))
	assert.False(t, m.Matches(3))
	assert.False(t, m.Matches("4"), "non-int values never match")
}

func TestWhere_Projection(t *testing.T) {
	type user struct {
		Name string
		Age  int
	}
	m := Where(func(u user) string { return u.Name }, "ada")
	assert.True(t, m.Matches(user{Name: "ada", Age: 36}))
	assert.False(t, m.Matches(user{Name: "bob"}))
}

func TestOrdering(t *testing.T) {
	assert.True(t, LessThan(10).Matches(9))
	assert.False(t, LessThan(10).Matches(10))
	assert.True(t, GreaterThan(10).Matches(11))
	assert.False(t, GreaterThan(10).Matches(10))
	assert.True(t, LessThan("m").Matches("a"))
}

func TestIdentical_Pointers(t *testing.T) {
	a := &struct{ n int }{1}
	b := &struct{ n int }{1}
	m := Identical(a)
	assert.True(t, m.Matches(a))
	assert.False(t, m.Matches(b), "equal contents, different identity")
}

func TestIdentical_ValueTypeDegradesToEquality(t *testing.T) {
	m := Identical(42)
	assert.True(t, m.Matches(42))
	assert.False(t, m.Matches(43))
	assert.False(t, m.Matches(int64(42)), "different type never identical")
}

func TestNilNotNil(t *testing.T) {
	var typedNil *int
	assert.True(t, Nil().Matches(nil))
	assert.True(t, Nil().Matches(typedNil))
	assert.False(t, Nil().Matches(0))
	assert.True(t, NotNil().Matches(0))
	assert.False(t, NotNil().Matches(nil))
	assert.False(t, NotNil().Matches(typedNil))
}

func TestErrorMatchers(t *testing.T) {
	sentinel := errors.New("boom")
	wrapped := fmt.Errorf("context: %w", sentinel)

	assert.True(t, AnyError().Matches(sentinel))
	assert.False(t, AnyError().Matches("boom"))

	assert.True(t, ErrorIs(sentinel).Matches(wrapped))
	assert.False(t, ErrorIs(sentinel).Matches(errors.New("other")))

	type timeoutErr struct{ error }
	assert.True(t, ErrorAs[*timeoutErr]().Matches(&timeoutErr{sentinel}))
	assert.False(t, ErrorAs[*timeoutErr]().Matches(sentinel))
}

func TestArgs_LiftsRawValues(t *testing.T) {
	ms := Args("apple", 13, Any())
	require.Len(t, ms, 3)

	assert.True(t, ms[0].Matches("apple"))
	assert.Equal(t, PrecedenceEqual, ms[0].Precedence(), "raw values are equality sugar")
	assert.True(t, ms[1].Matches(13))
	assert.Equal(t, PrecedenceAny, ms[2].Precedence(), "matchers pass through unchanged")
}

func TestMatcherInstances_Distinct(t *testing.T) {
	// Stub identity keys on matcher instance identity, so two factory
	// calls must not yield the same instance.
	assert.NotSame(t, Equal("x"), Equal("x"))
}
