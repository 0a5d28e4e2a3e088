package double

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_LookupByOutputType(t *testing.T) {
	d := NewDefaults()
	RegisterDefault(d, 42)
	RegisterDefault(d, "fallback")

	v, ok := d.Lookup(reflect.TypeOf(0))
	require.True(t, ok)
	assert.Equal(t, 42, v)

	v, ok = d.Lookup(reflect.TypeOf(""))
	require.True(t, ok)
	assert.Equal(t, "fallback", v)

	_, ok = d.Lookup(reflect.TypeOf(false))
	assert.False(t, ok)
}

func TestDefaults_SetReplaces(t *testing.T) {
	d := NewDefaults()
	RegisterDefault(d, 1)
	RegisterDefault(d, 2)

	v, ok := d.Lookup(reflect.TypeOf(0))
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestSeededDefaults_CoverCommonScalars(t *testing.T) {
	d := NewSeededDefaults()
	for _, typ := range []reflect.Type{
		reflect.TypeOf(0),
		reflect.TypeOf(int64(0)),
		reflect.TypeOf(""),
		reflect.TypeOf(false),
		reflect.TypeOf(float64(0)),
	} {
		v, ok := d.Lookup(typ)
		require.True(t, ok, "missing seed for %s", typ)
		assert.True(t, reflect.ValueOf(v).IsZero())
	}
}
