package double

import (
	"reflect"
	"sync"
)

// Defaults is the pluggable default-value lookup table consulted when a
// call matches no stub. It is keyed by the operation's output type.
//
// The engine only ever calls Lookup; what gets registered is policy
// owned by the caller (typically test-framework glue).
//
// Thread-safety: safe for concurrent use.
type Defaults struct {
	mu     sync.RWMutex
	values map[reflect.Type]any
}

// NewDefaults creates an empty table.
func NewDefaults() *Defaults {
	return &Defaults{values: make(map[reflect.Type]any)}
}

// NewSeededDefaults creates a table pre-populated with zero values for
// common scalar output types.
func NewSeededDefaults() *Defaults {
	d := NewDefaults()
	RegisterDefault(d, 0)
	RegisterDefault(d, int64(0))
	RegisterDefault(d, "")
	RegisterDefault(d, false)
	RegisterDefault(d, float64(0))
	return d
}

// Lookup returns the default value registered for the given output
// type, if any.
func (d *Defaults) Lookup(t reflect.Type) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.values[t]
	return v, ok
}

// Set registers (or replaces) the default value for a type key.
func (d *Defaults) Set(t reflect.Type, v any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values[t] = v
}

// RegisterDefault registers v as the default for output type T.
func RegisterDefault[T any](d *Defaults, v T) {
	d.Set(reflect.TypeOf((*T)(nil)).Elem(), v)
}
