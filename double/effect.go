package double

import "fmt"

// Effect is the control-flow shape of a mocked operation: ordinary
// return, throwing, asynchronous, or asynchronous-throwing.
//
// The effect is fixed at Spy construction and determines the one legal
// call path (Call, CallErr, CallCtx or CallCtxErr). The tag is closed:
// no other shapes exist.
type Effect int

const (
	// EffectNone is an ordinary synchronous return.
	EffectNone Effect = iota
	// EffectThrows is a synchronous call that may return an error.
	EffectThrows
	// EffectAsync is a context-aware call that may block before
	// returning a value.
	EffectAsync
	// EffectAsyncThrows is a context-aware call that may block and may
	// return an error.
	EffectAsyncThrows
)

// String returns the canonical lowercase name of the effect.
func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectThrows:
		return "throws"
	case EffectAsync:
		return "async"
	case EffectAsyncThrows:
		return "async_throws"
	default:
		return fmt.Sprintf("effect(%d)", int(e))
	}
}

// Valid reports whether e is one of the four defined effects.
func (e Effect) Valid() bool {
	switch e {
	case EffectNone, EffectThrows, EffectAsync, EffectAsyncThrows:
		return true
	default:
		return false
	}
}

// Throwing reports whether the effect surfaces errors to the caller.
func (e Effect) Throwing() bool {
	return e == EffectThrows || e == EffectAsyncThrows
}

// Awaits reports whether the effect takes a context and may block.
func (e Effect) Awaits() bool {
	return e == EffectAsync || e == EffectAsyncThrows
}

// ParseEffect maps a canonical name back to an Effect.
// An empty string defaults to EffectNone.
func ParseEffect(s string) (Effect, error) {
	switch s {
	case "", "none":
		return EffectNone, nil
	case "throws":
		return EffectThrows, nil
	case "async":
		return EffectAsync, nil
	case "async_throws":
		return EffectAsyncThrows, nil
	default:
		return EffectNone, fmt.Errorf("invalid effect %q: must be none, throws, async, or async_throws", s)
	}
}
