package match

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
)

// Precedence buckets for matchers, in increasing specificity.
//
// When several stubs match the same call, the stub whose matchers sum to
// the highest precedence wins. Equal sums resolve to the most recently
// registered stub. Custom matchers may pick any value; it is clamped to
// PrecedenceMax.
const (
	PrecedenceAny           = 0
	PrecedenceType          = 100
	PrecedencePredicate     = 200
	PrecedenceEqual         = 500
	PrecedenceIdentical     = 600
	PrecedenceCustomHigh    = 700
	PrecedenceCustomExtreme = 999

	// PrecedenceMax is the upper bound for a single matcher's precedence.
	PrecedenceMax = 1000
)

// Matcher is a typed predicate with an associated precedence.
//
// Matchers are pure: calling Matches has no side effects and the same
// value always yields the same answer.
type Matcher interface {
	// Matches reports whether the value satisfies the predicate.
	Matches(v any) bool

	// Precedence returns the specificity rank used to break ties among
	// multiple matching stubs or actions.
	Precedence() int

	// Description returns a short human-readable form for diagnostics.
	Description() string
}

// matcher is the single concrete Matcher implementation.
//
// Factories return *matcher so that two calls to the same factory yield
// distinct matcher instances; stub identity is keyed on matcher instance
// identity, not matcher equivalence.
type matcher struct {
	desc string
	prec int
	pred func(any) bool
}

func (m *matcher) Matches(v any) bool { return m.pred(v) }
func (m *matcher) Precedence() int    { return m.prec }
func (m *matcher) Description() string {
	return m.desc
}

// clampPrecedence bounds a precedence value to [0, PrecedenceMax].
func clampPrecedence(p int) int {
	if p < 0 {
		return 0
	}
	if p > PrecedenceMax {
		return PrecedenceMax
	}
	return p
}

// Any matches every value, including nil. Precedence 0.
func Any() Matcher {
	return &matcher{
		desc: "any",
		prec: PrecedenceAny,
		pred: func(any) bool { return true },
	}
}

// TypeOf matches values whose dynamic type is T or assignable to T.
// Precedence 100.
func TypeOf[T any]() Matcher {
	want := reflect.TypeOf((*T)(nil)).Elem()
	return &matcher{
		desc: fmt.Sprintf("type(%s)", want),
		prec: PrecedenceType,
		pred: func(v any) bool {
			_, ok := v.(T)
			return ok
		},
	}
}

// That matches values of type T satisfying pred. Values of any other
// type never match. Precedence 200.
func That[T any](pred func(T) bool) Matcher {
	return &matcher{
		desc: fmt.Sprintf("that(%s)", typeName[T]()),
		prec: PrecedencePredicate,
		pred: func(v any) bool {
			tv, ok := v.(T)
			return ok && pred(tv)
		},
	}
}

// Where matches values of type T whose projection equals want.
// Precedence 200.
func Where[T any, P comparable](project func(T) P, want P) Matcher {
	return &matcher{
		desc: fmt.Sprintf("where(%s -> %v)", typeName[T](), want),
		prec: PrecedencePredicate,
		pred: func(v any) bool {
			tv, ok := v.(T)
			return ok && project(tv) == want
		},
	}
}

// Equal matches values equal to want under ==. Precedence 500.
func Equal[T comparable](want T) Matcher {
	return &matcher{
		desc: fmt.Sprintf("eq(%v)", want),
		prec: PrecedenceEqual,
		pred: func(v any) bool {
			tv, ok := v.(T)
			return ok && tv == want
		},
	}
}

// Exact matches values deeply equal to want. It is the sugar applied to
// raw values passed where a Matcher is expected (see Args), and carries
// the same precedence as Equal.
func Exact(want any) Matcher {
	return &matcher{
		desc: fmt.Sprintf("eq(%v)", want),
		prec: PrecedenceEqual,
		pred: func(v any) bool {
			return reflect.DeepEqual(v, want)
		},
	}
}

// LessThan matches ordered values strictly less than want. Precedence 200.
func LessThan[T cmp.Ordered](want T) Matcher {
	return &matcher{
		desc: fmt.Sprintf("lt(%v)", want),
		prec: PrecedencePredicate,
		pred: func(v any) bool {
			tv, ok := v.(T)
			return ok && tv < want
		},
	}
}

// GreaterThan matches ordered values strictly greater than want.
// Precedence 200.
func GreaterThan[T cmp.Ordered](want T) Matcher {
	return &matcher{
		desc: fmt.Sprintf("gt(%v)", want),
		prec: PrecedencePredicate,
		pred: func(v any) bool {
			tv, ok := v.(T)
			return ok && tv > want
		},
	}
}

// Identical matches the exact same value by reference identity.
//
// For pointers, maps, slices, channels and funcs the underlying pointer
// is compared. For value types, which carry no identity beyond their
// contents, it degrades to strict same-type equality. Precedence 600.
func Identical(want any) Matcher {
	desc := fmt.Sprintf("identical(%T)", want)
	rv := reflect.ValueOf(want)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		wantPtr := rv.Pointer()
		wantKind := rv.Kind()
		return &matcher{
			desc: desc,
			prec: PrecedenceIdentical,
			pred: func(v any) bool {
				gv := reflect.ValueOf(v)
				return gv.Kind() == wantKind && gv.Pointer() == wantPtr
			},
		}
	default:
		return &matcher{
			desc: desc,
			prec: PrecedenceIdentical,
			pred: func(v any) bool {
				t := reflect.TypeOf(v)
				return t == reflect.TypeOf(want) && t != nil && t.Comparable() && v == want
			},
		}
	}
}

// Nil matches nil values, including typed nil pointers, maps, slices,
// channels, funcs and interfaces. Precedence 200.
func Nil() Matcher {
	return &matcher{
		desc: "nil",
		prec: PrecedencePredicate,
		pred: isNil,
	}
}

// NotNil matches every non-nil value. Precedence 200.
func NotNil() Matcher {
	return &matcher{
		desc: "not-nil",
		prec: PrecedencePredicate,
		pred: func(v any) bool { return !isNil(v) },
	}
}

// AnyError matches any value implementing error. Precedence 100.
func AnyError() Matcher {
	return &matcher{
		desc: "any-error",
		prec: PrecedenceType,
		pred: func(v any) bool {
			err, ok := v.(error)
			return ok && err != nil
		},
	}
}

// ErrorIs matches errors for which errors.Is(err, target) holds.
// Precedence 500.
func ErrorIs(target error) Matcher {
	return &matcher{
		desc: fmt.Sprintf("error-is(%v)", target),
		prec: PrecedenceEqual,
		pred: func(v any) bool {
			err, ok := v.(error)
			return ok && errors.Is(err, target)
		},
	}
}

// ErrorAs matches errors assignable to type E via errors.As.
// Precedence 100.
func ErrorAs[E error]() Matcher {
	return &matcher{
		desc: fmt.Sprintf("error-as(%s)", typeName[E]()),
		prec: PrecedenceType,
		pred: func(v any) bool {
			err, ok := v.(error)
			if !ok {
				return false
			}
			var target E
			return errors.As(err, &target)
		},
	}
}

// Custom builds a matcher from an arbitrary predicate with an explicit
// precedence, clamped to [0, PrecedenceMax].
func Custom(desc string, prec int, pred func(any) bool) Matcher {
	return &matcher{
		desc: desc,
		prec: clampPrecedence(prec),
		pred: pred,
	}
}

// Args lifts a mixed list of raw values and Matchers into a matcher
// list: Matchers pass through, raw values become Exact sugar.
func Args(vs ...any) []Matcher {
	ms := make([]Matcher, len(vs))
	for i, v := range vs {
		if m, ok := v.(Matcher); ok {
			ms[i] = m
			continue
		}
		ms[i] = Exact(v)
	}
	return ms
}

// isNil reports whether v is nil, looking through typed nils.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
