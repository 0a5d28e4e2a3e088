package match

import (
	"fmt"
	"strings"
)

// Call matches a fixed-arity argument tuple component-wise.
//
// The arity is determined by the operation's signature at construction
// time; supplying the wrong number of matchers is a construction error,
// never a runtime mismatch.
type Call struct {
	ms []Matcher
}

// NewCall builds a Call from exactly arity matchers.
//
// The matcher slice is copied to prevent external mutation.
func NewCall(arity int, ms ...Matcher) (Call, error) {
	if arity < 0 {
		return Call{}, fmt.Errorf("negative arity %d", arity)
	}
	if len(ms) != arity {
		return Call{}, fmt.Errorf("got %d matchers for arity %d", len(ms), arity)
	}
	cp := make([]Matcher, len(ms))
	copy(cp, ms)
	return Call{ms: cp}, nil
}

// AnyCall builds a Call of the given arity matching every argument.
func AnyCall(arity int) Call {
	ms := make([]Matcher, arity)
	for i := range ms {
		ms[i] = Any()
	}
	return Call{ms: ms}
}

// Arity returns the number of argument positions this Call covers.
func (c Call) Arity() int { return len(c.ms) }

// Precedence returns the aggregate precedence: the sum of the member
// matchers' precedences.
func (c Call) Precedence() int {
	sum := 0
	for _, m := range c.ms {
		sum += m.Precedence()
	}
	return sum
}

// MatchesArgs reports whether every component matcher accepts the
// corresponding argument. A length mismatch never matches.
func (c Call) MatchesArgs(args []any) bool {
	if len(args) != len(c.ms) {
		return false
	}
	for i, m := range c.ms {
		if !m.Matches(args[i]) {
			return false
		}
	}
	return true
}

// SameMatchers reports whether both Calls were built from the exact
// same matcher instances, position by position. Used to give repeated
// stubbing of one matcher tuple a stable Stub object.
func (c Call) SameMatchers(other Call) bool {
	if len(c.ms) != len(other.ms) {
		return false
	}
	for i := range c.ms {
		if c.ms[i] != other.ms[i] {
			return false
		}
	}
	return true
}

// Description renders the matcher tuple, e.g. "(eq(apple), any)".
func (c Call) Description() string {
	parts := make([]string, len(c.ms))
	for i, m := range c.ms {
		parts[i] = m.Description()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
