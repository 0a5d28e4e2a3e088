package double

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/doppel/match"
)

// Expectation is one step of a cross-object ordering verification: a
// predicate over ledger entries, tagged with the spy it came from for
// readable diagnostics.
type Expectation struct {
	SpyID       uuid.UUID
	Method      string
	Description string
	Matches     func(Recorded) bool
}

// Expect builds a ledger expectation for calls to this spy matching the
// given tuple, for use with VerifyInOrder.
func (s *Spy[O]) Expect(ms ...match.Matcher) Expectation {
	call := s.newCall(ms)
	id := s.id
	return Expectation{
		SpyID:       id,
		Method:      s.label,
		Description: s.label + call.Description(),
		Matches: func(r Recorded) bool {
			return r.SpyID == id && call.MatchesArgs(r.Args)
		},
	}
}

// OrderDiscrepancy reports a failed ordering verification: the prefix
// of expectations that did match, plus the count left unmatched. Which
// remaining expectations went unmatched is deliberately not identified.
type OrderDiscrepancy struct {
	MatchedPrefix []Expectation
	Remaining     int
}

// String renders the discrepancy for failure messages.
func (d *OrderDiscrepancy) String() string {
	matched := make([]string, len(d.MatchedPrefix))
	for i, e := range d.MatchedPrefix {
		matched[i] = e.Description
	}
	return fmt.Sprintf("matched prefix [%s], %d expectation(s) unmatched",
		strings.Join(matched, ", "), d.Remaining)
}

// CheckOrder walks a ledger snapshot once in index order, consuming the
// expectation list strictly left to right. An entry advances the
// pointer only if its index is strictly greater than the index of the
// previous advance. Returns nil iff every expectation was consumed;
// a partial match never silently passes.
func CheckOrder(snapshot []Recorded, expectations []Expectation) *OrderDiscrepancy {
	next := 0
	lastIndex := int64(-1)
	for _, r := range snapshot {
		if next >= len(expectations) {
			break
		}
		if r.Index <= lastIndex {
			continue
		}
		if expectations[next].Matches(r) {
			lastIndex = r.Index
			next++
		}
	}
	if next == len(expectations) {
		return nil
	}
	return &OrderDiscrepancy{
		MatchedPrefix: expectations[:next],
		Remaining:     len(expectations) - next,
	}
}

// VerifyInOrder asserts that the scope's ledger contains entries
// matching the expectations in the given order, possibly interleaved
// with other calls. Spies from independent mock instances may be mixed
// freely; what matters is the ledger's total order.
func VerifyInOrder(t TestingT, scope *Scope, expectations ...Expectation) {
	t.Helper()
	if d := CheckOrder(scope.Ledger().Snapshot(), expectations); d != nil {
		t.Errorf("calls out of order: %s", d)
	}
}
