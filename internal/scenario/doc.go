// Package scenario provides a declarative harness for exercising the
// double engine end to end.
//
// Scenarios are YAML files describing a set of spies, a script of
// stubbing and call steps, and verification checks. Running a scenario
// produces a Transcript: the ledger-ordered list of calls plus the
// outcome of every check. Transcripts serialize to canonical JSON for
// golden-file comparison.
//
// # Scenario Format
//
//	name: fruit_prices
//	description: "stub two prices, call both, verify counts"
//	doubles:
//	  - label: price
//	    arity: 1
//	    effect: none
//	steps:
//	  - stub: { double: price, args: [apple], return: 13 }
//	  - stub: { double: price, args: [banana], return: 17 }
//	  - call: { double: price, args: [apple] }
//	  - call: { double: price, args: [banana] }
//	  - verify_count: { double: price, count: 2 }
//	  - verify_order:
//	      expect:
//	        - { double: price, args: [apple] }
//	        - { double: price, args: [banana] }
//
// # Step Kinds
//
//   - stub: program a canned response (return) or error (throw)
//   - call: invoke a double with literal arguments
//   - verify_count: assert on the matching call count
//   - verify_order: assert cross-double call order via the ledger
//   - clear: reset one double, or the whole scope when no double given
//
// # Deterministic Execution
//
// Every run builds a fresh Scope with a fixed ID source, so identical
// scenarios yield byte-identical transcripts across runs. Raw argument
// values in stub and verify steps are equality sugar, exactly as in the
// engine's Go API.
package scenario
