// Package double implements the call-recording, stub-matching and
// verification engine behind generated test doubles.
//
// ARCHITECTURE:
//
// One Spy per operation:
// Every mocked operation signature gets its own Spy, which owns three
// tables: the invocation log, the stub table and the action table. A
// call records an Invocation, fires every matching action, then
// resolves at most one stub by precedence.
//
// Call Processing Flow:
//  1. Invocation appended to the spy log and the scope ledger
//  2. Debug line emitted when logging is enabled
//  3. All matching actions run (side effects, fire-and-forget)
//  4. Best stub resolved: highest precedence, most recent on ties
//  5. No stub: default-value table consulted, else unstubbed
//  6. Response resolved per the spy's Effect and the outcome recorded
//
// Effects:
// A Spy's Effect fixes its control-flow shape at construction: none,
// throws, async or async_throws, each with exactly one legal call path
// (Call, CallErr, CallCtx, CallCtxErr). Unstubbed calls on
// non-throwing effects panic - an un-programmed mock was exercised,
// which is a programming error in the test. Throwing effects surface
// unstubbed as a catchable error.
//
// Scopes:
// A Scope bundles the global invocation ledger, the default-value
// table and the shared-spy namespace. Concurrent tests isolate by
// taking one Scope each; Scope.Clear is the between-tests reset. The
// ledger assigns strictly increasing indices under a single critical
// section and backs cross-object ordering verification (VerifyInOrder).
//
// Verification:
// Assertions are read-only queries over the logs, reported through a
// TestingT so multiple failures in one test report independently.
package double
