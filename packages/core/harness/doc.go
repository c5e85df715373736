// Package harness is the test-execution engine: it owns test
// registration metadata and runs a statically known descriptor table
// once per process invocation.
//
// It provides functionality for:
//   - Declaring tests with pass, expected-failure and skip modes
//   - Runtime predicates that override a test's declared mode
//   - Bounded-concurrency scheduling with a strictly sequential mode
//   - Classifying driver results against the effective mode
//   - Isolated per-test scratch arenas released on every path
//   - Assertion helpers returning structured errors instead of crashing
//
// Report order always matches descriptor order, independent of
// completion order.
package harness
