// Package output aggregates per-test outcomes into an ordered report
// and provides formatters for displaying it.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - TAP: Test Anything Protocol format
//
// Each formatter implements the Formatter interface. Report order is
// always descriptor order, never completion order.
package output
