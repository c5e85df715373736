package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/crucible-dev/crucible/packages/testerr"
)

// Assert returns a test-failed error naming the assertion text and the
// caller's source location when cond is false, nil otherwise. Test
// bodies use it in place of a process-killing assertion.
func Assert(cond bool, text string) error {
	if cond {
		return nil
	}
	return failAt(2, fmt.Sprintf("assertion '%s' failed", text))
}

// Assertf is Assert with a formatted failure message.
func Assertf(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return failAt(2, fmt.Sprintf(format, args...))
}

// AssertString fails unless actual equals expected, reporting both
// values.
func AssertString(actual, expected string) error {
	if actual == expected {
		return nil
	}
	return failAt(2, fmt.Sprintf("strings not equal\n  expected: %q\n  found:    %q", expected, actual))
}

// ExpectError checks that err carries exactly the expected code.
// expected must be a real error code; the reserved assertion-failure
// code is not a valid expectation. Mismatches fail naming both symbolic
// codes.
func ExpectError(expected testerr.Code, err error) error {
	if expected == 0 || expected == testerr.CodeTestFailed {
		Abort("ExpectError called with invalid expected code %d", int(expected))
	}
	if err == nil {
		return failAt(2, fmt.Sprintf("expected error %s but got no error",
			testerr.SymbolicName(expected)))
	}
	if got := testerr.CodeOf(err); got != expected {
		return testerr.Wrapf(testerr.CodeTestFailed, err,
			"expected error %s but got %s",
			testerr.SymbolicName(expected), testerr.SymbolicName(got))
	}
	return nil
}

// ExpectAnyError checks that err is a real error. An assertion-failure
// code signals a bug in the engine or the test itself, not the
// condition under test, so it fails too.
func ExpectAnyError(err error) error {
	if err == nil {
		return failAt(2, "expected an error but got no error")
	}
	if testerr.CodeOf(err) == testerr.CodeTestFailed {
		return testerr.Wrapf(testerr.CodeTestFailed, err,
			"expected an error but got %s", testerr.SymbolicName(testerr.CodeTestFailed))
	}
	return nil
}

// Abort reports a violated invariant and terminates the process
// abnormally. Reserved for contexts where returning an error is
// structurally impossible; ordinary test failures must return a
// testerr instead. It takes the whole run down.
func Abort(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if _, file, line, ok := runtime.Caller(1); ok {
		fmt.Fprintf(os.Stderr, "FATAL: invariant violated at %s:%d: %s\n",
			filepath.Base(file), line, msg)
	} else {
		fmt.Fprintf(os.Stderr, "FATAL: invariant violated: %s\n", msg)
	}
	exit(99)
}

// exit is swapped out by tests that cover Abort's diagnostics.
var exit = os.Exit

func failAt(skip int, msg string) error {
	e := testerr.New(testerr.CodeTestFailed, msg)
	if _, file, line, ok := runtime.Caller(skip); ok {
		e.File = filepath.Base(file)
		e.Line = line
	}
	return e
}
