package harness

import "time"

// Verdict is the final classification of a test's result against its
// effective mode.
type Verdict int

const (
	VerdictPassed Verdict = iota
	VerdictFailed
	// VerdictXFailed is an expected failure that did fail.
	VerdictXFailed
	// VerdictXPassed is an expected failure that passed; it flags a
	// stale expected-failure annotation and counts as unexpected.
	VerdictXPassed
	VerdictSkipped
)

func (v Verdict) String() string {
	switch v {
	case VerdictPassed:
		return "PASS"
	case VerdictFailed:
		return "FAIL"
	case VerdictXFailed:
		return "XFAIL"
	case VerdictXPassed:
		return "XPASS"
	case VerdictSkipped:
		return "SKIP"
	}
	return "UNKNOWN"
}

// Unexpected reports whether the verdict must make the run exit
// non-zero.
func (v Verdict) Unexpected() bool {
	return v == VerdictFailed || v == VerdictXPassed
}

// Outcome is the per-test result produced by the scheduler. Created
// when the driver returns and never mutated afterward.
type Outcome struct {
	// Index is the test's position in the descriptor list handed to Run.
	Index int

	Name    string
	Verdict Verdict

	// Err carries the failure detail for FAIL and XFAIL verdicts,
	// including any chained causes.
	Err error

	// SkipReason is set for SKIP verdicts that were short-circuited.
	SkipReason string

	// WIP is the descriptor's work-in-progress note, if any.
	WIP string

	Duration time.Duration
}

// Classify maps (effective mode, driver result) to a verdict. Skipped
// tests never reach it; the scheduler short-circuits them.
func Classify(mode Mode, err error) Verdict {
	switch mode {
	case ModeXFail:
		if err != nil {
			return VerdictXFailed
		}
		return VerdictXPassed
	default: // ModePass, ModeAll
		if err != nil {
			return VerdictFailed
		}
		return VerdictPassed
	}
}
