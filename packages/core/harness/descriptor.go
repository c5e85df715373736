package harness

// Mode is the declared run-mode of a test.
type Mode int

const (
	// ModePass marks a test expected to succeed.
	ModePass Mode = iota
	// ModeXFail marks a test expected to fail; a pass is itself a
	// reportable problem.
	ModeXFail
	// ModeSkip marks a test that is never dispatched.
	ModeSkip
	// ModeAll is the mode-filter wildcard; as a declared mode it
	// behaves like ModePass.
	ModeAll
)

func (m Mode) String() string {
	switch m {
	case ModePass:
		return "pass"
	case ModeXFail:
		return "xfail"
	case ModeSkip:
		return "skip"
	case ModeAll:
		return "all"
	}
	return "unknown"
}

// ParseMode parses a mode-filter string as accepted by the CLI.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "pass", "PASS":
		return ModePass, true
	case "xfail", "XFAIL":
		return ModeXFail, true
	case "skip", "SKIP":
		return ModeSkip, true
	case "all", "ALL", "":
		return ModeAll, true
	}
	return ModeAll, false
}

// Driver is a test body that only needs its private scratch arena.
type Driver func(scratch *Scratch) error

// OptsDriver is a test body that additionally needs the run options.
type OptsDriver func(opts *Options, scratch *Scratch) error

// PredicateFunc decides at resolution time whether a predicate matches.
// It may read opts and the filesystem but must not mutate shared state;
// it can run concurrently for different tests.
type PredicateFunc func(opts *Options, value string) bool

// Predicate is a runtime mode override. When Func(opts, Value) returns
// true the test runs under AlternateMode instead of its declared mode.
type Predicate struct {
	Func          PredicateFunc
	Value         string
	AlternateMode Mode
	Description   string
}

// Descriptor holds one test's registration metadata. Descriptors are
// immutable after the suite table is built.
type Descriptor struct {
	// Mode is the declared run-mode, before predicate resolution.
	Mode Mode

	// Exactly one of Func and OptsFunc is set.
	Func     Driver
	OptsFunc OptsDriver

	// Msg is the descriptive message printed in the report.
	Msg string

	// WIP is an optional work-in-progress note for experimental tests.
	WIP string

	// Predicate optionally overrides Mode at resolution time.
	Predicate *Predicate
}

// invoke dispatches to whichever driver shape the descriptor carries.
func (d *Descriptor) invoke(opts *Options, scratch *Scratch) error {
	switch {
	case d.OptsFunc != nil:
		return d.OptsFunc(opts, scratch)
	case d.Func != nil:
		return d.Func(scratch)
	}
	return Assert(false, "descriptor has no driver")
}

// Pass registers a test expected to succeed.
func Pass(fn Driver, msg string) Descriptor {
	return Descriptor{Mode: ModePass, Func: fn, Msg: msg}
}

// XFail registers a test expected to fail.
func XFail(fn Driver, msg string) Descriptor {
	return Descriptor{Mode: ModeXFail, Func: fn, Msg: msg}
}

// XFailCond registers a test expected to fail only when cond is true.
func XFailCond(fn Driver, cond bool, msg string) Descriptor {
	return Descriptor{Mode: condMode(cond, ModeXFail), Func: fn, Msg: msg}
}

// SkipIf registers a test skipped when cond is true.
func SkipIf(fn Driver, cond bool, msg string) Descriptor {
	return Descriptor{Mode: condMode(cond, ModeSkip), Func: fn, Msg: msg}
}

// Wimp registers an expected-failure work-in-progress test.
func Wimp(fn Driver, msg, wip string) Descriptor {
	return Descriptor{Mode: ModeXFail, Func: fn, Msg: msg, WIP: wip}
}

// OptsPass, OptsXFail, OptsSkipIf and OptsWimp mirror the plain
// constructors for drivers that take run options.

func OptsPass(fn OptsDriver, msg string) Descriptor {
	return Descriptor{Mode: ModePass, OptsFunc: fn, Msg: msg}
}

func OptsXFail(fn OptsDriver, msg string) Descriptor {
	return Descriptor{Mode: ModeXFail, OptsFunc: fn, Msg: msg}
}

func OptsSkipIf(fn OptsDriver, cond bool, msg string) Descriptor {
	return Descriptor{Mode: condMode(cond, ModeSkip), OptsFunc: fn, Msg: msg}
}

func OptsWimp(fn OptsDriver, msg, wip string) Descriptor {
	return Descriptor{Mode: ModeXFail, OptsFunc: fn, Msg: msg, WIP: wip}
}

// OptsXFailWhen registers an expected failure whose mode can be flipped
// back by a runtime predicate.
func OptsXFailWhen(fn OptsDriver, msg string, pred *Predicate) Descriptor {
	return Descriptor{Mode: ModeXFail, OptsFunc: fn, Msg: msg, Predicate: pred}
}

func condMode(cond bool, m Mode) Mode {
	if cond {
		return m
	}
	return ModePass
}
