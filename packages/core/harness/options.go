package harness

import (
	"github.com/crucible-dev/crucible/packages/cleanup"
)

// Options carries the per-run arguments handed to options-aware drivers
// and to predicate functions. Constructed once from process arguments
// and read-only for the run's duration.
type Options struct {
	// ProgName is the test program's name, used to derive unique names.
	ProgName string

	// FSType selects the storage backend under test.
	FSType string

	// ConfigFile is an optional path to a backend config file.
	ConfigFile string

	// SrcDir is the source directory for tests that read checked-in data.
	SrcDir string

	// ReposDir is the temporary directory tests create repositories in.
	ReposDir string

	// ReposURL is the address ReposDir is reachable at.
	ReposURL string

	// ReposTemplate is an optional pre-created repository copied per test.
	ReposTemplate string

	// ServerMinorVersion pins the server/protocol version, or zero for
	// the current latest.
	ServerMinorVersion int

	Verbose bool

	// Cleanup collects paths the test bodies want removed after the run.
	Cleanup *cleanup.Registry
}

// FSTypeIs builds a predicate that matches when the run's backend type
// equals value.
func FSTypeIs(value string, alternate Mode) *Predicate {
	return &Predicate{
		Func:          fsTypeIs,
		Value:         value,
		AlternateMode: alternate,
		Description:   "fs-type = " + value,
	}
}

// FSTypeNot builds a predicate that matches when the run's backend type
// differs from value.
func FSTypeNot(value string, alternate Mode) *Predicate {
	return &Predicate{
		Func:          fsTypeNot,
		Value:         value,
		AlternateMode: alternate,
		Description:   "fs-type != " + value,
	}
}

func fsTypeIs(opts *Options, value string) bool {
	return opts != nil && opts.FSType == value
}

func fsTypeNot(opts *Options, value string) bool {
	return opts == nil || opts.FSType != value
}
