package fixture

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/crucible-dev/crucible/packages/core/harness"
)

// DataPath returns a path to basename inside the transient data area
// for the current test program. The directory is created on first use;
// callers register it with the cleanup registry if they want it removed
// after the run.
func DataPath(opts *harness.Options, basename string) (string, error) {
	prog := "crucible"
	if opts != nil && opts.ProgName != "" {
		prog = opts.ProgName
	}
	dir := filepath.Join(os.TempDir(), prog+"-data")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data area: %w", err)
	}
	return filepath.Join(dir, basename), nil
}

// UniqueReposPath derives a repository directory name from the test's
// own identity plus a random suffix. Uniqueness across concurrent tests
// is the test body's responsibility; this helper is how they discharge
// it.
func UniqueReposPath(opts *harness.Options, testName string) string {
	root := os.TempDir()
	if opts != nil && opts.ReposDir != "" {
		root = opts.ReposDir
	}
	return filepath.Join(root, fmt.Sprintf("%s-%s", testName, uuid.NewString()[:8]))
}

// SrcDir resolves the source directory option. Tests that need
// checked-in data call this; when the option was not provided it warns
// and falls back to the current directory.
func SrcDir(opts *harness.Options) string {
	if opts != nil && opts.SrcDir != "" {
		return opts.SrcDir
	}
	fmt.Fprintln(os.Stderr, "warning: --srcdir not given, assuming the current directory")
	return "."
}
