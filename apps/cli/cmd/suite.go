package cmd

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/crucible-dev/crucible/packages/core/harness"
	"github.com/crucible-dev/crucible/packages/fixture"
	"github.com/crucible-dev/crucible/packages/randutil"
	"github.com/crucible-dev/crucible/packages/testerr"
)

// builtinTests is the static descriptor table the crucible binary runs:
// a self-check suite exercising the fixtures, path helpers and
// assertion machinery the real test programs build on.
func builtinTests() []harness.Descriptor {
	return []harness.Descriptor{
		harness.Pass(testSampleTree,
			"sample-tree: materialize and verify the sample tree"),
		harness.Pass(testRandDeterminism,
			"rand: identical seeds yield identical sequences"),
		harness.Pass(testStringAssert,
			"assert: string comparison reports both values"),
		harness.Pass(testErrorEquality,
			"assert: expected-error code matching"),
		harness.OptsPass(testUniqueReposPath,
			"paths: repository names are test-private"),
		harness.OptsPass(testDataPathCleanup,
			"paths: data area files are registered for cleanup"),
		harness.SkipIf(testCaseSensitivePaths, runtime.GOOS == "windows",
			"paths: case-sensitive fixture lookups"),
		harness.XFail(testPartialTree,
			"sample-tree: verification of a partially written tree"),
		harness.OptsXFailWhen(testBackendRoundTrip,
			"backend: default backend round-trip",
			harness.FSTypeIs("fsx", harness.ModePass)),
		harness.Wimp(testStrayEntries,
			"sample-tree: verification tolerates stray entries",
			"stray-entry allow-list not implemented yet"),
	}
}

func testSampleTree(scratch *harness.Scratch) error {
	if err := fixture.Materialize(scratch.Dir(), fixture.SampleTree); err != nil {
		return testerr.Wrap(testerr.CodeFixture, err, "materializing sample tree")
	}
	if err := fixture.Verify(scratch.Dir(), fixture.SampleTree); err != nil {
		return testerr.Wrap(testerr.CodeFixture, err, "verifying sample tree")
	}
	return nil
}

func testRandDeterminism(scratch *harness.Scratch) error {
	a, b := uint32(42), uint32(42)
	for i := 0; i < 100; i++ {
		va, vb := randutil.Next(&a), randutil.Next(&b)
		if err := harness.Assertf(va == vb, "sequences diverged at step %d: %d != %d", i, va, vb); err != nil {
			return err
		}
	}

	seed := uint32(7)
	for i := 0; i < 100; i++ {
		v := randutil.Range(&seed, 10)
		if err := harness.Assertf(v < 10, "Range returned %d, want < 10", v); err != nil {
			return err
		}
	}
	return nil
}

func testStringAssert(scratch *harness.Scratch) error {
	if err := harness.AssertString("crucible", "crucible"); err != nil {
		return err
	}
	// A mismatch must come back as an error value, not a crash.
	mismatch := harness.AssertString("found", "expected")
	return harness.Assert(mismatch != nil, "mismatching strings yield an error")
}

// lookupEntry stands in for a collaborator that reports a structured
// not-found error.
func lookupEntry(name string) error {
	for _, e := range fixture.SampleTree {
		if e.Path == name {
			return nil
		}
	}
	return testerr.Newf(testerr.CodeNotFound, "no entry %q in sample tree", name)
}

func testErrorEquality(scratch *harness.Scratch) error {
	if err := harness.ExpectError(testerr.CodeNotFound, lookupEntry("no-such-entry")); err != nil {
		return err
	}
	if err := harness.ExpectAnyError(lookupEntry("no-such-entry")); err != nil {
		return err
	}

	// A present entry returns no error; the expectation must fail then.
	unmet := harness.ExpectError(testerr.CodeNotFound, lookupEntry("readme"))
	return harness.Assert(unmet != nil, "unmet error expectation yields an error")
}

func testUniqueReposPath(opts *harness.Options, scratch *harness.Scratch) error {
	p1 := fixture.UniqueReposPath(opts, "unique-repos")
	p2 := fixture.UniqueReposPath(opts, "unique-repos")
	if err := harness.Assert(p1 != p2, "consecutive repository paths differ"); err != nil {
		return err
	}

	if err := os.MkdirAll(p1, 0o755); err != nil {
		return testerr.Wrap(testerr.CodeIO, err, "creating test repository dir")
	}
	opts.Cleanup.Register(p1)
	return nil
}

func testDataPathCleanup(opts *harness.Options, scratch *harness.Scratch) error {
	p, err := fixture.DataPath(opts, "journal")
	if err != nil {
		return testerr.Wrap(testerr.CodeIO, err, "resolving data path")
	}
	if err := os.WriteFile(p, []byte("journal entry\n"), 0o644); err != nil {
		return testerr.Wrap(testerr.CodeIO, err, "writing data file")
	}
	opts.Cleanup.Register(p)

	_, err = os.Stat(p)
	return harness.Assert(err == nil, "data file exists until the run drains cleanups")
}

func testCaseSensitivePaths(scratch *harness.Scratch) error {
	if _, err := scratch.WriteFile("entry", []byte("lower\n")); err != nil {
		return testerr.Wrap(testerr.CodeIO, err, "writing lowercase entry")
	}
	if _, err := scratch.WriteFile("Entry", []byte("upper\n")); err != nil {
		return testerr.Wrap(testerr.CodeIO, err, "writing uppercase entry")
	}

	data, err := os.ReadFile(scratch.Path("entry"))
	if err != nil {
		return testerr.Wrap(testerr.CodeIO, err, "reading lowercase entry")
	}
	return harness.AssertString(string(data), "lower\n")
}

// testPartialTree writes only some of the tree and then verifies the
// whole of it; verification is expected to fail.
func testPartialTree(scratch *harness.Scratch) error {
	half := fixture.SampleTree[:len(fixture.SampleTree)/2]
	if err := fixture.Materialize(scratch.Dir(), half); err != nil {
		return testerr.Wrap(testerr.CodeFixture, err, "materializing partial tree")
	}
	if err := fixture.Verify(scratch.Dir(), fixture.SampleTree); err != nil {
		return testerr.Wrap(testerr.CodeFixture, err, "verifying partial tree")
	}
	return nil
}

// testBackendRoundTrip only supports the default backend; its
// descriptor downgrades the expected failure to a plain pass when the
// run targets it.
func testBackendRoundTrip(opts *harness.Options, scratch *harness.Scratch) error {
	if opts.FSType != "fsx" {
		return testerr.Newf(testerr.CodeConfig, "backend %q is not supported yet", opts.FSType)
	}

	p, err := scratch.WriteFile("roundtrip", []byte("payload\n"))
	if err != nil {
		return testerr.Wrap(testerr.CodeIO, err, "writing roundtrip file")
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return testerr.Wrap(testerr.CodeIO, err, "reading roundtrip file")
	}
	return harness.AssertString(string(data), "payload\n")
}

// testStrayEntries plants a file the fixture does not know about;
// verification currently rejects it.
func testStrayEntries(scratch *harness.Scratch) error {
	if err := fixture.Materialize(scratch.Dir(), fixture.SampleTree); err != nil {
		return testerr.Wrap(testerr.CodeFixture, err, "materializing sample tree")
	}
	stray := filepath.Join(scratch.Dir(), "stray")
	if err := os.WriteFile(stray, []byte("not in the fixture\n"), 0o644); err != nil {
		return testerr.Wrap(testerr.CodeIO, err, "planting stray entry")
	}
	if err := fixture.Verify(scratch.Dir(), fixture.SampleTree); err != nil {
		return testerr.Wrap(testerr.CodeFixture, err, "verifying tree with stray entry")
	}
	return nil
}
