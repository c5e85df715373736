package fixture

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucible-dev/crucible/packages/core/harness"
)

func TestDataPath(t *testing.T) {
	opts := &harness.Options{ProgName: "pathtest"}

	p, err := DataPath(opts, "journal")
	require.NoError(t, err)
	assert.Equal(t, "journal", filepath.Base(p))
	assert.Contains(t, p, "pathtest-data")

	// The containing data area exists after the call.
	assert.DirExists(t, filepath.Dir(p))
}

func TestDataPath_NilOptions(t *testing.T) {
	p, err := DataPath(nil, "journal")
	require.NoError(t, err)
	assert.Contains(t, p, "crucible-data")
}

func TestUniqueReposPath(t *testing.T) {
	opts := &harness.Options{ReposDir: t.TempDir()}

	p1 := UniqueReposPath(opts, "commit-roundtrip")
	p2 := UniqueReposPath(opts, "commit-roundtrip")

	assert.NotEqual(t, p1, p2, "paths carry a per-call random suffix")
	assert.True(t, strings.HasPrefix(filepath.Base(p1), "commit-roundtrip-"))
	assert.Equal(t, opts.ReposDir, filepath.Dir(p1))
}

func TestSrcDir(t *testing.T) {
	assert.Equal(t, "/src/tests", SrcDir(&harness.Options{SrcDir: "/src/tests"}))
	assert.Equal(t, ".", SrcDir(&harness.Options{}))
	assert.Equal(t, ".", SrcDir(nil))
}
