package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleTree_Shape(t *testing.T) {
	assert.Len(t, SampleTree, 20)

	dirs, files := 0, 0
	for _, e := range SampleTree {
		if e.IsDir {
			dirs++
			assert.Empty(t, e.Contents, "directory %q must have no contents", e.Path)
		} else {
			files++
			assert.NotEmpty(t, e.Contents, "file %q must have contents", e.Path)
		}
	}
	assert.Positive(t, dirs)
	assert.Positive(t, files)
}

func TestMaterializeAndVerify(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, Materialize(root, SampleTree))
	assert.NoError(t, Verify(root, SampleTree))

	data, err := os.ReadFile(filepath.Join(root, "src", "lib", "alpha"))
	require.NoError(t, err)
	assert.Equal(t, "This is the file 'alpha'.\n", string(data))
}

func TestVerify_MissingEntry(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Materialize(root, SampleTree))
	require.NoError(t, os.Remove(filepath.Join(root, "readme")))

	err := Verify(root, SampleTree)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
	assert.Contains(t, err.Error(), "readme")
}

func TestVerify_UnexpectedEntry(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Materialize(root, SampleTree))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray"), []byte("x"), 0o644))

	err := Verify(root, SampleTree)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected entry")
}

func TestVerify_ContentMismatch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Materialize(root, SampleTree))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme"), []byte("tampered"), 0o644))

	err := Verify(root, SampleTree)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contents differ")
}

func TestVerify_PartialMaterialization(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Materialize(root, SampleTree[:6]))

	assert.Error(t, Verify(root, SampleTree))
}
