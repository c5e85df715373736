package cleanup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndPaths(t *testing.T) {
	r := NewRegistry()
	assert.Zero(t, r.Len())

	r.Register("/tmp/b")
	r.Register("/tmp/a")
	r.Register("/tmp/b") // duplicates merge
	r.Register("")       // ignored

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"/tmp/a", "/tmp/b"}, r.Paths())
}

func TestRegistry_ConcurrentInserts(t *testing.T) {
	r := NewRegistry()

	const workers = 32
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				r.Register(fmt.Sprintf("/scratch/worker-%d/path-%d", w, i))
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker, r.Len())
}

func TestRegistry_DrainAndRemove(t *testing.T) {
	tmp := t.TempDir()

	dir := filepath.Join(tmp, "fixture-dir")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	file := filepath.Join(tmp, "fixture-file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	r := NewRegistry()
	r.Register(dir)
	r.Register(file)

	var warnings bytes.Buffer
	r.DrainAndRemove(&warnings)

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))

	assert.Empty(t, warnings.String())
	assert.Zero(t, r.Len(), "drain clears the set")
}

func TestRegistry_DrainMissingPathIsQuiet(t *testing.T) {
	r := NewRegistry()
	r.Register(filepath.Join(t.TempDir(), "never-created"))

	var warnings bytes.Buffer
	r.DrainAndRemove(&warnings)

	// RemoveAll treats a missing path as success.
	assert.Empty(t, warnings.String())
	assert.Zero(t, r.Len())
}
