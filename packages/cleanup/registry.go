// Package cleanup tracks filesystem paths registered by test bodies for
// removal after the run. The registry is the only resource shared and
// mutated across concurrently running tests.
package cleanup

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

// Registry is a concurrency-safe set of paths scheduled for removal
// once every worker has returned. Its lifecycle is scoped to one run.
type Registry struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{paths: make(map[string]struct{})}
}

// Register adds path to the cleanup set. Safe to call from any test
// body while the run is in flight. Duplicate registrations are merged.
func (r *Registry) Register(path string) {
	if path == "" {
		return
	}
	r.mu.Lock()
	r.paths[path] = struct{}{}
	r.mu.Unlock()
}

// Len reports how many distinct paths are registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

// Paths returns the registered paths in sorted order.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.paths))
	for p := range r.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// DrainAndRemove removes every registered path from disk and clears the
// set. It must be called exactly once, after the scheduler confirms all
// workers have returned. Removal is best-effort: failures are reported
// as warnings on warnWriter and do not stop the drain.
func (r *Registry) DrainAndRemove(warnWriter io.Writer) {
	if warnWriter == nil {
		warnWriter = os.Stderr
	}
	for _, p := range r.Paths() {
		if err := os.RemoveAll(p); err != nil {
			fmt.Fprintf(warnWriter, "warning: cleanup of %s failed: %v\n", p, err)
		}
	}
	r.mu.Lock()
	r.paths = make(map[string]struct{})
	r.mu.Unlock()
}
