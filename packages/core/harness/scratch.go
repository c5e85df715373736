package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Scratch is the isolated per-test resource arena: a private directory
// created before the driver runs and removed in full as soon as it
// returns, whatever the outcome. One test's leftovers can never leak
// into another's.
type Scratch struct {
	dir string
}

// newScratch creates the arena directory under root (or the system
// temp dir when root is empty). The name mixes the test's own identity
// with a random suffix so concurrent runs never collide.
func newScratch(root, progName string, index int) (*Scratch, error) {
	if root == "" {
		root = os.TempDir()
	}
	if progName == "" {
		progName = "crucible"
	}
	name := fmt.Sprintf("%s-%d-%s", progName, index+1, uuid.NewString()[:8])
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	return &Scratch{dir: dir}, nil
}

// Dir returns the arena's root directory.
func (s *Scratch) Dir() string {
	return s.dir
}

// Path joins name onto the arena's root.
func (s *Scratch) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Mkdir creates a subdirectory inside the arena and returns its path.
func (s *Scratch) Mkdir(name string) (string, error) {
	p := s.Path(name)
	if err := os.MkdirAll(p, 0o755); err != nil {
		return "", err
	}
	return p, nil
}

// WriteFile writes a file inside the arena and returns its path.
func (s *Scratch) WriteFile(name string, data []byte) (string, error) {
	p := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", err
	}
	return p, nil
}

// release removes the arena. Failures are warnings; the run goes on.
func (s *Scratch) release() {
	if err := os.RemoveAll(s.dir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: releasing scratch dir %s failed: %v\n", s.dir, err)
	}
}
