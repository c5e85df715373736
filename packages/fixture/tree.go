// Package fixture holds the static test data and path helpers the test
// bodies share: a standard sample tree, per-test data directories and
// source-directory resolution. The engine treats all of it as opaque
// collaborators.
package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// TreeEntry is one node of a static tree fixture. A nil Contents marks
// a directory.
type TreeEntry struct {
	Path     string
	Contents string
	IsDir    bool
}

// SampleTree is the standard tree layout used by tests that need a
// known directory structure: a small project with nested sources and
// docs, twenty entries in all.
var SampleTree = []TreeEntry{
	{Path: "readme", Contents: "This is the file 'readme'.\n"},
	{Path: "src", IsDir: true},
	{Path: "src/main", Contents: "This is the file 'main'.\n"},
	{Path: "src/lib", IsDir: true},
	{Path: "src/lib/alpha", Contents: "This is the file 'alpha'.\n"},
	{Path: "src/lib/beta", Contents: "This is the file 'beta'.\n"},
	{Path: "src/util", IsDir: true},
	{Path: "src/util/helpers", Contents: "This is the file 'helpers'.\n"},
	{Path: "docs", IsDir: true},
	{Path: "docs/guide", Contents: "This is the file 'guide'.\n"},
	{Path: "docs/api", IsDir: true},
	{Path: "docs/api/index", Contents: "This is the file 'index'.\n"},
	{Path: "docs/api/types", Contents: "This is the file 'types'.\n"},
	{Path: "data", IsDir: true},
	{Path: "data/small", Contents: "This is the file 'small'.\n"},
	{Path: "data/large", Contents: "This is the file 'large'.\n"},
	{Path: "data/nested", IsDir: true},
	{Path: "data/nested/leaf", Contents: "This is the file 'leaf'.\n"},
	{Path: "scripts", IsDir: true},
	{Path: "scripts/build", Contents: "This is the file 'build'.\n"},
}

// Materialize writes the tree to disk under root.
func Materialize(root string, entries []TreeEntry) error {
	for _, e := range entries {
		p := filepath.Join(root, filepath.FromSlash(e.Path))
		if e.IsDir {
			if err := os.MkdirAll(p, 0o755); err != nil {
				return fmt.Errorf("creating fixture dir %s: %w", e.Path, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("creating fixture parent for %s: %w", e.Path, err)
		}
		if err := os.WriteFile(p, []byte(e.Contents), 0o644); err != nil {
			return fmt.Errorf("writing fixture file %s: %w", e.Path, err)
		}
	}
	return nil
}

// Verify walks root and checks it contains exactly the given entries
// with matching contents.
func Verify(root string, entries []TreeEntry) error {
	want := make(map[string]TreeEntry, len(entries))
	for _, e := range entries {
		want[e.Path] = e
	}

	found := make(map[string]bool, len(entries))
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		e, ok := want[rel]
		if !ok {
			return fmt.Errorf("unexpected entry %q in fixture tree", rel)
		}
		if e.IsDir != info.IsDir() {
			return fmt.Errorf("entry %q: directory/file mismatch", rel)
		}
		if !e.IsDir {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if string(data) != e.Contents {
				return fmt.Errorf("entry %q: contents differ\n  expected: %q\n  found:    %q",
					rel, e.Contents, string(data))
			}
		}
		found[rel] = true
		return nil
	})
	if err != nil {
		return err
	}

	if len(found) != len(want) {
		var missing []string
		for p := range want {
			if !found[p] {
				missing = append(missing, p)
			}
		}
		sort.Strings(missing)
		return fmt.Errorf("fixture tree is missing entries: %v", missing)
	}
	return nil
}
