// Package discovery implements the .gitignore-aware directory walk
// shared by the discovery.list, discovery.search and discovery.read
// tools.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// defaultIgnoreDirs is a baseline of generated/vendor directories
// skipped even in repositories with no .gitignore of their own.
var defaultIgnoreDirs = map[string]bool{
	"node_modules": true,
	"__pycache__":  true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"vendor":       true,
	"bin":          true,
	"obj":          true,
	".idea":        true,
	".vscode":      true,
	".cache":       true,
	"tmp":          true,
	"temp":         true,
	".venv":        true,
	"venv":         true,
	"env":          true,
}

// Entry is one walked path. Path is the absolute path (root-prefixed);
// Rel is the same path relative to the walk root, kept for callers that
// need it for display or further joining.
type Entry struct {
	Path  string
	Rel   string
	IsDir bool
}

func loadMatcher(root string) gitignore.Matcher {
	fsys := osfs.New(root)
	patterns, err := gitignore.ReadPatterns(fsys, nil)
	if err != nil || len(patterns) == 0 {
		return nil
	}
	return gitignore.NewMatcher(patterns)
}

// Walk traverses root (excluding root itself), honoring the
// repository's ignore files plus a baseline of always-skipped
// directories, invoking visit for every entry that survives those
// filters. visit returns false to stop the walk early — callers that
// cap the number of *results* (as opposed to entries considered, which
// discovery.search's regex filter may discard most of) enforce that cap
// inside visit, not by counting entries here.
func Walk(root string, visit func(Entry) bool) error {
	matcher := loadMatcher(root)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		if defaultIgnoreDirs[d.Name()] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if matcher != nil {
			parts := strings.Split(rel, string(filepath.Separator))
			if matcher.Match(parts, d.IsDir()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if !visit(Entry{Path: path, Rel: rel, IsDir: d.IsDir()}) {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && err != filepath.SkipAll {
		return err
	}
	return nil
}

// Exists reports whether root exists and is a directory, used to
// surface ConfigMissing early when project_root is misconfigured.
func Exists(root string) bool {
	info, err := os.Stat(root)
	return err == nil && info.IsDir()
}
