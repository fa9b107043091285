// Package sandbox implements path containment: resolving a user-supplied
// relative path under a project root, rejecting traversal and symlink
// escapes.
package sandbox

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/airtrafficctl/atc/internal/core"
)

// ResolveUnderRoot resolves rel against root and returns the canonicalized
// absolute path iff it provably lies within the canonicalized root.
//
// Two-phase algorithm:
//  1. Canonicalize root (absolutize against cwd, resolve symlinks). Reject
//     an absolute rel outright — joining it under root would silently
//     re-root it onto an unrelated path instead of escaping, which is no
//     safer.
//  2. Lexically normalize root⊕rel — collapse "." and pop on ".." without
//     touching the filesystem, so an exotic ".." sequence can't be hidden
//     behind a symlink that doesn't exist yet.
//  3. Walk up from the lexical result to the deepest path segment that
//     actually exists, canonicalize that segment (resolving symlinks),
//     and require it to sit under the canonical root. This covers both
//     paths that already exist and paths about to be created.
func ResolveUnderRoot(root, rel string) (string, error) {
	canonicalRoot, err := canonicalize(root)
	if err != nil {
		return "", core.Wrap(core.KindPathEscape, "project root is not resolvable", err)
	}

	if filepath.IsAbs(rel) {
		return "", core.New(core.KindPathEscape, "path must be relative to project root")
	}

	lexical := filepath.Clean(filepath.Join(canonicalRoot, rel))

	existing, suffix, err := deepestExistingAncestor(lexical)
	if err != nil {
		return "", core.Wrap(core.KindPathEscape, "path is not resolvable", err)
	}

	canonicalExisting, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", core.Wrap(core.KindPathEscape, "path is not resolvable", err)
	}

	if !isUnder(canonicalRoot, canonicalExisting) {
		return "", core.New(core.KindPathEscape, "path resolves outside project root")
	}

	if len(suffix) == 0 {
		return canonicalExisting, nil
	}
	return filepath.Join(append([]string{canonicalExisting}, suffix...)...), nil
}

func canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// deepestExistingAncestor walks p's ancestors until it finds one that
// exists (via Lstat, so a dangling symlink still counts as "existing" at
// that segment), returning that ancestor plus the path components of p
// below it, in order.
func deepestExistingAncestor(p string) (ancestor string, suffix []string, err error) {
	cur := p
	for {
		if _, statErr := os.Lstat(cur); statErr == nil {
			return cur, suffix, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", nil, os.ErrNotExist
		}
		suffix = append([]string{filepath.Base(cur)}, suffix...)
		cur = parent
	}
}

// isUnder reports whether candidate is root or a descendant of root.
func isUnder(root, candidate string) bool {
	if candidate == root {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(candidate, strings.TrimSuffix(root, sep)+sep)
}
