// Package vcs wraps go-git for the git.* built-in tools: status,
// workdir diff, stage-all and commit, rooted at a project's
// project_root. Delegating to an embedded library rather than shelling
// out to the git binary keeps dispatch free of subprocess lifecycle
// management.
package vcs

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/airtrafficctl/atc/internal/core"
)

// Repo is a thin handle on a discovered git repository.
type Repo struct {
	repo *git.Repository
}

// Open discovers the repository rooted at or above dir, walking up
// through worktrees the way the git CLI itself resolves a repo root.
func Open(dir string) (*Repo, error) {
	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, core.Wrap(core.KindNotFound, "no git repository found at or above "+dir, err)
	}
	return &Repo{repo: r}, nil
}

// FileStatus is one entry of a status report.
type FileStatus struct {
	Path     string `json:"path"`
	Staging  string `json:"staging"`
	Worktree string `json:"worktree"`
}

// StatusReport is the result of git.status.
type StatusReport struct {
	Branch string       `json:"branch"`
	Files  []FileStatus `json:"files"`
}

func statusCodeString(c git.StatusCode) string {
	switch c {
	case git.Unmodified:
		return "unmodified"
	case git.Untracked:
		return "untracked"
	case git.Modified:
		return "modified"
	case git.Added:
		return "added"
	case git.Deleted:
		return "deleted"
	case git.Renamed:
		return "renamed"
	case git.Copied:
		return "copied"
	case git.UpdatedButUnmerged:
		return "conflict"
	default:
		return "unknown"
	}
}

// Status reports the current branch and the worktree status.
func (r *Repo) Status() (*StatusReport, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, core.Wrap(core.KindStorageFailure, "open worktree", err)
	}
	st, err := wt.Status()
	if err != nil {
		return nil, core.Wrap(core.KindStorageFailure, "read worktree status", err)
	}

	report := &StatusReport{Branch: r.branch()}
	for path, fs := range st {
		report.Files = append(report.Files, FileStatus{
			Path:     path,
			Staging:  statusCodeString(fs.Staging),
			Worktree: statusCodeString(fs.Worktree),
		})
	}
	sort.Slice(report.Files, func(i, j int) bool { return report.Files[i].Path < report.Files[j].Path })
	return report, nil
}

// branch returns the current branch's short name, or "" for a detached
// or unborn HEAD.
func (r *Repo) branch() string {
	head, err := r.repo.Head()
	if err != nil {
		return ""
	}
	if !head.Name().IsBranch() {
		return ""
	}
	return head.Name().Short()
}

// Diff returns a unified diff of every modified tracked file between
// HEAD and the worktree, built with the same diffmatchpatch machinery
// the files.write tool uses for its preview diffs.
func (r *Repo) Diff() (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", core.Wrap(core.KindStorageFailure, "open worktree", err)
	}
	st, err := wt.Status()
	if err != nil {
		return "", core.Wrap(core.KindStorageFailure, "read worktree status", err)
	}

	headCommit, headErr := r.headCommit()

	var out strings.Builder
	paths := make([]string, 0, len(st))
	for p := range st {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		fs := st[path]
		if fs.Worktree == git.Unmodified || fs.Worktree == git.Untracked {
			continue
		}

		before := ""
		if headErr == nil {
			before = fileContentsAt(headCommit, path)
		}
		after := ""
		if fs.Worktree != git.Deleted {
			after = fileContentsInWorktree(wt, path)
		}
		if before == after {
			continue
		}

		dmp := diffmatchpatch.New()
		a, b, lines := dmp.DiffLinesToChars(before, after)
		diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
		patches := dmp.PatchMake(before, diffs)
		text := dmp.PatchToText(patches)
		if text == "" {
			continue
		}
		fmt.Fprintf(&out, "--- %s\n+++ %s\n%s", path, path, text)
	}
	return out.String(), nil
}

func (r *Repo) headCommit() (*object.Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, err
	}
	return r.repo.CommitObject(head.Hash())
}

func fileContentsAt(commit *object.Commit, path string) string {
	if commit == nil {
		return ""
	}
	f, err := commit.File(path)
	if err != nil {
		return ""
	}
	content, err := f.Contents()
	if err != nil {
		return ""
	}
	return content
}

func fileContentsInWorktree(wt *git.Worktree, path string) string {
	f, err := wt.Filesystem.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return ""
	}
	return string(b)
}

// AddAll stages every change in the worktree.
func (r *Repo) AddAll() error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return core.Wrap(core.KindStorageFailure, "open worktree", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return core.Wrap(core.KindStorageFailure, "stage changes", err)
	}
	return nil
}

// Commit creates a commit from the current index. If the repository has
// no HEAD yet this becomes the initial commit with no parent; otherwise
// the current HEAD becomes its single parent. Returns the new commit's
// hex object id.
func (r *Repo) Commit(message, authorName, authorEmail string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", core.Wrap(core.KindStorageFailure, "open worktree", err)
	}

	sig := &object.Signature{
		Name:  authorName,
		Email: authorEmail,
		When:  time.Now(),
	}

	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig})
	if err != nil {
		return "", core.Wrap(core.KindStorageFailure, "create commit", err)
	}
	return hash.String(), nil
}

// ErrNoHead is returned by callers distinguishing an unborn-HEAD repo;
// go-git's plumbing.ErrReferenceNotFound is the underlying cause.
var ErrNoHead = plumbing.ErrReferenceNotFound
