package vcs

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/airtrafficctl/atc/internal/logging"
)

// BranchWatcher keeps a cached current-branch reading fresh by watching
// the repository's .git directory for HEAD changes; git.status reports
// this cached reading in place of the branch Repo.Status reads.
type BranchWatcher struct {
	watcher *fsnotify.Watcher
	repo    *Repo

	mu      sync.RWMutex
	current string

	stopCh chan struct{}
	doneCh chan struct{}
}

// WatchBranch starts a BranchWatcher rooted at dir's enclosing
// repository. Returns nil, nil if dir has no .git directory to watch
// (not fatal: callers fall back to reading the branch directly from r).
func WatchBranch(r *Repo, dir string) (*BranchWatcher, error) {
	gitDir := findGitDir(dir)
	if gitDir == "" {
		return nil, nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(gitDir); err != nil {
		fw.Close()
		return nil, err
	}

	bw := &BranchWatcher{
		watcher: fw,
		repo:    r,
		current: r.branch(),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go bw.run()
	return bw, nil
}

func (w *BranchWatcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.refresh()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Logger.Warn().Err(err).Msg("branch watcher error")
		}
	}
}

func (w *BranchWatcher) refresh() {
	newBranch := w.repo.branch()
	w.mu.Lock()
	w.current = newBranch
	w.mu.Unlock()
}

// CurrentBranch returns the most recently observed branch name.
func (w *BranchWatcher) CurrentBranch() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Stop tears down the watcher. Safe to call once.
func (w *BranchWatcher) Stop() error {
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}
	<-w.doneCh
	return w.watcher.Close()
}

// findGitDir walks up from dir looking for a .git entry, resolving the
// worktree-style ".git" file (a single line "gitdir: <path>") to its
// real target when present.
func findGitDir(dir string) string {
	for {
		candidate := filepath.Join(dir, ".git")
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return candidate
			}
			return resolveGitFile(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func resolveGitFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	const prefix = "gitdir: "
	s := string(data)
	if len(s) <= len(prefix) || s[:len(prefix)] != prefix {
		return ""
	}
	target := s[len(prefix):]
	for len(target) > 0 && (target[len(target)-1] == '\n' || target[len(target)-1] == '\r') {
		target = target[:len(target)-1]
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return target
}
