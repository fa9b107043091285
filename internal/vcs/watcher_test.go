package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func createTempGitRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Test\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir
}

func checkoutNewBranch(t *testing.T, dir, name string) {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	}))
}

func TestFindGitDir(t *testing.T) {
	dir := createTempGitRepo(t)
	gitDir := findGitDir(dir)
	require.NotEmpty(t, gitDir)
	require.True(t, filepath.IsAbs(gitDir))
	require.Equal(t, ".git", filepath.Base(gitDir))
}

func TestFindGitDir_NonGitDir(t *testing.T) {
	dir := t.TempDir()
	require.Empty(t, findGitDir(dir))
}

func TestWatchBranch_NonGitDir(t *testing.T) {
	dir := t.TempDir()
	r, err := Open(dir)
	require.Error(t, err)
	require.Nil(t, r)

	bw, err := WatchBranch(nil, dir)
	require.NoError(t, err)
	require.Nil(t, bw)
}

func TestWatchBranch_InitialBranch(t *testing.T) {
	dir := createTempGitRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)

	bw, err := WatchBranch(r, dir)
	require.NoError(t, err)
	require.NotNil(t, bw)
	defer bw.Stop()

	require.NotEmpty(t, bw.CurrentBranch())
}

func TestWatchBranch_DetectsBranchChange(t *testing.T) {
	dir := createTempGitRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)

	bw, err := WatchBranch(r, dir)
	require.NoError(t, err)
	require.NotNil(t, bw)
	defer bw.Stop()

	checkoutNewBranch(t, dir, "feature-branch")

	require.Eventually(t, func() bool {
		return bw.CurrentBranch() == "feature-branch"
	}, time.Second, 10*time.Millisecond, "expected watcher to observe the new branch")
}

func TestWatchBranch_ConcurrentReads(t *testing.T) {
	dir := createTempGitRepo(t)
	r, err := Open(dir)
	require.NoError(t, err)

	bw, err := WatchBranch(r, dir)
	require.NoError(t, err)
	require.NotNil(t, bw)
	defer bw.Stop()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_ = bw.CurrentBranch()
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
