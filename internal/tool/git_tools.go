package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/registry"
	"github.com/airtrafficctl/atc/internal/vcs"
)

const (
	commitAuthorName  = "atc"
	commitAuthorEmail = "atc@localhost"
)

func openRepo(toolCtx *registry.Context) (*vcs.Repo, error) {
	if toolCtx.ProjectRoot == "" {
		return nil, core.New(core.KindConfigMissing, "project_root is not configured for this session")
	}
	return vcs.Open(toolCtx.ProjectRoot)
}

// branchWatchers caches one BranchWatcher per project root; git.status
// reports the watcher's fsnotify-fed branch in place of the one
// Repo.Status read, whenever the watcher has one. Repo.Status still reads
// HEAD on every call. Entries are never evicted: sessions are expected to
// stay pinned to a handful of project roots for their lifetime.
var branchWatchers sync.Map // project root -> *vcs.BranchWatcher

func watchedBranch(repo *vcs.Repo, projectRoot string) string {
	if cached, ok := branchWatchers.Load(projectRoot); ok {
		if bw, ok := cached.(*vcs.BranchWatcher); ok {
			return bw.CurrentBranch()
		}
	}

	bw, err := vcs.WatchBranch(repo, projectRoot)
	if err != nil || bw == nil {
		return ""
	}
	actual, loaded := branchWatchers.LoadOrStore(projectRoot, bw)
	if loaded {
		bw.Stop()
		return actual.(*vcs.BranchWatcher).CurrentBranch()
	}
	return bw.CurrentBranch()
}

// GitStatusTool implements the git.status built-in.
type GitStatusTool struct{}

func NewGitStatusTool() *GitStatusTool { return &GitStatusTool{} }

func (t *GitStatusTool) ID() string          { return "git.status" }
func (t *GitStatusTool) Description() string { return "Reports the current branch and worktree status." }
func (t *GitStatusTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *GitStatusTool) Execute(ctx context.Context, toolCtx *registry.Context, raw json.RawMessage) (*registry.Result, error) {
	repo, err := openRepo(toolCtx)
	if err != nil {
		return nil, err
	}
	report, err := repo.Status()
	if err != nil {
		return nil, err
	}
	if live := watchedBranch(repo, toolCtx.ProjectRoot); live != "" {
		report.Branch = live
	}
	dataJSON, err := json.Marshal(report)
	if err != nil {
		return nil, core.Wrap(core.KindStorageFailure, "encode status", err)
	}
	return &registry.Result{
		Summary: fmt.Sprintf("branch:%s files:%d", report.Branch, len(report.Files)),
		Data:    dataJSON,
	}, nil
}

// GitDiffTool implements the git.diff built-in.
type GitDiffTool struct{}

func NewGitDiffTool() *GitDiffTool { return &GitDiffTool{} }

func (t *GitDiffTool) ID() string          { return "git.diff" }
func (t *GitDiffTool) Description() string { return "Returns a unified diff of the worktree against HEAD." }
func (t *GitDiffTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *GitDiffTool) Execute(ctx context.Context, toolCtx *registry.Context, raw json.RawMessage) (*registry.Result, error) {
	repo, err := openRepo(toolCtx)
	if err != nil {
		return nil, err
	}
	diff, err := repo.Diff()
	if err != nil {
		return nil, err
	}
	dataJSON, _ := json.Marshal(map[string]any{"diff": diff})
	return &registry.Result{
		Summary: fmt.Sprintf("diff:%d bytes", len(diff)),
		Data:    dataJSON,
	}, nil
}

// GitAddAllTool implements the git.add_all built-in.
type GitAddAllTool struct{}

func NewGitAddAllTool() *GitAddAllTool { return &GitAddAllTool{} }

func (t *GitAddAllTool) ID() string          { return "git.add_all" }
func (t *GitAddAllTool) Description() string { return "Stages every change in the worktree." }
func (t *GitAddAllTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *GitAddAllTool) Execute(ctx context.Context, toolCtx *registry.Context, raw json.RawMessage) (*registry.Result, error) {
	repo, err := openRepo(toolCtx)
	if err != nil {
		return nil, err
	}
	if err := repo.AddAll(); err != nil {
		return nil, err
	}
	return &registry.Result{Summary: "staged all changes"}, nil
}

// GitCommitTool implements the git.commit built-in.
type GitCommitTool struct{}

func NewGitCommitTool() *GitCommitTool { return &GitCommitTool{} }

func (t *GitCommitTool) ID() string { return "git.commit" }
func (t *GitCommitTool) Description() string {
	return "Commits the current index. Creates the initial commit if HEAD does not yet exist."
}
func (t *GitCommitTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"message": {"type": "string"}
		},
		"required": ["message"]
	}`)
}

type gitCommitArgs struct {
	Message string `json:"message"`
}

func (t *GitCommitTool) Execute(ctx context.Context, toolCtx *registry.Context, raw json.RawMessage) (*registry.Result, error) {
	var args gitCommitArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, core.Wrap(core.KindBadArgs, "invalid git.commit arguments", err)
	}
	if args.Message == "" {
		return nil, core.New(core.KindBadArgs, "message is required")
	}

	repo, err := openRepo(toolCtx)
	if err != nil {
		return nil, err
	}
	hash, err := repo.Commit(args.Message, commitAuthorName, commitAuthorEmail)
	if err != nil {
		return nil, err
	}

	dataJSON, _ := json.Marshal(map[string]any{"commit": hash})
	return &registry.Result{
		Summary: "commit:" + hash,
		Data:    dataJSON,
	}, nil
}
