package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/registry"
	"github.com/airtrafficctl/atc/internal/sandbox"
)

const filesDeleteDescription = `Deletes a file or directory (recursive) under the project root.

dry_run defaults to the session's tool_policies.dry_run, or true if
that is unset.`

// FilesDeleteTool implements the files.delete built-in.
type FilesDeleteTool struct{}

func NewFilesDeleteTool() *FilesDeleteTool { return &FilesDeleteTool{} }

func (t *FilesDeleteTool) ID() string          { return "files.delete" }
func (t *FilesDeleteTool) Description() string { return filesDeleteDescription }

func (t *FilesDeleteTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {"type": "string"},
			"dry_run": {"type": "boolean"}
		},
		"required": ["path"]
	}`)
}

type filesDeleteArgs struct {
	Path   string `json:"path"`
	DryRun *bool  `json:"dry_run"`
}

func (t *FilesDeleteTool) Execute(ctx context.Context, toolCtx *registry.Context, raw json.RawMessage) (*registry.Result, error) {
	var args filesDeleteArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, core.Wrap(core.KindBadArgs, "invalid files.delete arguments", err)
	}
	if args.Path == "" {
		return nil, core.New(core.KindBadArgs, "path is required")
	}
	if toolCtx.ProjectRoot == "" {
		return nil, core.New(core.KindConfigMissing, "project_root is not configured for this session")
	}

	dryRun := resolveDryRun(args.DryRun, toolCtx.Settings.ToolPolicies.DryRun)

	resolved, err := sandbox.ResolveUnderRoot(toolCtx.ProjectRoot, args.Path)
	if err != nil {
		return nil, err
	}

	info, statErr := os.Stat(resolved)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return nil, core.New(core.KindNotFound, "path does not exist: "+args.Path)
		}
		return nil, core.Wrap(core.KindStorageFailure, "stat path", statErr)
	}

	if !dryRun {
		if err := os.RemoveAll(resolved); err != nil {
			return nil, core.Wrap(core.KindStorageFailure, "delete path", err)
		}
	}

	dataJSON, _ := json.Marshal(map[string]any{"applied": !dryRun, "was_dir": info.IsDir()})

	verb := "would delete"
	if !dryRun {
		verb = "deleted"
	}
	return &registry.Result{
		Summary: fmt.Sprintf("%s %s", verb, args.Path),
		Data:    dataJSON,
	}, nil
}
