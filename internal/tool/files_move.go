package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/registry"
	"github.com/airtrafficctl/atc/internal/sandbox"
)

const filesMoveDescription = `Moves or renames a file under the project root.

Both from and to must resolve under project_root. dry_run defaults to
the session's tool_policies.dry_run, or true if that is unset.`

// FilesMoveTool implements the files.move built-in.
type FilesMoveTool struct{}

func NewFilesMoveTool() *FilesMoveTool { return &FilesMoveTool{} }

func (t *FilesMoveTool) ID() string          { return "files.move" }
func (t *FilesMoveTool) Description() string { return filesMoveDescription }

func (t *FilesMoveTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"from": {"type": "string"},
			"to": {"type": "string"},
			"dry_run": {"type": "boolean"}
		},
		"required": ["from", "to"]
	}`)
}

type filesMoveArgs struct {
	From   string `json:"from"`
	To     string `json:"to"`
	DryRun *bool  `json:"dry_run"`
}

func (t *FilesMoveTool) Execute(ctx context.Context, toolCtx *registry.Context, raw json.RawMessage) (*registry.Result, error) {
	var args filesMoveArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, core.Wrap(core.KindBadArgs, "invalid files.move arguments", err)
	}
	if args.From == "" || args.To == "" {
		return nil, core.New(core.KindBadArgs, "from and to are required")
	}
	if toolCtx.ProjectRoot == "" {
		return nil, core.New(core.KindConfigMissing, "project_root is not configured for this session")
	}

	dryRun := resolveDryRun(args.DryRun, toolCtx.Settings.ToolPolicies.DryRun)

	resolvedFrom, err := sandbox.ResolveUnderRoot(toolCtx.ProjectRoot, args.From)
	if err != nil {
		return nil, err
	}
	resolvedTo, err := sandbox.ResolveUnderRoot(toolCtx.ProjectRoot, args.To)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(resolvedFrom); err != nil {
		if os.IsNotExist(err) {
			return nil, core.New(core.KindNotFound, "source does not exist: "+args.From)
		}
		return nil, core.Wrap(core.KindStorageFailure, "stat source", err)
	}

	if !dryRun {
		if err := os.MkdirAll(filepath.Dir(resolvedTo), 0755); err != nil {
			return nil, core.Wrap(core.KindStorageFailure, "create destination directory", err)
		}
		if err := os.Rename(resolvedFrom, resolvedTo); err != nil {
			return nil, core.Wrap(core.KindStorageFailure, "move file", err)
		}
	}

	dataJSON, _ := json.Marshal(map[string]any{"applied": !dryRun})

	verb := "would move"
	if !dryRun {
		verb = "moved"
	}
	return &registry.Result{
		Summary: fmt.Sprintf("%s %s to %s", verb, args.From, args.To),
		Data:    dataJSON,
	}, nil
}
