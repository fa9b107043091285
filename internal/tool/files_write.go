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

const defaultPreviewBytes = 1024

const filesWriteDescription = `Writes content to a file under the project root.

dry_run defaults to the session's tool_policies.dry_run, or true if
that is unset. In dry-run mode the filesystem is not touched. The
result always carries before/after previews and, when the write is
applied, a unified diff of the change.`

// FilesWriteTool implements the files.write built-in.
type FilesWriteTool struct{}

func NewFilesWriteTool() *FilesWriteTool { return &FilesWriteTool{} }

func (t *FilesWriteTool) ID() string          { return "files.write" }
func (t *FilesWriteTool) Description() string { return filesWriteDescription }

func (t *FilesWriteTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {"type": "string"},
			"content": {"type": "string"},
			"create": {"type": "boolean", "description": "default true"},
			"dry_run": {"type": "boolean"},
			"preview_bytes": {"type": "integer", "description": "default 1024"}
		},
		"required": ["path", "content"]
	}`)
}

type filesWriteArgs struct {
	Path         string `json:"path"`
	Content      string `json:"content"`
	Create       *bool  `json:"create"`
	DryRun       *bool  `json:"dry_run"`
	PreviewBytes int    `json:"preview_bytes"`
}

func (t *FilesWriteTool) Execute(ctx context.Context, toolCtx *registry.Context, raw json.RawMessage) (*registry.Result, error) {
	var args filesWriteArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, core.Wrap(core.KindBadArgs, "invalid files.write arguments", err)
	}
	if args.Path == "" {
		return nil, core.New(core.KindBadArgs, "path is required")
	}
	if args.PreviewBytes <= 0 {
		args.PreviewBytes = defaultPreviewBytes
	}
	create := true
	if args.Create != nil {
		create = *args.Create
	}
	if toolCtx.ProjectRoot == "" {
		return nil, core.New(core.KindConfigMissing, "project_root is not configured for this session")
	}

	dryRun := resolveDryRun(args.DryRun, toolCtx.Settings.ToolPolicies.DryRun)

	resolved, err := sandbox.ResolveUnderRoot(toolCtx.ProjectRoot, args.Path)
	if err != nil {
		return nil, err
	}

	existingBytes, readErr := os.ReadFile(resolved)
	exists := readErr == nil
	if !exists && !os.IsNotExist(readErr) {
		return nil, core.Wrap(core.KindStorageFailure, "stat file", readErr)
	}
	if !exists && !create {
		return nil, core.New(core.KindNotFound, "file does not exist: "+args.Path)
	}

	before := lossyPreview(existingBytes, args.PreviewBytes)
	after := lossyPreview([]byte(args.Content), args.PreviewBytes)

	result := map[string]any{
		"applied":        !dryRun,
		"before_preview": before,
		"after_preview":  after,
	}

	if !dryRun {
		if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
			return nil, core.Wrap(core.KindStorageFailure, "create parent directory", err)
		}
		if err := os.WriteFile(resolved, []byte(args.Content), 0644); err != nil {
			return nil, core.Wrap(core.KindStorageFailure, "write file", err)
		}
		if diff := unifiedDiff(args.Path, string(existingBytes), args.Content); diff != "" {
			result["diff"] = diff
		}
	}

	dataJSON, err := json.Marshal(result)
	if err != nil {
		return nil, core.Wrap(core.KindStorageFailure, "encode result", err)
	}

	verb := "would write"
	if !dryRun {
		verb = "wrote"
	}
	return &registry.Result{
		Summary: fmt.Sprintf("%s %s (%d bytes)", verb, args.Path, len(args.Content)),
		Data:    dataJSON,
	}, nil
}

// resolveDryRun applies override > policy > default(true).
func resolveDryRun(override, policy *bool) bool {
	if override != nil {
		return *override
	}
	if policy != nil {
		return *policy
	}
	return true
}
