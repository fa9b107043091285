package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/idgen"
	"github.com/airtrafficctl/atc/internal/registry"
	"github.com/airtrafficctl/atc/internal/sandbox"
	"github.com/airtrafficctl/atc/internal/store"
	"github.com/airtrafficctl/atc/pkg/types"
)

const defaultIncludeFileMaxBytes = 65536

const includeFileDescription = `Reads a file under the project root and captures it as session context.

Usage:
- path is relative to the session's project_root and is resolved through the path sandbox
- max_bytes caps how much of the file is read (default 65536)
- content is decoded as UTF-8 with invalid sequences replaced, never returned as binary
- the read content is persisted as a context item on the session`

// IncludeFileTool implements the include_file built-in.
type IncludeFileTool struct {
	items store.ContextItemStore
}

func NewIncludeFileTool(items store.ContextItemStore) *IncludeFileTool {
	return &IncludeFileTool{items: items}
}

func (t *IncludeFileTool) ID() string          { return "include_file" }
func (t *IncludeFileTool) Description() string { return includeFileDescription }

func (t *IncludeFileTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {"type": "string", "description": "Path to the file, relative to project_root"},
			"max_bytes": {"type": "integer", "description": "Maximum bytes to read (default 65536)"}
		},
		"required": ["path"]
	}`)
}

type includeFileArgs struct {
	Path     string `json:"path"`
	MaxBytes int    `json:"max_bytes"`
}

func (t *IncludeFileTool) Execute(ctx context.Context, toolCtx *registry.Context, raw json.RawMessage) (*registry.Result, error) {
	var args includeFileArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, core.Wrap(core.KindBadArgs, "invalid include_file arguments", err)
	}
	if args.Path == "" {
		return nil, core.New(core.KindBadArgs, "path is required")
	}
	if args.MaxBytes <= 0 {
		args.MaxBytes = defaultIncludeFileMaxBytes
	}
	if toolCtx.ProjectRoot == "" {
		return nil, core.New(core.KindConfigMissing, "project_root is not configured for this session")
	}

	resolved, err := sandbox.ResolveUnderRoot(toolCtx.ProjectRoot, args.Path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.Wrap(core.KindNotFound, "file not found: "+args.Path, err)
		}
		return nil, core.Wrap(core.KindStorageFailure, "open file", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(args.MaxBytes)))
	if err != nil {
		return nil, core.Wrap(core.KindStorageFailure, "read file", err)
	}

	content := lossyPreview(data, args.MaxBytes)

	item := &types.ContextItem{
		ID:        idgen.New(),
		SessionID: toolCtx.SessionID,
		Kind:      types.ContextItemFile,
		Reference: args.Path,
		Content:   content,
		Size:      len(data),
	}
	if err := t.items.AddContextItem(ctx, item); err != nil {
		return nil, core.Wrap(core.KindStorageFailure, "persist context item", err)
	}

	dataJSON, _ := json.Marshal(map[string]any{
		"context_item_id": item.ID,
		"bytes":           len(data),
	})

	return &registry.Result{
		Summary: fmt.Sprintf("file:%s bytes:%d", args.Path, len(data)),
		Data:    dataJSON,
	}, nil
}
