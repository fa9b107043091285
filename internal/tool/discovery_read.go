package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/registry"
	"github.com/airtrafficctl/atc/internal/sandbox"
)

const discoveryReadDescription = `Reads a file under the project root and returns its content inline.

Same sandboxing and UTF-8-lossy decoding as include_file, but the
content is returned directly instead of being persisted as session
context.`

// DiscoveryReadTool implements the discovery.read built-in.
type DiscoveryReadTool struct{}

func NewDiscoveryReadTool() *DiscoveryReadTool { return &DiscoveryReadTool{} }

func (t *DiscoveryReadTool) ID() string          { return "discovery.read" }
func (t *DiscoveryReadTool) Description() string { return discoveryReadDescription }

func (t *DiscoveryReadTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {"type": "string"},
			"max_bytes": {"type": "integer", "description": "default 65536"}
		},
		"required": ["path"]
	}`)
}

type discoveryReadArgs struct {
	Path     string `json:"path"`
	MaxBytes int    `json:"max_bytes"`
}

func (t *DiscoveryReadTool) Execute(ctx context.Context, toolCtx *registry.Context, raw json.RawMessage) (*registry.Result, error) {
	var args discoveryReadArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, core.Wrap(core.KindBadArgs, "invalid discovery.read arguments", err)
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
	dataJSON, _ := json.Marshal(map[string]any{"content": content})

	return &registry.Result{
		Summary: fmt.Sprintf("file:%s bytes:%d", args.Path, len(data)),
		Data:    dataJSON,
	}, nil
}
