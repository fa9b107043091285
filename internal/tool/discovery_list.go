package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/discovery"
	"github.com/airtrafficctl/atc/internal/registry"
)

const defaultDiscoveryListMax = 500

const discoveryListDescription = `Walks the project root and lists files and directories.

Honors the repository's .gitignore and a baseline of always-skipped
directories (node_modules, .git, vendor, build output and similar).`

// DiscoveryListTool implements the discovery.list built-in.
type DiscoveryListTool struct{}

func NewDiscoveryListTool() *DiscoveryListTool { return &DiscoveryListTool{} }

func (t *DiscoveryListTool) ID() string          { return "discovery.list" }
func (t *DiscoveryListTool) Description() string { return discoveryListDescription }

func (t *DiscoveryListTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"max": {"type": "integer", "description": "Maximum entries to return (default 500)"}
		}
	}`)
}

type discoveryListArgs struct {
	Max int `json:"max"`
}

type discoveryEntry struct {
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
}

func (t *DiscoveryListTool) Execute(ctx context.Context, toolCtx *registry.Context, raw json.RawMessage) (*registry.Result, error) {
	var args discoveryListArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, core.Wrap(core.KindBadArgs, "invalid discovery.list arguments", err)
		}
	}
	if args.Max <= 0 {
		args.Max = defaultDiscoveryListMax
	}
	if toolCtx.ProjectRoot == "" {
		return nil, core.New(core.KindConfigMissing, "project_root is not configured for this session")
	}
	if !discovery.Exists(toolCtx.ProjectRoot) {
		return nil, core.New(core.KindConfigMissing, "project_root does not exist: "+toolCtx.ProjectRoot)
	}

	var entries []discoveryEntry
	err := discovery.Walk(toolCtx.ProjectRoot, func(e discovery.Entry) bool {
		entries = append(entries, discoveryEntry{Path: e.Path, IsDir: e.IsDir})
		return len(entries) < args.Max
	})
	if err != nil {
		return nil, core.Wrap(core.KindStorageFailure, "walk project root", err)
	}

	dataJSON, err := json.Marshal(map[string]any{"entries": entries})
	if err != nil {
		return nil, core.Wrap(core.KindStorageFailure, "encode entries", err)
	}

	return &registry.Result{
		Summary: fmt.Sprintf("listed %d entries", len(entries)),
		Data:    dataJSON,
	}, nil
}
