package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/discovery"
	"github.com/airtrafficctl/atc/internal/registry"
)

const discoverySearchDescription = `Walks the project root like discovery.list, keeping only entries whose
path matches a filter.

Exactly one of "pattern" (regular expression) or "glob" (doublestar
glob, e.g. "**/*_test.go") must be given.`

// DiscoverySearchTool implements the discovery.search built-in.
type DiscoverySearchTool struct{}

func NewDiscoverySearchTool() *DiscoverySearchTool { return &DiscoverySearchTool{} }

func (t *DiscoverySearchTool) ID() string          { return "discovery.search" }
func (t *DiscoverySearchTool) Description() string { return discoverySearchDescription }

func (t *DiscoverySearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"pattern": {"type": "string", "description": "Regular expression matched against each entry's path"},
			"glob": {"type": "string", "description": "doublestar glob matched against each entry's path"},
			"max": {"type": "integer", "description": "Maximum entries to return (default 500)"}
		}
	}`)
}

type discoverySearchArgs struct {
	Pattern string `json:"pattern"`
	Glob    string `json:"glob"`
	Max     int    `json:"max"`
}

func (t *DiscoverySearchTool) Execute(ctx context.Context, toolCtx *registry.Context, raw json.RawMessage) (*registry.Result, error) {
	var args discoverySearchArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, core.Wrap(core.KindBadArgs, "invalid discovery.search arguments", err)
	}
	if args.Pattern == "" && args.Glob == "" {
		return nil, core.New(core.KindBadArgs, "one of pattern or glob is required")
	}
	if args.Pattern != "" && args.Glob != "" {
		return nil, core.New(core.KindBadArgs, "pattern and glob are mutually exclusive")
	}
	if args.Max <= 0 {
		args.Max = defaultDiscoveryListMax
	}
	if toolCtx.ProjectRoot == "" {
		return nil, core.New(core.KindConfigMissing, "project_root is not configured for this session")
	}

	var match func(string) bool
	if args.Glob != "" {
		if !doublestar.ValidatePattern(args.Glob) {
			return nil, core.New(core.KindBadArgs, "invalid glob pattern")
		}
		match = func(path string) bool {
			ok, _ := doublestar.Match(args.Glob, path)
			return ok
		}
	} else {
		re, err := regexp.Compile(args.Pattern)
		if err != nil {
			return nil, core.Wrap(core.KindBadArgs, "invalid regular expression", err)
		}
		match = re.MatchString
	}

	var entries []discoveryEntry
	walkErr := discovery.Walk(toolCtx.ProjectRoot, func(e discovery.Entry) bool {
		if match(e.Path) {
			entries = append(entries, discoveryEntry{Path: e.Path, IsDir: e.IsDir})
		}
		return len(entries) < args.Max
	})
	if walkErr != nil {
		return nil, core.Wrap(core.KindStorageFailure, "walk project root", walkErr)
	}

	dataJSON, err := json.Marshal(map[string]any{"entries": entries})
	if err != nil {
		return nil, core.Wrap(core.KindStorageFailure, "encode entries", err)
	}

	return &registry.Result{
		Summary: fmt.Sprintf("matched %d entries", len(entries)),
		Data:    dataJSON,
	}, nil
}
