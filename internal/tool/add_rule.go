package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/registry"
	"github.com/airtrafficctl/atc/internal/sandbox"
	"github.com/airtrafficctl/atc/internal/store"
)

const defaultRuleRepoDir = ".cursor/rules"

const addRuleDescription = `Adds a rule to steer future turns.

With system=true, upserts a global rule by name. Otherwise writes a
Markdown file under project_root/repo_dir (default .cursor/rules),
named after a slugified version of the rule name.`

// AddRuleTool implements the add_rule built-in.
type AddRuleTool struct {
	rules store.RuleStore
}

func NewAddRuleTool(rules store.RuleStore) *AddRuleTool {
	return &AddRuleTool{rules: rules}
}

func (t *AddRuleTool) ID() string          { return "add_rule" }
func (t *AddRuleTool) Description() string { return addRuleDescription }

func (t *AddRuleTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"content": {"type": "string"},
			"system": {"type": "boolean", "description": "upsert a global rule instead of writing a repo file"},
			"repo_dir": {"type": "string", "description": "default .cursor/rules"}
		},
		"required": ["name", "content"]
	}`)
}

type addRuleArgs struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	System  bool   `json:"system"`
	RepoDir string `json:"repo_dir"`
}

func (t *AddRuleTool) Execute(ctx context.Context, toolCtx *registry.Context, raw json.RawMessage) (*registry.Result, error) {
	var args addRuleArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, core.Wrap(core.KindBadArgs, "invalid add_rule arguments", err)
	}
	if args.Name == "" {
		return nil, core.New(core.KindBadArgs, "name is required")
	}

	if args.System {
		if err := t.rules.UpsertRule(ctx, args.Name, args.Content); err != nil {
			return nil, core.Wrap(core.KindStorageFailure, "upsert rule", err)
		}
		return &registry.Result{Summary: fmt.Sprintf("rule:%s scope:system", args.Name)}, nil
	}

	if toolCtx.ProjectRoot == "" {
		return nil, core.New(core.KindConfigMissing, "project_root is not configured for this session")
	}
	repoDir := args.RepoDir
	if repoDir == "" {
		repoDir = defaultRuleRepoDir
	}

	relPath := filepath.Join(repoDir, slug(args.Name)+".md")
	resolved, err := sandbox.ResolveUnderRoot(toolCtx.ProjectRoot, relPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
		return nil, core.Wrap(core.KindStorageFailure, "create rule directory", err)
	}
	if err := os.WriteFile(resolved, []byte(args.Content), 0644); err != nil {
		return nil, core.Wrap(core.KindStorageFailure, "write rule file", err)
	}

	return &registry.Result{Summary: fmt.Sprintf("rule:%s scope:repo path:%s", args.Name, relPath)}, nil
}

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// slug lowercases name, replaces runs of non-alphanumerics with a single
// hyphen, and trims leading/trailing hyphens.
func slug(name string) string {
	lowered := strings.ToLower(name)
	replaced := slugNonAlnum.ReplaceAllString(lowered, "-")
	return strings.Trim(replaced, "-")
}
