package tool

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/registry"
	"github.com/airtrafficctl/atc/internal/store"
	"github.com/airtrafficctl/atc/pkg/types"
	"github.com/stretchr/testify/require"
)

type memRuleStore struct {
	upserted map[string]string
}

func newMemRuleStore() *memRuleStore { return &memRuleStore{upserted: map[string]string{}} }

func (m *memRuleStore) UpsertRule(ctx context.Context, name, content string) error {
	m.upserted[name] = content
	return nil
}

func (m *memRuleStore) GetRule(ctx context.Context, name string) (*types.Rule, error) {
	content, ok := m.upserted[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &types.Rule{Name: name, Content: content}, nil
}

func TestSlug(t *testing.T) {
	require.Equal(t, "my-cool-rule", slug("My Cool Rule!!"))
	require.Equal(t, "a-b-c", slug("  A_B--C  "))
	require.Equal(t, "", slug("***"))
}

func TestAddRuleWritesRepoFileByDefault(t *testing.T) {
	root := t.TempDir()
	rules := newMemRuleStore()
	tool := NewAddRuleTool(rules)
	toolCtx := &registry.Context{ProjectRoot: root}

	_, err := tool.Execute(context.Background(), toolCtx, json.RawMessage(`{"name": "No Bash", "content": "never run bash"}`))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, ".cursor", "rules", "no-bash.md"))
	require.NoError(t, err)
	require.Equal(t, "never run bash", string(data))
}

func TestAddRuleUpsertsSystemRule(t *testing.T) {
	rules := newMemRuleStore()
	tool := NewAddRuleTool(rules)
	toolCtx := &registry.Context{}

	_, err := tool.Execute(context.Background(), toolCtx, json.RawMessage(`{"name": "style", "content": "use tabs", "system": true}`))
	require.NoError(t, err)
	require.Equal(t, "use tabs", rules.upserted["style"])
}

func TestAddRuleRejectsPathEscapeViaRepoDir(t *testing.T) {
	root := t.TempDir()
	rules := newMemRuleStore()
	tool := NewAddRuleTool(rules)
	toolCtx := &registry.Context{ProjectRoot: root}

	_, err := tool.Execute(context.Background(), toolCtx, json.RawMessage(`{"name": "x", "content": "y", "repo_dir": "../../escape"}`))
	var coreErr *core.Error
	require.ErrorAs(t, err, &coreErr)
	require.Equal(t, core.KindPathEscape, coreErr.Kind)
}
