// Package registry holds the fixed, insertion-ordered set of tools
// available to dispatch, and the lookup used by internal/runtime.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/pkg/types"
)

// Context is what a Tool's Execute receives: a borrowed view of the
// dispatching session's resolved settings, plus the session id for
// context-item/rule persistence.
type Context struct {
	SessionID   string
	ProjectRoot string
	Settings    types.Settings
}

// Result is a tool's successful outcome.
type Result struct {
	Summary string
	Data    json.RawMessage
}

// Tool is the contract every built-in implements.
type Tool interface {
	ID() string
	Description() string
	Parameters() json.RawMessage
	Execute(ctx context.Context, toolCtx *Context, args json.RawMessage) (*Result, error)
}

// Registry is a fixed, insertion-ordered lookup table built once at
// startup. It is safe for concurrent lookups; Register is not meant to
// be called after startup completes.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool, preserving insertion order for IDs/List.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.ID()]; !exists {
		r.order = append(r.order, t.ID())
	}
	r.tools[t.ID()] = t
}

// Get looks up a tool by exact name. If absent, it returns UnknownTool
// carrying a Levenshtein-scored suggestion when one is close enough to
// be useful.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		msg := fmt.Sprintf("unknown tool %q", name)
		if suggestion := r.suggest(name); suggestion != "" {
			msg = fmt.Sprintf("%s (did you mean %q?)", msg, suggestion)
		}
		return nil, core.New(core.KindUnknownTool, msg)
	}
	return t, nil
}

// suggest returns the closest registered tool name within an edit
// distance proportional to the candidate's length, or "" if none is
// close enough to be worth surfacing.
func (r *Registry) suggest(name string) string {
	best := ""
	bestDist := -1
	for _, id := range r.order {
		d := levenshtein.ComputeDistance(name, id)
		threshold := len(name)/2 + 1
		if d > threshold {
			continue
		}
		if bestDist == -1 || d < bestDist {
			bestDist, best = d, id
		}
	}
	return best
}

// IDs returns registered tool ids in insertion order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// List returns registered tools in insertion order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tools[id])
	}
	return out
}

// SortedIDs returns registered tool ids alphabetically, for stable
// listing endpoints that should not leak registration order.
func (r *Registry) SortedIDs() []string {
	ids := r.IDs()
	sort.Strings(ids)
	return ids
}
