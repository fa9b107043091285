package types

// Settings holds a session's (or the global layer's) configuration.
// All fields are optional to allow the three-layer global/session/request
// resolution described in internal/settings: a nil field means "not set
// at this layer", not "cleared".
type Settings struct {
	DefaultModel     *string      `json:"default_model,omitempty"`
	ModelParams      ModelParams  `json:"model_params"`
	ProjectRoot      *string      `json:"project_root,omitempty"`
	ToolPolicies     ToolPolicies `json:"tool_policies"`
	NetworkAllowlist *[]string    `json:"network_allowlist,omitempty"` // nil means deny all; empty slice also means deny all
}

// ModelParams are the tunable generation parameters. Resolution happens
// per-field, not per-struct.
type ModelParams struct {
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *uint32  `json:"max_tokens,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
}

// ToolPolicies governs how built-in tools behave.
type ToolPolicies struct {
	DryRun       *bool   `json:"dry_run,omitempty"`
	MaxReadBytes *uint64 `json:"max_read_bytes,omitempty"`
}
