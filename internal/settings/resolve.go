package settings

import "github.com/airtrafficctl/atc/pkg/types"

// pick returns the first non-nil pointer among request, session, global,
// in that priority order.
func pick[T any](global, session, request *T) *T {
	if request != nil {
		return request
	}
	if session != nil {
		return session
	}
	return global
}

// Resolve materializes effective settings from the three layers. Request
// has highest priority, then session, then global. Resolution is
// per-field, not per-struct: a request specifying only one nested field
// does not erase sibling fields from the session or global layer.
func Resolve(global, session, request types.Settings) types.Settings {
	return types.Settings{
		DefaultModel: pick(global.DefaultModel, session.DefaultModel, request.DefaultModel),
		ProjectRoot:  pick(global.ProjectRoot, session.ProjectRoot, request.ProjectRoot),
		NetworkAllowlist: pick(
			global.NetworkAllowlist, session.NetworkAllowlist, request.NetworkAllowlist,
		),
		ModelParams: types.ModelParams{
			Temperature: pick(global.ModelParams.Temperature, session.ModelParams.Temperature, request.ModelParams.Temperature),
			MaxTokens:   pick(global.ModelParams.MaxTokens, session.ModelParams.MaxTokens, request.ModelParams.MaxTokens),
			TopP:        pick(global.ModelParams.TopP, session.ModelParams.TopP, request.ModelParams.TopP),
		},
		ToolPolicies: types.ToolPolicies{
			DryRun:       pick(global.ToolPolicies.DryRun, session.ToolPolicies.DryRun, request.ToolPolicies.DryRun),
			MaxReadBytes: pick(global.ToolPolicies.MaxReadBytes, session.ToolPolicies.MaxReadBytes, request.ToolPolicies.MaxReadBytes),
		},
	}
}
