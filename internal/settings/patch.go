// Package settings implements the three-valued patch semantics and
// three-layer (global / session / request) resolution algorithm for
// session settings.
package settings

import (
	"encoding/json"

	"github.com/airtrafficctl/atc/pkg/types"
)

// Field is a three-valued patch field: the zero value (Present=false)
// means "absent" (leave unchanged); Present=true with Value=nil means
// "present-but-null" (clear); Present=true with a non-nil Value means
// "present-with-value" (set). This distinguishes "untouched" from
// "explicitly cleared", which plain Go pointers-of-pointers cannot do
// without constant double-indirection at call sites.
type Field[T any] struct {
	Present bool
	Value   *T
}

// Set returns a Field that sets the value.
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: &v}
}

// Clear returns a Field that clears the value.
func Clear[T any]() Field[T] {
	return Field[T]{Present: true, Value: nil}
}

// apply overwrites *dst iff the field is present.
func (f Field[T]) apply(dst **T) {
	if !f.Present {
		return
	}
	*dst = f.Value
}

// UnmarshalJSON is only invoked by encoding/json when the key is present
// in the source object, which is exactly when Present should become true;
// a JSON null decodes to Present=true, Value=nil (explicit clear).
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if string(data) == "null" {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// MarshalJSON renders an absent field as if it were never set by omitting
// it would require struct-tag-level support encoding/json doesn't have, so
// absent fields marshal as null; callers needing wire-round-trip fidelity
// should treat a marshaled Patch as informational, not re-ingest it.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present || f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// ModelParamsPatch patches types.ModelParams field by field.
type ModelParamsPatch struct {
	Temperature Field[float64] `json:"temperature,omitempty"`
	MaxTokens   Field[uint32]  `json:"max_tokens,omitempty"`
	TopP        Field[float64] `json:"top_p,omitempty"`
}

// ToolPoliciesPatch patches types.ToolPolicies field by field.
type ToolPoliciesPatch struct {
	DryRun       Field[bool]   `json:"dry_run,omitempty"`
	MaxReadBytes Field[uint64] `json:"max_read_bytes,omitempty"`
}

// Patch is structurally identical to types.Settings, but every field is a
// Field so clients can distinguish "didn't touch this" from "clear this".
type Patch struct {
	DefaultModel     Field[string]     `json:"default_model,omitempty"`
	ModelParams      ModelParamsPatch  `json:"model_params,omitempty"`
	ProjectRoot      Field[string]     `json:"project_root,omitempty"`
	ToolPolicies     ToolPoliciesPatch `json:"tool_policies,omitempty"`
	NetworkAllowlist Field[[]string]   `json:"network_allowlist,omitempty"`
}

// Apply walks each top-level field of patch onto settings in place.
// Presence in the patch overwrites; absence preserves. Nested structs
// (ModelParams, ToolPolicies) are resolved per inner field, so a patch
// touching only one nested field leaves its siblings untouched.
func Apply(s *types.Settings, p Patch) {
	p.DefaultModel.apply(&s.DefaultModel)
	p.ProjectRoot.apply(&s.ProjectRoot)
	p.NetworkAllowlist.apply(&s.NetworkAllowlist)

	p.ModelParams.Temperature.apply(&s.ModelParams.Temperature)
	p.ModelParams.MaxTokens.apply(&s.ModelParams.MaxTokens)
	p.ModelParams.TopP.apply(&s.ModelParams.TopP)

	p.ToolPolicies.DryRun.apply(&s.ToolPolicies.DryRun)
	p.ToolPolicies.MaxReadBytes.apply(&s.ToolPolicies.MaxReadBytes)
}
