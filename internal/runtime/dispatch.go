// Package runtime implements the tool-dispatch protocol: load session,
// look up tool, invoke, append the resulting ToolEvent.
package runtime

import (
	"context"
	"encoding/json"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/idgen"
	"github.com/airtrafficctl/atc/internal/logging"
	"github.com/airtrafficctl/atc/internal/registry"
	"github.com/airtrafficctl/atc/internal/settings"
	"github.com/airtrafficctl/atc/internal/store"
	"github.com/airtrafficctl/atc/pkg/types"
)

// Outcome is what Dispatch returns on a successful tool run.
type Outcome struct {
	Summary string
	Data    json.RawMessage
}

// Dispatch implements the five-step protocol: load session, look up
// tool, invoke, append a ToolEvent, return. A failed tool call still
// produces a ToolEvent (best effort: if the append itself fails, the
// original tool error takes precedence and the append failure is only
// logged). On context cancellation no event is appended at all.
//
// global is the process-wide settings layer; effective settings are
// resolved by layering global, session, and request settings (request
// layer omitted here — the request JSON body is the tool's own argument
// payload, not a settings patch;
// callers that need a request-layer override should resolve it
// themselves via internal/settings.Resolve before invoking a tool
// directly against the registry).
func Dispatch(ctx context.Context, st store.Store, reg *registry.Registry, global types.Settings, sessionID, toolName string, args json.RawMessage) (*Outcome, error) {
	sess, err := st.GetSession(ctx, sessionID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, core.New(core.KindSessionNotFound, "session "+sessionID+" not found")
		}
		return nil, core.Wrap(core.KindStorageFailure, "load session", err)
	}

	t, err := reg.Get(toolName)
	if err != nil {
		return nil, err
	}

	effective := settings.Resolve(global, sess.Settings, types.Settings{})

	projectRoot := ""
	if effective.ProjectRoot != nil {
		projectRoot = *effective.ProjectRoot
	}
	toolCtx := &registry.Context{
		SessionID:   sessionID,
		ProjectRoot: projectRoot,
		Settings:    effective,
	}

	result, runErr := t.Execute(ctx, toolCtx, args)

	if ctx.Err() != nil {
		// Cancellation is not an error; no event is appended.
		return nil, ctx.Err()
	}

	if runErr != nil {
		appendFailureEvent(ctx, st, sessionID, toolName, runErr)
		return nil, runErr
	}

	ev := &types.ToolEvent{
		ID:        idgen.New(),
		SessionID: sessionID,
		Tool:      toolName,
		Summary:   result.Summary,
		Status:    types.ToolStatusOK,
	}
	if appendErr := st.AppendToolEvent(ctx, ev); appendErr != nil {
		logging.Logger.Error().Err(appendErr).Str("session_id", sessionID).Str("tool", toolName).
			Msg("failed to append success tool event")
	}

	return &Outcome{Summary: result.Summary, Data: result.Data}, nil
}

func appendFailureEvent(ctx context.Context, st store.Store, sessionID, toolName string, runErr error) {
	msg := runErr.Error()
	ev := &types.ToolEvent{
		ID:        idgen.New(),
		SessionID: sessionID,
		Tool:      toolName,
		Status:    types.ToolStatusError,
		Error:     &msg,
	}
	if appendErr := st.AppendToolEvent(ctx, ev); appendErr != nil {
		logging.Logger.Error().Err(appendErr).Str("session_id", sessionID).Str("tool", toolName).
			Msg("failed to append failure tool event; original error takes precedence")
	}
}

