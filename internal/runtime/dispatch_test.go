package runtime

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/airtrafficctl/atc/internal/core"
	"github.com/airtrafficctl/atc/internal/registry"
	"github.com/airtrafficctl/atc/internal/store"
	"github.com/airtrafficctl/atc/internal/store/sqlite"
	"github.com/airtrafficctl/atc/pkg/types"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	id      string
	result  *registry.Result
	err     error
	waitCtx bool
}

func (f fakeTool) ID() string                  { return f.id }
func (f fakeTool) Description() string         { return "fake" }
func (f fakeTool) Parameters() json.RawMessage { return json.RawMessage(`{}`) }
func (f fakeTool) Execute(ctx context.Context, toolCtx *registry.Context, args json.RawMessage) (*registry.Result, error) {
	if f.waitCtx {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.result, f.err
}

type recordingTool struct {
	id      string
	capture func(*registry.Context)
}

func (r recordingTool) ID() string                  { return r.id }
func (r recordingTool) Description() string         { return "records" }
func (r recordingTool) Parameters() json.RawMessage { return json.RawMessage(`{}`) }
func (r recordingTool) Execute(ctx context.Context, toolCtx *registry.Context, args json.RawMessage) (*registry.Result, error) {
	r.capture(toolCtx)
	return &registry.Result{Summary: "ok"}, nil
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "atc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDispatchSuccessAppendsOKEvent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sess, err := st.CreateSession(ctx, "", types.Settings{})
	require.NoError(t, err)

	reg := registry.New()
	reg.Register(fakeTool{id: "include_file", result: &registry.Result{Summary: "file:a.txt bytes:3"}})

	out, err := Dispatch(ctx, st, reg, types.Settings{}, sess.ID, "include_file", json.RawMessage(`{}`))
	require.NoError(t, err)
	require.Equal(t, "file:a.txt bytes:3", out.Summary)

	events, err := st.ListToolEvents(ctx, sess.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, types.ToolStatusOK, events[0].Status)
}

func TestDispatchFailureAppendsErrorEventAndPropagates(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sess, err := st.CreateSession(ctx, "", types.Settings{})
	require.NoError(t, err)

	reg := registry.New()
	wantErr := core.New(core.KindBadArgs, "missing path")
	reg.Register(fakeTool{id: "include_file", err: wantErr})

	_, err = Dispatch(ctx, st, reg, types.Settings{}, sess.ID, "include_file", json.RawMessage(`{}`))
	require.ErrorIs(t, err, wantErr)

	events, err := st.ListToolEvents(ctx, sess.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, types.ToolStatusError, events[0].Status)
	require.NotNil(t, events[0].Error)
}

func TestDispatchSessionNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	reg := registry.New()

	_, err := Dispatch(ctx, st, reg, types.Settings{}, "missing", "include_file", json.RawMessage(`{}`))
	var coreErr *core.Error
	require.ErrorAs(t, err, &coreErr)
	require.Equal(t, core.KindSessionNotFound, coreErr.Kind)
}

func TestDispatchUnknownTool(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sess, err := st.CreateSession(ctx, "", types.Settings{})
	require.NoError(t, err)
	reg := registry.New()

	_, err = Dispatch(ctx, st, reg, types.Settings{}, sess.ID, "nope", json.RawMessage(`{}`))
	var coreErr *core.Error
	require.ErrorAs(t, err, &coreErr)
	require.Equal(t, core.KindUnknownTool, coreErr.Kind)

	events, err := st.ListToolEvents(ctx, sess.ID, 0, 10)
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestDispatchResolvesGlobalSettingsLayer(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	sess, err := st.CreateSession(ctx, "", types.Settings{})
	require.NoError(t, err)

	root := "/tmp/project"
	global := types.Settings{ProjectRoot: &root}

	var gotRoot string
	reg := registry.New()
	reg.Register(recordingTool{id: "include_file", capture: func(c *registry.Context) { gotRoot = c.ProjectRoot }})

	_, err = Dispatch(ctx, st, reg, global, sess.ID, "include_file", json.RawMessage(`{}`))
	require.NoError(t, err)
	require.Equal(t, root, gotRoot)
}

func TestDispatchCancellationAppendsNoEvent(t *testing.T) {
	st := newTestStore(t)
	sess, err := st.CreateSession(context.Background(), "", types.Settings{})
	require.NoError(t, err)

	reg := registry.New()
	reg.Register(fakeTool{id: "include_file", waitCtx: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Dispatch(ctx, st, reg, types.Settings{}, sess.ID, "include_file", json.RawMessage(`{}`))
	require.ErrorIs(t, err, context.Canceled)

	events, err := st.ListToolEvents(context.Background(), sess.ID, 0, 10)
	require.NoError(t, err)
	require.Empty(t, events)
}
