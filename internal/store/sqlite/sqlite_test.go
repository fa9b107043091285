package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/airtrafficctl/atc/internal/store"
	"github.com/airtrafficctl/atc/pkg/types"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atc.db")
	db, err := New(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func TestCreateAndGetSession(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)

	s, err := db.CreateSession(ctx, "cli-1", types.Settings{})
	require.NoError(t, err)

	got, err := db.GetSession(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, s.ID, got.ID)
	require.Equal(t, "cli-1", got.ClientID)
}

func TestGetSessionNotFound(t *testing.T) {
	db, _ := openTestDB(t)
	_, err := db.GetSession(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListSessionsOrderedNewestFirst(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)

	first, err := db.CreateSession(ctx, "", types.Settings{})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := db.CreateSession(ctx, "", types.Settings{})
	require.NoError(t, err)

	ids, err := db.ListSessions(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{second.ID, first.ID}, ids)
}

func TestDeleteSessionCascades(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)

	s, err := db.CreateSession(ctx, "", types.Settings{})
	require.NoError(t, err)
	require.NoError(t, db.AppendMessage(ctx, &types.Message{SessionID: s.ID, Role: "user", ContentSummary: "hi"}))
	require.NoError(t, db.AppendToolEvent(ctx, &types.ToolEvent{SessionID: s.ID, Tool: "include_file", Summary: "ok", Status: types.ToolStatusOK}))
	require.NoError(t, db.AddContextItem(ctx, &types.ContextItem{SessionID: s.ID, Kind: types.ContextItemFile, Reference: "a.txt", Content: "x", Size: 1}))

	existed, err := db.DeleteSession(ctx, s.ID)
	require.NoError(t, err)
	require.True(t, existed)

	_, err = db.GetSession(ctx, s.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	msgs, err := db.ListMessages(ctx, s.ID, 0, 10)
	require.NoError(t, err)
	require.Empty(t, msgs)

	events, err := db.ListToolEvents(ctx, s.ID, 0, 10)
	require.NoError(t, err)
	require.Empty(t, events)

	items, err := db.ListContextItems(ctx, s.ID)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestDeleteSessionReportsNonexistence(t *testing.T) {
	db, _ := openTestDB(t)
	existed, err := db.DeleteSession(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, existed)
}

func TestToolEventOrderingNonDecreasing(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	s, err := db.CreateSession(ctx, "", types.Settings{})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.AppendToolEvent(ctx, &types.ToolEvent{
			SessionID: s.ID, Tool: "include_file", Summary: "ok", Status: types.ToolStatusOK,
		}))
	}

	events, err := db.ListToolEvents(ctx, s.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, events, 5)
	for i := 1; i < len(events); i++ {
		require.False(t, events[i].CreatedAt.Before(events[i-1].CreatedAt))
	}
}

func TestListMessagesPaginationCappedAt200(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	s, err := db.CreateSession(ctx, "", types.Settings{})
	require.NoError(t, err)

	for i := 0; i < store.MaxPageSize+1; i++ {
		require.NoError(t, db.AppendMessage(ctx, &types.Message{SessionID: s.ID, Role: "user", ContentSummary: "m"}))
	}

	msgs, err := db.ListMessages(ctx, s.ID, 0, 10000)
	require.NoError(t, err)
	require.Len(t, msgs, store.MaxPageSize)
}

func TestUpsertRuleIdempotent(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)

	require.NoError(t, db.UpsertRule(ctx, "style", "use tabs"))
	require.NoError(t, db.UpsertRule(ctx, "style", "use spaces"))

	r, err := db.GetRule(ctx, "style")
	require.NoError(t, err)
	require.Equal(t, "use spaces", r.Content)
}

func TestDurabilityAcrossRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "atc.db")

	db1, err := New(ctx, path)
	require.NoError(t, err)
	s, err := db1.CreateSession(ctx, "", types.Settings{})
	require.NoError(t, err)
	require.NoError(t, db1.AppendMessage(ctx, &types.Message{SessionID: s.ID, Role: "user", ContentSummary: "hello"}))
	require.NoError(t, db1.Close())

	db2, err := New(ctx, path)
	require.NoError(t, err)
	defer db2.Close()

	ids, err := db2.ListSessions(ctx)
	require.NoError(t, err)
	require.Contains(t, ids, s.ID)

	msgs, err := db2.ListMessages(ctx, s.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "hello", msgs[0].ContentSummary)
}

func TestTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)

	err := db.Tx(ctx, func(s store.Store) error {
		if _, err := s.CreateSession(ctx, "tx", types.Settings{}); err != nil {
			return err
		}
		return context.DeadlineExceeded
	})
	require.Error(t, err)

	ids, err := db.ListSessions(ctx)
	require.NoError(t, err)
	require.Empty(t, ids)
}
