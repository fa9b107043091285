package sqlite

import (
	"context"
	"database/sql"

	"github.com/airtrafficctl/atc/internal/idgen"
	"github.com/airtrafficctl/atc/internal/store"
	"github.com/airtrafficctl/atc/pkg/types"
)

func (d *DB) AppendToolEvent(ctx context.Context, ev *types.ToolEvent) error {
	if ev.ID == "" {
		ev.ID = idgen.New()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = nowUTC()
	}
	_, err := d.q.ExecContext(ctx, `
		INSERT INTO tool_events (id, session_id, tool, summary, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.SessionID, ev.Tool, ev.Summary, string(ev.Status),
		nullableString(ev.Error), formatTime(ev.CreatedAt),
	)
	return err
}

func (d *DB) ListToolEvents(ctx context.Context, sessionID string, offset, limit int) ([]types.ToolEvent, error) {
	limit = clampPageSize(limit)

	rows, err := d.q.QueryContext(ctx, `
		SELECT id, session_id, tool, summary, status, error, created_at
		FROM tool_events
		WHERE session_id = ?
		ORDER BY created_at ASC, rowid ASC
		LIMIT ? OFFSET ?`,
		sessionID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.ToolEvent
	for rows.Next() {
		var ev types.ToolEvent
		var status string
		var errCol sql.NullString
		var createdAt string
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.Tool, &ev.Summary, &status, &errCol, &createdAt); err != nil {
			return nil, err
		}
		ev.Status = types.ToolStatus(status)
		if errCol.Valid {
			v := errCol.String
			ev.Error = &v
		}
		ev.CreatedAt = parseTime(createdAt)
		out = append(out, ev)
	}
	return out, rows.Err()
}

var _ store.ToolEventStore = (*DB)(nil)
