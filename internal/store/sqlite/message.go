package sqlite

import (
	"context"
	"database/sql"

	"github.com/airtrafficctl/atc/internal/idgen"
	"github.com/airtrafficctl/atc/internal/store"
	"github.com/airtrafficctl/atc/pkg/types"
)

func (d *DB) AppendMessage(ctx context.Context, msg *types.Message) error {
	if msg.ID == "" {
		msg.ID = idgen.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = nowUTC()
	}
	_, err := d.q.ExecContext(ctx, `
		INSERT INTO messages (id, session_id, role, content_summary, model_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, msg.Role, msg.ContentSummary,
		nullableString(msg.ModelUsed), formatTime(msg.CreatedAt),
	)
	return err
}

func (d *DB) ListMessages(ctx context.Context, sessionID string, offset, limit int) ([]types.Message, error) {
	limit = clampPageSize(limit)

	rows, err := d.q.QueryContext(ctx, `
		SELECT id, session_id, role, content_summary, model_used, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY created_at ASC, rowid ASC
		LIMIT ? OFFSET ?`,
		sessionID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Message
	for rows.Next() {
		var m types.Message
		var modelUsed sql.NullString
		var createdAt string
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.ContentSummary, &modelUsed, &createdAt); err != nil {
			return nil, err
		}
		if modelUsed.Valid {
			v := modelUsed.String
			m.ModelUsed = &v
		}
		m.CreatedAt = parseTime(createdAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

var _ store.MessageStore = (*DB)(nil)
