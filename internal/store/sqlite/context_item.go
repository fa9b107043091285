package sqlite

import (
	"context"

	"github.com/airtrafficctl/atc/internal/idgen"
	"github.com/airtrafficctl/atc/internal/store"
	"github.com/airtrafficctl/atc/pkg/types"
)

func (d *DB) AddContextItem(ctx context.Context, item *types.ContextItem) error {
	if item.ID == "" {
		item.ID = idgen.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = nowUTC()
	}
	_, err := d.q.ExecContext(ctx, `
		INSERT INTO context_items (id, session_id, kind, reference, content, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.SessionID, string(item.Kind), item.Reference, item.Content, item.Size, formatTime(item.CreatedAt),
	)
	return err
}

func (d *DB) ListContextItems(ctx context.Context, sessionID string) ([]types.ContextItem, error) {
	rows, err := d.q.QueryContext(ctx, `
		SELECT id, session_id, kind, reference, content, size, created_at
		FROM context_items
		WHERE session_id = ?
		ORDER BY created_at ASC, rowid ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.ContextItem
	for rows.Next() {
		var item types.ContextItem
		var kind, createdAt string
		if err := rows.Scan(&item.ID, &item.SessionID, &kind, &item.Reference, &item.Content, &item.Size, &createdAt); err != nil {
			return nil, err
		}
		item.Kind = types.ContextItemKind(kind)
		item.CreatedAt = parseTime(createdAt)
		out = append(out, item)
	}
	return out, rows.Err()
}

var _ store.ContextItemStore = (*DB)(nil)
