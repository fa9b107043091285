package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/airtrafficctl/atc/internal/store"
	"github.com/airtrafficctl/atc/pkg/types"
)

func (d *DB) UpsertRule(ctx context.Context, name, content string) error {
	_, err := d.q.ExecContext(ctx, `
		INSERT INTO rules (name, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		name, content, formatTime(nowUTC()),
	)
	return err
}

func (d *DB) GetRule(ctx context.Context, name string) (*types.Rule, error) {
	var content, updatedAt string
	err := d.q.QueryRowContext(ctx,
		`SELECT content, updated_at FROM rules WHERE name = ?`, name,
	).Scan(&content, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &types.Rule{Name: name, Content: content, UpdatedAt: parseTime(updatedAt)}, nil
}

var _ store.RuleStore = (*DB)(nil)
