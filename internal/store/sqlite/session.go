package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/airtrafficctl/atc/internal/idgen"
	"github.com/airtrafficctl/atc/internal/store"
	"github.com/airtrafficctl/atc/pkg/types"
)

func (d *DB) CreateSession(ctx context.Context, clientID string, settings types.Settings) (*types.Session, error) {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}

	s := &types.Session{
		ID:        idgen.New(),
		ClientID:  clientID,
		CreatedAt: time.Now().UTC(),
		Settings:  settings,
	}

	_, err = d.q.ExecContext(ctx, `
		INSERT INTO sessions (id, client_id, created_at, settings_json)
		VALUES (?, ?, ?, ?)`,
		s.ID, nullableString(strPtrOrNil(clientID)), formatTime(s.CreatedAt), settingsJSON,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (d *DB) GetSession(ctx context.Context, id string) (*types.Session, error) {
	var clientID sql.NullString
	var createdAt, settingsJSON string

	err := d.q.QueryRowContext(ctx, `
		SELECT client_id, created_at, settings_json FROM sessions WHERE id = ?`, id,
	).Scan(&clientID, &createdAt, &settingsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var settings types.Settings
	if err := json.Unmarshal([]byte(settingsJSON), &settings); err != nil {
		return nil, err
	}

	return &types.Session{
		ID:        id,
		ClientID:  clientID.String,
		CreatedAt: parseTime(createdAt),
		Settings:  settings,
	}, nil
}

func (d *DB) DeleteSession(ctx context.Context, id string) (bool, error) {
	res, err := d.q.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *DB) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := d.q.QueryContext(ctx, `SELECT id FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (d *DB) UpdateSettings(ctx context.Context, id string, settings types.Settings) error {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	res, err := d.q.ExecContext(ctx, `UPDATE sessions SET settings_json = ? WHERE id = ?`, string(settingsJSON), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
