// Package store defines the durable repository contract for sessions,
// messages, tool events, context items and rules.
package store

import (
	"context"
	"errors"

	"github.com/airtrafficctl/atc/pkg/types"
)

// ErrNotFound is returned when a lookup by id/name finds nothing.
var ErrNotFound = errors.New("not found")

// MaxPageSize is the hard cap on offset+limit pagination for message and
// tool-event history reads.
const MaxPageSize = 200

// Store is the composite interface for all session-engine persistence.
// Each method call is a single transaction; Tx exposes explicit
// multi-statement transactions for callers that need atomic composition
// across more than one operation.
type Store interface {
	SessionStore
	MessageStore
	ToolEventStore
	ContextItemStore
	RuleStore

	// Tx runs fn within a single database transaction, handing fn a
	// Store bound to that transaction.
	Tx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
	Close() error
}

// SessionStore manages session records.
type SessionStore interface {
	CreateSession(ctx context.Context, clientID string, settings types.Settings) (*types.Session, error)
	GetSession(ctx context.Context, id string) (*types.Session, error)
	// DeleteSession deletes a session and cascades to its messages, tool
	// events and context items. Reports whether the session existed.
	DeleteSession(ctx context.Context, id string) (bool, error)
	// ListSessions returns session ids ordered by created_at DESC.
	ListSessions(ctx context.Context) ([]string, error)
	UpdateSettings(ctx context.Context, id string, settings types.Settings) error
}

// MessageStore manages a session's append-only message log.
type MessageStore interface {
	AppendMessage(ctx context.Context, msg *types.Message) error
	// ListMessages returns messages ordered by created_at ASC, ties
	// broken by insertion order, offset+limit paginated (limit capped at
	// MaxPageSize).
	ListMessages(ctx context.Context, sessionID string, offset, limit int) ([]types.Message, error)
}

// ToolEventStore manages a session's append-only tool-event log.
type ToolEventStore interface {
	AppendToolEvent(ctx context.Context, ev *types.ToolEvent) error
	ListToolEvents(ctx context.Context, sessionID string, offset, limit int) ([]types.ToolEvent, error)
}

// ContextItemStore manages captured file/URL grounding context.
type ContextItemStore interface {
	AddContextItem(ctx context.Context, item *types.ContextItem) error
	ListContextItems(ctx context.Context, sessionID string) ([]types.ContextItem, error)
}

// RuleStore manages global, name-keyed rules.
type RuleStore interface {
	UpsertRule(ctx context.Context, name, content string) error
	GetRule(ctx context.Context, name string) (*types.Rule, error)
}
