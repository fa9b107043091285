// Package types provides the core data types for the air traffic control server.
package types

import "time"

// Session is a durable, per-client context pinned to a project directory.
// Identified by a v4 UUID; destroyed only by explicit delete, which
// cascades to its messages, tool events and context items.
type Session struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Settings  Settings  `json:"settings"`
}
