package types

import "time"

// ContextItemKind distinguishes the two ways grounding context is captured.
type ContextItemKind string

const (
	ContextItemFile ContextItemKind = "file"
	ContextItemURL  ContextItemKind = "url"
)

// ContextItem is a file or URL captured into a session's grounding context
// by the include_file / include_url tools.
type ContextItem struct {
	ID        string          `json:"id"`
	SessionID string          `json:"sessionId"`
	Kind      ContextItemKind `json:"kind"`
	Reference string          `json:"reference"`
	Content   string          `json:"content"`
	Size      int             `json:"size"`
	CreatedAt time.Time       `json:"createdAt"`
}
