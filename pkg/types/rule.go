package types

import "time"

// Rule is a global (not session-scoped), name-keyed piece of free-form
// guidance, upserted by the add_rule tool.
type Rule struct {
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}
