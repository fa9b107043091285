// Package idgen generates the v4 UUIDs used for session, message, tool
// event and context item identifiers.
package idgen

import "github.com/google/uuid"

// New returns a canonical hyphenated 36-character v4 UUID.
func New() string {
	return uuid.NewString()
}
