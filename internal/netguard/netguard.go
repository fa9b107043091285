// Package netguard implements the host allowlist policy for outbound
// fetches.
package netguard

import "strings"

// IsAllowedHost decides whether host is permitted for outbound fetches
// given a session's allowlist. A nil or empty allowlist denies
// everything. Matching is a case-insensitive exact match against a
// listed entry — no wildcards, no subdomain inheritance.
func IsAllowedHost(allowlist []string, host string) bool {
	if len(allowlist) == 0 {
		return false
	}
	for _, candidate := range allowlist {
		if strings.EqualFold(candidate, host) {
			return true
		}
	}
	return false
}
