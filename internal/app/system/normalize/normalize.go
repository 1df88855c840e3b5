// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-entered identity fields before they
// reach the stores, so lookups and unique indexes behave predictably.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace; case is preserved (display names keep
// the user's capitalization, the folded CI companion field handles matching).
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role tag.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
