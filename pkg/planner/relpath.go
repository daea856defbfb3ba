package planner

import (
	"strings"
)

// RelativePath strips the location prefix from a full object key, then any
// leading slash. Keys outside the prefix are returned unchanged; listings
// are always prefix-scoped so that case should not occur.
func RelativePath(fullKey, prefix string) string {
	if prefix != "" && strings.HasPrefix(fullKey, prefix) {
		fullKey = fullKey[len(prefix):]
	}
	return strings.TrimLeft(fullKey, "/")
}
