// Package value parses the loosely typed strings found in metadata values
// and XML attributes.
package value

import (
	"fmt"
	"strings"
)

// Bool reads a flag attribute. "true", "1", "yes" and "on" are true in any
// case; everything else, including the empty string, is false.
func Bool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// ParseBool parses "true" or "false", ignoring case and surrounding space.
// Unlike Bool it rejects every other spelling.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}
