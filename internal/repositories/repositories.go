// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"encoding/json"
	"strings"
)

// marshalStrings encodes a string slice as a JSON array for TEXT columns.
// A nil slice encodes as the empty array.
func marshalStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// unmarshalStrings decodes a JSON array TEXT column back into a slice.
func unmarshalStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

// placeholders builds a "?, ?, ?" list for IN clauses with n entries.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
