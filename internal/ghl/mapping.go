package ghl

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Policy selects how submission values are serialized into custom field
// values. The funnel historically stringified everything; PreserveTypes
// keeps numbers numeric for locations whose fields are typed NUMERICAL.
type Policy int

const (
	// StringifyAll renders every value as text: slices join with ", ",
	// maps become JSON, scalars go through string conversion.
	StringifyAll Policy = iota
	// PreserveTypes passes numbers and string slices through natively;
	// maps still become JSON text.
	PreserveTypes
)

// CustomFieldValue is one field value in a contact upsert payload.
type CustomFieldValue struct {
	ID    string `json:"id"`
	Value any    `json:"field_value"`
}

// MapValues joins catalog-keyed values with their remote field IDs. Values
// whose key has no remote ID are dropped — a field that failed to
// materialize loses this submission's value, by policy. Output order is
// stable (sorted by key) so payloads diff cleanly in logs.
func MapValues(values map[string]any, ids map[string]string, policy Policy) []CustomFieldValue {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]CustomFieldValue, 0, len(keys))
	for _, key := range keys {
		id, ok := ids[key]
		if !ok || id == "" {
			continue
		}
		out = append(out, CustomFieldValue{ID: id, Value: serialize(values[key], policy)})
	}
	return out
}

func serialize(v any, policy Policy) any {
	switch value := v.(type) {
	case nil:
		return ""
	case []string:
		if policy == PreserveTypes {
			return value
		}
		return strings.Join(value, ", ")
	case string:
		return value
	case int, int64, float64:
		if policy == PreserveTypes {
			return value
		}
		return fmt.Sprint(value)
	case map[string]string, map[string]any:
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(raw)
	default:
		return fmt.Sprint(value)
	}
}
