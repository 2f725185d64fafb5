package model

import (
	"encoding/json"
	"math"
)

// cleanValue recursively replaces values that cannot survive JSON
// marshaling (NaN, ±Inf) with nil. Quarantined payloads are arbitrary
// decoded values, so this walks any shape, not just objects.
func cleanValue(v any) any {
	switch val := v.(type) {
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return nil
		}
		return val
	case map[string]any:
		cleaned := make(map[string]any, len(val))
		for k, item := range val {
			cleaned[k] = cleanValue(item)
		}
		return cleaned
	case []any:
		cleaned := make([]any, len(val))
		for i, item := range val {
			cleaned[i] = cleanValue(item)
		}
		return cleaned
	default:
		return v
	}
}

// MarshalSafe marshals a decoded value after scrubbing non-serializable
// floats, so a bad payload never blocks its own quarantine insert.
func MarshalSafe(v any) ([]byte, error) {
	return json.Marshal(cleanValue(v))
}
