package model

import (
	"strconv"
	"strings"
)

// lookup fetches a value from a raw record by key. A single dot in the
// key descends one level into a nested object, so "location.facility"
// reads raw["location"]["facility"].
func lookup(raw RawRecord, key string) (any, bool) {
	if parent, child, ok := strings.Cut(key, "."); ok {
		nested, found := raw[parent]
		if !found {
			return nil, false
		}
		m, isMap := nested.(map[string]any)
		if !isMap {
			return nil, false
		}
		v, found := m[child]
		return v, found
	}
	v, found := raw[key]
	return v, found
}

// resolve tries the schema's native key first, then the unified
// fallback path, so records that are already partially unified still
// map cleanly.
func resolve(raw RawRecord, primary, fallback string) (any, bool) {
	if v, ok := lookup(raw, primary); ok && v != nil {
		return v, true
	}
	if v, ok := lookup(raw, fallback); ok && v != nil {
		return v, true
	}
	return nil, false
}

func asString(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

// asFloat converts any JSON number (or a numeric string, which some
// gateways emit for metric fields) to float64.
func asFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return 0
}

// asMillis reads an epoch-milliseconds value. JSON decoding yields
// float64 for numbers, so integer timestamps arrive as floats.
func asMillis(v any) int64 {
	switch val := v.(type) {
	case float64:
		return int64(val)
	case int64:
		return val
	case int:
		return int64(val)
	case string:
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return 0
}

// asStringSlice renders a raw alert list as strings. String elements
// pass through untouched; numeric codes are formatted, anything else
// is dropped.
func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if typed, isTyped := v.([]string); isTyped {
			out := make([]string, len(typed))
			copy(out, typed)
			return out
		}
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch val := item.(type) {
		case string:
			out = append(out, val)
		case float64:
			out = append(out, strconv.FormatFloat(val, 'f', -1, 64))
		case int:
			out = append(out, strconv.Itoa(val))
		}
	}
	return out
}
