package model

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// isoLayouts are tried in order. RFC 3339 needs an explicit offset,
// which is why a trailing Z is rewritten to +00:00 first; the second
// layout catches offset-less timestamps, interpreted as local time.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// NormalizeTimestamp converts an ISO-8601 timestamp string into epoch
// milliseconds. Fractional seconds are optional. A malformed or
// unsupported string is logged and mapped to the sentinel 0 instead of
// failing the record it came from.
func NormalizeTimestamp(iso string, logger *zap.SugaredLogger) int64 {
	normalized := iso
	if strings.HasSuffix(normalized, "Z") {
		normalized = strings.TrimSuffix(normalized, "Z") + "+00:00"
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, normalized, time.Local); err == nil {
			return t.UnixMilli()
		}
	}

	if logger != nil {
		logger.Errorw("failed to parse timestamp", "value", iso)
	}
	return 0
}
