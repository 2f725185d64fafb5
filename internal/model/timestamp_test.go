package model

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNormalizeTimestamp(t *testing.T) {
	logger := zap.NewNop().Sugar()

	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"utc suffix", "2023-01-01T12:00:00Z", 1672574400000},
		{"explicit utc offset", "2023-01-01T12:00:00+00:00", 1672574400000},
		{"fractional seconds", "2023-01-01T12:00:00.500Z", 1672574400500},
		{"negative offset", "2023-01-01T12:00:00-05:00", 1672592400000},
		{"malformed", "not-a-timestamp", 0},
		{"date only", "2023-01-01", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTimestamp(tt.in, logger); got != tt.want {
				t.Errorf("NormalizeTimestamp(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTimestampZEqualsExplicitOffset(t *testing.T) {
	logger := zap.NewNop().Sugar()

	instants := []string{
		"2023-01-01T12:00:00",
		"2024-06-15T08:30:45",
		"2024-06-15T08:30:45.123",
	}
	for _, base := range instants {
		z := NormalizeTimestamp(base+"Z", logger)
		explicit := NormalizeTimestamp(base+"+00:00", logger)
		if z != explicit {
			t.Errorf("Z and +00:00 disagree for %s: %d vs %d", base, z, explicit)
		}
	}
}

func TestNormalizeTimestampWithoutOffsetUsesLocalTime(t *testing.T) {
	logger := zap.NewNop().Sugar()

	want := time.Date(2023, 3, 14, 9, 26, 53, 0, time.Local).UnixMilli()
	if got := NormalizeTimestamp("2023-03-14T09:26:53", logger); got != want {
		t.Errorf("offset-less timestamp = %d, want %d", got, want)
	}
}

func TestNormalizeTimestampNilLogger(t *testing.T) {
	if got := NormalizeTimestamp("garbage", nil); got != 0 {
		t.Errorf("expected sentinel 0, got %d", got)
	}
}
