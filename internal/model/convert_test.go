package model

import (
	"encoding/json"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

var testLogger = zap.NewNop().Sugar()

func TestConvertSchemaANativeKeys(t *testing.T) {
	raw := RawRecord{
		"device_id": "S1",
		"temp":      75.5,
		"timestamp": float64(1000),
	}

	got := ConvertSchemaA(raw, testLogger)

	want := UnifiedRecord{
		DeviceID:  "S1",
		Timestamp: 1000,
		Metrics:   Metrics{Temperature: 75.5},
		Status:    "unknown",
		Alerts:    []string{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ConvertSchemaA = %+v, want %+v", got, want)
	}
}

func TestConvertSchemaAFullRecord(t *testing.T) {
	raw := RawRecord{
		"device_id":          "press-07",
		"timestamp":          float64(1672574400000),
		"facility":           "north",
		"production_line":    "L3",
		"station":            "S12",
		"temp":               81.2,
		"pressure":           4.5,
		"vibration":          0.02,
		"efficiency":         0.97,
		"operational_status": "running",
		"alerts":             []any{"E101", "W07"},
	}

	got := ConvertSchemaA(raw, testLogger)

	want := UnifiedRecord{
		DeviceID:  "press-07",
		Timestamp: 1672574400000,
		Location:  Location{Facility: "north", Line: "L3", Station: "S12"},
		Metrics:   Metrics{Temperature: 81.2, Pressure: 4.5, Vibration: 0.02, Efficiency: 0.97},
		Status:    "running",
		Alerts:    []string{"E101", "W07"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ConvertSchemaA = %+v, want %+v", got, want)
	}
}

// Records already carrying unified names must convert to themselves for
// the overlapping fields.
func TestConvertSchemaAUnifiedFallbackKeys(t *testing.T) {
	raw := RawRecord{
		"deviceId": "S9",
		"ts":       float64(42),
		"location": map[string]any{"facility": "west", "line": "L1", "station": "S2"},
		"metrics":  map[string]any{"temperature": 20.5, "pressure": 1.2, "vibration": 0.5, "efficiency": 0.9},
		"status":   "idle",
		"warnings": []any{"W1"},
	}

	got := ConvertSchemaA(raw, testLogger)

	want := UnifiedRecord{
		DeviceID:  "S9",
		Timestamp: 42,
		Location:  Location{Facility: "west", Line: "L1", Station: "S2"},
		Metrics:   Metrics{Temperature: 20.5, Pressure: 1.2, Vibration: 0.5, Efficiency: 0.9},
		Status:    "idle",
		Alerts:    []string{"W1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ConvertSchemaA = %+v, want %+v", got, want)
	}
}

// Native keys win over fallback keys when both are present.
func TestConvertSchemaANativeKeyWins(t *testing.T) {
	raw := RawRecord{
		"device_id": "native",
		"deviceId":  "fallback",
	}
	if got := ConvertSchemaA(raw, testLogger); got.DeviceID != "native" {
		t.Errorf("deviceId = %q, want %q", got.DeviceID, "native")
	}
}

func TestConvertSchemaB(t *testing.T) {
	raw := RawRecord{
		"sensor_id": "S2",
		"timestamp": "2023-01-01T12:00:00Z",
	}

	got := ConvertSchemaB(raw, testLogger)

	if got.DeviceID != "S2" {
		t.Errorf("deviceId = %q, want %q", got.DeviceID, "S2")
	}
	if got.Timestamp != 1672574400000 {
		t.Errorf("timestamp = %d, want 1672574400000", got.Timestamp)
	}
}

func TestConvertSchemaBFullRecord(t *testing.T) {
	raw := RawRecord{
		"sensor_id":     "welder-02",
		"timestamp":     "2023-01-01T12:00:00+00:00",
		"plant":         "east",
		"line_number":   "L7",
		"work_station":  "S3",
		"temperature_c": 220.4,
		"pressure_bar":  2.1,
		"vibration_hz":  12.5,
		"oee":           0.88,
		"machine_state": "welding",
		"error_codes":   []any{"E7", float64(42)},
	}

	got := ConvertSchemaB(raw, testLogger)

	want := UnifiedRecord{
		DeviceID:  "welder-02",
		Timestamp: 1672574400000,
		Location:  Location{Facility: "east", Line: "L7", Station: "S3"},
		Metrics:   Metrics{Temperature: 220.4, Pressure: 2.1, Vibration: 12.5, Efficiency: 0.88},
		Status:    "welding",
		Alerts:    []string{"E7", "42"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ConvertSchemaB = %+v, want %+v", got, want)
	}
}

func TestConvertSchemaBTimeFallbackKey(t *testing.T) {
	raw := RawRecord{
		"sensor_id": "S5",
		"time":      "2023-01-01T12:00:00Z",
	}
	if got := ConvertSchemaB(raw, testLogger); got.Timestamp != 1672574400000 {
		t.Errorf("timestamp = %d, want 1672574400000", got.Timestamp)
	}
}

func TestConvertSchemaBMissingTimestamp(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
	}{
		{"absent", RawRecord{"sensor_id": "S3"}},
		{"empty string", RawRecord{"sensor_id": "S3", "timestamp": ""}},
		{"nil value", RawRecord{"sensor_id": "S3", "timestamp": nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertSchemaB(tt.raw, testLogger); got.Timestamp != 0 {
				t.Errorf("timestamp = %d, want sentinel 0", got.Timestamp)
			}
		})
	}
}

// Every unified record must serialize with all six top-level keys and
// all nested keys, no matter how sparse the input was.
func TestConversionTotality(t *testing.T) {
	converters := map[string]func(RawRecord) UnifiedRecord{
		"schema_a": func(r RawRecord) UnifiedRecord { return ConvertSchemaA(r, testLogger) },
		"schema_b": func(r RawRecord) UnifiedRecord { return ConvertSchemaB(r, testLogger) },
	}

	for name, convert := range converters {
		t.Run(name, func(t *testing.T) {
			rec := convert(RawRecord{})

			if rec.Status != "unknown" {
				t.Errorf("status = %q, want %q", rec.Status, "unknown")
			}
			if rec.Alerts == nil {
				t.Error("alerts must be an empty slice, not nil")
			}

			encoded, err := json.Marshal(rec)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var out map[string]any
			if err := json.Unmarshal(encoded, &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			for _, key := range []string{"deviceId", "timestamp", "location", "metrics", "status", "alerts"} {
				if _, ok := out[key]; !ok {
					t.Errorf("missing top-level key %q", key)
				}
			}
			metrics, _ := out["metrics"].(map[string]any)
			for _, key := range []string{"temperature", "pressure", "vibration", "efficiency"} {
				if _, ok := metrics[key]; !ok {
					t.Errorf("missing metrics key %q", key)
				}
			}
			location, _ := out["location"].(map[string]any)
			for _, key := range []string{"facility", "line", "station"} {
				if _, ok := location[key]; !ok {
					t.Errorf("missing location key %q", key)
				}
			}
		})
	}
}

func TestConvertNumericStringMetrics(t *testing.T) {
	raw := RawRecord{
		"sensor_id":     "S4",
		"temperature_c": "98.6",
		"oee":           "0.75",
	}
	got := ConvertSchemaB(raw, testLogger)
	if got.Metrics.Temperature != 98.6 {
		t.Errorf("temperature = %v, want 98.6", got.Metrics.Temperature)
	}
	if got.Metrics.Efficiency != 0.75 {
		t.Errorf("efficiency = %v, want 0.75", got.Metrics.Efficiency)
	}
}
