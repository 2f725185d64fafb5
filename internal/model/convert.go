package model

import "go.uber.org/zap"

// ConvertFunc is the shape shared by both schema converters, so the
// batch processor can dispatch on the schema tag alone.
type ConvertFunc func(raw RawRecord, logger *zap.SugaredLogger) UnifiedRecord

// fieldKeys pairs a schema's native key with the unified fallback path
// for one field of the canonical record. Keeping the mapping as data
// (instead of chained lookups per field) makes it auditable next to
// the schema documentation.
type fieldKeys struct {
	primary  string
	fallback string
}

// schemaMap lists, per unified field, where a source schema stores it.
type schemaMap struct {
	deviceID    fieldKeys
	timestamp   fieldKeys
	facility    fieldKeys
	line        fieldKeys
	station     fieldKeys
	temperature fieldKeys
	pressure    fieldKeys
	vibration   fieldKeys
	efficiency  fieldKeys
	status      fieldKeys
	alerts      fieldKeys
}

// Schema A: legacy line controllers. Timestamps are already epoch
// milliseconds; alert lists live under "alerts" or "warnings".
var schemaAMap = schemaMap{
	deviceID:    fieldKeys{"device_id", "deviceId"},
	timestamp:   fieldKeys{"timestamp", "ts"},
	facility:    fieldKeys{"facility", "location.facility"},
	line:        fieldKeys{"production_line", "location.line"},
	station:     fieldKeys{"station", "location.station"},
	temperature: fieldKeys{"temp", "metrics.temperature"},
	pressure:    fieldKeys{"pressure", "metrics.pressure"},
	vibration:   fieldKeys{"vibration", "metrics.vibration"},
	efficiency:  fieldKeys{"efficiency", "metrics.efficiency"},
	status:      fieldKeys{"operational_status", "status"},
	alerts:      fieldKeys{"alerts", "warnings"},
}

// Schema B: newer gateways. Timestamps are ISO-8601 text; metric keys
// carry their unit in the name (temperature_c, pressure_bar, ...).
var schemaBMap = schemaMap{
	deviceID:    fieldKeys{"sensor_id", "deviceId"},
	timestamp:   fieldKeys{"timestamp", "time"},
	facility:    fieldKeys{"plant", "location.facility"},
	line:        fieldKeys{"line_number", "location.line"},
	station:     fieldKeys{"work_station", "location.station"},
	temperature: fieldKeys{"temperature_c", "metrics.temperature"},
	pressure:    fieldKeys{"pressure_bar", "metrics.pressure"},
	vibration:   fieldKeys{"vibration_hz", "metrics.vibration"},
	efficiency:  fieldKeys{"oee", "metrics.efficiency"},
	status:      fieldKeys{"machine_state", "status"},
	alerts:      fieldKeys{"error_codes", "alerts"},
}

// mapFields fills every unified field except the timestamp, which the
// two schemas encode differently.
func mapFields(raw RawRecord, m schemaMap) UnifiedRecord {
	rec := UnifiedRecord{
		Status: "unknown",
		Alerts: []string{},
	}

	if v, ok := resolve(raw, m.deviceID.primary, m.deviceID.fallback); ok {
		rec.DeviceID = asString(v, "")
	}
	if v, ok := resolve(raw, m.facility.primary, m.facility.fallback); ok {
		rec.Location.Facility = asString(v, "")
	}
	if v, ok := resolve(raw, m.line.primary, m.line.fallback); ok {
		rec.Location.Line = asString(v, "")
	}
	if v, ok := resolve(raw, m.station.primary, m.station.fallback); ok {
		rec.Location.Station = asString(v, "")
	}
	if v, ok := resolve(raw, m.temperature.primary, m.temperature.fallback); ok {
		rec.Metrics.Temperature = asFloat(v)
	}
	if v, ok := resolve(raw, m.pressure.primary, m.pressure.fallback); ok {
		rec.Metrics.Pressure = asFloat(v)
	}
	if v, ok := resolve(raw, m.vibration.primary, m.vibration.fallback); ok {
		rec.Metrics.Vibration = asFloat(v)
	}
	if v, ok := resolve(raw, m.efficiency.primary, m.efficiency.fallback); ok {
		rec.Metrics.Efficiency = asFloat(v)
	}
	if v, ok := resolve(raw, m.status.primary, m.status.fallback); ok {
		rec.Status = asString(v, "unknown")
	}
	if v, ok := resolve(raw, m.alerts.primary, m.alerts.fallback); ok {
		rec.Alerts = asStringSlice(v)
	}

	return rec
}

// ConvertSchemaA maps a schema-A reading into the unified shape. The
// timestamp is passed through unchanged, it is already milliseconds.
func ConvertSchemaA(raw RawRecord, logger *zap.SugaredLogger) UnifiedRecord {
	rec := mapFields(raw, schemaAMap)
	if v, ok := resolve(raw, schemaAMap.timestamp.primary, schemaAMap.timestamp.fallback); ok {
		rec.Timestamp = asMillis(v)
	}
	return rec
}

// ConvertSchemaB maps a schema-B reading into the unified shape,
// routing the ISO-8601 timestamp through NormalizeTimestamp. When both
// timestamp keys are absent or empty the normalizer is skipped and the
// sentinel 0 is used directly.
func ConvertSchemaB(raw RawRecord, logger *zap.SugaredLogger) UnifiedRecord {
	rec := mapFields(raw, schemaBMap)
	if v, ok := resolve(raw, schemaBMap.timestamp.primary, schemaBMap.timestamp.fallback); ok {
		if iso := asString(v, ""); iso != "" {
			rec.Timestamp = NormalizeTimestamp(iso, logger)
		}
	}
	return rec
}
