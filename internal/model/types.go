package model

// SchemaTag identifies which source schema a batch of raw records uses.
type SchemaTag string

const (
	SchemaA SchemaTag = "schema_a"
	SchemaB SchemaTag = "schema_b"
)

// RawRecord is one sensor reading as it arrives from a plant source,
// before field unification.
type RawRecord map[string]any

// Location pinpoints where on the factory floor a reading was taken.
type Location struct {
	Facility string `json:"facility"`
	Line     string `json:"line"`
	Station  string `json:"station"`
}

// Metrics holds the numeric readings of a unified record.
type Metrics struct {
	Temperature float64 `json:"temperature"`
	Pressure    float64 `json:"pressure"`
	Vibration   float64 `json:"vibration"`
	Efficiency  float64 `json:"efficiency"`
}

// UnifiedRecord is the canonical record shape shared by both source
// schemas. Every field is always present; missing input data is
// defaulted, never omitted.
type UnifiedRecord struct {
	DeviceID  string   `json:"deviceId"`
	Timestamp int64    `json:"timestamp"`
	Location  Location `json:"location"`
	Metrics   Metrics  `json:"metrics"`
	Status    string   `json:"status"`
	Alerts    []string `json:"alerts"`
}

// BatchEnvelope is the wire shape carried by Kafka messages and feed
// frames: a schema tag plus the raw records of one batch. Records stay
// untyped here so that malformed entries reach the processor, which
// skips them individually instead of failing the whole decode.
type BatchEnvelope struct {
	Schema  SchemaTag `json:"schema"`
	Records []any     `json:"records"`
}
