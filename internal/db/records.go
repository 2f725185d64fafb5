package db

import (
	"context"
	"encoding/json"

	"sensor-unify/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// InsertUnifiedRecord persists one unified record into telemetry.unified_records.
func InsertUnifiedRecord(ctx context.Context, pool *pgxpool.Pool, rec model.UnifiedRecord, logger *zap.SugaredLogger) error {
	alertsJSON, err := json.Marshal(rec.Alerts)
	if err != nil {
		logger.Errorw("failed to marshal alerts", "error", err, "device", rec.DeviceID)
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO telemetry.unified_records
			(device_id, ts_ms, facility, line, station,
			 temperature, pressure, vibration, efficiency,
			 status, alerts, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW())
	`, rec.DeviceID, rec.Timestamp,
		rec.Location.Facility, rec.Location.Line, rec.Location.Station,
		rec.Metrics.Temperature, rec.Metrics.Pressure, rec.Metrics.Vibration, rec.Metrics.Efficiency,
		rec.Status, string(alertsJSON))

	if err != nil {
		logger.Errorw("failed to insert unified record", "error", err, "device", rec.DeviceID)
	}

	return err
}

// InsertQuarantine stores a raw record the processor rejected, together
// with its schema tag and the rejection reason, so bad batches can be
// inspected and replayed later.
func InsertQuarantine(ctx context.Context, pool *pgxpool.Pool, schema model.SchemaTag, raw any, reason string, logger *zap.SugaredLogger) error {
	rawJSON, err := model.MarshalSafe(raw)
	if err != nil {
		logger.Errorw("failed to marshal quarantined record", "error", err)
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO telemetry.quarantine
			(schema_tag, raw_record, reason, created_at)
		VALUES ($1,$2,$3,NOW())
	`, string(schema), string(rawJSON), reason)

	if err != nil {
		logger.Errorw("failed to insert quarantine row", "error", err)
	}

	return err
}

// SelectRecentByDevice returns the latest unified records for one
// device, newest first. Used by dashboard clients on subscribe to
// backfill before live broadcasts take over.
func SelectRecentByDevice(ctx context.Context, pool *pgxpool.Pool, deviceID string, limit int) ([]model.UnifiedRecord, error) {
	rows, err := pool.Query(ctx, `
		SELECT device_id, ts_ms, facility, line, station,
		       temperature, pressure, vibration, efficiency,
		       status, alerts
		FROM telemetry.unified_records
		WHERE device_id = $1
		ORDER BY ts_ms DESC
		LIMIT $2
	`, deviceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.UnifiedRecord
	for rows.Next() {
		var rec model.UnifiedRecord
		var alertsJSON string
		if err := rows.Scan(&rec.DeviceID, &rec.Timestamp,
			&rec.Location.Facility, &rec.Location.Line, &rec.Location.Station,
			&rec.Metrics.Temperature, &rec.Metrics.Pressure, &rec.Metrics.Vibration, &rec.Metrics.Efficiency,
			&rec.Status, &alertsJSON); err != nil {
			return nil, err
		}
		rec.Alerts = []string{}
		if alertsJSON != "" {
			if err := json.Unmarshal([]byte(alertsJSON), &rec.Alerts); err != nil {
				rec.Alerts = []string{}
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
