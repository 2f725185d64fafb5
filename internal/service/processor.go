package service

import (
	"fmt"

	"sensor-unify/internal/model"

	"go.uber.org/zap"
)

// FailureSink receives records the processor could not convert, with
// their position in the batch and the reason. Sinks must not panic.
type FailureSink func(index int, raw any, err error)

// Processor turns raw record batches into unified records. Failures
// never abort a batch: a bad record is reported and skipped so that
// the good ones still come through.
type Processor struct {
	Logger    *zap.SugaredLogger
	OnFailure FailureSink
}

func NewProcessor(logger *zap.SugaredLogger) *Processor {
	return &Processor{Logger: logger}
}

// converterFor maps a schema tag to its converter.
func converterFor(schema model.SchemaTag) (model.ConvertFunc, bool) {
	switch schema {
	case model.SchemaA:
		return model.ConvertSchemaA, true
	case model.SchemaB:
		return model.ConvertSchemaB, true
	default:
		return nil, false
	}
}

// ProcessBatch converts records in input order, preserving the relative
// order of successes. An unrecognized schema tag fails the whole call
// with an empty result and a single diagnostic; an individual record
// failure only skips that record.
func (p *Processor) ProcessBatch(records []any, schema model.SchemaTag) []model.UnifiedRecord {
	convert, ok := converterFor(schema)
	if !ok {
		p.Logger.Errorw("unknown schema tag, dropping batch",
			"schema", string(schema), "records", len(records))
		return []model.UnifiedRecord{}
	}

	unified := make([]model.UnifiedRecord, 0, len(records))
	for i, raw := range records {
		rec, err := p.convertOne(convert, raw)
		if err != nil {
			p.Logger.Errorw("skipping record", "index", i, "schema", string(schema), "error", err)
			if p.OnFailure != nil {
				p.OnFailure(i, raw, err)
			}
			continue
		}
		unified = append(unified, rec)
	}
	return unified
}

// convertOne runs a single conversion behind a recover boundary, so a
// structurally broken record surfaces as an error instead of taking
// down the consumer.
func (p *Processor) convertOne(convert model.ConvertFunc, raw any) (rec model.UnifiedRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("record conversion panicked: %v", r)
		}
	}()

	m, ok := raw.(map[string]any)
	if !ok {
		return rec, fmt.Errorf("record is not an object (got %T)", raw)
	}
	return convert(model.RawRecord(m), p.Logger), nil
}
