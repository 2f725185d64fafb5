package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"sensor-unify/internal/db"
	"sensor-unify/internal/model"
	"sensor-unify/internal/realtime"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonFast = jsoniter.ConfigFastest

// KafkaService consumes batch envelopes, unifies them and pushes the
// results to the store and the dashboard hub.
type KafkaService struct {
	DBMgr     *db.DBManager
	Logger    *zap.SugaredLogger
	Hub       *realtime.Hub
	Processor *Processor
}

func NewKafkaService(dbMgr *db.DBManager, logger *zap.SugaredLogger, hub *realtime.Hub) *KafkaService {
	return &KafkaService{
		DBMgr:     dbMgr,
		Logger:    logger,
		Hub:       hub,
		Processor: NewProcessor(logger),
	}
}

// ProcessMessage handles one Kafka message holding a batch envelope.
func (s *KafkaService) ProcessMessage(ctx context.Context, m kafka.Message, stats *db.InsertStats) {
	var env model.BatchEnvelope
	if err := jsonFast.Unmarshal(m.Value, &env); err != nil {
		s.Logger.Errorw("failed to parse batch envelope", "error", err)
		return
	}
	s.HandleBatch(ctx, env, stats)
}

// HandleBatch runs a decoded envelope through the processor and fans
// out the results. Shared by the Kafka and gateway-feed sources.
func (s *KafkaService) HandleBatch(ctx context.Context, env model.BatchEnvelope, stats *db.InsertStats) {
	s.Processor.OnFailure = func(index int, raw any, err error) {
		if qErr := db.InsertQuarantine(ctx, s.DBMgr.Pool(), env.Schema, raw, err.Error(), s.Logger); qErr == nil {
			stats.IncrementQuarantine()
		}
	}

	unified := s.Processor.ProcessBatch(env.Records, env.Schema)

	for _, rec := range unified {
		if err := db.InsertUnifiedRecord(ctx, s.DBMgr.Pool(), rec, s.Logger); err == nil {
			stats.IncrementUnified()
		}

		payload, err := jsonFast.Marshal(rec)
		if err != nil {
			s.Logger.Errorw("failed to marshal unified record", "error", err, "device", rec.DeviceID)
			continue
		}
		if n := s.Hub.BroadcastTo(rec.Location.Facility, rec.DeviceID, payload); n > 0 {
			stats.IncrementBroadcast()
		}
	}
}

// Internal consumer loop
func (s *KafkaService) consumeLoop(ctx context.Context, reader *kafka.Reader, stats *db.InsertStats) error {
	if reader != nil {
		cfg := reader.Config()
		s.Logger.Infow("starting Kafka consumer", "brokers", cfg.Brokers, "topic", cfg.Topic, "groupID", cfg.GroupID)
	}

	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.Logger.Info("consumer context canceled, stopping consumer loop")
				return nil
			}
			if errors.Is(err, io.EOF) {
				s.Logger.Debug("Kafka EOF reached, waiting for new messages...")
				time.Sleep(2 * time.Second)
				continue
			}
			return fmt.Errorf("error reading message: %w", err)
		}

		s.ProcessMessage(ctx, m, stats)
	}
}

// StartConsumer runs the consumer loop with reconnect/backoff until
// the context is canceled.
func (s *KafkaService) StartConsumer(ctx context.Context, reader *kafka.Reader, stats *db.InsertStats) {
	backoff := time.Second
	for {
		err := s.consumeLoop(ctx, reader, stats)
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}

		s.Logger.Errorw("consumer loop failed, restarting", "error", err, "backoff", backoff)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}
