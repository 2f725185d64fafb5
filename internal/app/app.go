package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sensor-unify/internal/config"
	"sensor-unify/internal/db"
	"sensor-unify/internal/model"
	"sensor-unify/internal/realtime"
	"sensor-unify/internal/service"
	"sensor-unify/pkg/wsfeed"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// StartKafkaApp handles Kafka reader setup, consumer start, and graceful shutdown
func StartKafkaApp(ctx context.Context, dbMgr *db.DBManager, cfg *config.Config, logger *zap.SugaredLogger, hub *realtime.Hub, stats *db.InsertStats) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Kafka Reader Setup
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           cfg.KafkaBrokers,
		Topic:             cfg.KafkaTopic,
		GroupID:           cfg.KafkaGroupID,
		StartOffset:       kafka.FirstOffset,
		ReadLagInterval:   -1,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
		Dialer: &kafka.Dialer{
			TLS: cfg.CreateKafkaTLSConfig(),
		},
	})
	defer kafkaReader.Close()

	kafkaSvc := service.NewKafkaService(dbMgr, logger, hub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		kafkaSvc.StartConsumer(ctx, kafkaReader, stats)
	}()

	// --- Graceful shutdown ---
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		logger.Infow("signal received, shutting down Kafka consumer", "signal", sig)
		cancel()
	case <-done:
		logger.Info("Kafka consumer finished, exiting")
	}

	// Wait for consumer goroutine to finish
	select {
	case <-done:
		logger.Info("Kafka consumer stopped gracefully")
	case <-time.After(30 * time.Second):
		logger.Warn("timeout waiting for Kafka consumer to stop")
	}
}

// StartFeedApp connects the optional plant gateway feed and routes its
// frames through the same batch handling as the Kafka source. Returns
// nil when no feed is configured.
func StartFeedApp(ctx context.Context, dbMgr *db.DBManager, cfg *config.Config, logger *zap.SugaredLogger, hub *realtime.Hub, stats *db.InsertStats) (*wsfeed.Client, error) {
	if cfg.FeedURL == "" {
		logger.Info("no gateway feed configured, Kafka is the only source")
		return nil, nil
	}

	svc := service.NewKafkaService(dbMgr, logger, hub)
	jsonFast := jsoniter.ConfigFastest

	feed := wsfeed.NewClient(cfg.FeedURL, cfg.FeedToken, func(frame []byte) {
		var env model.BatchEnvelope
		if err := jsonFast.Unmarshal(frame, &env); err != nil {
			logger.Errorw("failed to parse gateway feed frame", "error", err)
			return
		}
		svc.HandleBatch(ctx, env, stats)
	}, logger)

	if err := feed.Connect(ctx); err != nil {
		return nil, err
	}
	return feed, nil
}
