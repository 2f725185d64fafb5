package main

import (
	"context"

	"go.uber.org/zap"

	"sensor-unify/internal/app"
	"sensor-unify/internal/config"
	"sensor-unify/internal/db"
	"sensor-unify/internal/monitor"
	"sensor-unify/internal/realtime"
)

func main() {
	logger, _ := zap.NewProduction(zap.AddStacktrace(zap.FatalLevel))
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx := context.Background()
	cfg := config.LoadConfig()

	// --- Initialize DBManager ---
	dbMgr, err := db.NewDBManager(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to create DBManager", "error", err)
	}
	defer dbMgr.Shutdown()
	dbMgr.StartAutoReconnect(ctx)

	// --- Dashboard hub and insert stats ---
	hub := realtime.NewHub(sugar)
	stats := db.NewInsertStats(sugar)

	// --- Optional gateway websocket feed ---
	feed, err := app.StartFeedApp(ctx, dbMgr, cfg, sugar, hub, stats)
	if err != nil {
		sugar.Fatalw("failed to start gateway feed", "error", err)
	}
	if feed != nil {
		defer feed.Disconnect()
	}

	// --- Start Health Check + /ws ---
	monitor.StartHealthCheck(dbMgr, feed, hub, cfg.WSAuthSecret, sugar, cfg.HTTPAddr)

	// --- Run Kafka consumer app (blocking) ---
	app.StartKafkaApp(ctx, dbMgr, cfg, sugar, hub, stats)
}
