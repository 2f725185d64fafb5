package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sensor-unify/internal/db"
	"sensor-unify/internal/realtime"
	"sensor-unify/pkg/wsfeed"

	"go.uber.org/zap"
)

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// StartHealthCheck starts an HTTP server for health checks and the
// dashboard websocket endpoint. feed may be nil when no gateway feed
// is configured.
func StartHealthCheck(dbMgr *db.DBManager, feed *wsfeed.Client, hub *realtime.Hub, wsSecret string, logger *zap.SugaredLogger, addr string) {
	// --- Liveness ---
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(HealthResponse{
			Status:  "alive",
			Message: "Service is running",
		})
	})

	// --- Readiness ---
	http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")

		healthDetails := make(map[string]string)
		var failures []string

		if err := dbMgr.Ping(ctx); err != nil {
			healthDetails["database"] = "unhealthy"
			failures = append(failures, fmt.Sprintf("record store unhealthy: %v", err))
		} else {
			healthDetails["database"] = "healthy"
		}

		if feed != nil {
			if !feed.IsAlive() {
				healthDetails["gateway_feed"] = "unhealthy"
				failures = append(failures, "gateway feed disconnected")
			} else {
				healthDetails["gateway_feed"] = "healthy"
			}
		}

		statusCode := http.StatusOK
		statusMsg := "ready"
		if len(failures) > 0 {
			statusCode = http.StatusServiceUnavailable
			statusMsg = fmt.Sprintf("%d component(s) failing", len(failures))
		}

		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(HealthResponse{
			Status:  statusMsg,
			Details: healthDetails,
		})
	})

	// --- WebSocket endpoint ---
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(hub, dbMgr, wsSecret, w, r)
	})

	logger.Infof("starting health check server on %s", addr)
	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil && err != http.ErrServerClosed {
			logger.Errorw("health check server stopped", "error", err)
		}
	}()
}
