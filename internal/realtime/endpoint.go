package realtime

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"sensor-unify/internal/db"
	"sensor-unify/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// Browser clients must be same-origin; non-browser clients
	// (wscat, gateway tooling) send no Origin header.
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	},
}

// VerifyToken checks the dashboard bearer token (HS256, shared secret)
// and returns its claims. The facility claim scopes which rooms a
// client may join.
func VerifyToken(tokenString, secret string) (jwt.MapClaims, error) {
	if secret == "" {
		return nil, fmt.Errorf("no websocket auth secret configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unsupported alg: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	return claims, nil
}

// ServeWS upgrades an authenticated dashboard connection and starts
// its pumps. Subscriptions backfill recent records from the store.
//
// wscat -c "ws://localhost:8080/ws?token={jwt}"
// {"action":"subscribe","device_ids":["press-07"]}
func ServeWS(hub *Hub, dbMgr *db.DBManager, secret string, w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	claims, err := VerifyToken(token, secret)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	userID := claimString(claims, "sub")
	facility := claimString(claims, "facility")
	if facility == "" {
		http.Error(w, "Missing facility claim", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	backfill := func(ctx context.Context, deviceID string, limit int) ([]model.UnifiedRecord, error) {
		return db.SelectRecentByDevice(ctx, dbMgr.Pool(), deviceID, limit)
	}

	client := NewClient(conn, hub, userID, facility, backfill)

	go client.WritePump()
	client.ReadPump()
}

func claimString(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}
