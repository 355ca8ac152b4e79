package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/voyago/tripsync/pkg/api"
)

// RoomHub serves subscribed websocket connections. Implemented by the hub
// package.
type RoomHub interface {
	ServeConn(ctx context.Context, conn *websocket.Conn, userID string)
}

// WSHandler upgrades chat connections and hands them to the hub.
type WSHandler struct {
	logger    *slog.Logger
	hub       RoomHub
	jwtConfig JWTConfig
	upgrader  websocket.Upgrader
}

// NewWSHandler creates a websocket upgrade handler
func NewWSHandler(logger *slog.Logger, hub RoomHub, jwtConfig JWTConfig) *WSHandler {
	return &WSHandler{
		logger:    logger,
		hub:       hub,
		jwtConfig: jwtConfig,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// Serve handles GET /api/v1/ws
// Authentication failures close the websocket with an application close
// code rather than failing the HTTP upgrade, so clients can tell an
// expired token apart from a network error.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accessToken := bearerToken(r)
	if accessToken == "" {
		// Browser clients cannot set headers on websocket dials.
		accessToken = r.URL.Query().Get("token")
	}

	claims, claimsErr := ValidateAccessToken(h.jwtConfig, accessToken)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "websocket upgrade failed", slog.Any("error", err))
		return
	}

	if claimsErr != nil {
		h.logger.WarnContext(ctx, "websocket auth failed", slog.Any("error", claimsErr))
		msg := websocket.FormatCloseMessage(api.CloseUnauthorized, "invalid or expired token")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(10*time.Second))
		_ = conn.Close()
		return
	}

	h.logger.InfoContext(ctx, "websocket connected", slog.String("user_id", claims.UserID))

	h.hub.ServeConn(ctx, conn, claims.UserID)
}
