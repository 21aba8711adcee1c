package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/linkup-social/linkup-backend/internal/ws"
	"github.com/linkup-social/linkup-backend/pkg/jwt"
	"github.com/linkup-social/linkup-backend/pkg/logger"
)

// WSHandler upgrades HTTP requests to WebSocket connections and hands them
// to the realtime gateway.
type WSHandler struct {
	gateway        *ws.Gateway
	jwtManager     *jwt.Manager
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(gateway *ws.Gateway, jwtManager *jwt.Manager, allowedOrigins string) *WSHandler {
	h := &WSHandler{
		gateway:        gateway,
		jwtManager:     jwtManager,
		allowedOrigins: parseOrigins(allowedOrigins),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// parseOrigins parses comma-separated origins string
func parseOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// checkOrigin validates the request origin against allowed origins.
// An empty allow-list accepts everything (development).
func (h *WSHandler) checkOrigin(r *http.Request) bool {
	if len(h.allowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// Handle handles GET /ws. The handshake may carry identity as a JWT in the
// token query parameter; without one the connection stays anonymous.
func (h *WSHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	userID := h.identify(c)
	client := ws.NewClient(conn, userID)

	h.gateway.HandleConnect(client)
	go client.WritePump()
	go client.ReadPump(h.gateway)
}

// identify resolves the user behind the handshake. A verified token wins; the
// bare userId query parameter is honored only when no token is present, for
// parity with clients that have not migrated to token handshakes.
func (h *WSHandler) identify(c *gin.Context) uint {
	if token := c.Query("token"); token != "" {
		claims, err := h.jwtManager.VerifyToken(token)
		if err == nil {
			return claims.UserID
		}
		logger.GetLogger().Warn().Err(err).Msg("invalid websocket token, connection stays anonymous")
		return 0
	}
	if raw := c.Query("userId"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			return uint(id)
		}
	}
	return 0
}
