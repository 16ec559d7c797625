package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/middleware"
	ws "esekoir/internal/infrastructure/websocket"
	"esekoir/pkg/errors"
	"esekoir/pkg/logger"
	"esekoir/pkg/response"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
	verifier  middleware.TokenVerifier
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set headers on the upgrade request, so the token in
	// the query string is the credential; the origin is not.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, verifier middleware.TokenVerifier) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		verifier:  verifier,
	}
}

// HandleWebSocket upgrades /v1/ws?token=... and streams change events to
// the token's user.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return response.Error(c, errors.Unauthorized("token query parameter is required", nil))
	}

	userID, err := h.verifier.VerifyToken(c.Request().Context(), token)
	if err != nil {
		return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written an HTTP error.
		logger.Warn("[ws] upgrade failed for %s: %v", userID, err)
		return nil
	}

	client := ws.NewClient(userID, conn)
	if !h.wsManager.Join(client) {
		conn.Close()
		return nil
	}

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
