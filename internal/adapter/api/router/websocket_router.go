package router

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/handler"
)

// The socket authenticates itself from ?token= since browsers cannot send
// an Authorization header on upgrade.
func SetupWebSocketRouter(e *echo.Echo) {
	wsHandler := handler.GetWebSocketHandler()

	e.GET("/v1/ws", wsHandler.HandleWebSocket)
}
