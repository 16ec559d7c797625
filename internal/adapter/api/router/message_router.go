package router

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/handler"
	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/infrastructure/ratelimit"
)

func SetupMessageRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	messageHandler := handler.GetMessageHandler()

	// Guests may write to a seller
	e.POST("/v1/messages", messageHandler.SendMessage,
		authMiddleware.Optional, middleware.RequireActor, middleware.RateLimit(limiter, ratelimit.ActionSendMessage))

	inbox := e.Group("/v1/messages")
	inbox.Use(authMiddleware.Authenticate)

	inbox.GET("/conversations", messageHandler.ListConversations)
	inbox.GET("/conversations/:partner", messageHandler.OpenConversation)
	inbox.DELETE("/conversations/:partner", messageHandler.DeleteConversation)
	inbox.GET("/unread-count", messageHandler.UnreadCount)
}
