package router

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/handler"
	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/infrastructure/ratelimit"
)

// Thread listing and posting live under their context (currency, listing);
// these routes act on a comment by id.
func SetupCommentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	commentHandler := handler.GetCommentHandler()

	comments := e.Group("/v1/comments")

	comments.POST("/:id/replies", commentHandler.Reply,
		authMiddleware.Optional, middleware.RequireActor, middleware.RateLimit(limiter, ratelimit.ActionPostComment))
	comments.POST("/:id/reactions", commentHandler.React,
		authMiddleware.Optional, middleware.RequireActor, middleware.RateLimit(limiter, ratelimit.ActionReact))
	comments.DELETE("/:id", commentHandler.DeleteComment, authMiddleware.Authenticate)
}
