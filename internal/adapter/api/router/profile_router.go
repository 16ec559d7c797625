package router

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/handler"
	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/infrastructure/ratelimit"
)

func SetupProfileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	profileHandler := handler.GetProfileHandler()

	me := e.Group("/v1/profiles/me")
	me.Use(authMiddleware.Authenticate)

	me.GET("", profileHandler.GetMyProfile)
	me.PATCH("", profileHandler.UpdateProfile)
	me.POST("/complete", profileHandler.CompleteProfile)
	me.POST("/avatar", profileHandler.UploadAvatar, middleware.RateLimit(limiter, ratelimit.ActionUpload))
	me.GET("/card", profileHandler.GetCard)

	e.GET("/v1/profiles/:username", profileHandler.GetByUsername)
}
