package router

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/handler"
	"esekoir/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	e.POST("/v1/auth/register", authHandler.Register)
	e.POST("/v1/auth/login", authHandler.Login)
	e.POST("/v1/auth/oauth", authHandler.OAuthLogin)
	e.POST("/v1/auth/password-reset", authHandler.RequestPasswordReset)
	e.POST("/v1/auth/password-reset/confirm", authHandler.ConfirmPasswordReset)

	protected := e.Group("/v1/auth")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.Me)
}
