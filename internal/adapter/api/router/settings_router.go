package router

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/handler"
	"esekoir/internal/adapter/api/middleware"
)

func SetupSettingsRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	settingsHandler := handler.GetSettingsHandler()

	e.GET("/v1/settings", settingsHandler.List)
	e.GET("/v1/settings/:key", settingsHandler.Get)

	admin := e.Group("/v1/admin/settings")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.POST("/card-background", settingsHandler.UploadCardBackground)
	admin.PUT("/:key", settingsHandler.Upsert)
}
