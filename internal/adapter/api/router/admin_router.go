package router

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/handler"
	"esekoir/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()

	staff := e.Group("/v1/admin")
	staff.Use(authMiddleware.Authenticate)

	staff.GET("/stats", adminHandler.Stats, adminMiddleware.StaffOnly)
	staff.GET("/users", adminHandler.ListUsers, adminMiddleware.AdminOnly)
	staff.PUT("/users/:id/roles", adminHandler.SetRoles, adminMiddleware.AdminOnly)
}
