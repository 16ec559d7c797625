package router

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/handler"
	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/infrastructure/ratelimit"
)

func SetupVerificationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, limiter *ratelimit.RateLimiter) {
	verificationHandler := handler.GetVerificationHandler()

	e.GET("/v1/verification/plans", verificationHandler.ListPlans)

	requests := e.Group("/v1/verification/requests")
	requests.Use(authMiddleware.Authenticate)

	requests.GET("", verificationHandler.ListMyRequests)
	requests.POST("", verificationHandler.SubmitRequest, middleware.RateLimit(limiter, ratelimit.ActionUpload))

	// Admin routes
	admin := e.Group("/v1/admin/verification")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/plans", verificationHandler.ListAllPlans)
	admin.POST("/plans", verificationHandler.CreatePlan)
	admin.PUT("/plans/:id", verificationHandler.UpdatePlan)
	admin.DELETE("/plans/:id", verificationHandler.DeletePlan)
	admin.GET("/requests", verificationHandler.ListRequests)
	admin.POST("/requests/:id/approve", verificationHandler.ApproveRequest)
	admin.POST("/requests/:id/reject", verificationHandler.RejectRequest)
}
