package router

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/handler"
	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/infrastructure/ratelimit"
)

func SetupWalletRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, limiter *ratelimit.RateLimiter) {
	walletHandler := handler.GetWalletHandler()

	wallet := e.Group("/v1/wallet")
	wallet.Use(authMiddleware.Authenticate)

	wallet.GET("", walletHandler.GetWallet)
	wallet.GET("/transactions", walletHandler.ListTransactions)
	wallet.GET("/charge-requests", walletHandler.ListMyChargeRequests)
	wallet.POST("/charge-requests", walletHandler.CreateChargeRequest, middleware.RateLimit(limiter, ratelimit.ActionUpload))

	// Admin routes
	admin := e.Group("/v1/admin/charge-requests")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("", walletHandler.ListChargeRequests)
	admin.POST("/:id/approve", walletHandler.ApproveChargeRequest)
	admin.POST("/:id/reject", walletHandler.RejectChargeRequest)
}
