package router

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/handler"
	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/domain/entity"
	"esekoir/internal/infrastructure/ratelimit"
)

func SetupRateRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, limiter *ratelimit.RateLimiter) {
	rateHandler := handler.GetRateHandler()
	currencyHandler := handler.GetCurrencyHandler()
	commentHandler := handler.GetCommentHandler()

	// Public routes
	e.GET("/v1/rates", rateHandler.GetRates)
	e.GET("/v1/rates/:code", rateHandler.GetRate)
	e.GET("/v1/catalog", rateHandler.GetCatalog)
	e.GET("/v1/currencies", currencyHandler.ListActive)

	// Currency discussion, open to guests
	threads := e.Group("/v1/currencies/:code/comments", authMiddleware.Optional)
	threads.GET("", commentHandler.ListComments(entity.CommentContextCurrency, "code"))
	threads.POST("", commentHandler.PostComment(entity.CommentContextCurrency, "code"),
		middleware.RequireActor, middleware.RateLimit(limiter, ratelimit.ActionPostComment))

	// Admin routes
	admin := e.Group("/v1/admin/currencies")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("", currencyHandler.ListAll)
	admin.PUT("/:code", currencyHandler.Upsert)
	admin.DELETE("/:code", currencyHandler.Delete)
}
