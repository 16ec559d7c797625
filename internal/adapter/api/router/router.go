package router

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/infrastructure/ratelimit"
)

// Setup registers every route. handler.Setup must have run first.
func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, limiter *ratelimit.RateLimiter) {
	SetupHealthRouter(e)
	SetupRateRouter(e, authMiddleware, adminMiddleware, limiter)
	SetupAuthRouter(e, authMiddleware)
	SetupProfileRouter(e, authMiddleware, limiter)
	SetupMessageRouter(e, authMiddleware, limiter)
	SetupCommentRouter(e, authMiddleware, limiter)
	SetupListingRouter(e, authMiddleware, limiter)
	SetupWalletRouter(e, authMiddleware, adminMiddleware, limiter)
	SetupVerificationRouter(e, authMiddleware, adminMiddleware, limiter)
	SetupNotificationRouter(e, authMiddleware)
	SetupSettingsRouter(e, authMiddleware, adminMiddleware)
	SetupAdminRouter(e, authMiddleware, adminMiddleware)
	SetupWebSocketRouter(e)
}
