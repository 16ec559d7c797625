package router

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/handler"
	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/domain/entity"
	"esekoir/internal/infrastructure/ratelimit"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	listingHandler := handler.GetListingHandler()
	commentHandler := handler.GetCommentHandler()

	// Public routes
	listings := e.Group("/v1/listings")
	listings.GET("", listingHandler.ListListings)
	listings.GET("/:id", listingHandler.GetListing)
	listings.GET("/:id/comments", commentHandler.ListComments(entity.CommentContextListing, "id"), authMiddleware.Optional)
	listings.POST("/:id/comments", commentHandler.PostComment(entity.CommentContextListing, "id"),
		authMiddleware.Optional, middleware.RequireActor, middleware.RateLimit(limiter, ratelimit.ActionPostComment))

	// Protected routes (require authentication)
	authenticated := e.Group("/v1/listings")
	authenticated.Use(authMiddleware.Authenticate)

	authenticated.POST("", listingHandler.CreateListing)
	authenticated.GET("/mine", listingHandler.ListMyListings)
	authenticated.PATCH("/:id", listingHandler.UpdateListing)
	authenticated.DELETE("/:id", listingHandler.DeleteListing)
}
