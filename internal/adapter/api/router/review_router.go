package router

import (
	"github.com/labstack/echo/v4"

	"greenloop/internal/adapter/api/handler"
	"greenloop/internal/adapter/api/middleware"
)

func SetupReviewRouter(e *echo.Echo, reviewHandler *handler.ReviewHandler, authMiddleware *middleware.AuthMiddleware) {
	reviewGroup := e.Group("/v1/reviews")
	reviewGroup.Use(authMiddleware.Authenticate)

	reviewGroup.POST("", reviewHandler.CreateReview)
	reviewGroup.DELETE("/:id", reviewHandler.DeleteReview)
	reviewGroup.GET("/prompts", reviewHandler.PendingPrompts)
	reviewGroup.POST("/prompts/decline", reviewHandler.DeclinePrompt)

	// Product reviews are public.
	e.GET("/v1/products/:id/reviews", reviewHandler.ListProductReviews)
}
