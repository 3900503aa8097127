package router

import (
	"github.com/labstack/echo/v4"

	"greenloop/internal/adapter/api/handler"
	"greenloop/internal/adapter/api/middleware"
)

func SetupOrderRouter(e *echo.Echo, orderHandler *handler.OrderHandler, authMiddleware *middleware.AuthMiddleware) {
	orderGroup := e.Group("/v1/orders")
	orderGroup.Use(authMiddleware.Authenticate)

	orderGroup.POST("/checkout", orderHandler.Checkout)
	orderGroup.GET("", orderHandler.ListOrders)
	orderGroup.GET("/:id", orderHandler.GetOrder)
	orderGroup.PATCH("/:id/status", orderHandler.UpdateStatus)
}
