package router

import (
	"github.com/labstack/echo/v4"

	"greenloop/internal/adapter/api/handler"
	"greenloop/internal/adapter/api/middleware"
)

func SetupShopRouter(e *echo.Echo, shopHandler *handler.ShopHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	shopGroup := e.Group("/v1/shops")
	shopGroup.Use(authMiddleware.Authenticate)

	shopGroup.POST("", shopHandler.CreateShop)
	shopGroup.GET("/:id", shopHandler.GetShop)
	shopGroup.POST("/products", shopHandler.AddProduct)

	adminGroup := e.Group("/v1/admin/shops")
	adminGroup.Use(authMiddleware.Authenticate)
	adminGroup.Use(adminMiddleware.AdminOnly)
	adminGroup.PATCH("/:id/status", shopHandler.SetStatus)
}
