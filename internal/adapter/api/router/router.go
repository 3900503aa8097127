package router

import (
	"github.com/labstack/echo/v4"

	"greenloop/internal/adapter/api/handler"
	"greenloop/internal/adapter/api/middleware"
)

type Handlers struct {
	Chat      *handler.ChatHandler
	Order     *handler.OrderHandler
	Review    *handler.ReviewHandler
	Shop      *handler.ShopHandler
	WebSocket *handler.WebSocketHandler
	Health    *handler.HealthHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupHealthRouter(e, h.Health)
	SetupChatRouter(e, h.Chat, authMiddleware)
	SetupOrderRouter(e, h.Order, authMiddleware)
	SetupReviewRouter(e, h.Review, authMiddleware)
	SetupShopRouter(e, h.Shop, authMiddleware, adminMiddleware)
	SetupWebSocketRouter(e, h.WebSocket)
}
