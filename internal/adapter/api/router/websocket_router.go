package router

import (
	"github.com/labstack/echo/v4"

	"greenloop/internal/adapter/api/handler"
)

// SetupWebSocketRouter registers the realtime endpoint. Authentication is
// handled inside the handler because the token arrives as a query parameter.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
