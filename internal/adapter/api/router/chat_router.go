package router

import (
	"github.com/labstack/echo/v4"

	"greenloop/internal/adapter/api/handler"
	"greenloop/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("", chatHandler.CreateChat)
	chatGroup.GET("", chatHandler.GetUserChats)
	chatGroup.DELETE("/:id", chatHandler.DeleteChat)

	chatGroup.POST("/:id/messages", chatHandler.SendMessage)
	chatGroup.GET("/:id/messages", chatHandler.GetChatMessages)

	// Order actions live on the chat because the conversation is where the
	// buyer and seller negotiate the order.
	chatGroup.POST("/:id/confirm-order", chatHandler.ConfirmOrder)
	chatGroup.POST("/:id/complete-order", chatHandler.CompleteOrder)
}
