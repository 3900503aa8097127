package handler

import (
	"github.com/labstack/echo/v4"

	"greenloop/internal/usecase"
	"greenloop/pkg/response"
	"greenloop/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createChatRequest struct {
	ProductID      string `json:"product_id" validate:"required"`
	OrderID        string `json:"order_id"`
	InitialMessage string `json:"initial_message"`
}

type sendMessageRequest struct {
	Content  string `json:"content" validate:"required"`
	Type     string `json:"type" validate:"omitempty,oneof=text image voice"`
	MediaURL string `json:"media_url,omitempty" validate:"omitempty,url"`
}

// CreateChat opens (or returns) the buyer's conversation about a product.
func (h *ChatHandler) CreateChat(c echo.Context) error {
	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.CreateChat(c.Request().Context(), userID, usecase.CreateChatInput{
		ProductID:      req.ProductID,
		OrderID:        req.OrderID,
		InitialMessage: req.InitialMessage,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, chat)
}

// GetUserChats lists the authenticated user's visible chats.
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	userID := c.Get("uid").(string)

	chats, err := h.chatUseCase.GetUserChats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chats)
}

// SendMessage posts a message into a chat.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	chatID := c.Param("id")
	userID := c.Get("uid").(string)

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if req.Type == "" {
		req.Type = "text"
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		ChatID:   chatID,
		Content:  req.Content,
		Type:     req.Type,
		MediaURL: req.MediaURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// GetChatMessages returns a page of messages and marks the caller's unread
// messages as read.
func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	chatID := c.Param("id")
	userID := c.Get("uid").(string)

	p := utils.GetPaginationParams(c, 50)

	messages, total, err := h.chatUseCase.GetChatMessages(c.Request().Context(), userID, chatID, p.PageSize, p.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, p.Page, p.PageSize)
}

// ConfirmOrder lets the seller confirm the chat's pending order.
func (h *ChatHandler) ConfirmOrder(c echo.Context) error {
	chatID := c.Param("id")
	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.ConfirmOrder(c.Request().Context(), userID, chatID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

// CompleteOrder lets the buyer mark the chat's confirmed order as received.
func (h *ChatHandler) CompleteOrder(c echo.Context) error {
	chatID := c.Param("id")
	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.CompleteOrder(c.Request().Context(), userID, chatID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

// DeleteChat soft-deletes the chat for the calling participant only.
func (h *ChatHandler) DeleteChat(c echo.Context) error {
	chatID := c.Param("id")
	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.DeleteChat(c.Request().Context(), userID, chatID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}
