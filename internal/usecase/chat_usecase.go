package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"greenloop/internal/domain/entity"
	"greenloop/internal/domain/repository"
	"greenloop/internal/infrastructure/notification"
	ws "greenloop/internal/infrastructure/websocket"
	"greenloop/pkg/crypto"
	"greenloop/pkg/errors"
	"greenloop/pkg/goroutine"
)

// ChatUseCase is the conversation state machine. It owns the chat lifecycle
// from creation through confirmation, completion and soft-deletion, and is
// the only writer of chat state; fan-out events are emitted strictly after
// the corresponding database write succeeds.
type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	wsManager   *ws.Manager
	notifier    notification.Notifier
	codec       *crypto.Codec
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	wsManager *ws.Manager,
	notifier notification.Notifier,
	codec *crypto.Codec,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		wsManager:   wsManager,
		notifier:    notifier,
		codec:       codec,
	}
}

type CreateChatInput struct {
	ProductID      string
	OrderID        string
	InitialMessage string
}

type SendMessageInput struct {
	ChatID   string
	Content  string
	Type     string // "text", "image", "voice"
	MediaURL string
}

type ChatResponse struct {
	*entity.Chat
	LastMessagePreview string          `json:"last_message_preview,omitempty"`
	Product            *entity.Product `json:"product,omitempty"`
	OtherUser          *entity.User    `json:"other_user,omitempty"`
}

// CreateChat starts (or returns) the conversation between a buyer and a
// product's seller. Order-based creation happens at checkout and greets the
// buyer with a system message; order-less creation is a buyer asking about a
// product before purchase. Creation is idempotent: an equivalent existing
// chat is returned instead of a duplicate.
func (uc *ChatUseCase) CreateChat(ctx context.Context, buyerID string, input CreateChatInput) (*ChatResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		log.Printf("CreateChat Error: Product %s not found: %v", input.ProductID, err)
		return nil, err
	}

	if buyerID == product.SellerID {
		log.Printf("CreateChat Error: User %s attempted to chat about their own product %s", buyerID, input.ProductID)
		return nil, errors.BadRequest("You cannot chat with yourself about your own product", nil)
	}

	if input.OrderID != "" {
		order, err := uc.orderRepo.GetByID(ctx, input.OrderID)
		if err != nil {
			return nil, err
		}
		if order.BuyerID != buyerID {
			// Existence of someone else's order is not leaked.
			return nil, errors.NotFound("Order", nil)
		}
	}

	chat := &entity.Chat{
		BuyerID:   buyerID,
		SellerID:  product.SellerID,
		ProductID: input.ProductID,
		OrderID:   input.OrderID,
		IsActive:  true,
	}

	existing, err := uc.findExistingChat(ctx, chat)
	if err == nil {
		return uc.buildChatResponse(ctx, buyerID, existing), nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		if errors.Is(err, "CONFLICT") {
			// Lost a creation race; the deterministic chat key means the
			// winner created exactly the chat we wanted.
			existing, ferr := uc.findExistingChat(ctx, chat)
			if ferr != nil {
				return nil, ferr
			}
			return uc.buildChatResponse(ctx, buyerID, existing), nil
		}
		log.Printf("CreateChat Error: Failed to create chat: %v", err)
		return nil, err
	}

	if input.OrderID != "" {
		greeting := fmt.Sprintf("Thanks for your order of %s! The seller will confirm it shortly.", product.Name)
		if err := uc.sendSystemMessage(ctx, chat, greeting); err != nil {
			log.Printf("CreateChat Warning: Failed to send greeting for chat %s: %v", chat.ID, err)
		}
	} else if input.InitialMessage != "" {
		if _, err := uc.SendMessage(ctx, buyerID, SendMessageInput{
			ChatID:  chat.ID,
			Content: input.InitialMessage,
			Type:    entity.MessageTypeText,
		}); err != nil {
			log.Printf("CreateChat Warning: Failed to send initial message for chat %s: %v", chat.ID, err)
		}
	}

	return uc.buildChatResponse(ctx, buyerID, chat), nil
}

// SendMessage delivers a message into a chat. A sender who soft-deleted the
// chat is rejected outright; the other party can keep writing.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.MessageView, error) {
	chat, err := uc.chatRepo.GetByID(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}

	if !chat.IsParticipant(senderID) {
		log.Printf("SendMessage Error: User %s is not a participant in chat %s", senderID, input.ChatID)
		return nil, errors.NotFound("Chat", nil)
	}

	if chat.DeletedBy(senderID) {
		return nil, errors.InvalidState("You cannot send messages into a chat you deleted", nil)
	}

	msgType := input.Type
	if msgType == "" {
		msgType = entity.MessageTypeText
	}

	ciphertext, err := uc.codec.Encrypt(input.Content)
	if err != nil {
		// Fail open: an encryption error must not make the chat unusable.
		log.Printf("SendMessage Warning: Encryption failed for chat %s, storing plaintext: %v", input.ChatID, err)
		ciphertext = input.Content
	}

	message := &entity.Message{
		ChatID:     input.ChatID,
		SenderID:   senderID,
		ReceiverID: chat.OtherParticipant(senderID),
		Type:       msgType,
		Content:    ciphertext,
		MediaURL:   input.MediaURL,
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		log.Printf("SendMessage Error: Failed to create message for chat %s: %v", input.ChatID, err)
		return nil, err
	}

	chat.LastMessage = ciphertext
	chat.LastMessageAt = message.CreatedAt
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		log.Printf("SendMessage Warning: Failed to update chat %s with last message: %v", chat.ID, err)
	}

	view := uc.messageView(message)

	// Emitted only after the durable write, so the socket can never show a
	// message that is not yet stored.
	event := ws.NewEvent(ws.EventNewMessage, chat.ID, view)
	uc.wsManager.SendToChatRoom(chat.ID, event, senderID)

	uc.notifyNewMessage(ctx, message.ReceiverID)

	return view, nil
}

// ConfirmOrder is the seller accepting the order tied to this chat. The
// transition is one-way; re-confirming returns the current state.
func (uc *ChatUseCase) ConfirmOrder(ctx context.Context, sellerID, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.IsParticipant(sellerID) {
		return nil, errors.NotFound("Chat", nil)
	}
	if sellerID != chat.SellerID {
		return nil, errors.Forbidden("Only the seller can confirm this order", nil)
	}
	if chat.OrderID == "" {
		return nil, errors.InvalidState("This chat has no order to confirm", nil)
	}

	order, err := uc.orderRepo.GetByID(ctx, chat.OrderID)
	if err != nil {
		return nil, err
	}

	chat, changed, err := uc.chatRepo.ConfirmOrder(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !changed {
		return chat, nil
	}

	order.Status = entity.OrderStatusConfirmed
	order.PaymentStatus = entity.PaymentStatusConfirmed
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		log.Printf("ConfirmOrder Warning: Failed to update order %s after confirmation: %v", order.ID, err)
	}

	if err := uc.sendSystemMessage(ctx, chat, "The seller confirmed your order. Payment is due on delivery."); err != nil {
		log.Printf("ConfirmOrder Warning: Failed to send confirmation message for chat %s: %v", chat.ID, err)
	}

	// The buyer's personal room is a deliberate redundant delivery in case
	// they have not joined the chat room's socket channel yet.
	event := ws.NewEvent(ws.EventOrderStatusUpdate, chat.ID, map[string]interface{}{
		"chatId":         chat.ID,
		"orderConfirmed": true,
		"orderCompleted": chat.OrderCompleted,
		"message":        "Order confirmed",
	})
	uc.wsManager.SendToChatRoom(chat.ID, event, "")
	uc.wsManager.SendToUser(chat.BuyerID, event)

	uc.emailBuyerOrderConfirmed(ctx, chat, order)

	return chat, nil
}

// CompleteOrder is the buyer finalizing a confirmed order. Strictly
// buyer-only by field identity; exactly-once per chat - the second attempt
// is a no-op returning current state. Completion creates the single review
// eligibility record for the order.
func (uc *ChatUseCase) CompleteOrder(ctx context.Context, buyerID, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.IsParticipant(buyerID) {
		return nil, errors.NotFound("Chat", nil)
	}
	if buyerID != chat.BuyerID {
		return nil, errors.Forbidden("Only the buyer can complete this order", nil)
	}
	if chat.OrderID == "" {
		return nil, errors.InvalidState("This chat has no order to complete", nil)
	}

	chat, changed, err := uc.chatRepo.CompleteOrder(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !changed {
		return chat, nil
	}

	if order, err := uc.orderRepo.GetByID(ctx, chat.OrderID); err == nil {
		order.Status = entity.OrderStatusDelivered
		if err := uc.orderRepo.Update(ctx, order); err != nil {
			log.Printf("CompleteOrder Warning: Failed to update order %s after completion: %v", order.ID, err)
		}
	}

	eligibility := &entity.ReviewEligibility{
		UserID:      buyerID,
		ProductID:   chat.ProductID,
		OrderID:     chat.OrderID,
		ChatID:      chat.ID,
		CompletedAt: *chat.CompletedAt,
	}
	if err := uc.reviewRepo.CreateEligibility(ctx, eligibility); err != nil {
		// The conditional complete makes a duplicate impossible in the
		// normal flow; an existing record means a previous partial run.
		if errors.Is(err, "CONFLICT") {
			log.Printf("CompleteOrder Warning: Eligibility already exists for chat %s", chat.ID)
		} else {
			log.Printf("CompleteOrder Error: Failed to create review eligibility for chat %s: %v", chat.ID, err)
		}
	}

	event := ws.NewEvent(ws.EventOrderStatusUpdate, chat.ID, map[string]interface{}{
		"chatId":         chat.ID,
		"orderConfirmed": chat.OrderConfirmed,
		"orderCompleted": true,
		"completedAt":    chat.CompletedAt.UTC().Format(time.RFC3339),
		"message":        "Order completed",
	})
	uc.wsManager.SendToChatRoom(chat.ID, event, "")

	return chat, nil
}

// DeleteChat soft-deletes the chat for the acting party. The chat only goes
// fully inactive once both parties have deleted it; messages are kept.
func (uc *ChatUseCase) DeleteChat(ctx context.Context, userID, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.IsParticipant(userID) {
		return nil, errors.NotFound("Chat", nil)
	}

	chat, err = uc.chatRepo.SoftDelete(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	event := ws.NewEvent(ws.EventChatUpdate, chat.ID, map[string]interface{}{
		"action":    "delete",
		"chatId":    chat.ID,
		"deletedBy": userID,
		"chat":      chat,
	})
	uc.wsManager.SendToChatRoom(chat.ID, event, "")

	return chat, nil
}

// GetUserChats lists the user's chats, hiding the ones they soft-deleted.
// Completed chats stay visible to both parties regardless of deletion, so
// order history is never lost.
func (uc *ChatUseCase) GetUserChats(ctx context.Context, userID string) ([]*ChatResponse, error) {
	chats, err := uc.chatRepo.ListByUserID(ctx, userID)
	if err != nil {
		log.Printf("GetUserChats Error: Failed to list chats for user %s: %v", userID, err)
		return nil, err
	}

	responses := make([]*ChatResponse, 0, len(chats))
	for _, chat := range chats {
		if chat.DeletedBy(userID) && !chat.OrderCompleted {
			continue
		}
		if !chat.IsActive && !chat.OrderCompleted {
			continue
		}
		responses = append(responses, uc.buildChatResponse(ctx, userID, chat))
	}

	return responses, nil
}

// CanAccessChat reports whether the user is a participant of the chat. This
// backs the websocket room join check, so a stranger cannot subscribe to a
// conversation's events.
func (uc *ChatUseCase) CanAccessChat(ctx context.Context, userID, chatID string) bool {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return false
	}
	return chat.IsParticipant(userID)
}

// GetChatMessages returns the chat's messages decrypted for the requesting
// participant and marks their unread messages as read.
func (uc *ChatUseCase) GetChatMessages(ctx context.Context, userID, chatID string, limit, offset int) ([]*entity.MessageView, int64, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, 0, err
	}

	if !chat.IsParticipant(userID) {
		return nil, 0, errors.NotFound("Chat", nil)
	}

	messages, total, err := uc.chatRepo.ListMessages(ctx, chatID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if err := uc.chatRepo.MarkMessagesRead(ctx, chatID, userID); err != nil {
		log.Printf("GetChatMessages Warning: Failed to mark messages read for chat %s: %v", chatID, err)
	}

	views := make([]*entity.MessageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, uc.messageView(message))
	}

	return views, total, nil
}

// sendSystemMessage creates a state-machine-generated message with the
// seller as nominal sender and fans it out to the chat room.
func (uc *ChatUseCase) sendSystemMessage(ctx context.Context, chat *entity.Chat, content string) error {
	ciphertext, err := uc.codec.Encrypt(content)
	if err != nil {
		log.Printf("sendSystemMessage Warning: Encryption failed for chat %s, storing plaintext: %v", chat.ID, err)
		ciphertext = content
	}

	message := &entity.Message{
		ChatID:     chat.ID,
		SenderID:   chat.SellerID,
		ReceiverID: chat.BuyerID,
		Type:       entity.MessageTypeSystem,
		Content:    ciphertext,
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		return err
	}

	chat.LastMessage = ciphertext
	chat.LastMessageAt = message.CreatedAt
	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		log.Printf("sendSystemMessage Warning: Failed to update chat %s: %v", chat.ID, err)
	}

	event := ws.NewEvent(ws.EventNewMessage, chat.ID, uc.messageView(message))
	uc.wsManager.SendToChatRoom(chat.ID, event, "")

	return nil
}

func (uc *ChatUseCase) findExistingChat(ctx context.Context, chat *entity.Chat) (*entity.Chat, error) {
	if chat.OrderID != "" {
		return uc.chatRepo.FindByOrderAndProduct(ctx, chat.OrderID, chat.ProductID)
	}
	return uc.chatRepo.FindDirect(ctx, chat.BuyerID, chat.SellerID, chat.ProductID)
}

func (uc *ChatUseCase) messageView(message *entity.Message) *entity.MessageView {
	result := uc.codec.Decrypt(message.Content)
	view := &entity.MessageView{
		Message: message,
		Content: result.Text,
	}
	if result.Failed {
		// Let the presentation layer show a placeholder instead of
		// serving opaque bytes as content.
		view.Content = ""
		view.ContentBroken = true
	}
	return view
}

func (uc *ChatUseCase) buildChatResponse(ctx context.Context, userID string, chat *entity.Chat) *ChatResponse {
	resp := &ChatResponse{Chat: chat}

	if chat.LastMessage != "" {
		if result := uc.codec.Decrypt(chat.LastMessage); !result.Failed {
			resp.LastMessagePreview = result.Text
		}
	}

	if product, err := uc.productRepo.GetByID(ctx, chat.ProductID); err == nil {
		resp.Product = product
	} else {
		log.Printf("buildChatResponse Warning: Product %s not found for chat %s: %v", chat.ProductID, chat.ID, err)
	}

	if other, err := uc.userRepo.GetByID(ctx, chat.OtherParticipant(userID)); err == nil {
		resp.OtherUser = other
	}

	return resp
}

func (uc *ChatUseCase) notifyNewMessage(ctx context.Context, receiverID string) {
	receiver, err := uc.userRepo.GetByID(ctx, receiverID)
	if err != nil {
		log.Printf("notifyNewMessage Warning: Receiver %s not found: %v", receiverID, err)
		return
	}

	goroutine.SafeGo(func() {
		if err := uc.notifier.SendPush(context.Background(), receiver.FCMToken, "New message", "You have a new message on greenloop"); err != nil {
			log.Printf("notifyNewMessage Warning: Push to %s failed: %v", receiverID, err)
		}
	})
}

func (uc *ChatUseCase) emailBuyerOrderConfirmed(ctx context.Context, chat *entity.Chat, order *entity.Order) {
	buyer, err := uc.userRepo.GetByID(ctx, chat.BuyerID)
	if err != nil {
		log.Printf("ConfirmOrder Warning: Buyer %s not found for email: %v", chat.BuyerID, err)
		return
	}

	msg := notification.OrderConfirmedEmail(buyer.Email, buyer.Username, order.ProductName, order.ID)
	orderID := order.ID
	goroutine.SafeGo(func() {
		if err := uc.notifier.SendEmail(context.Background(), msg); err != nil {
			log.Printf("ConfirmOrder Warning: Confirmation email to %s failed: %v", buyer.Email, err)
			return
		}
		// Best-effort bookkeeping; the confirmation itself is already durable.
		if order, err := uc.orderRepo.GetByID(context.Background(), orderID); err == nil {
			order.BuyerNotified = true
			if err := uc.orderRepo.Update(context.Background(), order); err != nil {
				log.Printf("ConfirmOrder Warning: Failed to flag buyer notification for order %s: %v", orderID, err)
			}
		}
	})
}
