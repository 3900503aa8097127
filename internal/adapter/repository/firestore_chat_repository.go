package repository

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"greenloop/internal/domain/entity"
	"greenloop/internal/domain/repository"
	"greenloop/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

// Chat documents use deterministic IDs derived from their scope, so the
// storage layer itself guarantees one chat per (order, product) and one
// order-less chat per (buyer, seller, product). A racing duplicate create
// fails with AlreadyExists instead of silently forking the conversation.
func chatDocID(chat *entity.Chat) string {
	if chat.OrderID != "" {
		return fmt.Sprintf("ord_%s_%s", chat.OrderID, chat.ProductID)
	}
	return fmt.Sprintf("dm_%s_%s_%s", chat.BuyerID, chat.SellerID, chat.ProductID)
}

func (r *firestoreChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	if chat.ID == "" {
		chat.ID = chatDocID(chat)
	}

	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	if chat.LastMessageAt.IsZero() {
		chat.LastMessageAt = now
	}

	_, err := r.client.Collection("chats").Doc(chat.ID).Create(ctx, chat)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Chat already exists")
		}
		return errors.Internal("Failed to create chat", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", nil)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}

	return &chat, nil
}

func (r *firestoreChatRepository) FindByOrderAndProduct(ctx context.Context, orderID, productID string) (*entity.Chat, error) {
	return r.GetByID(ctx, fmt.Sprintf("ord_%s_%s", orderID, productID))
}

func (r *firestoreChatRepository) FindDirect(ctx context.Context, buyerID, sellerID, productID string) (*entity.Chat, error) {
	return r.GetByID(ctx, fmt.Sprintf("dm_%s_%s_%s", buyerID, sellerID, productID))
}

func (r *firestoreChatRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	var chats []*entity.Chat

	for _, field := range []string{"buyerId", "sellerId"} {
		docs, err := r.client.Collection("chats").Where(field, "==", userID).Documents(ctx).GetAll()
		if err != nil {
			log.Printf("Firestore error while fetching chats for user %s: %v", userID, err)
			return nil, errors.Internal("Failed to fetch chats", err)
		}

		for _, doc := range docs {
			var chat entity.Chat
			if err := doc.DataTo(&chat); err != nil {
				log.Printf("Error parsing chat data for user %s: %v", userID, err)
				continue
			}
			chats = append(chats, &chat)
		}
	}

	// Newest activity first; a user chatting with themselves is rejected at
	// creation, so the two queries cannot return the same document.
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].UpdatedAt.After(chats[j].UpdatedAt)
	})

	return chats, nil
}

func (r *firestoreChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	chat.UpdatedAt = time.Now()

	_, err := r.client.Collection("chats").Doc(chat.ID).Set(ctx, chat)
	if err != nil {
		return errors.Internal("Failed to update chat", err)
	}

	return nil
}

func (r *firestoreChatRepository) ConfirmOrder(ctx context.Context, chatID string) (*entity.Chat, bool, error) {
	ref := r.client.Collection("chats").Doc(chatID)

	var chat entity.Chat
	changed := false

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Chat", nil)
			}
			return errors.Internal("Failed to get chat", err)
		}
		if err := doc.DataTo(&chat); err != nil {
			return errors.Internal("Failed to parse chat data", err)
		}

		if chat.OrderConfirmed {
			changed = false
			return nil
		}

		now := time.Now()
		chat.OrderConfirmed = true
		chat.OrderConfirmedAt = &now
		chat.UpdatedAt = now
		changed = true

		return tx.Set(ref, &chat)
	})
	if err != nil {
		return nil, false, err
	}

	return &chat, changed, nil
}

func (r *firestoreChatRepository) CompleteOrder(ctx context.Context, chatID string) (*entity.Chat, bool, error) {
	ref := r.client.Collection("chats").Doc(chatID)

	var chat entity.Chat
	changed := false

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Chat", nil)
			}
			return errors.Internal("Failed to get chat", err)
		}
		if err := doc.DataTo(&chat); err != nil {
			return errors.Internal("Failed to parse chat data", err)
		}

		if !chat.OrderConfirmed {
			return errors.InvalidState("Order must be confirmed before it can be completed", nil)
		}
		if chat.OrderCompleted {
			changed = false
			return nil
		}

		now := time.Now()
		chat.OrderCompleted = true
		chat.CompletedAt = &now
		chat.UpdatedAt = now
		changed = true

		return tx.Set(ref, &chat)
	})
	if err != nil {
		return nil, false, err
	}

	return &chat, changed, nil
}

func (r *firestoreChatRepository) SoftDelete(ctx context.Context, chatID, userID string) (*entity.Chat, error) {
	ref := r.client.Collection("chats").Doc(chatID)

	var chat entity.Chat

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Chat", nil)
			}
			return errors.Internal("Failed to get chat", err)
		}
		if err := doc.DataTo(&chat); err != nil {
			return errors.Internal("Failed to parse chat data", err)
		}

		now := time.Now()
		switch userID {
		case chat.BuyerID:
			chat.DeletedByBuyer = true
			chat.DeletedByBuyerAt = &now
		case chat.SellerID:
			chat.DeletedBySeller = true
			chat.DeletedBySellerAt = &now
		default:
			return errors.NotFound("Chat", nil)
		}

		// Both flags are re-read inside this transaction, so two racing
		// soft-deletes cannot miss the "both deleted" state.
		if chat.DeletedByBuyer && chat.DeletedBySeller {
			chat.IsActive = false
		}
		chat.UpdatedAt = now

		return tx.Set(ref, &chat)
	})
	if err != nil {
		return nil, err
	}

	return &chat, nil
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	message.CreatedAt = time.Now()

	_, err := r.client.Collection("chats").Doc(message.ChatID).Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.client.Collection("chats").Doc(chatID).Collection("messages").OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while counting messages for chat %s: %v", chatID, err)
		return nil, 0, errors.Internal("Failed to count messages for chat", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating messages for chat %s: %v", chatID, err)
			return nil, 0, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Error parsing message data for chat %s: %v", chatID, err)
			return nil, 0, errors.Internal("Failed to parse message data", err)
		}

		messages = append(messages, &message)
	}

	return messages, total, nil
}

func (r *firestoreChatRepository) MarkMessagesRead(ctx context.Context, chatID, readerID string) error {
	query := r.client.Collection("chats").Doc(chatID).Collection("messages").
		Where("receiverId", "==", readerID).
		Where("read", "==", false)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to query unread messages", err)
	}

	now := time.Now()
	for _, doc := range docs {
		if _, err := doc.Ref.Update(ctx, []firestore.Update{
			{Path: "read", Value: true},
			{Path: "readAt", Value: now},
		}); err != nil {
			log.Printf("Failed to mark message %s read in chat %s: %v", doc.Ref.ID, chatID, err)
		}
	}

	return nil
}
