package repository

import (
	"context"

	"greenloop/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)

	// FindByOrderAndProduct returns the chat created at checkout for the
	// given order/product pair, or NotFound.
	FindByOrderAndProduct(ctx context.Context, orderID, productID string) (*entity.Chat, error)

	// FindDirect returns the order-less chat between buyer and seller about
	// a product, or NotFound.
	FindDirect(ctx context.Context, buyerID, sellerID, productID string) (*entity.Chat, error)

	ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error)
	Update(ctx context.Context, chat *entity.Chat) error

	// ConfirmOrder flips orderConfirmed in a transaction guarded on
	// orderConfirmed=false. changed is false when the chat was already
	// confirmed, which callers treat as an idempotent re-invocation.
	ConfirmOrder(ctx context.Context, chatID string) (chat *entity.Chat, changed bool, err error)

	// CompleteOrder flips orderCompleted in a transaction guarded on
	// orderCompleted=false, so completion is exactly-once under races.
	CompleteOrder(ctx context.Context, chatID string) (chat *entity.Chat, changed bool, err error)

	// SoftDelete sets the acting party's deletion flag and recomputes
	// isActive from both flags inside the same transaction, so two
	// concurrent soft-deletes cannot miss the "both deleted" state.
	SoftDelete(ctx context.Context, chatID, userID string) (*entity.Chat, error)

	CreateMessage(ctx context.Context, message *entity.Message) error
	ListMessages(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error)
	MarkMessagesRead(ctx context.Context, chatID, readerID string) error
}
