package entity

import "time"

// Chat is one conversation scoped to exactly one buyer, one seller and one
// product, optionally tied to one order. Chats created at checkout carry the
// order ID; a buyer asking about a product before purchase gets an order-less
// chat. The chat only goes fully inactive once both parties soft-delete it.
type Chat struct {
	ID        string `json:"id" firestore:"id"`
	BuyerID   string `json:"buyer_id" firestore:"buyerId"`
	SellerID  string `json:"seller_id" firestore:"sellerId"`
	ProductID string `json:"product_id" firestore:"productId"`
	OrderID   string `json:"order_id,omitempty" firestore:"orderId,omitempty"`

	IsActive bool `json:"is_active" firestore:"isActive"`

	OrderConfirmed   bool       `json:"order_confirmed" firestore:"orderConfirmed"`
	OrderConfirmedAt *time.Time `json:"order_confirmed_at,omitempty" firestore:"orderConfirmedAt,omitempty"`
	OrderCompleted   bool       `json:"order_completed" firestore:"orderCompleted"`
	CompletedAt      *time.Time `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`

	DeletedByBuyer    bool       `json:"deleted_by_buyer" firestore:"deletedByBuyer"`
	DeletedByBuyerAt  *time.Time `json:"deleted_by_buyer_at,omitempty" firestore:"deletedByBuyerAt,omitempty"`
	DeletedBySeller   bool       `json:"deleted_by_seller" firestore:"deletedBySeller"`
	DeletedBySellerAt *time.Time `json:"deleted_by_seller_at,omitempty" firestore:"deletedBySellerAt,omitempty"`

	LastMessage   string    `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time `json:"last_message_at" firestore:"lastMessageAt"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// IsParticipant reports whether userID is the chat's buyer or seller.
func (c *Chat) IsParticipant(userID string) bool {
	return userID == c.BuyerID || userID == c.SellerID
}

// DeletedBy reports whether the given participant has soft-deleted the chat.
func (c *Chat) DeletedBy(userID string) bool {
	if userID == c.BuyerID {
		return c.DeletedByBuyer
	}
	if userID == c.SellerID {
		return c.DeletedBySeller
	}
	return false
}

// OtherParticipant returns the counterparty of userID in this chat.
func (c *Chat) OtherParticipant(userID string) string {
	if userID == c.BuyerID {
		return c.SellerID
	}
	return c.BuyerID
}
