package entity

import "time"

type Review struct {
	ID        string `json:"id" firestore:"id"`
	ProductID string `json:"product_id" firestore:"productId"`
	OrderID   string `json:"order_id" firestore:"orderId"`
	UserID    string `json:"user_id" firestore:"userId"`
	SellerID  string `json:"seller_id" firestore:"sellerId"`

	Rating  int    `json:"rating" firestore:"rating"` // 1-5
	Content string `json:"content" firestore:"content"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ReviewEligibility asserts that a buyer may review a product because their
// order completed. Created exactly once per (user, product, order) at the
// moment the buyer completes the order, and consumed by review creation.
// Deleting the review reopens the window.
type ReviewEligibility struct {
	ID        string `json:"id" firestore:"id"`
	UserID    string `json:"user_id" firestore:"userId"`
	ProductID string `json:"product_id" firestore:"productId"`
	OrderID   string `json:"order_id" firestore:"orderId"`
	ChatID    string `json:"chat_id,omitempty" firestore:"chatId,omitempty"`

	CompletedAt time.Time `json:"completed_at" firestore:"completedAt"`

	HasReviewed bool   `json:"has_reviewed" firestore:"hasReviewed"`
	ReviewID    string `json:"review_id,omitempty" firestore:"reviewId,omitempty"`

	PromptShown    bool       `json:"prompt_shown" firestore:"promptShown"`
	PromptDeclined bool       `json:"prompt_declined" firestore:"promptDeclined"`
	DeclinedAt     *time.Time `json:"declined_at,omitempty" firestore:"declinedAt,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
