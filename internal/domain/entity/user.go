package entity

import "time"

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`
	Phone    string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Role     string `json:"role" firestore:"role"`
	Status   string `json:"status" firestore:"status"`

	// Device token for push notifications; empty when the user never
	// registered a device.
	FCMToken string `json:"-" firestore:"fcmToken,omitempty"`

	SellerRating      float64 `json:"seller_rating,omitempty" firestore:"sellerRating,omitempty"`
	SellerReviewCount int     `json:"seller_review_count,omitempty" firestore:"sellerReviewCount,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
