package entity

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
)

// Order is one purchased line item. The product name and image are
// snapshotted at purchase time and never change even if the product is later
// edited. Orders are never deleted, only status-transitioned.
type Order struct {
	ID        string `json:"id" firestore:"id"`
	BuyerID   string `json:"buyer_id" firestore:"buyerId"`
	SellerID  string `json:"seller_id,omitempty" firestore:"sellerId,omitempty"`
	ProductID string `json:"product_id" firestore:"productId"`

	ProductName  string `json:"product_name" firestore:"productName"`
	ProductImage string `json:"product_image,omitempty" firestore:"productImage,omitempty"`

	Quantity int     `json:"quantity" firestore:"quantity"`
	Subtotal float64 `json:"subtotal" firestore:"subtotal"`
	Total    float64 `json:"total" firestore:"total"`

	// Cash on delivery only; payment_status flips to confirmed together with
	// the seller's order confirmation.
	PaymentStatus string `json:"payment_status" firestore:"paymentStatus"`
	AddressID     string `json:"address_id,omitempty" firestore:"addressId,omitempty"`
	Status        string `json:"status" firestore:"status"`

	SellerNotified bool `json:"seller_notified" firestore:"sellerNotified"`
	BuyerNotified  bool `json:"buyer_notified" firestore:"buyerNotified"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
