package entity

import "time"

const (
	ShopStatusActive    = "active"
	ShopStatusDormant   = "dormant"
	ShopStatusInactive  = "inactive"
	ShopStatusArchived  = "archived"
	ShopStatusSuspended = "suspended"
	ShopStatusPending   = "pending"
)

// Shop is a seller's storefront. Dormancy transitions are driven purely by
// elapsed time since UpdatedAt and move forward only
// (active -> dormant -> inactive -> archived); qualifying seller activity
// resets dormant or inactive shops back to active. Suspended is an
// admin-only state the sweep never touches.
type Shop struct {
	ID          string `json:"id" firestore:"id"`
	OwnerID     string `json:"owner_id" firestore:"ownerId"`
	Name        string `json:"name" firestore:"name"`
	Description string `json:"description,omitempty" firestore:"description,omitempty"`
	Status      string `json:"status" firestore:"status"`

	DormancyReason string     `json:"dormancy_reason,omitempty" firestore:"dormancyReason,omitempty"`
	DormantSince   *time.Time `json:"dormant_since,omitempty" firestore:"dormantSince,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
