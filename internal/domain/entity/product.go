package entity

import "time"

type ProductImage struct {
	ID           string `json:"id" firestore:"id"`
	URL          string `json:"url" firestore:"url"`
	DisplayOrder int    `json:"display_order" firestore:"displayOrder"`
}

type Product struct {
	ID       string `json:"id" firestore:"id"`
	ShopID   string `json:"shop_id" firestore:"shopId"`
	SellerID string `json:"seller_id" firestore:"sellerId"`

	Name        string         `json:"name" firestore:"name"`
	Description string         `json:"description" firestore:"description"`
	Category    string         `json:"category" firestore:"category"`
	Price       float64        `json:"price" firestore:"price"`
	Stock       int            `json:"stock" firestore:"stock"`
	Images      []ProductImage `json:"images" firestore:"images"`

	// Sustainability labelling shown on the storefront.
	Materials []string `json:"materials,omitempty" firestore:"materials,omitempty"`
	EcoBadges []string `json:"eco_badges,omitempty" firestore:"ecoBadges,omitempty"`

	Status    string `json:"status" firestore:"status"`
	SoldCount int    `json:"sold_count" firestore:"soldCount"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// PrimaryImage returns the first image URL for order snapshots.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
