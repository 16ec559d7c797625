package entity

import "time"

const (
	ListingActive = "active"
	ListingSold   = "sold"
	ListingHidden = "hidden"
)

// Listing is a marketplace offer to buy or sell an asset.
type Listing struct {
	ID          string    `json:"id" firestore:"id"`
	SellerID    string    `json:"seller_id" firestore:"sellerId"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Category    string    `json:"category" firestore:"category"` // currency, crypto, gold, transfer, other
	AssetCode   string    `json:"asset_code,omitempty" firestore:"assetCode,omitempty"`
	Amount      float64   `json:"amount" firestore:"amount"`
	Price       float64   `json:"price" firestore:"price"`
	Wilaya      string    `json:"wilaya,omitempty" firestore:"wilaya,omitempty"`
	Phone       string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	Status      string    `json:"status" firestore:"status"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

type ListingFilter struct {
	Category string
	Wilaya   string
	SellerID string
	Status   string
	Query    string
}
