package entity

import "time"

// Currency is admin-managed display metadata for a quoted currency.
type Currency struct {
	Code         string    `json:"code" firestore:"code"`
	Name         string    `json:"name" firestore:"name"`
	Symbol       string    `json:"symbol" firestore:"symbol"`
	Flag         string    `json:"flag,omitempty" firestore:"flag,omitempty"`
	IsActive     bool      `json:"is_active" firestore:"isActive"`
	DisplayOrder int       `json:"display_order" firestore:"displayOrder"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}
