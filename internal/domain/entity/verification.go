package entity

import "time"

type VerificationPlan struct {
	ID           string    `json:"id" firestore:"id"`
	Name         string    `json:"name" firestore:"name"`
	Price        float64   `json:"price" firestore:"price"`
	DurationDays int       `json:"duration_days" firestore:"durationDays"`
	Features     []string  `json:"features" firestore:"features"`
	IsActive     bool      `json:"is_active" firestore:"isActive"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}

type VerificationRequest struct {
	ID          string        `json:"id" firestore:"id"`
	UserID      string        `json:"user_id" firestore:"userId"`
	PlanID      string        `json:"plan_id" firestore:"planId"`
	DocumentURL string        `json:"document_url,omitempty" firestore:"documentUrl,omitempty"`
	Status      RequestStatus `json:"status" firestore:"status"`
	AdminNotes  string        `json:"admin_notes,omitempty" firestore:"adminNotes,omitempty"`
	ProcessedBy string        `json:"processed_by,omitempty" firestore:"processedBy,omitempty"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty" firestore:"processedAt,omitempty"`
	CreatedAt   time.Time     `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time     `json:"updated_at" firestore:"updatedAt"`
}
