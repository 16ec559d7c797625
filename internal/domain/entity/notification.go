package entity

import "time"

const (
	NotificationChargeApproved       = "charge_approved"
	NotificationChargeRejected       = "charge_rejected"
	NotificationVerificationApproved = "verification_approved"
	NotificationVerificationRejected = "verification_rejected"
	NotificationNewMessage           = "new_message"
	NotificationCommentReply         = "comment_reply"
)

type Notification struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Type      string    `json:"type" firestore:"type"`
	Title     string    `json:"title" firestore:"title"`
	Body      string    `json:"body" firestore:"body"`
	Link      string    `json:"link,omitempty" firestore:"link,omitempty"`
	IsRead    bool      `json:"is_read" firestore:"isRead"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
