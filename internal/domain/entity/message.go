package entity

import (
	"strings"
	"time"
)

// Message is a direct message. An empty SenderID means the sender had no
// account (guest); SenderName then carries the name they typed.
type Message struct {
	ID         string    `json:"id" firestore:"id"`
	SenderID   string    `json:"sender_id,omitempty" firestore:"senderId"`
	ReceiverID string    `json:"receiver_id" firestore:"receiverId"`
	SenderName string    `json:"sender_name,omitempty" firestore:"senderName"`
	Content    string    `json:"content" firestore:"content"`
	ListingID  string    `json:"listing_id,omitempty" firestore:"listingId,omitempty"`
	IsRead     bool      `json:"is_read" firestore:"isRead"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

// Conversation is derived from messages on every read and never stored.
type Conversation struct {
	PartnerID   string     `json:"partner_id"`
	PartnerName string     `json:"partner_name"`
	IsGuest     bool       `json:"is_guest"`
	LastMessage string     `json:"last_message"`
	LastDate    time.Time  `json:"last_date"`
	UnreadCount int        `json:"unread_count"`
	Messages    []*Message `json:"messages"`
}

const (
	// GuestPartnerKey groups guest messages that carry no sender name.
	GuestPartnerKey    = "guest"
	guestPartnerPrefix = "guest:"
)

// Partner identifies the other side of a conversation.
type Partner struct {
	UserID    string
	GuestName string
}

func (p Partner) IsGuest() bool {
	return p.UserID == ""
}

// Key is the conversation key: the partner's user id, or a synthetic guest key.
func (p Partner) Key() string {
	if p.UserID != "" {
		return p.UserID
	}
	if p.GuestName != "" {
		return guestPartnerPrefix + p.GuestName
	}
	return GuestPartnerKey
}

// ParsePartnerKey reverses Partner.Key.
func ParsePartnerKey(key string) Partner {
	switch {
	case key == GuestPartnerKey:
		return Partner{}
	case strings.HasPrefix(key, guestPartnerPrefix):
		return Partner{GuestName: strings.TrimPrefix(key, guestPartnerPrefix)}
	default:
		return Partner{UserID: key}
	}
}

// PartnerOf returns the other party of m as seen by userID.
func PartnerOf(m *Message, userID string) Partner {
	if m.SenderID == userID {
		return Partner{UserID: m.ReceiverID}
	}
	if m.SenderID != "" {
		return Partner{UserID: m.SenderID}
	}
	return Partner{GuestName: m.SenderName}
}
