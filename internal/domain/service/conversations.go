package service

import (
	"sort"

	"esekoir/internal/domain/entity"
)

// DefaultAuthorName is shown when neither a profile nor a typed name is known.
const DefaultAuthorName = "User"

// GroupIntoConversations folds the user's messages into one conversation per
// partner. Input order is kept inside each conversation; conversations are
// sorted by their latest message, newest first.
func GroupIntoConversations(messages []*entity.Message, currentUserID string, names map[string]string) []*entity.Conversation {
	byKey := make(map[string]*entity.Conversation)
	order := make([]*entity.Conversation, 0)

	for _, m := range messages {
		if m.SenderID != currentUserID && m.ReceiverID != currentUserID {
			continue
		}
		partner := entity.PartnerOf(m, currentUserID)
		key := partner.Key()
		inbound := m.ReceiverID == currentUserID && m.SenderID != currentUserID

		conv, ok := byKey[key]
		if !ok {
			conv = &entity.Conversation{
				PartnerID:   key,
				PartnerName: names[partner.UserID],
				IsGuest:     partner.IsGuest(),
				LastMessage: m.Content,
				LastDate:    m.CreatedAt,
			}
			byKey[key] = conv
			order = append(order, conv)
		}

		if conv.PartnerName == "" && inbound && m.SenderName != "" {
			conv.PartnerName = m.SenderName
		}
		if m.CreatedAt.After(conv.LastDate) {
			conv.LastDate = m.CreatedAt
			conv.LastMessage = m.Content
		}
		if inbound && !m.IsRead {
			conv.UnreadCount++
		}
		conv.Messages = append(conv.Messages, m)
	}

	for _, conv := range order {
		if conv.PartnerName == "" {
			conv.PartnerName = DefaultAuthorName
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].LastDate.After(order[j].LastDate)
	})
	return order
}

// FindConversation returns the conversation with partnerKey, or nil.
func FindConversation(convs []*entity.Conversation, partnerKey string) *entity.Conversation {
	for _, c := range convs {
		if c.PartnerID == partnerKey {
			return c
		}
	}
	return nil
}
