package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/errors"
)

type firestoreMessageRepository struct {
	client *firestore.Client
}

func (r *firestoreMessageRepository) Create(ctx context.Context, m *entity.Message) error {
	if _, err := r.client.Collection("messages").Doc(m.ID).Set(ctx, m); err != nil {
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

// ListForUser merges the sent and received queries; Firestore has no OR on
// different fields without a composite filter index.
func (r *firestoreMessageRepository) ListForUser(ctx context.Context, userID string) ([]*entity.Message, error) {
	sent, err := collect[entity.Message](ctx,
		r.client.Collection("messages").Where("senderId", "==", userID), "messages")
	if err != nil {
		return nil, err
	}
	received, err := collect[entity.Message](ctx,
		r.client.Collection("messages").Where("receiverId", "==", userID), "messages")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(sent)+len(received))
	out := make([]*entity.Message, 0, len(sent)+len(received))
	for _, m := range append(sent, received...) {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *firestoreMessageRepository) inboundFrom(userID string, partner entity.Partner) firestore.Query {
	q := r.client.Collection("messages").Where("receiverId", "==", userID)
	if partner.IsGuest() {
		return q.Where("senderId", "==", "").Where("senderName", "==", partner.GuestName)
	}
	return q.Where("senderId", "==", partner.UserID)
}

func (r *firestoreMessageRepository) MarkConversationRead(ctx context.Context, userID string, partner entity.Partner) (int, error) {
	docs, err := r.inboundFrom(userID, partner).Where("isRead", "==", false).Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to load unread messages", err)
	}

	n, err := updateAll(ctx, r.client, docs, []firestore.Update{{Path: "isRead", Value: true}})
	if err != nil {
		return n, errors.Internal("Failed to mark messages read", err)
	}
	return n, nil
}

func (r *firestoreMessageRepository) DeleteConversation(ctx context.Context, userID string, partner entity.Partner) (int, error) {
	queries := []firestore.Query{r.inboundFrom(userID, partner)}
	if !partner.IsGuest() && partner.UserID != userID {
		queries = append(queries, r.inboundFrom(partner.UserID, entity.Partner{UserID: userID}))
	}
	n, err := deleteAll(ctx, r.client, queries...)
	if err != nil {
		return n, errors.Internal("Failed to delete conversation", err)
	}
	return n, nil
}

func (r *firestoreMessageRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	unread, err := collect[entity.Message](ctx,
		r.client.Collection("messages").Where("receiverId", "==", userID).Where("isRead", "==", false), "messages")
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range unread {
		if m.SenderID != userID {
			n++
		}
	}
	return n, nil
}
