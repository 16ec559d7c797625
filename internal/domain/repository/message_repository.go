package repository

import (
	"context"

	"esekoir/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// ListForUser returns messages sent or received by the user, newest first.
	ListForUser(ctx context.Context, userID string) ([]*entity.Message, error)
	// MarkConversationRead flags inbound messages from partner as read.
	MarkConversationRead(ctx context.Context, userID string, partner entity.Partner) (int, error)
	// DeleteConversation removes the messages of the pair in both directions.
	DeleteConversation(ctx context.Context, userID string, partner entity.Partner) (int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}
