package usecase

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/internal/domain/service"
	"esekoir/internal/infrastructure/websocket"
	"esekoir/pkg/errors"
)

const maxMessageLength = 2000

type MessageUseCase struct {
	messageRepo repository.MessageRepository
	profileRepo repository.ProfileRepository
	events      EventPublisher
}

func NewMessageUseCase(messageRepo repository.MessageRepository, profileRepo repository.ProfileRepository, events EventPublisher) *MessageUseCase {
	if events == nil {
		events = nopPublisher{}
	}
	return &MessageUseCase{
		messageRepo: messageRepo,
		profileRepo: profileRepo,
		events:      events,
	}
}

type SendMessageInput struct {
	ReceiverID string
	Content    string
	ListingID  string
	// SenderName is required from guests and ignored for users.
	SenderName string
}

func (uc *MessageUseCase) SendMessage(ctx context.Context, actor entity.Actor, input SendMessageInput) (*entity.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.BadRequest("Message content is required", nil)
	}
	if len([]rune(content)) > maxMessageLength {
		return nil, errors.BadRequest("Message is too long", nil)
	}

	if _, err := uc.profileRepo.GetByID(ctx, input.ReceiverID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Receiver", err)
		}
		return nil, errors.Internal("Failed to load receiver", err)
	}

	msg := &entity.Message{
		ID:         uuid.New().String(),
		ReceiverID: input.ReceiverID,
		Content:    content,
		ListingID:  input.ListingID,
		CreatedAt:  time.Now().UTC(),
	}

	if actor.IsGuest() {
		name := strings.TrimSpace(input.SenderName)
		if name == "" {
			return nil, errors.BadRequest("Guests must provide a name", nil)
		}
		msg.SenderName = name
	} else {
		if actor.ID == input.ReceiverID {
			return nil, errors.BadRequest("Cannot send a message to yourself", nil)
		}
		msg.SenderID = actor.ID
		if sender, err := uc.profileRepo.GetByID(ctx, actor.ID); err == nil {
			msg.SenderName = sender.FullName
		}
	}

	if err := uc.messageRepo.Create(ctx, msg); err != nil {
		return nil, errors.Internal("Failed to send message", err)
	}

	uc.events.Publish(msg.ReceiverID, websocket.Event{Type: websocket.EventMessageCreated, Data: msg})
	if msg.SenderID != "" {
		uc.events.Publish(msg.SenderID, websocket.Event{Type: websocket.EventMessageCreated, Data: msg})
	}

	return msg, nil
}

func (uc *MessageUseCase) ListConversations(ctx context.Context, uid string) ([]*entity.Conversation, error) {
	messages, err := uc.messageRepo.ListForUser(ctx, uid)
	if err != nil {
		return nil, errors.Internal("Failed to list messages", err)
	}

	seen := make(map[string]bool)
	var partnerIDs []string
	for _, m := range messages {
		p := entity.PartnerOf(m, uid)
		if p.UserID != "" && !seen[p.UserID] {
			seen[p.UserID] = true
			partnerIDs = append(partnerIDs, p.UserID)
		}
	}

	names, err := uc.profileRepo.Names(ctx, partnerIDs)
	if err != nil {
		return nil, errors.Internal("Failed to load partner names", err)
	}

	return service.GroupIntoConversations(messages, uid, names), nil
}

// OpenConversation marks the partner's messages read and returns the
// conversation with its messages oldest first.
func (uc *MessageUseCase) OpenConversation(ctx context.Context, uid, partnerKey string) (*entity.Conversation, error) {
	partner := entity.ParsePartnerKey(partnerKey)
	if _, err := uc.messageRepo.MarkConversationRead(ctx, uid, partner); err != nil {
		return nil, errors.Internal("Failed to mark conversation as read", err)
	}

	convs, err := uc.ListConversations(ctx, uid)
	if err != nil {
		return nil, err
	}

	conv := service.FindConversation(convs, partner.Key())
	if conv == nil {
		return nil, errors.NotFound("Conversation", nil)
	}

	ordered := make([]*entity.Message, len(conv.Messages))
	for i, m := range conv.Messages {
		ordered[len(conv.Messages)-1-i] = m
	}
	conv.Messages = ordered
	return conv, nil
}

func (uc *MessageUseCase) DeleteConversation(ctx context.Context, uid, partnerKey string) (int, error) {
	n, err := uc.messageRepo.DeleteConversation(ctx, uid, entity.ParsePartnerKey(partnerKey))
	if err != nil {
		return 0, errors.Internal("Failed to delete conversation", err)
	}
	return n, nil
}

func (uc *MessageUseCase) UnreadCount(ctx context.Context, uid string) (int, error) {
	n, err := uc.messageRepo.CountUnread(ctx, uid)
	if err != nil {
		return 0, errors.Internal("Failed to count unread messages", err)
	}
	return n, nil
}
