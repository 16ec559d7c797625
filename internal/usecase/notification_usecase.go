package usecase

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/internal/infrastructure/websocket"
	"esekoir/pkg/errors"
	"esekoir/pkg/utils"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	events           EventPublisher
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository, events EventPublisher) *NotificationUseCase {
	if events == nil {
		events = nopPublisher{}
	}
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		events:           events,
	}
}

// Notify stores n and pushes it to the recipient. An empty id gets a fresh
// uuid; a fixed id makes the call idempotent.
func (uc *NotificationUseCase) Notify(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if err := uc.notificationRepo.Create(ctx, n); err != nil {
		return errors.Internal("Failed to create notification", err)
	}

	uc.events.Publish(n.UserID, websocket.Event{Type: websocket.EventNotificationCreated, Data: n})
	return nil
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string, page utils.Pagination) ([]*entity.Notification, int64, error) {
	items, total, err := uc.notificationRepo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list notifications", err)
	}
	return items, total, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, id string) error {
	if err := uc.notificationRepo.MarkRead(ctx, userID, id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFound("Notification", err)
		}
		return errors.Internal("Failed to mark notification as read", err)
	}
	return nil
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (int, error) {
	n, err := uc.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, errors.Internal("Failed to mark notifications as read", err)
	}
	return n, nil
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int, error) {
	n, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.Internal("Failed to count notifications", err)
	}
	return n, nil
}
