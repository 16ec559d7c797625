package repository

import (
	"context"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/utils"
)

type NotificationRepository interface {
	// Create writes the notification under its id; writing the same id
	// twice leaves one notification.
	Create(ctx context.Context, notification *entity.Notification) error
	ListByUser(ctx context.Context, userID string, page utils.Pagination) ([]*entity.Notification, int64, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}

type SettingRepository interface {
	List(ctx context.Context) ([]*entity.SiteSetting, error)
	Get(ctx context.Context, key string) (*entity.SiteSetting, error)
	Upsert(ctx context.Context, setting *entity.SiteSetting) error
}

type CurrencyRepository interface {
	List(ctx context.Context, activeOnly bool) ([]*entity.Currency, error)
	Get(ctx context.Context, code string) (*entity.Currency, error)
	Upsert(ctx context.Context, currency *entity.Currency) error
	Delete(ctx context.Context, code string) error
}
