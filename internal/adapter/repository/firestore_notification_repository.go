package repository

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/firestore"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/pkg/errors"
	"esekoir/pkg/utils"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	_, err := r.client.Collection("notifications").Doc(n.ID).Create(ctx, n)
	if err != nil && !isAlreadyExists(err) {
		return errors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) ListByUser(ctx context.Context, userID string, page utils.Pagination) ([]*entity.Notification, int64, error) {
	query := r.client.Collection("notifications").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)

	total, err := countQuery(ctx, query, "notifications")
	if err != nil {
		return nil, 0, err
	}
	list, err := collect[entity.Notification](ctx, query.Offset(page.Offset()).Limit(page.Limit), "notifications")
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	ref := r.client.Collection("notifications").Doc(id)
	doc, err := ref.Get(ctx)
	if err != nil {
		return getError("Notification", err)
	}
	var n entity.Notification
	if err := doc.DataTo(&n); err != nil {
		return errors.Internal("Failed to parse notification data", err)
	}
	if n.UserID != userID {
		return errors.NotFound("Notification", repository.ErrNotFound)
	}
	if _, err := ref.Update(ctx, []firestore.Update{{Path: "isRead", Value: true}}); err != nil {
		return errors.Internal("Failed to mark notification read", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	docs, err := r.client.Collection("notifications").
		Where("userId", "==", userID).
		Where("isRead", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to load notifications", err)
	}

	n, err := updateAll(ctx, r.client, docs, []firestore.Update{{Path: "isRead", Value: true}})
	if err != nil {
		return n, errors.Internal("Failed to mark notifications read", err)
	}
	return n, nil
}

func (r *firestoreNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	n, err := countQuery(ctx, r.client.Collection("notifications").
		Where("userId", "==", userID).
		Where("isRead", "==", false), "notifications")
	return int(n), err
}

type firestoreSettingRepository struct {
	client *firestore.Client
}

// Firestore cannot hold arbitrary JSON in one field, so the value is stored encoded.
type settingDoc struct {
	Key       string    `firestore:"key"`
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func (d *settingDoc) toEntity() *entity.SiteSetting {
	return &entity.SiteSetting{Key: d.Key, Value: json.RawMessage(d.Value), UpdatedAt: d.UpdatedAt}
}

func (r *firestoreSettingRepository) List(ctx context.Context) ([]*entity.SiteSetting, error) {
	docs, err := collect[settingDoc](ctx, r.client.Collection("site_settings").OrderBy("key", firestore.Asc), "settings")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.SiteSetting, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}

func (r *firestoreSettingRepository) Get(ctx context.Context, key string) (*entity.SiteSetting, error) {
	doc, err := r.client.Collection("site_settings").Doc(key).Get(ctx)
	if err != nil {
		return nil, getError("Setting", err)
	}
	var d settingDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, errors.Internal("Failed to parse setting data", err)
	}
	return d.toEntity(), nil
}

func (r *firestoreSettingRepository) Upsert(ctx context.Context, s *entity.SiteSetting) error {
	_, err := r.client.Collection("site_settings").Doc(s.Key).Set(ctx, settingDoc{
		Key:       s.Key,
		Value:     string(s.Value),
		UpdatedAt: s.UpdatedAt,
	})
	if err != nil {
		return errors.Internal("Failed to save setting", err)
	}
	return nil
}

type firestoreCurrencyRepository struct {
	client *firestore.Client
}

func (r *firestoreCurrencyRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Currency, error) {
	query := r.client.Collection("currencies").Query
	if activeOnly {
		query = query.Where("isActive", "==", true)
	}
	return collect[entity.Currency](ctx, query.OrderBy("displayOrder", firestore.Asc), "currencies")
}

func (r *firestoreCurrencyRepository) Get(ctx context.Context, code string) (*entity.Currency, error) {
	doc, err := r.client.Collection("currencies").Doc(code).Get(ctx)
	if err != nil {
		return nil, getError("Currency", err)
	}
	var c entity.Currency
	if err := doc.DataTo(&c); err != nil {
		return nil, errors.Internal("Failed to parse currency data", err)
	}
	return &c, nil
}

func (r *firestoreCurrencyRepository) Upsert(ctx context.Context, c *entity.Currency) error {
	if _, err := r.client.Collection("currencies").Doc(c.Code).Set(ctx, c); err != nil {
		return errors.Internal("Failed to save currency", err)
	}
	return nil
}

func (r *firestoreCurrencyRepository) Delete(ctx context.Context, code string) error {
	ref := r.client.Collection("currencies").Doc(code)
	if _, err := ref.Get(ctx); err != nil {
		return getError("Currency", err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return errors.Internal("Failed to delete currency", err)
	}
	return nil
}
