package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/utils"
)

type sqliteNotificationRepository struct {
	db *sql.DB
}

func (r *sqliteNotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, type, title, body, link, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		n.ID, n.UserID, n.Type, n.Title, n.Body, n.Link, boolInt(n.IsRead), unixNano(n.CreatedAt))
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *sqliteNotificationRepository) ListByUser(ctx context.Context, userID string, page utils.Pagination) ([]*entity.Notification, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, title, body, link, is_read, created_at FROM notifications
		 WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []*entity.Notification{}
	for rows.Next() {
		var (
			n         entity.Notification
			read      int
			createdAt int64
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.Link, &read, &createdAt); err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		n.IsRead = read == 1
		n.CreatedAt = fromUnixNano(createdAt)
		out = append(out, &n)
	}
	return out, total, rows.Err()
}

func (r *sqliteNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return requireAffected(res, "mark notification read")
}

func (r *sqliteNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *sqliteNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

type sqliteSettingRepository struct {
	db *sql.DB
}

func (r *sqliteSettingRepository) List(ctx context.Context) ([]*entity.SiteSetting, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, updated_at FROM site_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	out := []*entity.SiteSetting{}
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSetting(row rowScanner) (*entity.SiteSetting, error) {
	var (
		s         entity.SiteSetting
		value     string
		updatedAt int64
	)
	if err := row.Scan(&s.Key, &value, &updatedAt); err != nil {
		return nil, err
	}
	s.Value = json.RawMessage(value)
	s.UpdatedAt = fromUnixNano(updatedAt)
	return &s, nil
}

func (r *sqliteSettingRepository) Get(ctx context.Context, key string) (*entity.SiteSetting, error) {
	s, err := scanSetting(r.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM site_settings WHERE key = ?`, key))
	if err != nil {
		return nil, notFound("get setting", err)
	}
	return s, nil
}

func (r *sqliteSettingRepository) Upsert(ctx context.Context, s *entity.SiteSetting) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO site_settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.Key, string(s.Value), unixNano(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

type sqliteCurrencyRepository struct {
	db *sql.DB
}

func (r *sqliteCurrencyRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Currency, error) {
	query := `SELECT code, name, symbol, flag, is_active, display_order, updated_at FROM currencies`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY display_order, code`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()

	out := []*entity.Currency{}
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCurrency(row rowScanner) (*entity.Currency, error) {
	var (
		c         entity.Currency
		active    int
		updatedAt int64
	)
	if err := row.Scan(&c.Code, &c.Name, &c.Symbol, &c.Flag, &active, &c.DisplayOrder, &updatedAt); err != nil {
		return nil, err
	}
	c.IsActive = active == 1
	c.UpdatedAt = fromUnixNano(updatedAt)
	return &c, nil
}

func (r *sqliteCurrencyRepository) Get(ctx context.Context, code string) (*entity.Currency, error) {
	c, err := scanCurrency(r.db.QueryRowContext(ctx,
		`SELECT code, name, symbol, flag, is_active, display_order, updated_at FROM currencies WHERE code = ?`, code))
	if err != nil {
		return nil, notFound("get currency", err)
	}
	return c, nil
}

func (r *sqliteCurrencyRepository) Upsert(ctx context.Context, c *entity.Currency) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO currencies (code, name, symbol, flag, is_active, display_order, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET name = excluded.name, symbol = excluded.symbol, flag = excluded.flag,
		 is_active = excluded.is_active, display_order = excluded.display_order, updated_at = excluded.updated_at`,
		c.Code, c.Name, c.Symbol, c.Flag, boolInt(c.IsActive), c.DisplayOrder, unixNano(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert currency: %w", err)
	}
	return nil
}

func (r *sqliteCurrencyRepository) Delete(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM currencies WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("delete currency: %w", err)
	}
	return requireAffected(res, "delete currency")
}
