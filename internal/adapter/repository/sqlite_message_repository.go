package repository

import (
	"context"
	"database/sql"
	"fmt"

	"esekoir/internal/domain/entity"
)

const messageColumns = `id, sender_id, receiver_id, sender_name, content, listing_id, is_read, created_at`

type sqliteMessageRepository struct {
	db *sql.DB
}

func scanMessage(row rowScanner) (*entity.Message, error) {
	var (
		m         entity.Message
		read      int
		createdAt int64
	)
	if err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.SenderName, &m.Content,
		&m.ListingID, &read, &createdAt); err != nil {
		return nil, err
	}
	m.IsRead = read == 1
	m.CreatedAt = fromUnixNano(createdAt)
	return &m, nil
}

func (r *sqliteMessageRepository) Create(ctx context.Context, m *entity.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.SenderID, m.ReceiverID, m.SenderName, m.Content, m.ListingID,
		boolInt(m.IsRead), unixNano(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (r *sqliteMessageRepository) ListForUser(ctx context.Context, userID string) ([]*entity.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE sender_id = ? OR receiver_id = ?
		 ORDER BY created_at DESC, id DESC`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []*entity.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// inboundFrom builds the predicate for messages the partner sent to userID.
func inboundFrom(userID string, partner entity.Partner) (string, []any) {
	if partner.IsGuest() {
		return `receiver_id = ? AND sender_id = '' AND sender_name = ?`, []any{userID, partner.GuestName}
	}
	return `receiver_id = ? AND sender_id = ?`, []any{userID, partner.UserID}
}

func (r *sqliteMessageRepository) MarkConversationRead(ctx context.Context, userID string, partner entity.Partner) (int, error) {
	where, args := inboundFrom(userID, partner)
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = 1 WHERE is_read = 0 AND `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("mark conversation read: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *sqliteMessageRepository) DeleteConversation(ctx context.Context, userID string, partner entity.Partner) (int, error) {
	var (
		res sql.Result
		err error
	)
	if partner.IsGuest() {
		where, args := inboundFrom(userID, partner)
		res, err = r.db.ExecContext(ctx, `DELETE FROM messages WHERE `+where, args...)
	} else {
		res, err = r.db.ExecContext(ctx,
			`DELETE FROM messages WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)`,
			userID, partner.UserID, partner.UserID, userID)
	}
	if err != nil {
		return 0, fmt.Errorf("delete conversation: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *sqliteMessageRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = ? AND is_read = 0 AND sender_id <> ?`,
		userID, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return n, nil
}
