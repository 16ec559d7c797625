package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"esekoir/internal/domain/entity"
	"esekoir/internal/infrastructure/database"
)

const commentColumns = `id, user_id, context_type, context_key, content, is_guest, guest_name, guest_key, parent_id, likes_count, dislikes_count, created_at`

type sqliteCommentRepository struct {
	db *sql.DB
}

func scanComment(row rowScanner) (*entity.Comment, error) {
	var (
		c         entity.Comment
		guest     int
		parentID  sql.NullString
		createdAt int64
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.ContextType, &c.ContextKey, &c.Content, &guest,
		&c.GuestName, &c.GuestKey, &parentID, &c.LikesCount, &c.DislikesCount, &createdAt); err != nil {
		return nil, err
	}
	c.IsGuest = guest == 1
	c.ParentID = parentID.String
	c.CreatedAt = fromUnixNano(createdAt)
	return &c, nil
}

func (r *sqliteCommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (`+commentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, string(c.ContextType), c.ContextKey, c.Content, boolInt(c.IsGuest),
		c.GuestName, c.GuestKey, nullableString(c.ParentID), c.LikesCount, c.DislikesCount, unixNano(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *sqliteCommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id))
	if err != nil {
		return nil, notFound("get comment", err)
	}
	return c, nil
}

func (r *sqliteCommentRepository) ListByContext(ctx context.Context, cctx entity.CommentContext) ([]*entity.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE context_type = ? AND context_key = ?
		 ORDER BY created_at DESC, id DESC`, string(cctx.Type), cctx.Key)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []*entity.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Delete relies on ON DELETE CASCADE for replies and reactions.
func (r *sqliteCommentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return requireAffected(res, "delete comment")
}

func (r *sqliteCommentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

type sqliteReactionRepository struct {
	db *sql.DB
}

func (r *sqliteReactionRepository) Toggle(ctx context.Context, commentID, actorKey string, requested entity.ReactionKind) (entity.ReactionKind, entity.ReactionCounts, error) {
	var (
		result entity.ReactionKind
		counts entity.ReactionCounts
	)

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`SELECT likes_count, dislikes_count FROM comments WHERE id = ?`, commentID).
			Scan(&counts.Likes, &counts.Dislikes); err != nil {
			return notFound("toggle reaction", err)
		}

		var current string
		err := tx.QueryRowContext(ctx,
			`SELECT kind FROM comment_reactions WHERE comment_id = ? AND actor_key = ?`,
			commentID, actorKey).Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("read reaction: %w", err)
		}

		before := entity.ReactionKind(current)
		result = entity.ToggleReaction(before, requested)

		if result == entity.ReactionNone {
			_, err = tx.ExecContext(ctx,
				`DELETE FROM comment_reactions WHERE comment_id = ? AND actor_key = ?`, commentID, actorKey)
		} else {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO comment_reactions (comment_id, actor_key, kind, created_at) VALUES (?, ?, ?, ?)
				 ON CONFLICT(comment_id, actor_key) DO UPDATE SET kind = excluded.kind, created_at = excluded.created_at`,
				commentID, actorKey, string(result), time.Now().UnixNano())
		}
		if err != nil {
			return fmt.Errorf("write reaction: %w", err)
		}

		counts = counts.Apply(before, result)
		if _, err := tx.ExecContext(ctx,
			`UPDATE comments SET likes_count = ?, dislikes_count = ? WHERE id = ?`,
			counts.Likes, counts.Dislikes, commentID); err != nil {
			return fmt.Errorf("update reaction counts: %w", err)
		}
		return nil
	})
	if err != nil {
		return entity.ReactionNone, entity.ReactionCounts{}, err
	}
	return result, counts, nil
}

func (r *sqliteReactionRepository) ListForActor(ctx context.Context, commentIDs []string, actorKey string) (map[string]entity.ReactionKind, error) {
	marks := make(map[string]entity.ReactionKind)
	if len(commentIDs) == 0 || actorKey == "" {
		return marks, nil
	}

	args := append([]any{actorKey}, stringArgs(commentIDs)...)
	rows, err := r.db.QueryContext(ctx,
		`SELECT comment_id, kind FROM comment_reactions WHERE actor_key = ? AND comment_id IN (`+placeholders(len(commentIDs))+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, kind string
		if err := rows.Scan(&id, &kind); err != nil {
			return nil, fmt.Errorf("scan reaction: %w", err)
		}
		marks[id] = entity.ReactionKind(kind)
	}
	return marks, rows.Err()
}

