package repository

import (
	"context"

	"esekoir/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	// ListByContext returns every comment of a context, newest first.
	ListByContext(ctx context.Context, cctx entity.CommentContext) ([]*entity.Comment, error)
	// Delete removes the comment, its replies and every reaction on them.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type ReactionRepository interface {
	// Toggle applies entity.ToggleReaction for the actor and updates the
	// comment counters in the same transaction.
	Toggle(ctx context.Context, commentID, actorKey string, requested entity.ReactionKind) (entity.ReactionKind, entity.ReactionCounts, error)
	// ListForActor returns the actor's marks keyed by comment id.
	ListForActor(ctx context.Context, commentIDs []string, actorKey string) (map[string]entity.ReactionKind, error)
}
