package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/errors"
)

type firestoreCommentRepository struct {
	client *firestore.Client
}

func (r *firestoreCommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	if _, err := r.client.Collection("comments").Doc(c.ID).Set(ctx, c); err != nil {
		return errors.Internal("Failed to create comment", err)
	}
	return nil
}

func (r *firestoreCommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	doc, err := r.client.Collection("comments").Doc(id).Get(ctx)
	if err != nil {
		return nil, getError("Comment", err)
	}
	var c entity.Comment
	if err := doc.DataTo(&c); err != nil {
		return nil, errors.Internal("Failed to parse comment data", err)
	}
	return &c, nil
}

func (r *firestoreCommentRepository) ListByContext(ctx context.Context, cctx entity.CommentContext) ([]*entity.Comment, error) {
	query := r.client.Collection("comments").
		Where("contextType", "==", string(cctx.Type)).
		Where("contextKey", "==", cctx.Key).
		OrderBy("createdAt", firestore.Desc)
	return collect[entity.Comment](ctx, query, "comments")
}

func (r *firestoreCommentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection("comments").Doc(id).Get(ctx); err != nil {
		return getError("Comment", err)
	}

	replies, err := r.client.Collection("comments").Where("parentId", "==", id).Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to load replies", err)
	}

	queries := []firestore.Query{
		r.client.Collection("reactions").Where("commentId", "==", id),
		r.client.Collection("comments").Where("parentId", "==", id),
	}
	for _, reply := range replies {
		queries = append(queries, r.client.Collection("reactions").Where("commentId", "==", reply.Ref.ID))
	}
	if _, err := deleteAll(ctx, r.client, queries...); err != nil {
		return errors.Internal("Failed to delete replies", err)
	}

	if _, err := r.client.Collection("comments").Doc(id).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete comment", err)
	}
	return nil
}

func (r *firestoreCommentRepository) Count(ctx context.Context) (int64, error) {
	return countQuery(ctx, r.client.Collection("comments").Query, "comments")
}

type firestoreReactionRepository struct {
	client *firestore.Client
}

// One document per (comment, actor) keeps like and dislike exclusive.
func (r *firestoreReactionRepository) ref(commentID, actorKey string) *firestore.DocumentRef {
	return r.client.Collection("reactions").Doc(commentID + "_" + actorKey)
}

func (r *firestoreReactionRepository) Toggle(ctx context.Context, commentID, actorKey string, requested entity.ReactionKind) (entity.ReactionKind, entity.ReactionCounts, error) {
	var (
		result entity.ReactionKind
		counts entity.ReactionCounts
	)
	commentRef := r.client.Collection("comments").Doc(commentID)
	reactionRef := r.ref(commentID, actorKey)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		commentDoc, err := tx.Get(commentRef)
		if err != nil {
			return err
		}
		var c entity.Comment
		if err := commentDoc.DataTo(&c); err != nil {
			return err
		}

		before := entity.ReactionNone
		reactionDoc, err := tx.Get(reactionRef)
		switch {
		case err == nil:
			var existing entity.Reaction
			if err := reactionDoc.DataTo(&existing); err != nil {
				return err
			}
			before = existing.Kind
		case !isNotFound(err):
			return err
		}

		result = entity.ToggleReaction(before, requested)
		if result == entity.ReactionNone {
			err = tx.Delete(reactionRef)
		} else {
			err = tx.Set(reactionRef, entity.Reaction{
				CommentID: commentID,
				ActorKey:  actorKey,
				Kind:      result,
				CreatedAt: time.Now(),
			})
		}
		if err != nil {
			return err
		}

		counts = entity.ReactionCounts{Likes: c.LikesCount, Dislikes: c.DislikesCount}.Apply(before, result)
		return tx.Update(commentRef, []firestore.Update{
			{Path: "likesCount", Value: counts.Likes},
			{Path: "dislikesCount", Value: counts.Dislikes},
		})
	})
	if err != nil {
		return entity.ReactionNone, entity.ReactionCounts{}, getError("Comment", err)
	}
	return result, counts, nil
}

func (r *firestoreReactionRepository) ListForActor(ctx context.Context, commentIDs []string, actorKey string) (map[string]entity.ReactionKind, error) {
	marks := make(map[string]entity.ReactionKind)
	if len(commentIDs) == 0 || actorKey == "" {
		return marks, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(commentIDs))
	for _, id := range commentIDs {
		refs = append(refs, r.ref(id, actorKey))
	}
	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, errors.Internal("Failed to load reactions", err)
	}
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		var reaction entity.Reaction
		if err := doc.DataTo(&reaction); err != nil {
			continue
		}
		marks[reaction.CommentID] = reaction.Kind
	}
	return marks, nil
}
