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
	"esekoir/pkg/errors"
	"esekoir/pkg/logger"
)

const maxCommentLength = 1000

type CommentUseCase struct {
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
	profileRepo  repository.ProfileRepository
	roleRepo     repository.RoleRepository
	currencyRepo repository.CurrencyRepository
	listingRepo  repository.ListingRepository
	notifier     *NotificationUseCase
}

func NewCommentUseCase(gw *repository.Gateway, notifier *NotificationUseCase) *CommentUseCase {
	return &CommentUseCase{
		commentRepo:  gw.Comments,
		reactionRepo: gw.Reactions,
		profileRepo:  gw.Profiles,
		roleRepo:     gw.Roles,
		currencyRepo: gw.Currencies,
		listingRepo:  gw.Listings,
		notifier:     notifier,
	}
}

type PostCommentInput struct {
	Context   entity.CommentContext
	Content   string
	GuestName string
}

type ReplyInput struct {
	Content   string
	GuestName string
}

type ReactResult struct {
	CommentID  string                `json:"comment_id"`
	MyReaction entity.ReactionKind   `json:"my_reaction"`
	Counts     entity.ReactionCounts `json:"counts"`
}

// checkContext makes sure the thread target exists.
func (uc *CommentUseCase) checkContext(ctx context.Context, cctx entity.CommentContext) error {
	var err error
	switch cctx.Type {
	case entity.CommentContextCurrency:
		_, err = uc.currencyRepo.Get(ctx, strings.ToUpper(cctx.Key))
	case entity.CommentContextListing:
		_, err = uc.listingRepo.GetByID(ctx, cctx.Key)
	default:
		return errors.BadRequest("Unknown comment context", nil)
	}
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFound(string(cctx.Type), err)
		}
		return errors.Internal("Failed to load comment context", err)
	}
	return nil
}

func normalizeContext(cctx entity.CommentContext) entity.CommentContext {
	if cctx.Type == entity.CommentContextCurrency {
		cctx.Key = strings.ToUpper(strings.TrimSpace(cctx.Key))
	}
	return cctx
}

// ListComments returns the threads of a context with the viewer's own marks.
func (uc *CommentUseCase) ListComments(ctx context.Context, cctx entity.CommentContext, viewer entity.Actor) ([]*entity.CommentThread, error) {
	cctx = normalizeContext(cctx)
	if cctx.Type != entity.CommentContextCurrency && cctx.Type != entity.CommentContextListing {
		return nil, errors.BadRequest("Unknown comment context", nil)
	}

	comments, err := uc.commentRepo.ListByContext(ctx, cctx)
	if err != nil {
		return nil, errors.Internal("Failed to list comments", err)
	}

	seen := make(map[string]bool)
	var userIDs, commentIDs []string
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
		if !c.IsGuest && c.UserID != "" && !seen[c.UserID] {
			seen[c.UserID] = true
			userIDs = append(userIDs, c.UserID)
		}
	}

	names, err := uc.profileRepo.Names(ctx, userIDs)
	if err != nil {
		return nil, errors.Internal("Failed to load author names", err)
	}

	var marks map[string]entity.ReactionKind
	if !viewer.IsZero() && len(commentIDs) > 0 {
		marks, err = uc.reactionRepo.ListForActor(ctx, commentIDs, viewer.Key())
		if err != nil {
			return nil, errors.Internal("Failed to load reactions", err)
		}
	}

	return service.BuildCommentTree(comments, names, marks), nil
}

func (uc *CommentUseCase) newComment(actor entity.Actor, content, guestName string) (*entity.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.BadRequest("Comment content is required", nil)
	}
	if len([]rune(content)) > maxCommentLength {
		return nil, errors.BadRequest("Comment is too long", nil)
	}

	c := &entity.Comment{
		ID:        uuid.New().String(),
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if actor.IsGuest() {
		name := strings.TrimSpace(guestName)
		if name == "" {
			return nil, errors.BadRequest("Guests must provide a name", nil)
		}
		c.IsGuest = true
		c.GuestName = name
		c.GuestKey = actor.ID
	} else {
		c.UserID = actor.ID
	}
	return c, nil
}

func (uc *CommentUseCase) view(ctx context.Context, c *entity.Comment) *entity.CommentView {
	var names map[string]string
	if !c.IsGuest {
		var err error
		if names, err = uc.profileRepo.Names(ctx, []string{c.UserID}); err != nil {
			logger.Warn("[comments] author lookup for %s: %v", c.ID, err)
		}
	}
	return &entity.CommentView{Comment: c, AuthorName: service.AuthorName(c, names)}
}

func (uc *CommentUseCase) PostComment(ctx context.Context, actor entity.Actor, input PostCommentInput) (*entity.CommentView, error) {
	cctx := normalizeContext(input.Context)
	if err := uc.checkContext(ctx, cctx); err != nil {
		return nil, err
	}

	c, err := uc.newComment(actor, input.Content, input.GuestName)
	if err != nil {
		return nil, err
	}
	c.ContextType = cctx.Type
	c.ContextKey = cctx.Key

	if err := uc.commentRepo.Create(ctx, c); err != nil {
		return nil, errors.Internal("Failed to post comment", err)
	}
	return uc.view(ctx, c), nil
}

// Reply answers a top-level comment. Replies cannot be replied to.
func (uc *CommentUseCase) Reply(ctx context.Context, actor entity.Actor, parentID string, input ReplyInput) (*entity.CommentView, error) {
	parent, err := uc.commentRepo.GetByID(ctx, parentID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Comment", err)
		}
		return nil, errors.Internal("Failed to load comment", err)
	}
	if !parent.IsTopLevel() {
		return nil, errors.BadRequest("Cannot reply to a reply", nil)
	}

	c, err := uc.newComment(actor, input.Content, input.GuestName)
	if err != nil {
		return nil, err
	}
	c.ContextType = parent.ContextType
	c.ContextKey = parent.ContextKey
	c.ParentID = parent.ID

	if err := uc.commentRepo.Create(ctx, c); err != nil {
		return nil, errors.Internal("Failed to post reply", err)
	}

	v := uc.view(ctx, c)
	if !parent.IsGuest && !parent.AuthoredBy(actor) && uc.notifier != nil {
		if err := uc.notifier.Notify(ctx, &entity.Notification{
			ID:     "reply_" + c.ID,
			UserID: parent.UserID,
			Type:   entity.NotificationCommentReply,
			Title:  "New reply",
			Body:   v.AuthorName + " replied to your comment",
			Link:   "/" + string(parent.ContextType) + "/" + parent.ContextKey + "#comment-" + parent.ID,
		}); err != nil {
			logger.Warn("[comments] reply notification for %s failed: %v", c.ID, err)
		}
	}
	return v, nil
}

// React toggles the actor's mark on a comment: the same kind removes it,
// the other kind switches it.
func (uc *CommentUseCase) React(ctx context.Context, actor entity.Actor, commentID string, kind entity.ReactionKind) (*ReactResult, error) {
	if !kind.Valid() {
		return nil, errors.BadRequest("Reaction must be like or dislike", nil)
	}

	mark, counts, err := uc.reactionRepo.Toggle(ctx, commentID, actor.Key(), kind)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Comment", err)
		}
		return nil, errors.Internal("Failed to react to comment", err)
	}

	return &ReactResult{CommentID: commentID, MyReaction: mark, Counts: counts}, nil
}

// DeleteComment removes a comment with its replies and reactions. Authors
// and staff may delete.
func (uc *CommentUseCase) DeleteComment(ctx context.Context, uid, id string) error {
	c, err := uc.commentRepo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFound("Comment", err)
		}
		return errors.Internal("Failed to load comment", err)
	}

	if !c.AuthoredBy(entity.UserActor(uid)) {
		roles, err := uc.roleRepo.GetRoles(ctx, uid)
		if err != nil {
			return errors.Internal("Failed to load roles", err)
		}
		if !entity.HasRole(roles, entity.RoleAdmin, entity.RoleModerator) {
			return errors.Forbidden("You can only delete your own comments", nil)
		}
	}

	if err := uc.commentRepo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFound("Comment", err)
		}
		return errors.Internal("Failed to delete comment", err)
	}
	return nil
}
