package usecase

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/internal/domain/service"
	"esekoir/internal/infrastructure/websocket"
	"esekoir/pkg/errors"
	"esekoir/pkg/utils"
)

var eurThread = entity.CommentContext{Type: entity.CommentContextCurrency, Key: "eur"}

func newCommentUseCase(t *testing.T) (*CommentUseCase, *recordingPublisher, *NotificationUseCase) {
	gw := newTestGateway(t)
	createProfile(t, gw, "alice", "Alice")
	createProfile(t, gw, "bob", "Bob")
	createProfile(t, gw, "mod", "Moderator", entity.RoleUser, entity.RoleModerator)
	pub := &recordingPublisher{}
	notifier := NewNotificationUseCase(gw.Notifications, pub)
	return NewCommentUseCase(gw, notifier), pub, notifier
}

func TestPostCommentChecksContext(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newCommentUseCase(t)

	_, err := uc.PostComment(ctx, entity.UserActor("alice"), PostCommentInput{
		Context: entity.CommentContext{Type: entity.CommentContextCurrency, Key: "XYZ"}, Content: "hi",
	})
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, err = uc.PostComment(ctx, entity.UserActor("alice"), PostCommentInput{
		Context: entity.CommentContext{Type: entity.CommentContextListing, Key: "missing"}, Content: "hi",
	})
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, err = uc.PostComment(ctx, entity.GuestActor("guest-abcdefgh"), PostCommentInput{Context: eurThread, Content: "hi"})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	v, err := uc.PostComment(ctx, entity.UserActor("alice"), PostCommentInput{Context: eurThread, Content: "  EUR is up  "})
	require.NoError(t, err)
	assert.Equal(t, "EUR", v.ContextKey)
	assert.Equal(t, "EUR is up", v.Content)
	assert.Equal(t, "Alice", v.AuthorName)
}

func TestReplyThreadAndNotification(t *testing.T) {
	ctx := context.Background()
	uc, pub, notifier := newCommentUseCase(t)

	top, err := uc.PostComment(ctx, entity.UserActor("alice"), PostCommentInput{Context: eurThread, Content: "question"})
	require.NoError(t, err)

	reply, err := uc.Reply(ctx, entity.UserActor("bob"), top.ID, ReplyInput{Content: "answer"})
	require.NoError(t, err)
	_, err = uc.Reply(ctx, entity.GuestActor("guest-abcdefgh"), top.ID, ReplyInput{Content: "me too", GuestName: "Sofiane"})
	require.NoError(t, err)

	_, err = uc.Reply(ctx, entity.UserActor("alice"), reply.ID, ReplyInput{Content: "nested"})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	// Replying to yourself does not notify.
	_, err = uc.Reply(ctx, entity.UserActor("alice"), top.ID, ReplyInput{Content: "thanks"})
	require.NoError(t, err)

	notes, total, err := notifier.List(ctx, "alice", utils.NewPagination(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, entity.NotificationCommentReply, notes[0].Type)
	assert.Equal(t, 2, pub.count("alice", websocket.EventNotificationCreated))

	threads, err := uc.ListComments(ctx, eurThread, entity.Actor{})
	require.NoError(t, err)
	require.Len(t, threads, 1)
	require.Len(t, threads[0].Replies, 3)
	assert.Equal(t, "answer", threads[0].Replies[0].Content)
	assert.Equal(t, "Sofiane", threads[0].Replies[1].AuthorName)
}

func TestReactToggles(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newCommentUseCase(t)

	c, err := uc.PostComment(ctx, entity.UserActor("alice"), PostCommentInput{Context: eurThread, Content: "rate?"})
	require.NoError(t, err)

	guest := entity.GuestActor("guest-abcdefgh")

	res, err := uc.React(ctx, guest, c.ID, entity.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionLike, res.MyReaction)
	assert.Equal(t, entity.ReactionCounts{Likes: 1}, res.Counts)

	res, err = uc.React(ctx, guest, c.ID, entity.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionDislike, res.MyReaction)
	assert.Equal(t, entity.ReactionCounts{Dislikes: 1}, res.Counts)

	res, err = uc.React(ctx, entity.UserActor("bob"), c.ID, entity.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionCounts{Dislikes: 2}, res.Counts)

	res, err = uc.React(ctx, guest, c.ID, entity.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionNone, res.MyReaction)
	assert.Equal(t, entity.ReactionCounts{Dislikes: 1}, res.Counts)

	threads, err := uc.ListComments(ctx, eurThread, entity.UserActor("bob"))
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, entity.ReactionDislike, threads[0].MyReaction)
	assert.Equal(t, 1, threads[0].DislikesCount)

	_, err = uc.React(ctx, guest, c.ID, "love")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
	_, err = uc.React(ctx, guest, "missing", entity.ReactionLike)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestDeleteCommentPermissions(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newCommentUseCase(t)

	c, err := uc.PostComment(ctx, entity.UserActor("alice"), PostCommentInput{Context: eurThread, Content: "mine"})
	require.NoError(t, err)
	_, err = uc.Reply(ctx, entity.UserActor("bob"), c.ID, ReplyInput{Content: "reply"})
	require.NoError(t, err)

	err = uc.DeleteComment(ctx, "bob", c.ID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	require.NoError(t, uc.DeleteComment(ctx, "mod", c.ID))

	threads, err := uc.ListComments(ctx, eurThread, entity.Actor{})
	require.NoError(t, err)
	assert.Empty(t, threads)

	err = uc.DeleteComment(ctx, "alice", c.ID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

type failingNames struct {
	repository.ProfileRepository
}

func (failingNames) Names(context.Context, []string) (map[string]string, error) {
	return nil, stderrors.New("profiles unavailable")
}

func TestCommentAuthorFallsBackWhenLookupFails(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newCommentUseCase(t)
	uc.profileRepo = failingNames{uc.profileRepo}

	v, err := uc.PostComment(ctx, entity.UserActor("alice"), PostCommentInput{Context: eurThread, Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, service.DefaultAuthorName, v.AuthorName)
}
