package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esekoir/internal/domain/entity"
	"esekoir/internal/infrastructure/websocket"
	"esekoir/pkg/errors"
)

func newMessageUseCase(t *testing.T) (*MessageUseCase, *recordingPublisher) {
	gw := newTestGateway(t)
	createProfile(t, gw, "alice", "Alice")
	createProfile(t, gw, "bob", "Bob")
	pub := &recordingPublisher{}
	return NewMessageUseCase(gw.Messages, gw.Profiles, pub), pub
}

func TestSendMessageValidation(t *testing.T) {
	ctx := context.Background()
	uc, _ := newMessageUseCase(t)

	_, err := uc.SendMessage(ctx, entity.UserActor("alice"), SendMessageInput{ReceiverID: "bob", Content: "   "})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = uc.SendMessage(ctx, entity.UserActor("alice"), SendMessageInput{ReceiverID: "alice", Content: "hi"})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = uc.SendMessage(ctx, entity.UserActor("alice"), SendMessageInput{ReceiverID: "nobody", Content: "hi"})
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, err = uc.SendMessage(ctx, entity.GuestActor("guest-123456"), SendMessageInput{ReceiverID: "bob", Content: "hi"})
	assert.True(t, errors.Is(err, errors.CodeBadRequest), "guests must give a name")
}

func TestConversationFlow(t *testing.T) {
	ctx := context.Background()
	uc, pub := newMessageUseCase(t)

	_, err := uc.SendMessage(ctx, entity.UserActor("alice"), SendMessageInput{ReceiverID: "bob", Content: "first"})
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, entity.UserActor("alice"), SendMessageInput{ReceiverID: "bob", Content: "second"})
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, entity.GuestActor("guest-123456"), SendMessageInput{ReceiverID: "bob", Content: "from guest", SenderName: "Karim"})
	require.NoError(t, err)

	assert.Equal(t, 3, pub.count("bob", websocket.EventMessageCreated))
	assert.Equal(t, 2, pub.count("alice", websocket.EventMessageCreated))

	unread, err := uc.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 3, unread)

	convs, err := uc.ListConversations(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	byKey := map[string]*entity.Conversation{}
	for _, c := range convs {
		byKey[c.PartnerID] = c
	}
	require.Contains(t, byKey, "alice")
	require.Contains(t, byKey, "guest:Karim")
	assert.Equal(t, "Alice", byKey["alice"].PartnerName)
	assert.Equal(t, "Karim", byKey["guest:Karim"].PartnerName)
	assert.Equal(t, 2, byKey["alice"].UnreadCount)

	conv, err := uc.OpenConversation(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "first", conv.Messages[0].Content)
	assert.Equal(t, "second", conv.Messages[1].Content)
	assert.Equal(t, 0, conv.UnreadCount)

	unread, err = uc.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	// Alice's own view is untouched by Bob reading.
	aliceConvs, err := uc.ListConversations(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, aliceConvs, 1)
	assert.Equal(t, 0, aliceConvs[0].UnreadCount)

	n, err := uc.DeleteConversation(ctx, "bob", "guest:Karim")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	convs, err = uc.ListConversations(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "alice", convs[0].PartnerID)

	_, err = uc.OpenConversation(ctx, "bob", "guest:Karim")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
