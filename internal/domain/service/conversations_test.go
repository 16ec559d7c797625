package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esekoir/internal/domain/entity"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func msg(id, from, to string, read bool, minute int) *entity.Message {
	return &entity.Message{
		ID:         id,
		SenderID:   from,
		ReceiverID: to,
		Content:    "content " + id,
		IsRead:     read,
		CreatedAt:  t0.Add(time.Duration(minute) * time.Minute),
	}
}

func TestGroupIntoConversationsUnreadCountsOnlyInbound(t *testing.T) {
	messages := []*entity.Message{
		msg("1", "A", "B", false, 0),
		msg("2", "B", "A", true, 1),
	}

	convs := GroupIntoConversations(messages, "B", map[string]string{"A": "Amine"})
	require.Len(t, convs, 1)
	assert.Equal(t, "A", convs[0].PartnerID)
	assert.Equal(t, "Amine", convs[0].PartnerName)
	assert.Equal(t, 1, convs[0].UnreadCount)

	convs = GroupIntoConversations(messages, "A", nil)
	require.Len(t, convs, 1)
	assert.Equal(t, 0, convs[0].UnreadCount)
}

func TestGroupIntoConversationsLastMessageIsMax(t *testing.T) {
	asc := []*entity.Message{
		msg("1", "A", "B", true, 0),
		msg("2", "B", "A", true, 5),
		msg("3", "A", "B", true, 2),
	}
	desc := []*entity.Message{asc[1], asc[2], asc[0]}

	for _, input := range [][]*entity.Message{asc, desc} {
		convs := GroupIntoConversations(input, "A", nil)
		require.Len(t, convs, 1)
		assert.Equal(t, "content 2", convs[0].LastMessage)
		assert.Equal(t, t0.Add(5*time.Minute), convs[0].LastDate)
		assert.Equal(t, input, convs[0].Messages)
	}
}

func TestGroupIntoConversationsSortedByLastDate(t *testing.T) {
	messages := []*entity.Message{
		msg("1", "A", "C", true, 1),
		msg("2", "D", "A", false, 9),
		msg("3", "A", "B", true, 4),
		{ID: "4", ReceiverID: "A", SenderName: "Karim", Content: "hello", CreatedAt: t0.Add(6 * time.Minute)},
		{ID: "5", ReceiverID: "A", Content: "anon", CreatedAt: t0.Add(7 * time.Minute)},
	}

	convs := GroupIntoConversations(messages, "A", map[string]string{"B": "Bilal"})
	require.Len(t, convs, 5)

	keys := make([]string, 0, len(convs))
	for _, c := range convs {
		keys = append(keys, c.PartnerID)
	}
	assert.Equal(t, []string{"D", "guest", "guest:Karim", "B", "C"}, keys)

	assert.Equal(t, DefaultAuthorName, convs[0].PartnerName)
	assert.Equal(t, DefaultAuthorName, convs[1].PartnerName)
	assert.True(t, convs[1].IsGuest)
	assert.Equal(t, "Karim", convs[2].PartnerName)
	assert.Equal(t, "Bilal", convs[3].PartnerName)
}

func TestGroupIntoConversationsIgnoresForeignMessages(t *testing.T) {
	convs := GroupIntoConversations([]*entity.Message{msg("1", "X", "Y", false, 0)}, "A", nil)
	assert.Empty(t, convs)
}

func TestGroupIntoConversationsPartnerNameFromInboundSnapshot(t *testing.T) {
	messages := []*entity.Message{
		{ID: "1", SenderID: "A", ReceiverID: "B", SenderName: "Me", CreatedAt: t0},
		{ID: "2", SenderID: "B", ReceiverID: "A", SenderName: "Badr", CreatedAt: t0.Add(time.Minute)},
	}
	convs := GroupIntoConversations(messages, "A", nil)
	require.Len(t, convs, 1)
	assert.Equal(t, "Badr", convs[0].PartnerName)
}
