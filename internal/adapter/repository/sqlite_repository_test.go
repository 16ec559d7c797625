package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/internal/infrastructure/database"
	"esekoir/pkg/utils"
)

func testGateway(t *testing.T) *repository.Gateway {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteGateway(db.Conn)
}

var base = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func seedMessage(t *testing.T, gw *repository.Gateway, id, from, to, name string, minute int) {
	t.Helper()
	require.NoError(t, gw.Messages.Create(context.Background(), &entity.Message{
		ID:         id,
		SenderID:   from,
		ReceiverID: to,
		SenderName: name,
		Content:    "m" + id,
		CreatedAt:  base.Add(time.Duration(minute) * time.Minute),
	}))
}

func TestDeleteConversationRemovesOnlyThePair(t *testing.T) {
	ctx := context.Background()
	gw := testGateway(t)

	seedMessage(t, gw, "1", "A", "B", "", 0)
	seedMessage(t, gw, "2", "B", "A", "", 1)
	seedMessage(t, gw, "3", "A", "C", "", 2)
	seedMessage(t, gw, "4", "C", "B", "", 3)
	seedMessage(t, gw, "5", "", "A", "Guest", 4)

	n, err := gw.Messages.DeleteConversation(ctx, "A", entity.Partner{UserID: "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	remaining, err := gw.Messages.ListForUser(ctx, "A")
	require.NoError(t, err)
	ids := []string{}
	for _, m := range remaining {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"5", "3"}, ids)

	forB, err := gw.Messages.ListForUser(ctx, "B")
	require.NoError(t, err)
	require.Len(t, forB, 1)
	assert.Equal(t, "4", forB[0].ID)
}

func TestDeleteGuestConversation(t *testing.T) {
	ctx := context.Background()
	gw := testGateway(t)

	seedMessage(t, gw, "1", "", "A", "Nadia", 0)
	seedMessage(t, gw, "2", "", "A", "Nadia", 1)
	seedMessage(t, gw, "3", "", "A", "", 2)

	n, err := gw.Messages.DeleteConversation(ctx, "A", entity.ParsePartnerKey("guest:Nadia"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = gw.Messages.DeleteConversation(ctx, "A", entity.ParsePartnerKey(entity.GuestPartnerKey))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMarkConversationReadOnlyInbound(t *testing.T) {
	ctx := context.Background()
	gw := testGateway(t)

	seedMessage(t, gw, "1", "B", "A", "", 0)
	seedMessage(t, gw, "2", "B", "A", "", 1)
	seedMessage(t, gw, "3", "A", "B", "", 2)
	seedMessage(t, gw, "4", "C", "A", "", 3)

	unread, err := gw.Messages.CountUnread(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 3, unread)

	n, err := gw.Messages.MarkConversationRead(ctx, "A", entity.Partner{UserID: "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	unread, err = gw.Messages.CountUnread(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	unread, err = gw.Messages.CountUnread(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}

func seedComment(t *testing.T, gw *repository.Gateway, id, parent string) {
	t.Helper()
	require.NoError(t, gw.Comments.Create(context.Background(), &entity.Comment{
		ID:          id,
		UserID:      "author",
		ContextType: entity.CommentContextCurrency,
		ContextKey:  "EUR",
		Content:     "text " + id,
		ParentID:    parent,
		CreatedAt:   base,
	}))
}

func countReactions(t *testing.T, gw *repository.Gateway, commentID, actorKey string) (likes, dislikes int) {
	t.Helper()
	marks, err := gw.Reactions.ListForActor(context.Background(), []string{commentID}, actorKey)
	require.NoError(t, err)
	switch marks[commentID] {
	case entity.ReactionLike:
		likes = 1
	case entity.ReactionDislike:
		dislikes = 1
	}
	return likes, dislikes
}

func TestReactionToggleIsExclusive(t *testing.T) {
	ctx := context.Background()
	gw := testGateway(t)
	seedComment(t, gw, "c1", "")
	actor := entity.UserActor("u1").Key()

	kind, counts, err := gw.Reactions.Toggle(ctx, "c1", actor, entity.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionDislike, kind)
	assert.Equal(t, entity.ReactionCounts{Likes: 0, Dislikes: 1}, counts)

	kind, counts, err = gw.Reactions.Toggle(ctx, "c1", actor, entity.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionLike, kind)
	assert.Equal(t, entity.ReactionCounts{Likes: 1, Dislikes: 0}, counts)

	likes, dislikes := countReactions(t, gw, "c1", actor)
	assert.Equal(t, 1, likes)
	assert.Equal(t, 0, dislikes)

	kind, counts, err = gw.Reactions.Toggle(ctx, "c1", actor, entity.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionNone, kind)
	assert.Equal(t, entity.ReactionCounts{}, counts)

	c, err := gw.Comments.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, c.LikesCount)
	assert.Zero(t, c.DislikesCount)
}

func TestReactionCountsAcrossActors(t *testing.T) {
	ctx := context.Background()
	gw := testGateway(t)
	seedComment(t, gw, "c1", "")

	sequence := []entity.ReactionKind{entity.ReactionLike, entity.ReactionDislike, entity.ReactionDislike, entity.ReactionLike}
	for i := 0; i < 5; i++ {
		actor := entity.GuestActor(fmt.Sprintf("g%d", i)).Key()
		for _, k := range sequence[:i%len(sequence)+1] {
			_, _, err := gw.Reactions.Toggle(ctx, "c1", actor, k)
			require.NoError(t, err)
		}
	}

	// Actor i ends with: like, dislike, none, like, like.
	c, err := gw.Comments.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, c.LikesCount)
	assert.Equal(t, 1, c.DislikesCount)
}

func TestReactionOnMissingComment(t *testing.T) {
	gw := testGateway(t)
	_, _, err := gw.Reactions.Toggle(context.Background(), "nope", "user:x", entity.ReactionLike)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteCommentCascades(t *testing.T) {
	ctx := context.Background()
	gw := testGateway(t)
	seedComment(t, gw, "top", "")
	seedComment(t, gw, "reply", "top")
	_, _, err := gw.Reactions.Toggle(ctx, "reply", "user:x", entity.ReactionLike)
	require.NoError(t, err)

	require.NoError(t, gw.Comments.Delete(ctx, "top"))

	_, err = gw.Comments.GetByID(ctx, "reply")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	marks, err := gw.Reactions.ListForActor(ctx, []string{"reply"}, "user:x")
	require.NoError(t, err)
	assert.Empty(t, marks)

	assert.ErrorIs(t, gw.Comments.Delete(ctx, "top"), repository.ErrNotFound)
}

func TestAssignMemberNumberOnce(t *testing.T) {
	ctx := context.Background()
	gw := testGateway(t)
	for _, id := range []string{"a", "b"} {
		require.NoError(t, gw.Profiles.Create(ctx, &entity.Profile{UserID: id, FullName: id, CreatedAt: base, UpdatedAt: base}))
	}

	n, err := gw.Profiles.AssignMemberNumber(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = gw.Profiles.AssignMemberNumber(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = gw.Profiles.AssignMemberNumber(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = gw.Profiles.AssignMemberNumber(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUsernameIsUnique(t *testing.T) {
	ctx := context.Background()
	gw := testGateway(t)
	require.NoError(t, gw.Profiles.Create(ctx, &entity.Profile{UserID: "a", Username: "amel", CreatedAt: base, UpdatedAt: base}))
	require.NoError(t, gw.Profiles.Create(ctx, &entity.Profile{UserID: "b", CreatedAt: base, UpdatedAt: base}))

	p, err := gw.Profiles.GetByID(ctx, "b")
	require.NoError(t, err)
	p.Username = "amel"
	assert.ErrorIs(t, gw.Profiles.Update(ctx, p), repository.ErrConflict)
}

func TestWalletCreditIsIdempotent(t *testing.T) {
	ctx := context.Background()
	gw := testGateway(t)

	txn := func() *entity.WalletTransaction {
		return &entity.WalletTransaction{ID: "charge_r1", Type: entity.WalletTxnCharge, Amount: 1500.5}
	}

	w, applied, err := gw.Wallets.Credit(ctx, "u1", txn())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 1500.5, w.Balance)

	w, applied, err = gw.Wallets.Credit(ctx, "u1", txn())
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 1500.5, w.Balance)

	txns, total, err := gw.Wallets.ListTransactions(ctx, "u1", utils.NewPagination(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, txns, 1)
	assert.Equal(t, 0.0, txns[0].PreviousBalance)
	assert.Equal(t, 1500.5, txns[0].NewBalance)
}

func TestDecideOnlyFromPending(t *testing.T) {
	ctx := context.Background()
	gw := testGateway(t)
	require.NoError(t, gw.ChargeRequests.Create(ctx, &entity.ChargeRequest{
		ID: "r1", UserID: "u1", Amount: 500, PaymentMethod: "ccp",
		Status: entity.StatusPending, CreatedAt: base, UpdatedAt: base,
	}))

	require.NoError(t, gw.ChargeRequests.Decide(ctx, "r1", entity.Decision{Approve: true, AdminID: "admin"}))
	err := gw.ChargeRequests.Decide(ctx, "r1", entity.Decision{Approve: false, AdminID: "admin"})
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.ErrorIs(t, gw.ChargeRequests.Decide(ctx, "missing", entity.Decision{}), repository.ErrNotFound)

	req, err := gw.ChargeRequests.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, req.Status)
	assert.Equal(t, "admin", req.ProcessedBy)
	assert.NotNil(t, req.ProcessedAt)
}

func TestNotificationCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	gw := testGateway(t)
	n := &entity.Notification{ID: "charge_r1", UserID: "u1", Type: entity.NotificationChargeApproved, Title: "t", CreatedAt: base}
	require.NoError(t, gw.Notifications.Create(ctx, n))
	require.NoError(t, gw.Notifications.Create(ctx, n))

	list, total, err := gw.Notifications.ListByUser(ctx, "u1", utils.NewPagination(1, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}

func TestSettingsUpsert(t *testing.T) {
	ctx := context.Background()
	gw := testGateway(t)
	require.NoError(t, gw.Settings.Upsert(ctx, &entity.SiteSetting{Key: entity.SettingCardBackground, Value: json.RawMessage(`{"url":"a"}`), UpdatedAt: base}))
	require.NoError(t, gw.Settings.Upsert(ctx, &entity.SiteSetting{Key: entity.SettingCardBackground, Value: json.RawMessage(`{"url":"b"}`), UpdatedAt: base}))

	s, err := gw.Settings.Get(ctx, entity.SettingCardBackground)
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"b"}`, string(s.Value))
}

func TestListingFilters(t *testing.T) {
	ctx := context.Background()
	gw := testGateway(t)
	listings := []*entity.Listing{
		{ID: "l1", SellerID: "s1", Title: "Selling EUR", Category: "currency", AssetCode: "EUR", Wilaya: "16", Status: entity.ListingActive},
		{ID: "l2", SellerID: "s2", Title: "USDT wanted", Category: "crypto", AssetCode: "USDT", Wilaya: "31", Status: entity.ListingActive},
		{ID: "l3", SellerID: "s1", Title: "Old gold", Category: "gold", Wilaya: "16", Status: entity.ListingSold},
	}
	for i, l := range listings {
		l.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		l.UpdatedAt = l.CreatedAt
		require.NoError(t, gw.Listings.Create(ctx, l))
	}

	page := utils.NewPagination(1, 10)
	got, total, err := gw.Listings.List(ctx, entity.ListingFilter{Status: entity.ListingActive}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "l2", got[0].ID)

	got, _, err = gw.Listings.List(ctx, entity.ListingFilter{Wilaya: "16", SellerID: "s1"}, page)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, _, err = gw.Listings.List(ctx, entity.ListingFilter{Query: "eur"}, page)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "l1", got[0].ID)
}
