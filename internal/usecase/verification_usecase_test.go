package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/errors"
	"esekoir/pkg/utils"
)

func TestVerificationFlow(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	createProfile(t, gw, "alice", "Alice")
	notifier := NewNotificationUseCase(gw.Notifications, nil)
	uc := NewVerificationUseCase(gw.Verifications, gw.Profiles, notifier, newTestBlobs(t), nil)

	plan, err := uc.SavePlan(ctx, PlanInput{Name: "Gold", Price: 2000, DurationDays: 30, Features: []string{"badge"}, IsActive: true})
	require.NoError(t, err)

	hidden, err := uc.SavePlan(ctx, PlanInput{Name: "Legacy", Price: 500, DurationDays: 7})
	require.NoError(t, err)

	active, err := uc.ListPlans(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, []string{"badge"}, active[0].Features)

	_, err = uc.SubmitRequest(ctx, "alice", SubmitVerificationInput{PlanID: hidden.ID})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	req, err := uc.SubmitRequest(ctx, "alice", SubmitVerificationInput{
		PlanID:           plan.ID,
		Document:         strings.NewReader("jpeg"),
		DocumentType:     "image/jpeg",
		DocumentFilename: "id.jpg",
	})
	require.NoError(t, err)
	assert.Contains(t, req.DocumentURL, "verifications/alice/")

	_, err = uc.SubmitRequest(ctx, "alice", SubmitVerificationInput{PlanID: plan.ID})
	assert.True(t, errors.Is(err, errors.CodeConflict))

	pending, total, err := uc.ListRequests(ctx, entity.StatusPending, utils.NewPagination(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, req.ID, pending[0].ID)

	_, err = uc.ApproveRequest(ctx, "admin", req.ID, "")
	require.NoError(t, err)
	_, err = uc.ApproveRequest(ctx, "admin", req.ID, "")
	require.NoError(t, err)

	profile, err := gw.Profiles.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, profile.IsVerified)

	unread, err := notifier.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	_, err = uc.RejectRequest(ctx, "admin", req.ID, "")
	assert.True(t, errors.Is(err, errors.CodeConflict))

	require.NoError(t, uc.DeletePlan(ctx, hidden.ID))
	assert.True(t, errors.Is(uc.DeletePlan(ctx, hidden.ID), errors.CodeNotFound))
}
