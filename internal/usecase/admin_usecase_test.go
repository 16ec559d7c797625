package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/errors"
	"esekoir/pkg/utils"
)

func TestAdminStatsAndUsers(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	createProfile(t, gw, "alice", "Alice")
	createProfile(t, gw, "admin", "Admin", entity.RoleUser, entity.RoleAdmin)

	notifier := NewNotificationUseCase(gw.Notifications, nil)
	wallets := NewWalletUseCase(gw.Wallets, gw.ChargeRequests, notifier, newTestBlobs(t), nil)
	req, err := wallets.CreateChargeRequest(ctx, "alice", ChargeRequestInput{Amount: 700, PaymentMethod: "ccp"})
	require.NoError(t, err)
	_, err = wallets.CreateChargeRequest(ctx, "alice", ChargeRequestInput{Amount: 300, PaymentMethod: "ccp"})
	require.NoError(t, err)
	_, err = wallets.ApproveChargeRequest(ctx, "admin", req.ID, "")
	require.NoError(t, err)

	uc := NewAdminUseCase(gw)
	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Users)
	assert.Equal(t, int64(1), stats.PendingCharges)
	assert.Equal(t, float64(700), stats.TotalWalletBalance)

	users, total, err := uc.ListUsers(ctx, utils.NewPagination(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotEmpty(t, u.Roles)
	}
}

func TestSetRoles(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	createProfile(t, gw, "alice", "Alice")
	createProfile(t, gw, "admin", "Admin", entity.RoleUser, entity.RoleAdmin)
	uc := NewAdminUseCase(gw)

	roles, err := uc.SetRoles(ctx, "admin", "alice", []entity.Role{entity.RoleModerator, entity.RoleModerator})
	require.NoError(t, err)
	assert.ElementsMatch(t, []entity.Role{entity.RoleModerator, entity.RoleUser}, roles)

	stored, err := gw.Roles.GetRoles(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, roles, stored)

	_, err = uc.SetRoles(ctx, "admin", "admin", []entity.Role{entity.RoleUser})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = uc.SetRoles(ctx, "admin", "alice", []entity.Role{"owner"})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = uc.SetRoles(ctx, "admin", "ghost", []entity.Role{entity.RoleUser})
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
