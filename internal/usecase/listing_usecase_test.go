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

func TestListingLifecycle(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	createProfile(t, gw, "alice", "Alice")
	createProfile(t, gw, "bob", "Bob")
	createProfile(t, gw, "admin", "Admin", entity.RoleUser, entity.RoleAdmin)
	uc := NewListingUseCase(gw.Listings, gw.Roles)

	_, err := uc.CreateListing(ctx, "alice", CreateListingInput{Title: "x", Category: "stocks"})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	l, err := uc.CreateListing(ctx, "alice", CreateListingInput{
		Title: "Selling 500 EUR", Category: "Currency", AssetCode: "eur", Amount: 500, Price: 125000, Wilaya: "16",
	})
	require.NoError(t, err)
	assert.Equal(t, "currency", l.Category)
	assert.Equal(t, "EUR", l.AssetCode)
	assert.Equal(t, entity.ListingActive, l.Status)

	title := "Hacked"
	_, err = uc.UpdateListing(ctx, "bob", l.ID, UpdateListingInput{Title: &title})
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	sold := entity.ListingSold
	_, err = uc.UpdateListing(ctx, "alice", l.ID, UpdateListingInput{Status: &sold})
	require.NoError(t, err)

	active, total, err := uc.ListListings(ctx, entity.ListingFilter{}, utils.NewPagination(1, 20))
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Equal(t, int64(0), total)

	all, _, err := uc.ListListings(ctx, entity.ListingFilter{Status: "all"}, utils.NewPagination(1, 20))
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.True(t, errors.Is(uc.DeleteListing(ctx, "bob", l.ID), errors.CodeForbidden))
	require.NoError(t, uc.DeleteListing(ctx, "admin", l.ID))

	_, err = uc.GetListing(ctx, l.ID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
