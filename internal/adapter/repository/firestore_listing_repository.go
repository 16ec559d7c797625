package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/errors"
	"esekoir/pkg/utils"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func (r *firestoreListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	if _, err := r.client.Collection("listings").Doc(l.ID).Set(ctx, l); err != nil {
		return errors.Internal("Failed to create listing", err)
	}
	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection("listings").Doc(id).Get(ctx)
	if err != nil {
		return nil, getError("Listing", err)
	}
	var l entity.Listing
	if err := doc.DataTo(&l); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}
	return &l, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, l *entity.Listing) error {
	ref := r.client.Collection("listings").Doc(l.ID)
	if _, err := ref.Get(ctx); err != nil {
		return getError("Listing", err)
	}
	if _, err := ref.Set(ctx, l); err != nil {
		return errors.Internal("Failed to update listing", err)
	}
	return nil
}

func (r *firestoreListingRepository) Delete(ctx context.Context, id string) error {
	ref := r.client.Collection("listings").Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return getError("Listing", err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return errors.Internal("Failed to delete listing", err)
	}
	return nil
}

// List applies equality filters in Firestore and the free-text match in memory.
func (r *firestoreListingRepository) List(ctx context.Context, filter entity.ListingFilter, page utils.Pagination) ([]*entity.Listing, int64, error) {
	query := r.client.Collection("listings").Query
	if filter.Category != "" {
		query = query.Where("category", "==", filter.Category)
	}
	if filter.Wilaya != "" {
		query = query.Where("wilaya", "==", filter.Wilaya)
	}
	if filter.SellerID != "" {
		query = query.Where("sellerId", "==", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	all, err := collect[entity.Listing](ctx, query, "listings")
	if err != nil {
		return nil, 0, err
	}

	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		matched := all[:0]
		for _, l := range all {
			if strings.Contains(strings.ToLower(l.Title), q) ||
				strings.Contains(strings.ToLower(l.Description), q) ||
				strings.Contains(strings.ToLower(l.AssetCode), q) {
				matched = append(matched, l)
			}
		}
		all = matched
	}

	return pageOf(all, page.Limit, page.Offset()), int64(len(all)), nil
}

func (r *firestoreListingRepository) Count(ctx context.Context) (int64, error) {
	return countQuery(ctx, r.client.Collection("listings").Query, "listings")
}
