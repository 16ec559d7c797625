package repository

import (
	"context"

	"esekoir/internal/domain/entity"
	"esekoir/pkg/utils"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.ListingFilter, page utils.Pagination) ([]*entity.Listing, int64, error)
	Count(ctx context.Context) (int64, error)
}
