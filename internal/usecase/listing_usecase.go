package usecase

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/pkg/errors"
	"esekoir/pkg/utils"
)

var listingCategories = map[string]bool{
	"currency": true,
	"crypto":   true,
	"gold":     true,
	"transfer": true,
	"other":    true,
}

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	roleRepo    repository.RoleRepository
}

func NewListingUseCase(listingRepo repository.ListingRepository, roleRepo repository.RoleRepository) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		roleRepo:    roleRepo,
	}
}

type CreateListingInput struct {
	Title       string
	Description string
	Category    string
	AssetCode   string
	Amount      float64
	Price       float64
	Wilaya      string
	Phone       string
}

type UpdateListingInput struct {
	Title       *string
	Description *string
	Amount      *float64
	Price       *float64
	Wilaya      *string
	Phone       *string
	Status      *string
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, sellerID string, input CreateListingInput) (*entity.Listing, error) {
	category := strings.ToLower(input.Category)
	if !listingCategories[category] {
		return nil, errors.BadRequest("Invalid listing category", nil)
	}

	now := time.Now().UTC()
	listing := &entity.Listing{
		ID:          uuid.New().String(),
		SellerID:    sellerID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		AssetCode:   strings.ToUpper(strings.TrimSpace(input.AssetCode)),
		Amount:      input.Amount,
		Price:       input.Price,
		Wilaya:      input.Wilaya,
		Phone:       input.Phone,
		Status:      entity.ListingActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, errors.Internal("Failed to create listing", err)
	}
	return listing, nil
}

func (uc *ListingUseCase) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to load listing", err)
	}
	return listing, nil
}

// ListListings defaults to active listings; status "all" lifts the filter.
func (uc *ListingUseCase) ListListings(ctx context.Context, filter entity.ListingFilter, page utils.Pagination) ([]*entity.Listing, int64, error) {
	switch filter.Status {
	case "":
		filter.Status = entity.ListingActive
	case "all":
		filter.Status = ""
	}
	filter.Category = strings.ToLower(filter.Category)

	listings, total, err := uc.listingRepo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list listings", err)
	}
	return listings, total, nil
}

func (uc *ListingUseCase) UpdateListing(ctx context.Context, uid, id string, input UpdateListingInput) (*entity.Listing, error) {
	listing, err := uc.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != uid {
		return nil, errors.Forbidden("You can only edit your own listings", nil)
	}

	if input.Title != nil {
		listing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		listing.Description = strings.TrimSpace(*input.Description)
	}
	if input.Amount != nil {
		listing.Amount = *input.Amount
	}
	if input.Price != nil {
		listing.Price = *input.Price
	}
	if input.Wilaya != nil {
		listing.Wilaya = *input.Wilaya
	}
	if input.Phone != nil {
		listing.Phone = *input.Phone
	}
	if input.Status != nil {
		switch *input.Status {
		case entity.ListingActive, entity.ListingSold, entity.ListingHidden:
			listing.Status = *input.Status
		default:
			return nil, errors.BadRequest("Invalid listing status", nil)
		}
	}
	listing.UpdatedAt = time.Now().UTC()

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, errors.Internal("Failed to update listing", err)
	}
	return listing, nil
}

// DeleteListing lets the seller or an admin remove a listing.
func (uc *ListingUseCase) DeleteListing(ctx context.Context, uid, id string) error {
	listing, err := uc.GetListing(ctx, id)
	if err != nil {
		return err
	}

	if listing.SellerID != uid {
		roles, err := uc.roleRepo.GetRoles(ctx, uid)
		if err != nil {
			return errors.Internal("Failed to load roles", err)
		}
		if !entity.HasRole(roles, entity.RoleAdmin) {
			return errors.Forbidden("You can only delete your own listings", nil)
		}
	}

	if err := uc.listingRepo.Delete(ctx, id); err != nil {
		return errors.Internal("Failed to delete listing", err)
	}
	return nil
}
