package handler

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/domain/entity"
	"esekoir/internal/usecase"
	"esekoir/pkg/response"
	"esekoir/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type createListingRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=120"`
	Description string  `json:"description" validate:"max=2000"`
	Category    string  `json:"category" validate:"required,oneof=currency crypto gold transfer other"`
	AssetCode   string  `json:"asset_code,omitempty" validate:"omitempty,max=10"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Price       float64 `json:"price" validate:"gt=0"`
	Wilaya      string  `json:"wilaya,omitempty" validate:"omitempty,wilaya"`
	Phone       string  `json:"phone,omitempty" validate:"omitempty,max=20"`
}

type updateListingRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=3,max=120"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Amount      *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Wilaya      *string  `json:"wilaya,omitempty" validate:"omitempty,wilaya"`
	Phone       *string  `json:"phone,omitempty" validate:"omitempty,max=20"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=active sold hidden"`
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), middleware.UserID(c), usecase.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		AssetCode:   req.AssetCode,
		Amount:      req.Amount,
		Price:       req.Price,
		Wilaya:      req.Wilaya,
		Phone:       req.Phone,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, listing)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.listingUseCase.GetListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	page := utils.GetPaginationParams(c)
	filter := entity.ListingFilter{
		Category: c.QueryParam("category"),
		Wilaya:   c.QueryParam("wilaya"),
		SellerID: c.QueryParam("seller"),
		Status:   c.QueryParam("status"),
		Query:    c.QueryParam("q"),
	}

	listings, total, err := h.listingUseCase.ListListings(c.Request().Context(), filter, page)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, listings, total, page.Page, page.Limit)
}

func (h *ListingHandler) ListMyListings(c echo.Context) error {
	page := utils.GetPaginationParams(c)
	filter := entity.ListingFilter{
		SellerID: middleware.UserID(c),
		Status:   "all",
	}

	listings, total, err := h.listingUseCase.ListListings(c.Request().Context(), filter, page)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, listings, total, page.Page, page.Limit)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.UpdateListing(c.Request().Context(), middleware.UserID(c), c.Param("id"), usecase.UpdateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Price:       req.Price,
		Wilaya:      req.Wilaya,
		Phone:       req.Phone,
		Status:      req.Status,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	if err := h.listingUseCase.DeleteListing(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Listing deleted"})
}
