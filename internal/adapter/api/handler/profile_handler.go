package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/usecase"
	"esekoir/pkg/response"
)

type ProfileHandler struct {
	profileUseCase *usecase.ProfileUseCase
}

func NewProfileHandler(profileUseCase *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

type completeProfileRequest struct {
	Username string `json:"username" validate:"required,username"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Wilaya   string `json:"wilaya" validate:"required,wilaya"`
}

type updateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,username"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Wilaya   *string `json:"wilaya,omitempty" validate:"omitempty,wilaya"`
}

func (h *ProfileHandler) GetMyProfile(c echo.Context) error {
	profile, err := h.profileUseCase.GetProfile(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *ProfileHandler) GetByUsername(c echo.Context) error {
	profile, err := h.profileUseCase.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *ProfileHandler) CompleteProfile(c echo.Context) error {
	var req completeProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.profileUseCase.CompleteProfile(c.Request().Context(), middleware.UserID(c), usecase.CompleteProfileInput{
		Username: req.Username,
		FullName: req.FullName,
		Wilaya:   req.Wilaya,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.profileUseCase.UpdateProfile(c.Request().Context(), middleware.UserID(c), usecase.UpdateProfileInput{
		Username: req.Username,
		FullName: req.FullName,
		Wilaya:   req.Wilaya,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	file, err := formFile(c, "avatar", true)
	if err != nil {
		return response.Error(c, err)
	}
	defer file.Close()

	profile, err := h.profileUseCase.UploadAvatar(c.Request().Context(), middleware.UserID(c), file.reader(), file.contentType, file.filename)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

// GetCard returns the member card for the current year.
func (h *ProfileHandler) GetCard(c echo.Context) error {
	card, err := h.profileUseCase.GetCard(c.Request().Context(), middleware.UserID(c), time.Now().Year())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, card)
}
