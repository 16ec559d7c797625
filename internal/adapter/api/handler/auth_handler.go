package handler

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/usecase"
	"esekoir/pkg/logger"
	"esekoir/pkg/response"
)

type AuthHandler struct {
	authUseCase      *usecase.AuthUseCase
	exposeResetLinks bool
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase, exposeResetLinks bool) *AuthHandler {
	return &AuthHandler{
		authUseCase:      authUseCase,
		exposeResetLinks: exposeResetLinks,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type oauthRequest struct {
	Provider string `json:"provider" validate:"required,oneof=google.com facebook.com apple.com"`
	IDToken  string `json:"id_token" validate:"required"`
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type confirmResetRequest struct {
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Register(c.Request().Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *AuthHandler) OAuthLogin(c echo.Context) error {
	var req oauthRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.OAuthLogin(c.Request().Context(), req.Provider, req.IDToken)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authUseCase.Logout(c.Request().Context(), middleware.UserID(c)); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Signed out"})
}

// RequestPasswordReset always answers the same way so it cannot be used to
// find out which emails have accounts.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	link, err := h.authUseCase.RequestPasswordReset(c.Request().Context(), req.Email)
	if err != nil {
		return response.Error(c, err)
	}

	body := map[string]string{"message": "If the email is registered, a reset link has been sent"}
	if link != "" {
		logger.Info("[auth] password reset link issued for %s", req.Email)
		if h.exposeResetLinks {
			body["reset_link"] = link
		}
	}
	return response.Success(c, body)
}

func (h *AuthHandler) ConfirmPasswordReset(c echo.Context) error {
	var req confirmResetRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.authUseCase.ConfirmPasswordReset(c.Request().Context(), req.Code, req.NewPassword); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Password updated"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	result, err := h.authUseCase.Me(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}
