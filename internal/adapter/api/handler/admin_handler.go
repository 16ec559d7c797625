package handler

import (
	"github.com/labstack/echo/v4"

	"esekoir/internal/adapter/api/middleware"
	"esekoir/internal/domain/entity"
	"esekoir/internal/usecase"
	"esekoir/pkg/response"
	"esekoir/pkg/utils"
)

type AdminHandler struct {
	adminUseCase *usecase.AdminUseCase
}

func NewAdminHandler(adminUseCase *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
	}
}

type setRolesRequest struct {
	Roles []string `json:"roles" validate:"required,dive,oneof=admin moderator user"`
}

func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.adminUseCase.Stats(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stats)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	page := utils.GetPaginationParams(c)
	users, total, err := h.adminUseCase.ListUsers(c.Request().Context(), page)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, users, total, page.Page, page.Limit)
}

func (h *AdminHandler) SetRoles(c echo.Context) error {
	var req setRolesRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	roles := make([]entity.Role, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, entity.Role(r))
	}

	updated, err := h.adminUseCase.SetRoles(c.Request().Context(), middleware.UserID(c), c.Param("id"), roles)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{"user_id": c.Param("id"), "roles": updated})
}
