package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/pkg/logger"
)

type AdminMiddleware struct {
	roleRepo repository.RoleRepository
}

func NewAdminMiddleware(roleRepo repository.RoleRepository) *AdminMiddleware {
	return &AdminMiddleware{
		roleRepo: roleRepo,
	}
}

// AdminOnly lets admins through.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, entity.RoleAdmin)
}

// StaffOnly lets admins and moderators through.
func (m *AdminMiddleware) StaffOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, entity.RoleAdmin, entity.RoleModerator)
}

func (m *AdminMiddleware) require(next echo.HandlerFunc, want ...entity.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid := UserID(c)
		if uid == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}

		roles, err := m.roleRepo.GetRoles(c.Request().Context(), uid)
		if err != nil {
			logger.Error("[auth] failed to load roles for %s: %v", uid, err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify privileges")
		}

		if !entity.HasRole(roles, want...) {
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient privileges")
		}

		return next(c)
	}
}
