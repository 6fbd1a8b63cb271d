package middleware

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/repositories"
	"gearguard/pkg/apperrors"
	"gearguard/pkg/constants"
	"gearguard/pkg/utils"
)

type RoleMiddleware struct {
	userRepo repositories.UserRepositoryInterface
}

func NewRoleMiddleware(userRepo repositories.UserRepositoryInterface) *RoleMiddleware {
	return &RoleMiddleware{userRepo: userRepo}
}

// Require gates a route to the given roles. Runs after Auth, so the actor's
// ID is already in the context.
func (m *RoleMiddleware) Require(roles ...constants.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := utils.GetUserIDFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err)
			}

			user, err := m.userRepo.FindByID(c.Request().Context(), userID)
			if err != nil {
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized)
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return utils.ErrorResponse(c, apperrors.NewForbiddenError(rolesLabel(roles)))
		}
	}
}

func rolesLabel(roles []constants.Role) string {
	label := ""
	for i, role := range roles {
		if i > 0 {
			label += " or "
		}
		label += string(role)
	}
	return label
}
