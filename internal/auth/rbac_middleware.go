package auth

import (
	"net/http"
	"studio-service/internal/rbac"

	"github.com/labstack/echo/v4"
)

// RBACMiddleware gates whole route groups on the caller's profile type.
// Per-project membership is checked further down, in the services.
type RBACMiddleware struct {
	rbacChecker *rbac.Checker
}

func NewRBACMiddleware(checker *rbac.Checker) *RBACMiddleware {
	return &RBACMiddleware{rbacChecker: checker}
}

// RequireRole must run after RequireProfile.
func (m *RBACMiddleware) RequireRole(minRole rbac.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			profile, err := GetProfile(c)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgUserNotAuthenticated)
			}

			if err := m.rbacChecker.RequireRole(rbac.Role(profile.ProfileType), minRole); err != nil {
				return respondError(c, http.StatusForbidden, err.Error())
			}

			return next(c)
		}
	}
}

func (m *RBACMiddleware) RequireCapability(resource rbac.Resource, action rbac.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			profile, err := GetProfile(c)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgUserNotAuthenticated)
			}

			if err := m.rbacChecker.Authorize(rbac.Role(profile.ProfileType), resource, action); err != nil {
				return respondError(c, http.StatusForbidden, err.Error())
			}

			return next(c)
		}
	}
}
