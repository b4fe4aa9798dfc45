package auth

import (
	"context"
	"net/http"
	"strings"
	"studio-service/internal/domain/account"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ProfileReader is the slice of the profile store the middleware needs.
type ProfileReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*account.Profile, error)
}

type Middleware struct {
	jwtService *JWTService
	profiles   ProfileReader
}

func NewMiddleware(jwtService *JWTService, profiles ProfileReader) *Middleware {
	return &Middleware{
		jwtService: jwtService,
		profiles:   profiles,
	}
}

func (m *Middleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return respondError(c, http.StatusUnauthorized, msgMissingAuthorization)
			}

			claims, err := m.jwtService.Verify(token)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyUserName, claims.Name)

			return next(c)
		}
	}
}

// RequireProfile loads the caller's profile without creating it. Callers
// that have never hit POST /api/session are turned away with 403.
func (m *Middleware) RequireProfile() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := GetUserID(c)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgUserNotAuthenticated)
			}

			profile, err := m.profiles.GetByID(c.Request().Context(), userID)
			if err != nil {
				if apperrors.IsNotFound(err) {
					return respondError(c, http.StatusForbidden, msgProfileNotProvisioned)
				}
				c.Logger().Errorf("profile lookup for %s: %v", userID, err)
				return respondError(c, http.StatusInternalServerError, msgProfileLookupFailed)
			}

			c.Set(ContextKeyProfile, profile)

			return next(c)
		}
	}
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

func GetUserID(c echo.Context) (uuid.UUID, error) {
	userID := c.Get(ContextKeyUserID)
	if userID == nil {
		return uuid.Nil, apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.InternalServer(msgInvalidUserIDCtx, nil)
	}

	return id, nil
}

func GetUserName(c echo.Context) string {
	name, _ := c.Get(ContextKeyUserName).(string)
	return name
}

func GetProfile(c echo.Context) (*account.Profile, error) {
	raw := c.Get(ContextKeyProfile)
	if raw == nil {
		return nil, apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	profile, ok := raw.(*account.Profile)
	if !ok || profile == nil {
		return nil, apperrors.InternalServer(msgInvalidProfileCtx, nil)
	}

	return profile, nil
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}
