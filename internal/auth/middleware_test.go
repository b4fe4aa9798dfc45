package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"studio-service/internal/domain/account"
	"studio-service/internal/rbac"
	"studio-service/internal/rbac/presets"
	"studio-service/internal/repository/memory"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "k9$Lq2!vX7#pR4@mZ8&wT1^bN6*hF3%dJ5"

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func newContext(token string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, time.Minute)
	userID := uuid.New()

	token, err := svc.Generate(userID, "Ada")
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
}

func TestJWTService_RejectsForeignSecretAndExpiry(t *testing.T) {
	svc := NewJWTService(testSecret, time.Minute)

	other, err := NewJWTService("another-secret-that-is-long-enough-0123", time.Minute).Generate(uuid.New(), "")
	require.NoError(t, err)
	_, err = svc.Verify(other)
	assert.Error(t, err)

	expired, err := NewJWTService(testSecret, -time.Minute).Generate(uuid.New(), "")
	require.NoError(t, err)
	_, err = svc.Verify(expired)
	assert.Error(t, err)
}

func TestRequireJWT(t *testing.T) {
	svc := NewJWTService(testSecret, time.Minute)
	m := NewMiddleware(svc, memory.NewProfileRepository(memory.New()))

	t.Run("missing token", func(t *testing.T) {
		c, rec := newContext("")
		require.NoError(t, m.RequireJWT()(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		c, rec := newContext("not-a-jwt")
		require.NoError(t, m.RequireJWT()(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		userID := uuid.New()
		token, err := svc.Generate(userID, "Ada")
		require.NoError(t, err)

		c, rec := newContext(token)
		require.NoError(t, m.RequireJWT()(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		got, err := GetUserID(c)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
		assert.Equal(t, "Ada", GetUserName(c))
	})
}

func TestRequireProfile(t *testing.T) {
	profiles := memory.NewProfileRepository(memory.New())
	m := NewMiddleware(NewJWTService(testSecret, time.Minute), profiles)

	t.Run("not provisioned", func(t *testing.T) {
		c, rec := newContext("")
		c.Set(ContextKeyUserID, uuid.New())

		require.NoError(t, m.RequireProfile()(okHandler)(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("provisioned", func(t *testing.T) {
		userID := uuid.New()
		_, err := profiles.Ensure(context.Background(), account.CreateProfileInput{
			ID:          userID,
			FullName:    "Ada",
			ProfileType: account.ProfileProducer,
		})
		require.NoError(t, err)

		c, rec := newContext("")
		c.Set(ContextKeyUserID, userID)

		require.NoError(t, m.RequireProfile()(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		profile, err := GetProfile(c)
		require.NoError(t, err)
		assert.Equal(t, account.ProfileProducer, profile.ProfileType)
	})
}

func TestRBACMiddleware_RequireRole(t *testing.T) {
	m := NewRBACMiddleware(rbac.MustNew(presets.Studio()))

	tests := []struct {
		role account.ProfileType
		want int
	}{
		{account.ProfileAdmin, http.StatusOK},
		{account.ProfileProducer, http.StatusOK},
		{account.ProfileCreative, http.StatusForbidden},
		{account.ProfileClient, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			c, rec := newContext("")
			c.Set(ContextKeyProfile, &account.Profile{ID: uuid.New(), ProfileType: tt.role})

			require.NoError(t, m.RequireRole(presets.RoleProducer)(okHandler)(c))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRBACMiddleware_RequireCapability(t *testing.T) {
	m := NewRBACMiddleware(rbac.MustNew(presets.Studio()))

	c, rec := newContext("")
	c.Set(ContextKeyProfile, &account.Profile{ID: uuid.New(), ProfileType: account.ProfileProducer})
	require.NoError(t, m.RequireCapability(presets.ResourceAccount, presets.ActionCreate)(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newContext("")
	c.Set(ContextKeyProfile, &account.Profile{ID: uuid.New(), ProfileType: account.ProfileAdmin})
	require.NoError(t, m.RequireCapability(presets.ResourceAccount, presets.ActionCreate)(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
