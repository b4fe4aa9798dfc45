package handler

import (
	"net/http"
	"studio-service/internal/auth"
	"studio-service/internal/domain/account"
	"studio-service/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AccountHandler struct {
	accounts AccountService
}

func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type SessionRequest struct {
	FullName string `json:"full_name"`
}

// Session provisions the caller's profile on first sign-in and returns it.
// The body is optional; the token's name claim is the fallback.
func (h *AccountHandler) Session(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return err
	}

	var req SessionRequest
	if c.Request().ContentLength > 0 {
		if err := bindStrictJSON(c, &req); err != nil {
			return err
		}
	}
	if req.FullName == "" {
		req.FullName = auth.GetUserName(c)
	}

	profile, err := h.accounts.EnsureProfile(c.Request().Context(), userID, req.FullName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *AccountHandler) Me(c echo.Context) error {
	profile, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *AccountHandler) GetProfile(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	profile, err := h.accounts.GetProfile(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

type UpdateProfileRequest struct {
	FullName        *string              `json:"full_name"`
	ProfileType     *account.ProfileType `json:"profile_type"`
	ClientAccountID *uuid.UUID           `json:"client_account_id"`

	// ClearClientAccount detaches a non-client profile from its account.
	ClearClientAccount bool `json:"clear_client_account"`
}

func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	profile, err := h.accounts.UpdateProfile(c.Request().Context(), actor, id, account.UpdateProfileInput{
		FullName:           req.FullName,
		ProfileType:        req.ProfileType,
		ClientAccountID:    req.ClientAccountID,
		ClearClientAccount: req.ClearClientAccount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

type CreateAccountRequest struct {
	CompanyName  string         `json:"company_name"`
	ContactEmail string         `json:"contact_email"`
	Metadata     map[string]any `json:"metadata"`
}

func (h *AccountHandler) CreateAccount(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}

	var req CreateAccountRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	acct, err := h.accounts.CreateClientAccount(c.Request().Context(), actor, service.CreateAccountRequest{
		CompanyName:  req.CompanyName,
		ContactEmail: req.ContactEmail,
		Metadata:     req.Metadata,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, acct)
}

func (h *AccountHandler) GetAccount(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	acct, err := h.accounts.GetClientAccount(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acct)
}

type UpdateAccountRequest struct {
	CompanyName  *string         `json:"company_name"`
	ContactEmail *string         `json:"contact_email"`
	Status       *account.Status `json:"status"`
	Metadata     map[string]any  `json:"metadata"`
}

func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	var req UpdateAccountRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	acct, err := h.accounts.UpdateClientAccount(c.Request().Context(), actor, id, account.UpdateClientAccountInput{
		CompanyName:  req.CompanyName,
		ContactEmail: req.ContactEmail,
		Status:       req.Status,
		Metadata:     req.Metadata,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acct)
}

func (h *AccountHandler) ListAccountProfiles(c echo.Context) error {
	actor, err := auth.GetProfile(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, paramID)
	if err != nil {
		return err
	}

	profiles, err := h.accounts.ListProfilesForAccount(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}
