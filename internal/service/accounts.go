package service

import (
	"context"
	"strings"
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	"studio-service/internal/rbac/presets"
	"studio-service/internal/repository"
	apperrors "studio-service/pkg/errors"
	"studio-service/pkg/validator"

	"github.com/google/uuid"
)

// AccountService manages client accounts and user profiles.
type AccountService struct {
	accounts repository.AccountRepository
	profiles repository.ProfileRepository
	guard    *Guard
	audit    Auditor
}

func NewAccountService(accounts repository.AccountRepository, profiles repository.ProfileRepository, guard *Guard, auditor Auditor) *AccountService {
	return &AccountService{accounts: accounts, profiles: profiles, guard: guard, audit: orNopAuditor(auditor)}
}

type CreateAccountRequest struct {
	CompanyName  string
	ContactEmail string
	Metadata     map[string]any
}

func (s *AccountService) CreateClientAccount(ctx context.Context, actor *account.Profile, req CreateAccountRequest) (*account.ClientAccount, error) {
	if err := s.guard.Authorize(actor, presets.ResourceAccount, presets.ActionCreate); err != nil {
		return nil, err
	}

	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.ContactEmail = strings.TrimSpace(req.ContactEmail)
	if err := validator.Name("company_name", req.CompanyName); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := validator.Email(req.ContactEmail); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	acct, err := s.accounts.Create(ctx, account.CreateClientAccountInput{
		CompanyName:  req.CompanyName,
		ContactEmail: req.ContactEmail,
		Metadata:     req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditEvent(actor, audit.ResourceTypeAccount, acct.ID, audit.ActionCreate, nil))
	return acct, nil
}

func (s *AccountService) UpdateClientAccount(ctx context.Context, actor *account.Profile, id uuid.UUID, patch account.UpdateClientAccountInput) (*account.ClientAccount, error) {
	if err := s.guard.Authorize(actor, presets.ResourceAccount, presets.ActionUpdate); err != nil {
		return nil, err
	}

	if patch.CompanyName != nil {
		name := strings.TrimSpace(*patch.CompanyName)
		if err := validator.Name("company_name", name); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		patch.CompanyName = &name
	}
	if patch.ContactEmail != nil {
		email := strings.TrimSpace(*patch.ContactEmail)
		if err := validator.Email(email); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		patch.ContactEmail = &email
	}
	if patch.Status != nil {
		if err := patch.Status.Validate(); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
	}

	acct, err := s.accounts.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{}
	if patch.Status != nil {
		metadata["status"] = string(*patch.Status)
	}
	s.audit.Record(ctx, auditEvent(actor, audit.ResourceTypeAccount, acct.ID, audit.ActionUpdate, metadata))
	return acct, nil
}

func (s *AccountService) GetClientAccount(ctx context.Context, actor *account.Profile, id uuid.UUID) (*account.ClientAccount, error) {
	if err := s.guard.Authorize(actor, presets.ResourceAccount, presets.ActionRead); err != nil {
		return nil, err
	}
	if err := s.guard.AccountScope(actor, id); err != nil {
		return nil, err
	}
	return s.accounts.GetByID(ctx, id)
}

func (s *AccountService) ListProfilesForAccount(ctx context.Context, actor *account.Profile, id uuid.UUID) ([]*account.Profile, error) {
	if _, err := s.GetClientAccount(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.profiles.ListByAccount(ctx, id)
}

// EnsureProfile provisions the profile for a newly seen identity. Calling it
// again returns the stored profile unchanged.
func (s *AccountService) EnsureProfile(ctx context.Context, userID uuid.UUID, fullName string) (*account.Profile, error) {
	if userID == uuid.Nil {
		return nil, apperrors.Unauthorized(msgMissingActor)
	}
	return s.profiles.Ensure(ctx, account.CreateProfileInput{
		ID:          userID,
		FullName:    strings.TrimSpace(fullName),
		ProfileType: account.DefaultProfileType,
	})
}

// GetProfile returns a profile to its owner, to staff, to colleagues on the
// same client account, and to anyone sharing a project with it.
func (s *AccountService) GetProfile(ctx context.Context, actor *account.Profile, id uuid.UUID) (*account.Profile, error) {
	if err := s.guard.Authorize(actor, presets.ResourceProfile, presets.ActionRead); err != nil {
		return nil, err
	}

	target, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID == target.ID || actor.IsStaff() {
		return target, nil
	}
	if target.ClientAccountID != nil && actor.BelongsTo(*target.ClientAccountID) {
		return target, nil
	}

	shared, err := s.guard.SharesProject(ctx, actor, target)
	if err != nil {
		return nil, err
	}
	if !shared {
		return nil, apperrors.Forbidden(msgProfileNotVisible)
	}
	return target, nil
}

// UpdateProfile lets users rename themselves. Role and account changes are
// admin-only, and a client profile must end up attached to an account. Moving
// a profile off the client role drops its account unless the patch names one.
func (s *AccountService) UpdateProfile(ctx context.Context, actor *account.Profile, id uuid.UUID, patch account.UpdateProfileInput) (*account.Profile, error) {
	if actor == nil {
		return nil, apperrors.Unauthorized(msgMissingActor)
	}
	admin := s.guard.Can(actor, presets.ResourceProfile, presets.ActionManage)
	if actor.ID != id && !admin {
		return nil, apperrors.Forbidden(msgNotSelf)
	}
	accountChange := patch.ClientAccountID != nil || patch.ClearClientAccount
	if (patch.ProfileType != nil || accountChange) && !admin {
		return nil, apperrors.Forbidden(msgProfileFieldAdminOnly)
	}

	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if err := validator.Name("full_name", name); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		patch.FullName = &name
	}
	if patch.ProfileType != nil {
		if err := patch.ProfileType.Validate(); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
	}
	if patch.ClientAccountID != nil && patch.ClearClientAccount {
		return nil, apperrors.Validation(msgAccountSetAndCleared)
	}

	current, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profileType, accountID := current.ProfileType, current.ClientAccountID
	if patch.ProfileType != nil {
		profileType = *patch.ProfileType
	}
	if patch.ClientAccountID != nil {
		if _, err := s.accounts.GetByID(ctx, *patch.ClientAccountID); err != nil {
			return nil, err
		}
		accountID = patch.ClientAccountID
	}
	leavingClient := current.ProfileType == account.ProfileClient && profileType != account.ProfileClient
	if leavingClient && patch.ClientAccountID == nil && accountID != nil {
		patch.ClearClientAccount = true
	}
	if patch.ClearClientAccount {
		accountID = nil
	}
	if profileType == account.ProfileClient && accountID == nil {
		return nil, apperrors.Validation(msgClientNeedsAccount)
	}

	updated, err := s.profiles.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if patch.ProfileType != nil || patch.ClientAccountID != nil || patch.ClearClientAccount {
		s.audit.Record(ctx, auditEvent(actor, audit.ResourceTypeProfile, updated.ID, audit.ActionUpdate, map[string]any{
			"profile_type": string(updated.ProfileType),
		}))
	}
	return updated, nil
}
