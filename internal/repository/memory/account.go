package memory

import (
	"context"
	"maps"
	"time"

	"studio-service/internal/domain/account"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
)

const (
	errAccountNotFound = "client account not found"
	errProfileNotFound = "profile not found"
)

type AccountRepository struct {
	s *Store
}

func NewAccountRepository(s *Store) *AccountRepository {
	return &AccountRepository{s: s}
}

func (r *AccountRepository) Create(ctx context.Context, input account.CreateClientAccountInput) (*account.ClientAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	a := &account.ClientAccount{
		ID:           uuid.New(),
		CompanyName:  input.CompanyName,
		ContactEmail: input.ContactEmail,
		Status:       account.StatusActive,
		Metadata:     input.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.accounts[a.ID] = cloneAccount(a)

	return cloneAccount(a), nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.ClientAccount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, apperrors.NotFound(errAccountNotFound)
	}
	return cloneAccount(a), nil
}

func (r *AccountRepository) Update(ctx context.Context, id uuid.UUID, input account.UpdateClientAccountInput) (*account.ClientAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, apperrors.NotFound(errAccountNotFound)
	}
	if input.CompanyName != nil {
		a.CompanyName = *input.CompanyName
	}
	if input.ContactEmail != nil {
		a.ContactEmail = *input.ContactEmail
	}
	if input.Status != nil {
		a.Status = *input.Status
	}
	if input.Metadata != nil {
		a.Metadata = maps.Clone(input.Metadata)
	}
	a.UpdatedAt = r.s.now()

	return cloneAccount(a), nil
}

type ProfileRepository struct {
	s *Store
}

func NewProfileRepository(s *Store) *ProfileRepository {
	return &ProfileRepository{s: s}
}

func (r *ProfileRepository) Ensure(ctx context.Context, input account.CreateProfileInput) (*account.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p, ok := r.s.profiles[input.ID]; ok {
		return cloneProfile(p), nil
	}

	now := r.s.now()
	p := &account.Profile{
		ID:              input.ID,
		FullName:        input.FullName,
		ProfileType:     input.ProfileType,
		ClientAccountID: input.ClientAccountID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.s.profiles[p.ID] = cloneProfile(p)

	return cloneProfile(p), nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return nil, apperrors.NotFound(errProfileNotFound)
	}
	return cloneProfile(p), nil
}

func (r *ProfileRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*account.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var profiles []*account.Profile
	for _, id := range ids {
		if p, ok := r.s.profiles[id]; ok {
			profiles = append(profiles, cloneProfile(p))
		}
	}
	return profiles, nil
}

func (r *ProfileRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Profile, error) {
	return r.filter(func(p *account.Profile) bool {
		return p.ClientAccountID != nil && *p.ClientAccountID == accountID
	}), nil
}

func (r *ProfileRepository) ListByType(ctx context.Context, profileType account.ProfileType) ([]*account.Profile, error) {
	return r.filter(func(p *account.Profile) bool {
		return p.ProfileType == profileType
	}), nil
}

func (r *ProfileRepository) filter(keep func(*account.Profile) bool) []*account.Profile {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var profiles []*account.Profile
	for _, p := range r.s.profiles {
		if keep(p) {
			profiles = append(profiles, cloneProfile(p))
		}
	}
	sortByCreated(profiles,
		func(p *account.Profile) time.Time { return p.CreatedAt },
		func(p *account.Profile) uuid.UUID { return p.ID })
	return profiles
}

func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, input account.UpdateProfileInput) (*account.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return nil, apperrors.NotFound(errProfileNotFound)
	}
	if input.FullName != nil {
		p.FullName = *input.FullName
	}
	if input.ProfileType != nil {
		p.ProfileType = *input.ProfileType
	}
	if input.ClientAccountID != nil {
		p.ClientAccountID = uuidPtr(*input.ClientAccountID)
	}
	if input.ClearClientAccount {
		p.ClientAccountID = nil
	}
	p.UpdatedAt = r.s.now()

	return cloneProfile(p), nil
}
