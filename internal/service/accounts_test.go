package service

import (
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	apperrors "studio-service/pkg/errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureProfile_Idempotent(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	first, err := f.accounts.EnsureProfile(f.ctx, id, " Dana Reyes ")
	require.NoError(t, err)
	assert.Equal(t, account.DefaultProfileType, first.ProfileType)
	assert.Equal(t, "Dana Reyes", first.FullName)

	second, err := f.accounts.EnsureProfile(f.ctx, id, "Someone Else")
	require.NoError(t, err)
	assert.Equal(t, first.FullName, second.FullName)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	_, err = f.accounts.EnsureProfile(f.ctx, uuid.Nil, "x")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestCreateClientAccount(t *testing.T) {
	f := newFixture(t)
	admin := f.profile(t, account.ProfileAdmin, nil)
	producer := f.profile(t, account.ProfileProducer, nil)

	acct, err := f.accounts.CreateClientAccount(f.ctx, admin, CreateAccountRequest{CompanyName: "Northwind", ContactEmail: "hello@northwind.test"})
	require.NoError(t, err)
	assert.Equal(t, account.StatusActive, acct.Status)
	assert.Equal(t, []audit.Action{audit.ActionCreate}, f.auditor.actions(audit.ResourceTypeAccount))

	_, err = f.accounts.CreateClientAccount(f.ctx, producer, CreateAccountRequest{CompanyName: "Northwind", ContactEmail: "hello@northwind.test"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.accounts.CreateClientAccount(f.ctx, admin, CreateAccountRequest{CompanyName: "Northwind", ContactEmail: "not-an-email"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.accounts.CreateClientAccount(f.ctx, nil, CreateAccountRequest{CompanyName: "Northwind", ContactEmail: "hello@northwind.test"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUpdateClientAccount_StatusValidated(t *testing.T) {
	f := newFixture(t)
	admin := f.profile(t, account.ProfileAdmin, nil)
	acct := f.account(t)

	archived := account.StatusArchived
	updated, err := f.accounts.UpdateClientAccount(f.ctx, admin, acct.ID, account.UpdateClientAccountInput{Status: &archived})
	require.NoError(t, err)
	assert.Equal(t, account.StatusArchived, updated.Status)

	deleted := account.Status("deleted")
	_, err = f.accounts.UpdateClientAccount(f.ctx, admin, acct.ID, account.UpdateClientAccountInput{Status: &deleted})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.accounts.UpdateClientAccount(f.ctx, admin, uuid.New(), account.UpdateClientAccountInput{Status: &archived})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetClientAccount_Scope(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	member := f.client(t, acct)
	stranger := f.client(t, f.account(t))
	producer := f.profile(t, account.ProfileProducer, nil)

	got, err := f.accounts.GetClientAccount(f.ctx, member, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)

	_, err = f.accounts.GetClientAccount(f.ctx, stranger, acct.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	profiles, err := f.accounts.ListProfilesForAccount(f.ctx, producer, acct.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, member.ID, profiles[0].ID)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	admin := f.profile(t, account.ProfileAdmin, nil)
	user := f.profile(t, account.ProfileCreative, nil)
	other := f.profile(t, account.ProfileCreative, nil)

	name := "Sam Okafor"
	updated, err := f.accounts.UpdateProfile(f.ctx, user, user.ID, account.UpdateProfileInput{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)

	_, err = f.accounts.UpdateProfile(f.ctx, other, user.ID, account.UpdateProfileInput{FullName: &name})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	producer := account.ProfileProducer
	_, err = f.accounts.UpdateProfile(f.ctx, user, user.ID, account.UpdateProfileInput{ProfileType: &producer})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	client := account.ProfileClient
	_, err = f.accounts.UpdateProfile(f.ctx, admin, user.ID, account.UpdateProfileInput{ProfileType: &client})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	missing := uuid.New()
	_, err = f.accounts.UpdateProfile(f.ctx, admin, user.ID, account.UpdateProfileInput{ProfileType: &client, ClientAccountID: &missing})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	updated, err = f.accounts.UpdateProfile(f.ctx, admin, user.ID, account.UpdateProfileInput{ProfileType: &client, ClientAccountID: &acct.ID})
	require.NoError(t, err)
	assert.Equal(t, account.ProfileClient, updated.ProfileType)
	require.NotNil(t, updated.ClientAccountID)
	assert.Equal(t, acct.ID, *updated.ClientAccountID)
	assert.Contains(t, f.auditor.actions(audit.ResourceTypeProfile), audit.ActionUpdate)
}

func TestUpdateProfile_LeavingClientRoleDropsAccount(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	admin := f.profile(t, account.ProfileAdmin, nil)
	user := f.client(t, acct)

	_, err := f.accounts.UpdateProfile(f.ctx, admin, user.ID, account.UpdateProfileInput{ClearClientAccount: true})
	assert.ErrorIs(t, err, apperrors.ErrValidation, "a client cannot lose its account")

	producer := account.ProfileProducer
	_, err = f.accounts.UpdateProfile(f.ctx, admin, user.ID, account.UpdateProfileInput{
		ProfileType: &producer, ClientAccountID: &acct.ID, ClearClientAccount: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.accounts.UpdateProfile(f.ctx, user, user.ID, account.UpdateProfileInput{ClearClientAccount: true})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := f.accounts.UpdateProfile(f.ctx, admin, user.ID, account.UpdateProfileInput{ProfileType: &producer})
	require.NoError(t, err)
	assert.Equal(t, account.ProfileProducer, updated.ProfileType)
	assert.Nil(t, updated.ClientAccountID)

	stored, err := f.profilesRepo.GetByID(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ClientAccountID)

	members, err := f.profilesRepo.ListByAccount(f.ctx, acct.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestUpdateProfile_ExplicitClearOnNonClient(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	admin := f.profile(t, account.ProfileAdmin, nil)
	id := acct.ID
	producer := f.profile(t, account.ProfileProducer, &id)

	updated, err := f.accounts.UpdateProfile(f.ctx, admin, producer.ID, account.UpdateProfileInput{ClearClientAccount: true})
	require.NoError(t, err)
	assert.Nil(t, updated.ClientAccountID)
	assert.Contains(t, f.auditor.actions(audit.ResourceTypeProfile), audit.ActionUpdate)
}

func TestGetProfile_Visibility(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	colleague := f.client(t, acct)
	outsiderClient := f.client(t, f.account(t))
	producer := f.profile(t, account.ProfileProducer, nil)
	assigned := f.profile(t, account.ProfileCreative, nil)
	teammate := f.profile(t, account.ProfileCreative, nil)
	stranger := f.profile(t, account.ProfileCreative, nil)

	p, _ := f.project(t, client, acct)
	f.assign(t, producer, assigned, p.ID)
	f.assign(t, producer, teammate, p.ID)

	cases := []struct {
		name   string
		actor  *account.Profile
		target *account.Profile
		want   error
	}{
		{"self", stranger, stranger, nil},
		{"staff reads anyone", producer, stranger, nil},
		{"same account", colleague, client, nil},
		{"client reads assignee", client, assigned, nil},
		{"assignee reads client", assigned, client, nil},
		{"assignees on one project", assigned, teammate, nil},
		{"assignee reads staff", assigned, producer, nil},
		{"stranger reads assignee", stranger, assigned, apperrors.ErrForbidden},
		{"stranger reads client", stranger, client, apperrors.ErrForbidden},
		{"stranger reads staff", stranger, producer, apperrors.ErrForbidden},
		{"other account", outsiderClient, client, apperrors.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.accounts.GetProfile(f.ctx, tc.actor, tc.target.ID)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.target.ID, got.ID)
		})
	}

	_, err := f.accounts.GetProfile(f.ctx, producer, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
