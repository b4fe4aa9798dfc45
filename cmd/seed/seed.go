package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	"studio-service/internal/repository"
	apperrors "studio-service/pkg/errors"
	"studio-service/pkg/validator"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

const (
	errReadSeedFmt          = "reading seed file: %w"
	errParseSeedFmt         = "parsing seed file: %w"
	errUnknownKeysFmt       = "unknown seed keys: %s"
	errDuplicateAccountFmt  = "account key %q declared twice"
	errAccountKeyFmt        = "account %d: key is required"
	errAccountFmt           = "account %q: %w"
	errProfileIDFmt         = "profile %d: id is required"
	errProfileFmt           = "profile %s: %w"
	errUnknownAccountRefFmt = "unknown account %q"
	errClientNeedsAccount   = "client profiles need an account"
)

// File is the seed fixture: client accounts and the profiles attached to
// them. Profiles are matched on their identity-provider id, so re-running a
// seed updates roles instead of duplicating rows.
type File struct {
	Accounts []AccountSeed `toml:"accounts"`
	Profiles []ProfileSeed `toml:"profiles"`
}

type AccountSeed struct {
	Key          string         `toml:"key"`
	CompanyName  string         `toml:"company_name"`
	ContactEmail string         `toml:"contact_email"`
	Status       account.Status `toml:"status"`
}

type ProfileSeed struct {
	ID          uuid.UUID           `toml:"id"`
	FullName    string              `toml:"full_name"`
	ProfileType account.ProfileType `toml:"profile_type"`
	// Account refers to an AccountSeed key.
	Account string `toml:"account"`
}

func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf(errReadSeedFmt, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a seed. Unknown keys are rejected so typos do
// not silently drop data.
func Parse(r io.Reader) (*File, error) {
	var file File
	md, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, fmt.Errorf(errParseSeedFmt, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf(errUnknownKeysFmt, strings.Join(keys, ", "))
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

func (f *File) Validate() error {
	keys := make(map[string]bool, len(f.Accounts))
	for i := range f.Accounts {
		a := &f.Accounts[i]
		if a.Key == "" {
			return fmt.Errorf(errAccountKeyFmt, i)
		}
		if keys[a.Key] {
			return fmt.Errorf(errDuplicateAccountFmt, a.Key)
		}
		keys[a.Key] = true

		if a.Status == "" {
			a.Status = account.StatusActive
		}
		if err := a.Status.Validate(); err != nil {
			return fmt.Errorf(errAccountFmt, a.Key, err)
		}
		if err := validator.Name("company_name", a.CompanyName); err != nil {
			return fmt.Errorf(errAccountFmt, a.Key, err)
		}
		if err := validator.Email(a.ContactEmail); err != nil {
			return fmt.Errorf(errAccountFmt, a.Key, err)
		}
	}

	for i := range f.Profiles {
		p := &f.Profiles[i]
		if p.ID == uuid.Nil {
			return fmt.Errorf(errProfileIDFmt, i)
		}
		if p.ProfileType == "" {
			p.ProfileType = account.DefaultProfileType
		}
		if err := p.ProfileType.Validate(); err != nil {
			return fmt.Errorf(errProfileFmt, p.ID, err)
		}
		if p.Account != "" && !keys[p.Account] {
			return fmt.Errorf(errProfileFmt, p.ID, fmt.Errorf(errUnknownAccountRefFmt, p.Account))
		}
		if p.ProfileType == account.ProfileClient && p.Account == "" {
			return fmt.Errorf(errProfileFmt, p.ID, errors.New(errClientNeedsAccount))
		}
	}
	return nil
}

// Result counts what a seed run changed.
type Result struct {
	AccountsCreated int
	ProfilesCreated int
	ProfilesUpdated int
}

type auditor interface {
	Record(ctx context.Context, event audit.Event)
}

type Seeder struct {
	accounts repository.AccountRepository
	profiles repository.ProfileRepository
	audit    auditor
	log      *slog.Logger
}

func NewSeeder(accounts repository.AccountRepository, profiles repository.ProfileRepository, auditor auditor, log *slog.Logger) *Seeder {
	return &Seeder{accounts: accounts, profiles: profiles, audit: auditor, log: log}
}

// Apply runs outside the RBAC layer: it is how the first admin gets in.
func (s *Seeder) Apply(ctx context.Context, f *File) (Result, error) {
	var res Result
	accountIDs := make(map[string]uuid.UUID, len(f.Accounts))

	for _, a := range f.Accounts {
		acct, err := s.accounts.Create(ctx, account.CreateClientAccountInput{
			CompanyName:  a.CompanyName,
			ContactEmail: a.ContactEmail,
		})
		if err != nil {
			return res, fmt.Errorf(errAccountFmt, a.Key, err)
		}
		if a.Status != account.StatusActive {
			status := a.Status
			if acct, err = s.accounts.Update(ctx, acct.ID, account.UpdateClientAccountInput{Status: &status}); err != nil {
				return res, fmt.Errorf(errAccountFmt, a.Key, err)
			}
		}
		accountIDs[a.Key] = acct.ID
		res.AccountsCreated++
		s.record(ctx, audit.ResourceTypeAccount, acct.ID, map[string]any{"key": a.Key})
		s.log.InfoContext(ctx, "account seeded", slog.String("key", a.Key), slog.String("id", acct.ID.String()))
	}

	for _, p := range f.Profiles {
		var accountID *uuid.UUID
		if p.Account != "" {
			id := accountIDs[p.Account]
			accountID = &id
		}

		_, err := s.profiles.GetByID(ctx, p.ID)
		existed := err == nil
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return res, fmt.Errorf(errProfileFmt, p.ID, err)
		}

		stored, err := s.profiles.Ensure(ctx, account.CreateProfileInput{
			ID:              p.ID,
			FullName:        p.FullName,
			ProfileType:     p.ProfileType,
			ClientAccountID: accountID,
		})
		if err != nil {
			return res, fmt.Errorf(errProfileFmt, p.ID, err)
		}

		if !matches(stored, p, accountID) {
			patch := account.UpdateProfileInput{ProfileType: &p.ProfileType, ClientAccountID: accountID}
			if p.FullName != "" {
				patch.FullName = &p.FullName
			}
			if _, err := s.profiles.Update(ctx, p.ID, patch); err != nil {
				return res, fmt.Errorf(errProfileFmt, p.ID, err)
			}
			if existed {
				res.ProfilesUpdated++
			}
		}
		if !existed {
			res.ProfilesCreated++
		}

		s.record(ctx, audit.ResourceTypeProfile, p.ID, map[string]any{"profile_type": string(p.ProfileType)})
	}

	return res, nil
}

func (s *Seeder) record(ctx context.Context, resource audit.ResourceType, id uuid.UUID, metadata map[string]any) {
	s.audit.Record(ctx, audit.Event{
		ResourceType: resource,
		ResourceID:   &id,
		Action:       audit.ActionProvision,
		Metadata:     metadata,
	})
}

func matches(stored *account.Profile, seed ProfileSeed, accountID *uuid.UUID) bool {
	if stored.ProfileType != seed.ProfileType {
		return false
	}
	if seed.FullName != "" && stored.FullName != seed.FullName {
		return false
	}
	if accountID == nil {
		return true
	}
	return stored.ClientAccountID != nil && *stored.ClientAccountID == *accountID
}
