package postgres

import (
	"context"
	"fmt"
	"studio-service/internal/domain/account"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
)

const (
	accountColumns = `id, company_name, contact_email, status, metadata, created_at, updated_at`
	profileColumns = `id, full_name, profile_type, client_account_id, created_at, updated_at`
)

type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row rowScanner) (*account.ClientAccount, error) {
	a := &account.ClientAccount{}
	err := row.Scan(&a.ID, &a.CompanyName, &a.ContactEmail, &a.Status, &a.Metadata, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *AccountRepository) Create(ctx context.Context, input account.CreateClientAccountInput) (*account.ClientAccount, error) {
	query := `
		INSERT INTO client_accounts (id, company_name, contact_email, status, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns

	a, err := scanAccount(r.db.Pool.QueryRow(ctx, query,
		uuid.New(), input.CompanyName, input.ContactEmail, account.StatusActive, jsonObject(input.Metadata),
	))
	if err != nil {
		return nil, errFailedCreateAccount(err)
	}
	return a, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.ClientAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM client_accounts WHERE id = $1`

	a, err := scanAccount(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errAccountNotFound)
		}
		return nil, errFailedGetAccount(err)
	}
	return a, nil
}

func (r *AccountRepository) Update(ctx context.Context, id uuid.UUID, input account.UpdateClientAccountInput) (*account.ClientAccount, error) {
	query := "UPDATE client_accounts SET updated_at = NOW()"
	args := []interface{}{id}
	argCount := 1

	if input.CompanyName != nil {
		argCount++
		query += fmt.Sprintf(", company_name = $%d", argCount)
		args = append(args, *input.CompanyName)
	}
	if input.ContactEmail != nil {
		argCount++
		query += fmt.Sprintf(", contact_email = $%d", argCount)
		args = append(args, *input.ContactEmail)
	}
	if input.Status != nil {
		argCount++
		query += fmt.Sprintf(", status = $%d", argCount)
		args = append(args, *input.Status)
	}
	if input.Metadata != nil {
		argCount++
		query += fmt.Sprintf(", metadata = $%d", argCount)
		args = append(args, input.Metadata)
	}

	query += " WHERE id = $1 RETURNING " + accountColumns

	a, err := scanAccount(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errAccountNotFound)
		}
		return nil, errFailedUpdateAccount(err)
	}
	return a, nil
}

type ProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func scanProfile(row rowScanner) (*account.Profile, error) {
	p := &account.Profile{}
	err := row.Scan(&p.ID, &p.FullName, &p.ProfileType, &p.ClientAccountID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Ensure never overwrites an existing profile.
func (r *ProfileRepository) Ensure(ctx context.Context, input account.CreateProfileInput) (*account.Profile, error) {
	query := `
		INSERT INTO profiles (id, full_name, profile_type, client_account_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.Pool.Exec(ctx, query, input.ID, input.FullName, input.ProfileType, input.ClientAccountID); err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errAccountNotFound)
		}
		return nil, errFailedEnsureProfile(err)
	}

	return r.GetByID(ctx, input.ID)
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errProfileNotFound)
		}
		return nil, errFailedGetProfile(err)
	}
	return p, nil
}

func (r *ProfileRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*account.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1) ORDER BY created_at`, ids)
}

func (r *ProfileRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Profile, error) {
	return r.list(ctx, `SELECT `+profileColumns+` FROM profiles WHERE client_account_id = $1 ORDER BY created_at`, accountID)
}

func (r *ProfileRepository) ListByType(ctx context.Context, profileType account.ProfileType) ([]*account.Profile, error) {
	return r.list(ctx, `SELECT `+profileColumns+` FROM profiles WHERE profile_type = $1 ORDER BY created_at`, profileType)
}

func (r *ProfileRepository) list(ctx context.Context, query string, args ...any) ([]*account.Profile, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListProfiles(err)
	}
	defer rows.Close()

	var profiles []*account.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, errFailedScanProfile(err)
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, input account.UpdateProfileInput) (*account.Profile, error) {
	query := "UPDATE profiles SET updated_at = NOW()"
	args := []interface{}{id}
	argCount := 1

	if input.FullName != nil {
		argCount++
		query += fmt.Sprintf(", full_name = $%d", argCount)
		args = append(args, *input.FullName)
	}
	if input.ProfileType != nil {
		argCount++
		query += fmt.Sprintf(", profile_type = $%d", argCount)
		args = append(args, *input.ProfileType)
	}
	if input.ClientAccountID != nil {
		argCount++
		query += fmt.Sprintf(", client_account_id = $%d", argCount)
		args = append(args, *input.ClientAccountID)
	}
	if input.ClearClientAccount {
		query += ", client_account_id = NULL"
	}

	query += " WHERE id = $1 RETURNING " + profileColumns

	p, err := scanProfile(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errProfileNotFound)
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errAccountNotFound)
		}
		return nil, errFailedUpdateProfile(err)
	}
	return p, nil
}
