package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	errInvalidStatusFmt      = "invalid account status: %s"
	errInvalidProfileTypeFmt = "invalid profile type: %s"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusArchived  Status = "archived"
)

func (s Status) Validate() error {
	switch s {
	case StatusActive, StatusSuspended, StatusArchived:
		return nil
	default:
		return fmt.Errorf(errInvalidStatusFmt, s)
	}
}

// ClientAccount is the company a set of client profiles and projects belong to.
// Accounts are never hard-deleted; they move between statuses.
type ClientAccount struct {
	ID           uuid.UUID      `json:"id"`
	CompanyName  string         `json:"company_name"`
	ContactEmail string         `json:"contact_email"`
	Status       Status         `json:"status"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type CreateClientAccountInput struct {
	CompanyName  string
	ContactEmail string
	Metadata     map[string]any
}

type UpdateClientAccountInput struct {
	CompanyName  *string
	ContactEmail *string
	Status       *Status
	Metadata     map[string]any
}

type ProfileType string

const (
	ProfileClient   ProfileType = "client"
	ProfileProducer ProfileType = "producer"
	ProfileCreative ProfileType = "creative"
	ProfileAdmin    ProfileType = "admin"

	// DefaultProfileType is assigned to profiles provisioned at first sign-in.
	DefaultProfileType = ProfileCreative
)

func (t ProfileType) Validate() error {
	switch t {
	case ProfileClient, ProfileProducer, ProfileCreative, ProfileAdmin:
		return nil
	default:
		return fmt.Errorf(errInvalidProfileTypeFmt, t)
	}
}

// Profile is keyed by the identity provider's user id.
type Profile struct {
	ID              uuid.UUID   `json:"id"`
	FullName        string      `json:"full_name"`
	ProfileType     ProfileType `json:"profile_type"`
	ClientAccountID *uuid.UUID  `json:"client_account_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// IsStaff reports whether the profile is a producer or an admin.
func (p *Profile) IsStaff() bool {
	return p.ProfileType == ProfileProducer || p.ProfileType == ProfileAdmin
}

func (p *Profile) IsAdmin() bool {
	return p.ProfileType == ProfileAdmin
}

// BelongsTo reports whether p is a client profile of the given account.
func (p *Profile) BelongsTo(accountID uuid.UUID) bool {
	return p.ProfileType == ProfileClient && p.ClientAccountID != nil && *p.ClientAccountID == accountID
}

type CreateProfileInput struct {
	ID              uuid.UUID
	FullName        string
	ProfileType     ProfileType
	ClientAccountID *uuid.UUID
}

type UpdateProfileInput struct {
	FullName        *string
	ProfileType     *ProfileType
	ClientAccountID *uuid.UUID

	// ClearClientAccount detaches the profile from its account. It cannot be
	// combined with ClientAccountID.
	ClearClientAccount bool
}
