package project

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	errInvalidStatusFmt          = "invalid project status: %s"
	errInvalidVisibilityFmt      = "invalid visibility: %s"
	errInvalidBriefStatusFmt     = "invalid brief status: %s"
	errInvalidMilestoneStatusFmt = "invalid milestone status: %s"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Validate() error {
	switch s {
	case StatusDraft, StatusActive, StatusOnHold, StatusCompleted, StatusCancelled:
		return nil
	default:
		return fmt.Errorf(errInvalidStatusFmt, s)
	}
}

// Visibility scopes who may see a project or one of its updates.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityClient   Visibility = "client"
	VisibilityInternal Visibility = "internal"
)

func (v Visibility) Validate() error {
	switch v {
	case VisibilityPublic, VisibilityClient, VisibilityInternal:
		return nil
	default:
		return fmt.Errorf(errInvalidVisibilityFmt, v)
	}
}

type Project struct {
	ID              uuid.UUID      `json:"id"`
	Title           string         `json:"title"`
	Status          Status         `json:"status"`
	Visibility      Visibility     `json:"visibility"`
	ClientAccountID uuid.UUID      `json:"client_account_id"`
	CreatedBy       uuid.UUID      `json:"created_by"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// PublicProject is the portfolio view of a project. It leaves out the owning
// account, the creator and metadata.
type PublicProject struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Project) Public() *PublicProject {
	return &PublicProject{
		ID:        p.ID,
		Title:     p.Title,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type CreateProjectInput struct {
	ClientAccountID uuid.UUID
	Title           string
	CreatedBy       uuid.UUID
	Metadata        map[string]any
}

type BriefStatus string

const (
	BriefDraft     BriefStatus = "draft"
	BriefSubmitted BriefStatus = "submitted"
	BriefInReview  BriefStatus = "in_review"
	BriefApproved  BriefStatus = "approved"
)

func (s BriefStatus) Validate() error {
	switch s {
	case BriefDraft, BriefSubmitted, BriefInReview, BriefApproved:
		return nil
	default:
		return fmt.Errorf(errInvalidBriefStatusFmt, s)
	}
}

// Next returns the only status a non-admin may move the brief to.
// ok is false once the brief is approved.
func (s BriefStatus) Next() (next BriefStatus, ok bool) {
	switch s {
	case BriefDraft:
		return BriefSubmitted, true
	case BriefSubmitted:
		return BriefInReview, true
	case BriefInReview:
		return BriefApproved, true
	case BriefApproved:
		return "", false
	default:
		return "", false
	}
}

type Brief struct {
	ID                uuid.UUID      `json:"id"`
	ProjectID         uuid.UUID      `json:"project_id"`
	Objective         string         `json:"objective"`
	Audience          string         `json:"audience"`
	KeyMessages       []string       `json:"key_messages"`
	BudgetRange       string         `json:"budget_range"`
	DeadlineDate      *time.Time     `json:"deadline_date,omitempty"`
	ReferencesPayload map[string]any `json:"references_payload,omitempty"`
	Attachments       []string       `json:"attachments"`
	Status            BriefStatus    `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type UpdateBriefInput struct {
	Objective         *string
	Audience          *string
	KeyMessages       []string
	BudgetRange       *string
	DeadlineDate      *time.Time
	ReferencesPayload map[string]any
	Attachments       []string
}

type MilestoneStatus string

const (
	MilestonePending  MilestoneStatus = "pending"
	MilestoneApproved MilestoneStatus = "approved"
)

func (s MilestoneStatus) Validate() error {
	switch s {
	case MilestonePending, MilestoneApproved:
		return nil
	default:
		return fmt.Errorf(errInvalidMilestoneStatusFmt, s)
	}
}

type Milestone struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   uuid.UUID       `json:"project_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	DueAt       *time.Time      `json:"due_at,omitempty"`
	Status      MilestoneStatus `json:"status"`
	ApprovedAt  *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy  *uuid.UUID      `json:"approved_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CreateMilestoneInput struct {
	ProjectID   uuid.UUID
	Name        string
	Description string
	DueAt       *time.Time
}

// Update is a stakeholder-facing status post authored by staff.
type Update struct {
	ID         uuid.UUID  `json:"id"`
	ProjectID  uuid.UUID  `json:"project_id"`
	AuthorID   uuid.UUID  `json:"author_id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Visibility Visibility `json:"visibility"`
	CreatedAt  time.Time  `json:"created_at"`
}

type CreateUpdateInput struct {
	ProjectID  uuid.UUID
	AuthorID   uuid.UUID
	Title      string
	Body       string
	Visibility Visibility
}

// Summary is the dashboard row for a project.
type Summary struct {
	Project            *Project `json:"project"`
	Brief              *Brief   `json:"brief,omitempty"`
	ActiveAssignments  int      `json:"active_assignments"`
	MilestoneCount     int      `json:"milestone_count"`
	ApprovedMilestones int      `json:"approved_milestones"`
}
