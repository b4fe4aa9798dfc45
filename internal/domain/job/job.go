package job

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	errInvalidStatusFmt            = "invalid job status: %s"
	errInvalidDeliverableStatusFmt = "invalid deliverable status: %s"
	errInvalidDecisionFmt          = "invalid review decision: %s"
	errInvalidPaymentStatusFmt     = "invalid payment status: %s"
)

// Status follows open -> assigned -> in_progress -> submitted -> reviewed -> completed.
type Status string

const (
	StatusOpen       Status = "open"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
	StatusReviewed   Status = "reviewed"
	StatusCompleted  Status = "completed"
)

func (s Status) Validate() error {
	switch s {
	case StatusOpen, StatusAssigned, StatusInProgress, StatusSubmitted, StatusReviewed, StatusCompleted:
		return nil
	default:
		return fmt.Errorf(errInvalidStatusFmt, s)
	}
}

// Workable reports whether the assignee may start work or submit in this status.
func (s Status) Workable() bool {
	switch s {
	case StatusAssigned, StatusInProgress:
		return true
	case StatusOpen, StatusSubmitted, StatusReviewed, StatusCompleted:
		return false
	default:
		return false
	}
}

// AllStatuses lists job statuses in lifecycle order.
var AllStatuses = []Status{StatusOpen, StatusAssigned, StatusInProgress, StatusSubmitted, StatusReviewed, StatusCompleted}

type Job struct {
	ID             uuid.UUID  `json:"id"`
	ProjectID      *uuid.UUID `json:"project_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	SkillsRequired []string   `json:"skills_required"`
	BudgetAmount   float64    `json:"budget_amount"`
	BudgetCurrency string     `json:"budget_currency"`
	EstimatedHours *int       `json:"estimated_hours,omitempty"`
	DeadlineDate   *time.Time `json:"deadline_date,omitempty"`
	Status         Status     `json:"status"`
	AssignedTo     *uuid.UUID `json:"assigned_to,omitempty"`
	CreatedBy      uuid.UUID  `json:"created_by"`
	QualityScore   *float64   `json:"quality_score,omitempty"`
	AssignedAt     *time.Time `json:"assigned_at,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsAssignedTo reports whether userID holds the job.
func (j *Job) IsAssignedTo(userID uuid.UUID) bool {
	return j.AssignedTo != nil && *j.AssignedTo == userID
}

type CreateJobInput struct {
	ProjectID      *uuid.UUID
	Title          string
	Description    string
	Category       string
	SkillsRequired []string
	BudgetAmount   float64
	BudgetCurrency string
	EstimatedHours *int
	DeadlineDate   *time.Time
	CreatedBy      uuid.UUID
}

type DeliverableStatus string

const (
	DeliverablePending           DeliverableStatus = "pending"
	DeliverableApproved          DeliverableStatus = "approved"
	DeliverableRevisionRequested DeliverableStatus = "revision_requested"
)

func (s DeliverableStatus) Validate() error {
	switch s {
	case DeliverablePending, DeliverableApproved, DeliverableRevisionRequested:
		return nil
	default:
		return fmt.Errorf(errInvalidDeliverableStatusFmt, s)
	}
}

type Deliverable struct {
	ID              uuid.UUID         `json:"id"`
	JobID           uuid.UUID         `json:"job_id"`
	SubmittedBy     uuid.UUID         `json:"submitted_by"`
	Version         int               `json:"version"`
	FileURL         string            `json:"file_url"`
	FileType        string            `json:"file_type"`
	FileSize        int64             `json:"file_size"`
	Notes           string            `json:"notes,omitempty"`
	Status          DeliverableStatus `json:"status"`
	QualityReviewID *uuid.UUID        `json:"quality_review_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

type SubmitDeliverableInput struct {
	JobID       uuid.UUID
	SubmittedBy uuid.UUID
	FileURL     string
	FileType    string
	FileSize    int64
	Notes       string
}

// Decision is the outcome of a quality review.
type Decision string

const (
	DecisionApproved          Decision = "approved"
	DecisionRevisionRequested Decision = "revision_requested"
)

func (d Decision) Validate() error {
	switch d {
	case DecisionApproved, DecisionRevisionRequested:
		return nil
	default:
		return fmt.Errorf(errInvalidDecisionFmt, d)
	}
}

// DeliverableStatus maps the decision onto the reviewed deliverable.
func (d Decision) DeliverableStatus() DeliverableStatus {
	switch d {
	case DecisionApproved:
		return DeliverableApproved
	case DecisionRevisionRequested:
		return DeliverableRevisionRequested
	default:
		return DeliverablePending
	}
}

const (
	MinScore = 1
	MaxScore = 5
)

// Scores are the four reviewer ratings, each in [MinScore, MaxScore].
type Scores struct {
	Quality        float64 `json:"quality"`
	Creativity     float64 `json:"creativity"`
	BriefAlignment float64 `json:"brief_alignment"`
	Timeliness     float64 `json:"timeliness"`
}

func (s Scores) Average() float64 {
	return (s.Quality + s.Creativity + s.BriefAlignment + s.Timeliness) / 4
}

func (s Scores) Valid() bool {
	for _, v := range []float64{s.Quality, s.Creativity, s.BriefAlignment, s.Timeliness} {
		if v < MinScore || v > MaxScore {
			return false
		}
	}
	return true
}

type QualityReview struct {
	ID            uuid.UUID       `json:"id"`
	DeliverableID uuid.UUID       `json:"deliverable_id"`
	Scores        Scores          `json:"scores"`
	Feedback      string          `json:"feedback"`
	Status        Decision        `json:"status"`
	Checklist     map[string]bool `json:"checklist,omitempty"`
	ReviewedBy    uuid.UUID       `json:"reviewed_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

type ReviewInput struct {
	DeliverableID uuid.UUID
	Scores        Scores
	Feedback      string
	Decision      Decision
	Checklist     map[string]bool
	ReviewedBy    uuid.UUID
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
)

func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentPending, PaymentProcessing, PaymentPaid, PaymentFailed:
		return nil
	default:
		return fmt.Errorf(errInvalidPaymentStatusFmt, s)
	}
}

// CanMoveTo reports whether a payment may go from s to next.
func (s PaymentStatus) CanMoveTo(next PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return next == PaymentProcessing || next == PaymentFailed
	case PaymentProcessing:
		return next == PaymentPaid || next == PaymentFailed
	case PaymentPaid, PaymentFailed:
		return false
	default:
		return false
	}
}

// Payment only records the amount owed and its settlement status.
type Payment struct {
	ID        uuid.UUID     `json:"id"`
	JobID     uuid.UUID     `json:"job_id"`
	CreatorID uuid.UUID     `json:"creator_id"`
	Amount    float64       `json:"amount"`
	Currency  string        `json:"currency"`
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Stats is derived on read from a creator's jobs and payments.
type Stats struct {
	CreatorID        uuid.UUID                 `json:"creator_id"`
	JobsByStatus     map[Status]int            `json:"jobs_by_status"`
	PaymentsByStatus map[PaymentStatus]float64 `json:"payments_by_status"`
	AverageQuality   *float64                  `json:"average_quality,omitempty"`
}

// View is a job together with its submissions.
type View struct {
	Job          *Job           `json:"job"`
	Deliverables []*Deliverable `json:"deliverables,omitempty"`
}
