package assignment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const errInvalidStatusFmt = "invalid assignment status: %s"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Validate() error {
	switch s {
	case StatusActive, StatusInactive:
		return nil
	default:
		return fmt.Errorf(errInvalidStatusFmt, s)
	}
}

// Assignment binds a user to a project. At most one active row exists per
// (project, user); removal flips the status and keeps the row.
type Assignment struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	Stage     string    `json:"stage,omitempty"`
	Status    Status    `json:"status"`
	Workload  *int      `json:"workload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Assignment) IsActive() bool {
	return a.Status == StatusActive
}

type CreateAssignmentInput struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Role      string
	Stage     string
	Workload  *int
}
