package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const errInvalidTypeFmt = "invalid notification type: %s"

type Type string

const (
	TypeBriefSubmitted       Type = "brief_submitted"
	TypeBriefStatusChanged   Type = "brief_status_changed"
	TypeProjectCreated       Type = "project_created"
	TypeProjectStatusChanged Type = "project_status_changed"
	TypeMilestoneCreated     Type = "milestone_created"
	TypeMilestoneApproved    Type = "milestone_approved"
	TypeAssignmentCreated    Type = "assignment_created"
	TypeAssignmentRemoved    Type = "assignment_removed"
	TypeAssetUploaded        Type = "asset_uploaded"
	TypeAssetFinalized       Type = "asset_finalized"
	TypeCommentPosted        Type = "comment_posted"
	TypeDeliverableSubmitted Type = "deliverable_submitted"
	TypeDeliverableReviewed  Type = "deliverable_reviewed"
	TypeProjectUpdatePosted  Type = "project_update_posted"
	TypeJobClaimed           Type = "job_claimed"
	TypeJobCompleted         Type = "job_completed"
	TypePaymentUpdated       Type = "payment_updated"
)

func (t Type) Validate() error {
	switch t {
	case TypeBriefSubmitted, TypeBriefStatusChanged, TypeProjectCreated, TypeProjectStatusChanged,
		TypeMilestoneCreated, TypeMilestoneApproved, TypeAssignmentCreated, TypeAssignmentRemoved,
		TypeAssetUploaded, TypeAssetFinalized, TypeCommentPosted, TypeDeliverableSubmitted,
		TypeDeliverableReviewed, TypeProjectUpdatePosted, TypeJobClaimed, TypeJobCompleted,
		TypePaymentUpdated:
		return nil
	default:
		return fmt.Errorf(errInvalidTypeFmt, t)
	}
}

// Notification is immutable once written except for ReadAt.
type Notification struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	ProjectID *uuid.UUID     `json:"project_id,omitempty"`
	Type      Type           `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type CreateNotificationInput struct {
	UserID    uuid.UUID
	ProjectID *uuid.UUID
	Type      Type
	Payload   map[string]any
}
