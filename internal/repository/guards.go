package repository

import (
	"studio-service/internal/domain/job"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
)

const (
	MsgAlreadyAssigned       = "already assigned"
	MsgJobNotOpen            = "job is no longer open"
	MsgNotJobAssignee        = "job is not assigned to this user"
	MsgJobNotWorkable        = "job is not assigned or in progress"
	MsgJobNotSubmitted       = "job has no submission awaiting review"
	MsgJobNotReviewed        = "job has not been reviewed"
	MsgDeliverableNotPending = "deliverable has already been reviewed"
	MsgBriefNotDraft         = "brief is not a draft"
	MsgBriefStatusChanged    = "brief status changed concurrently"
	MsgMilestoneApproved     = "milestone is already approved"
	MsgPaymentTransitionFmt  = "payment cannot move from %s to %s"
)

// CheckJobWorkable reports why userID may not start or submit on j, if at all.
func CheckJobWorkable(j *job.Job, userID uuid.UUID) error {
	if !j.IsAssignedTo(userID) {
		return apperrors.Forbidden(MsgNotJobAssignee)
	}
	if !j.Status.Workable() {
		return apperrors.InvalidState(MsgJobNotWorkable)
	}
	return nil
}
