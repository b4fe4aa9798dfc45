package repository

import (
	"context"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/asset"
	"studio-service/internal/domain/assignment"
	"studio-service/internal/domain/comment"
	"studio-service/internal/domain/job"
	"studio-service/internal/domain/notification"
	"studio-service/internal/domain/project"

	"github.com/google/uuid"
)

// Provider-side interfaces. The postgres and memory packages both satisfy
// every one of them. Missing rows surface as apperrors.ErrNotFound, duplicate
// keys as apperrors.ErrConflict.

type AccountRepository interface {
	Create(ctx context.Context, input account.CreateClientAccountInput) (*account.ClientAccount, error)
	GetByID(ctx context.Context, id uuid.UUID) (*account.ClientAccount, error)
	Update(ctx context.Context, id uuid.UUID, input account.UpdateClientAccountInput) (*account.ClientAccount, error)
}

type ProfileRepository interface {
	// Ensure inserts the profile unless one already exists for input.ID and
	// returns the stored row either way.
	Ensure(ctx context.Context, input account.CreateProfileInput) (*account.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*account.Profile, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*account.Profile, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Profile, error)
	ListByType(ctx context.Context, profileType account.ProfileType) ([]*account.Profile, error)
	Update(ctx context.Context, id uuid.UUID, input account.UpdateProfileInput) (*account.Profile, error)
}

type ProjectRepository interface {
	// CreateWithBrief inserts the project and its draft brief atomically.
	CreateWithBrief(ctx context.Context, input project.CreateProjectInput) (*project.Project, *project.Brief, error)
	GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*project.Project, error)
	ListByVisibility(ctx context.Context, visibility project.Visibility) ([]*project.Project, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status project.Status) (*project.Project, error)
	UpdateVisibility(ctx context.Context, id uuid.UUID, visibility project.Visibility) (*project.Project, error)

	GetBrief(ctx context.Context, id uuid.UUID) (*project.Brief, error)
	GetBriefByProject(ctx context.Context, projectID uuid.UUID) (*project.Brief, error)
	// UpdateBrief only applies while the brief is still a draft.
	UpdateBrief(ctx context.Context, id uuid.UUID, input project.UpdateBriefInput) (*project.Brief, error)
	// TransitionBrief moves the brief from one status to another with a
	// conditional write; it fails with ErrInvalidState if the brief is no
	// longer in from.
	TransitionBrief(ctx context.Context, id uuid.UUID, from, to project.BriefStatus) (*project.Brief, error)

	CreateMilestone(ctx context.Context, input project.CreateMilestoneInput) (*project.Milestone, error)
	GetMilestone(ctx context.Context, id uuid.UUID) (*project.Milestone, error)
	ListMilestones(ctx context.Context, projectID uuid.UUID) ([]*project.Milestone, error)
	ApproveMilestone(ctx context.Context, id, approvedBy uuid.UUID) (*project.Milestone, error)

	CreateUpdate(ctx context.Context, input project.CreateUpdateInput) (*project.Update, error)
	ListUpdates(ctx context.Context, projectID uuid.UUID) ([]*project.Update, error)
}

type AssignmentRepository interface {
	// Create fails with ErrConflict while an active assignment exists for
	// the same (project, user).
	Create(ctx context.Context, input assignment.CreateAssignmentInput) (*assignment.Assignment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error)
	GetActive(ctx context.Context, projectID, userID uuid.UUID) (*assignment.Assignment, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*assignment.Assignment, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*assignment.Assignment, error)
}

type AssetRepository interface {
	// CreateNextVersion allocates version max+1 for the project in the same
	// statement that inserts the row.
	CreateNextVersion(ctx context.Context, input asset.CreateAssetInput) (*asset.Asset, error)
	GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*asset.Asset, error)
	// MarkFinal demotes every asset of the project and promotes id in one
	// transaction.
	MarkFinal(ctx context.Context, id uuid.UUID) (*asset.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, input comment.CreateCommentInput) (*comment.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*comment.Comment, error)
}

type NotificationRepository interface {
	CreateBatch(ctx context.Context, inputs []notification.CreateNotificationInput) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*notification.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	// MarkRead sets read_at once; it is scoped to the recipient.
	MarkRead(ctx context.Context, userID, id uuid.UUID) (*notification.Notification, error)
}

type JobRepository interface {
	Create(ctx context.Context, input job.CreateJobInput) (*job.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
	ListByStatus(ctx context.Context, status job.Status) ([]*job.Job, error)
	ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*job.Job, error)

	// Claim assigns an open job to userID. Only one concurrent caller wins;
	// the rest get ErrConflict and the job is left untouched.
	Claim(ctx context.Context, id, userID uuid.UUID) (*job.Job, error)
	Start(ctx context.Context, id, userID uuid.UUID) (*job.Job, error)
	// SubmitDeliverable locks the job, checks assignee and status, inserts
	// the next deliverable version and moves the job to submitted.
	SubmitDeliverable(ctx context.Context, input job.SubmitDeliverableInput) (*job.Deliverable, *job.Job, error)
	GetDeliverable(ctx context.Context, id uuid.UUID) (*job.Deliverable, error)
	ListDeliverables(ctx context.Context, jobID uuid.UUID) ([]*job.Deliverable, error)
	// Review records the review, updates the deliverable and moves the job
	// to reviewed or back to in_progress.
	Review(ctx context.Context, input job.ReviewInput) (*job.QualityReview, *job.Job, error)
	// Complete moves a reviewed job to completed and records its pending payment.
	Complete(ctx context.Context, id uuid.UUID) (*job.Job, *job.Payment, error)

	GetPayment(ctx context.Context, id uuid.UUID) (*job.Payment, error)
	ListPaymentsByCreator(ctx context.Context, creatorID uuid.UUID) ([]*job.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to job.PaymentStatus) (*job.Payment, error)
}
