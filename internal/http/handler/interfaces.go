package handler

import (
	"context"
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/asset"
	"studio-service/internal/domain/assignment"
	"studio-service/internal/domain/comment"
	"studio-service/internal/domain/job"
	"studio-service/internal/domain/notification"
	"studio-service/internal/domain/project"
	"studio-service/internal/generation"
	"studio-service/internal/service"

	"github.com/google/uuid"
)

// Consumer-side interfaces defined by handlers.
// Each interface contains only the methods needed by the specific handler.

// AccountHandler interfaces
type AccountService interface {
	CreateClientAccount(ctx context.Context, actor *account.Profile, req service.CreateAccountRequest) (*account.ClientAccount, error)
	UpdateClientAccount(ctx context.Context, actor *account.Profile, id uuid.UUID, patch account.UpdateClientAccountInput) (*account.ClientAccount, error)
	GetClientAccount(ctx context.Context, actor *account.Profile, id uuid.UUID) (*account.ClientAccount, error)
	ListProfilesForAccount(ctx context.Context, actor *account.Profile, id uuid.UUID) ([]*account.Profile, error)
	EnsureProfile(ctx context.Context, userID uuid.UUID, fullName string) (*account.Profile, error)
	GetProfile(ctx context.Context, actor *account.Profile, id uuid.UUID) (*account.Profile, error)
	UpdateProfile(ctx context.Context, actor *account.Profile, id uuid.UUID, patch account.UpdateProfileInput) (*account.Profile, error)
}

// ProjectHandler interfaces
type ProjectService interface {
	CreateProject(ctx context.Context, actor *account.Profile, req service.CreateProjectRequest) (*project.Project, *project.Brief, error)
	GetProject(ctx context.Context, actor *account.Profile, id uuid.UUID) (*project.Project, error)
	ListProjectsForAccount(ctx context.Context, actor *account.Profile, accountID uuid.UUID) ([]*project.Summary, error)
	UpdateProjectStatus(ctx context.Context, actor *account.Profile, id uuid.UUID, status project.Status) (*project.Project, error)

	GetBrief(ctx context.Context, actor *account.Profile, projectID uuid.UUID) (*project.Brief, error)
	UpdateBrief(ctx context.Context, actor *account.Profile, briefID uuid.UUID, patch project.UpdateBriefInput) (*project.Brief, error)
	SubmitBrief(ctx context.Context, actor *account.Profile, briefID uuid.UUID) (*project.Brief, error)
	TransitionBrief(ctx context.Context, actor *account.Profile, briefID uuid.UUID, to project.BriefStatus) (*project.Brief, error)

	CreateMilestone(ctx context.Context, actor *account.Profile, req service.CreateMilestoneRequest) (*project.Milestone, error)
	ListMilestones(ctx context.Context, actor *account.Profile, projectID uuid.UUID) ([]*project.Milestone, error)
	ApproveMilestone(ctx context.Context, actor *account.Profile, id uuid.UUID) (*project.Milestone, error)

	SetProjectVisibility(ctx context.Context, actor *account.Profile, id uuid.UUID, visibility project.Visibility) (*project.Project, error)
	PublishUpdate(ctx context.Context, actor *account.Profile, req service.PublishUpdateRequest) (*project.Update, error)
	ListUpdates(ctx context.Context, actor *account.Profile, projectID uuid.UUID) ([]*project.Update, error)
	ListPublicProjects(ctx context.Context) ([]*project.PublicProject, error)
}

// AssignmentHandler interfaces
type AssignmentService interface {
	CreateAssignment(ctx context.Context, actor *account.Profile, req service.CreateAssignmentRequest) (*assignment.Assignment, error)
	RemoveAssignment(ctx context.Context, actor *account.Profile, id uuid.UUID) (*assignment.Assignment, error)
	ListAssignments(ctx context.Context, actor *account.Profile, projectID uuid.UUID) ([]*assignment.Assignment, error)
	ListAssignedProjects(ctx context.Context, actor *account.Profile, userID uuid.UUID) ([]*project.Project, error)
	GetAssignedProjectDetails(ctx context.Context, actor *account.Profile, projectID, userID uuid.UUID) (*service.ProjectView, error)
}

// AssetHandler interfaces
type AssetService interface {
	UploadAsset(ctx context.Context, actor *account.Profile, req service.UploadAssetRequest) (*asset.Asset, error)
	MarkAssetAsFinal(ctx context.Context, actor *account.Profile, id uuid.UUID) (*asset.Asset, error)
	DeleteAsset(ctx context.Context, actor *account.Profile, id uuid.UUID) error
	ListAssets(ctx context.Context, actor *account.Profile, projectID uuid.UUID) ([]*asset.Asset, error)
	GetFinalAsset(ctx context.Context, actor *account.Profile, projectID uuid.UUID) (*asset.Asset, error)
}

// CommentHandler interfaces
type CommentService interface {
	PostComment(ctx context.Context, actor *account.Profile, req service.PostCommentRequest) (*comment.Comment, error)
	ListComments(ctx context.Context, actor *account.Profile, projectID uuid.UUID) ([]*comment.Comment, error)
}

// JobHandler interfaces
type JobService interface {
	CreateJob(ctx context.Context, actor *account.Profile, req service.CreateJobRequest) (*job.Job, error)
	ListOpenJobs(ctx context.Context, actor *account.Profile) ([]*job.Job, error)
	ListMyJobs(ctx context.Context, actor *account.Profile) ([]*job.Job, error)
	ApplyToJob(ctx context.Context, actor *account.Profile, jobID uuid.UUID) (*job.Job, error)
	StartJob(ctx context.Context, actor *account.Profile, jobID uuid.UUID) (*job.Job, error)
	SubmitDeliverable(ctx context.Context, actor *account.Profile, req service.SubmitDeliverableRequest) (*job.Deliverable, error)
	GetJobDetails(ctx context.Context, actor *account.Profile, jobID uuid.UUID) (*job.View, error)
	ListDeliverables(ctx context.Context, actor *account.Profile, jobID uuid.UUID) ([]*job.Deliverable, error)
	ReviewDeliverable(ctx context.Context, actor *account.Profile, req service.ReviewRequest) (*job.QualityReview, *job.Job, error)
	CompleteJob(ctx context.Context, actor *account.Profile, jobID uuid.UUID) (*job.Job, *job.Payment, error)
	UpdatePaymentStatus(ctx context.Context, actor *account.Profile, paymentID uuid.UUID, to job.PaymentStatus) (*job.Payment, error)
	ListPayments(ctx context.Context, actor *account.Profile, creatorID uuid.UUID) ([]*job.Payment, error)
	GetCreatorStats(ctx context.Context, actor *account.Profile, creatorID uuid.UUID) (*job.Stats, error)
}

// InboxHandler interfaces
type InboxService interface {
	ListInbox(ctx context.Context, actor *account.Profile, limit int) ([]*notification.Notification, error)
	UnreadCount(ctx context.Context, actor *account.Profile) (int, error)
	MarkRead(ctx context.Context, actor *account.Profile, id uuid.UUID) (*notification.Notification, error)
}

// GenerationHandler interfaces
type ConceptGenerator interface {
	GenerateConcept(ctx context.Context, actor *account.Profile, projectID uuid.UUID, req generation.Request) (*generation.Result, error)
}

// AuditHandler interfaces
type AuditQuerier interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]*audit.Event, error)
}
