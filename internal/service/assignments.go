package service

import (
	"context"
	"strings"
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/asset"
	"studio-service/internal/domain/assignment"
	"studio-service/internal/domain/comment"
	"studio-service/internal/domain/notification"
	"studio-service/internal/domain/project"
	"studio-service/internal/rbac/presets"
	"studio-service/internal/repository"
	apperrors "studio-service/pkg/errors"
	"studio-service/pkg/validator"

	"github.com/google/uuid"
)

type ProfileGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*account.Profile, error)
}

type AssetLister interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*asset.Asset, error)
}

type CommentLister interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*comment.Comment, error)
}

// ProjectView is everything an assignee needs to work on a project.
type ProjectView struct {
	Project    *project.Project     `json:"project"`
	Brief      *project.Brief       `json:"brief,omitempty"`
	Milestones []*project.Milestone `json:"milestones"`
	Assets     []*asset.Asset       `json:"assets"`
	Comments   []*comment.Comment   `json:"comments"`
}

type AssignmentService struct {
	assignments repository.AssignmentRepository
	projects    repository.ProjectRepository
	profiles    ProfileGetter
	assets      AssetLister
	comments    CommentLister
	guard       *Guard
	notifier    *Notifier
	audit       Auditor
}

func NewAssignmentService(
	assignments repository.AssignmentRepository,
	projects repository.ProjectRepository,
	profiles ProfileGetter,
	assets AssetLister,
	comments CommentLister,
	guard *Guard,
	notifier *Notifier,
	auditor Auditor,
) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		projects:    projects,
		profiles:    profiles,
		assets:      assets,
		comments:    comments,
		guard:       guard,
		notifier:    notifier,
		audit:       orNopAuditor(auditor),
	}
}

type CreateAssignmentRequest struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Role      string
	Stage     string
	Workload  *int
}

// CreateAssignment binds a user to a project. A user holds at most one
// active assignment per project.
func (s *AssignmentService) CreateAssignment(ctx context.Context, actor *account.Profile, req CreateAssignmentRequest) (*assignment.Assignment, error) {
	if err := s.guard.Authorize(actor, presets.ResourceAssignment, presets.ActionCreate); err != nil {
		return nil, err
	}

	req.Role = strings.TrimSpace(req.Role)
	if err := validator.Name("role", req.Role); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if req.Workload != nil && *req.Workload < 0 {
		return nil, apperrors.Validation(msgNegativeWorkload)
	}
	if _, err := s.guard.Project(ctx, actor, req.ProjectID); err != nil {
		return nil, err
	}
	if _, err := s.profiles.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	existing, err := s.guard.IsAssigned(ctx, req.ProjectID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing {
		return nil, apperrors.Conflict(repository.MsgAlreadyAssigned)
	}

	a, err := s.assignments.Create(ctx, assignment.CreateAssignmentInput{
		ProjectID: req.ProjectID,
		UserID:    req.UserID,
		Role:      req.Role,
		Stage:     strings.TrimSpace(req.Stage),
		Workload:  req.Workload,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditEvent(actor, audit.ResourceTypeAssignment, a.ID, audit.ActionCreate, map[string]any{
		"project_id": a.ProjectID.String(),
		"user_id":    a.UserID.String(),
	}))
	s.notifier.NotifyStakeholders(ctx, a.ProjectID, notification.TypeAssignmentCreated, map[string]any{
		"assignment_id": a.ID.String(),
		"user_id":       a.UserID.String(),
		"role":          a.Role,
	}, actor.ID)
	return a, nil
}

// RemoveAssignment deactivates the assignment; the row is kept.
func (s *AssignmentService) RemoveAssignment(ctx context.Context, actor *account.Profile, id uuid.UUID) (*assignment.Assignment, error) {
	if err := s.guard.Authorize(actor, presets.ResourceAssignment, presets.ActionDelete); err != nil {
		return nil, err
	}
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Project(ctx, actor, a.ProjectID); err != nil {
		return nil, err
	}

	removed, err := s.assignments.Deactivate(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditEvent(actor, audit.ResourceTypeAssignment, removed.ID, audit.ActionRemove, map[string]any{
		"project_id": removed.ProjectID.String(),
		"user_id":    removed.UserID.String(),
	}))
	s.notifier.NotifyStakeholders(ctx, removed.ProjectID, notification.TypeAssignmentRemoved, map[string]any{
		"assignment_id": removed.ID.String(),
		"user_id":       removed.UserID.String(),
	}, actor.ID)
	return removed, nil
}

func (s *AssignmentService) ListAssignments(ctx context.Context, actor *account.Profile, projectID uuid.UUID) ([]*assignment.Assignment, error) {
	if err := s.guard.Authorize(actor, presets.ResourceAssignment, presets.ActionRead); err != nil {
		return nil, err
	}
	if _, err := s.guard.Project(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return s.assignments.ListByProject(ctx, projectID)
}

// ListAssignedProjects returns the projects a user is actively assigned to.
func (s *AssignmentService) ListAssignedProjects(ctx context.Context, actor *account.Profile, userID uuid.UUID) ([]*project.Project, error) {
	if err := s.guard.SelfOrStaff(actor, userID); err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	projects := make([]*project.Project, 0, len(assignments))
	for _, a := range assignments {
		p, err := s.projects.GetByID(ctx, a.ProjectID)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// GetAssignedProjectDetails requires an active assignment for the pair and
// returns the joined project view.
func (s *AssignmentService) GetAssignedProjectDetails(ctx context.Context, actor *account.Profile, projectID, userID uuid.UUID) (*ProjectView, error) {
	if err := s.guard.SelfOrStaff(actor, userID); err != nil {
		return nil, err
	}
	assigned, err := s.guard.IsAssigned(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, apperrors.Forbidden(msgNotAssigned)
	}

	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	view := &ProjectView{Project: p}

	brief, err := s.projects.GetBriefByProject(ctx, projectID)
	switch {
	case err == nil:
		view.Brief = brief
	case !apperrors.IsNotFound(err):
		return nil, err
	}

	if view.Milestones, err = s.projects.ListMilestones(ctx, projectID); err != nil {
		return nil, err
	}
	if view.Assets, err = s.assets.ListByProject(ctx, projectID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	reader := actor
	if actor.ID != userID {
		if reader, err = s.profiles.GetByID(ctx, userID); err != nil {
			return nil, err
		}
	}
	view.Comments = visibleComments(comments, reader)
	return view, nil
}
