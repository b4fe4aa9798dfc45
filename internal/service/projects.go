package service

import (
	"context"
	"log/slog"
	"strings"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/notification"
	"studio-service/internal/domain/project"
	"studio-service/internal/rbac/presets"
	"studio-service/internal/repository"
	apperrors "studio-service/pkg/errors"
	"studio-service/pkg/validator"

	"github.com/google/uuid"
)

const msgAccountNotActive = "client account is not active"

type AccountGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*account.ClientAccount, error)
}

type ProfileTypeLister interface {
	ListByType(ctx context.Context, profileType account.ProfileType) ([]*account.Profile, error)
}

// ProjectService owns projects, their brief, milestones and published updates.
type ProjectService struct {
	projects    repository.ProjectRepository
	accounts    AccountGetter
	profiles    ProfileTypeLister
	assignments ProjectAssignmentLister
	guard       *Guard
	notifier    *Notifier
	audit       Auditor
	log         *slog.Logger
}

func NewProjectService(
	projects repository.ProjectRepository,
	accounts AccountGetter,
	profiles ProfileTypeLister,
	assignments ProjectAssignmentLister,
	guard *Guard,
	notifier *Notifier,
	auditor Auditor,
	log *slog.Logger,
) *ProjectService {
	return &ProjectService{
		projects:    projects,
		accounts:    accounts,
		profiles:    profiles,
		assignments: assignments,
		guard:       guard,
		notifier:    notifier,
		audit:       orNopAuditor(auditor),
		log:         orDefaultLogger(log),
	}
}

type CreateProjectRequest struct {
	ClientAccountID uuid.UUID
	Title           string
	Metadata        map[string]any
}

// CreateProject opens a draft project for an account together with its
// draft brief.
func (s *ProjectService) CreateProject(ctx context.Context, actor *account.Profile, req CreateProjectRequest) (*project.Project, *project.Brief, error) {
	if err := s.guard.Authorize(actor, presets.ResourceProject, presets.ActionCreate); err != nil {
		return nil, nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validator.Title("title", req.Title); err != nil {
		return nil, nil, apperrors.Validation(err.Error())
	}
	if req.ClientAccountID == uuid.Nil {
		return nil, nil, apperrors.Validation(msgAccountIDRequired)
	}
	if err := s.guard.AccountScope(actor, req.ClientAccountID); err != nil {
		return nil, nil, err
	}

	acct, err := s.accounts.GetByID(ctx, req.ClientAccountID)
	if err != nil {
		return nil, nil, err
	}
	if acct.Status != account.StatusActive {
		return nil, nil, apperrors.InvalidState(msgAccountNotActive)
	}

	p, brief, err := s.projects.CreateWithBrief(ctx, project.CreateProjectInput{
		ClientAccountID: req.ClientAccountID,
		Title:           req.Title,
		CreatedBy:       actor.ID,
		Metadata:        req.Metadata,
	})
	if err != nil {
		return nil, nil, err
	}

	s.notifier.NotifyStakeholders(ctx, p.ID, notification.TypeProjectCreated, map[string]any{
		"project_id": p.ID.String(),
		"title":      p.Title,
	}, actor.ID)
	return p, brief, nil
}

func (s *ProjectService) GetProject(ctx context.Context, actor *account.Profile, id uuid.UUID) (*project.Project, error) {
	if err := s.guard.Authorize(actor, presets.ResourceProject, presets.ActionRead); err != nil {
		return nil, err
	}
	return s.guard.Project(ctx, actor, id)
}

// ListProjectsForAccount returns dashboard summaries for every project of
// the account. A missing account id is reported as not found rather than
// as an empty list.
func (s *ProjectService) ListProjectsForAccount(ctx context.Context, actor *account.Profile, accountID uuid.UUID) ([]*project.Summary, error) {
	if err := s.guard.Authorize(actor, presets.ResourceProject, presets.ActionRead); err != nil {
		return nil, err
	}
	if accountID == uuid.Nil {
		return nil, apperrors.NotFound(msgAccountIDRequired)
	}
	if err := s.guard.AccountScope(actor, accountID); err != nil {
		return nil, err
	}
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	projects, err := s.projects.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*project.Summary, 0, len(projects))
	for _, p := range projects {
		summary, err := s.summarize(ctx, p)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *ProjectService) summarize(ctx context.Context, p *project.Project) (*project.Summary, error) {
	summary := &project.Summary{Project: p}

	brief, err := s.projects.GetBriefByProject(ctx, p.ID)
	switch {
	case err == nil:
		summary.Brief = brief
	case !apperrors.IsNotFound(err):
		return nil, err
	}

	assignments, err := s.assignments.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		if a.IsActive() {
			summary.ActiveAssignments++
		}
	}

	milestones, err := s.projects.ListMilestones(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	summary.MilestoneCount = len(milestones)
	for _, m := range milestones {
		if m.Status == project.MilestoneApproved {
			summary.ApprovedMilestones++
		}
	}
	return summary, nil
}

func (s *ProjectService) UpdateProjectStatus(ctx context.Context, actor *account.Profile, id uuid.UUID, status project.Status) (*project.Project, error) {
	if err := s.guard.Authorize(actor, presets.ResourceProject, presets.ActionUpdate); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if _, err := s.guard.Project(ctx, actor, id); err != nil {
		return nil, err
	}

	p, err := s.projects.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyStakeholders(ctx, p.ID, notification.TypeProjectStatusChanged, map[string]any{
		"project_id": p.ID.String(),
		"status":     string(p.Status),
	}, actor.ID)
	return p, nil
}

// producerIDs is best effort: a lookup failure only narrows the fan-out.
func (s *ProjectService) producerIDs(ctx context.Context) []uuid.UUID {
	producers, err := s.profiles.ListByType(ctx, account.ProfileProducer)
	if err != nil {
		s.log.ErrorContext(ctx, logProducerLookup, slog.Any("error", err))
		return nil
	}
	ids := make([]uuid.UUID, 0, len(producers))
	for _, p := range producers {
		ids = append(ids, p.ID)
	}
	return ids
}
