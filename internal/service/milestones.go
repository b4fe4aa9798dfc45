package service

import (
	"context"
	"strings"
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/notification"
	"studio-service/internal/domain/project"
	"studio-service/internal/rbac/presets"
	apperrors "studio-service/pkg/errors"
	"studio-service/pkg/validator"
	"time"

	"github.com/google/uuid"
)

type CreateMilestoneRequest struct {
	ProjectID   uuid.UUID
	Name        string
	Description string
	DueAt       *time.Time
}

func (s *ProjectService) CreateMilestone(ctx context.Context, actor *account.Profile, req CreateMilestoneRequest) (*project.Milestone, error) {
	if err := s.guard.Authorize(actor, presets.ResourceMilestone, presets.ActionCreate); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validator.Name("name", req.Name); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if _, err := s.guard.Project(ctx, actor, req.ProjectID); err != nil {
		return nil, err
	}

	m, err := s.projects.CreateMilestone(ctx, project.CreateMilestoneInput{
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		DueAt:       req.DueAt,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyStakeholders(ctx, m.ProjectID, notification.TypeMilestoneCreated, map[string]any{
		"milestone_id": m.ID.String(),
		"name":         m.Name,
	}, actor.ID)
	return m, nil
}

func (s *ProjectService) ListMilestones(ctx context.Context, actor *account.Profile, projectID uuid.UUID) ([]*project.Milestone, error) {
	if err := s.guard.Authorize(actor, presets.ResourceMilestone, presets.ActionRead); err != nil {
		return nil, err
	}
	if _, err := s.guard.Project(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return s.projects.ListMilestones(ctx, projectID)
}

// ApproveMilestone stamps approval once; a second approval is InvalidState.
func (s *ProjectService) ApproveMilestone(ctx context.Context, actor *account.Profile, id uuid.UUID) (*project.Milestone, error) {
	if err := s.guard.Authorize(actor, presets.ResourceMilestone, presets.ActionApprove); err != nil {
		return nil, err
	}
	m, err := s.projects.GetMilestone(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Project(ctx, actor, m.ProjectID); err != nil {
		return nil, err
	}

	approved, err := s.projects.ApproveMilestone(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditEvent(actor, audit.ResourceTypeMilestone, approved.ID, audit.ActionApprove, nil))
	s.notifier.NotifyStakeholders(ctx, approved.ProjectID, notification.TypeMilestoneApproved, map[string]any{
		"milestone_id": approved.ID.String(),
		"name":         approved.Name,
	}, actor.ID)
	return approved, nil
}
