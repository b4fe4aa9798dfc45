package service

import (
	"context"
	"strings"
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/notification"
	"studio-service/internal/domain/project"
	"studio-service/internal/rbac/presets"
	"studio-service/internal/repository"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
)

func (s *ProjectService) GetBrief(ctx context.Context, actor *account.Profile, projectID uuid.UUID) (*project.Brief, error) {
	if err := s.guard.Authorize(actor, presets.ResourceBrief, presets.ActionRead); err != nil {
		return nil, err
	}
	if _, err := s.guard.Project(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return s.projects.GetBriefByProject(ctx, projectID)
}

// UpdateBrief edits a brief that is still a draft.
func (s *ProjectService) UpdateBrief(ctx context.Context, actor *account.Profile, briefID uuid.UUID, patch project.UpdateBriefInput) (*project.Brief, error) {
	if err := s.guard.Authorize(actor, presets.ResourceBrief, presets.ActionUpdate); err != nil {
		return nil, err
	}
	b, err := s.briefFor(ctx, actor, briefID)
	if err != nil {
		return nil, err
	}
	if b.Status != project.BriefDraft {
		return nil, apperrors.InvalidState(repository.MsgBriefNotDraft)
	}

	if patch.Objective != nil {
		v := strings.TrimSpace(*patch.Objective)
		patch.Objective = &v
	}
	if patch.Audience != nil {
		v := strings.TrimSpace(*patch.Audience)
		patch.Audience = &v
	}
	return s.projects.UpdateBrief(ctx, briefID, patch)
}

// SubmitBrief moves a draft brief to submitted and alerts the stakeholders
// and every producer.
func (s *ProjectService) SubmitBrief(ctx context.Context, actor *account.Profile, briefID uuid.UUID) (*project.Brief, error) {
	if err := s.guard.Authorize(actor, presets.ResourceBrief, presets.ActionSubmit); err != nil {
		return nil, err
	}
	b, err := s.briefFor(ctx, actor, briefID)
	if err != nil {
		return nil, err
	}
	if b.Status != project.BriefDraft {
		return nil, apperrors.InvalidState(repository.MsgBriefNotDraft)
	}
	return s.moveBrief(ctx, actor, b, project.BriefSubmitted)
}

// TransitionBrief applies a brief status change. Admins may move a brief to
// any status; producers only one step forward; clients only submit.
func (s *ProjectService) TransitionBrief(ctx context.Context, actor *account.Profile, briefID uuid.UUID, to project.BriefStatus) (*project.Brief, error) {
	if err := s.guard.Authorize(actor, presets.ResourceBrief, presets.ActionRead); err != nil {
		return nil, err
	}
	if err := to.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	b, err := s.briefFor(ctx, actor, briefID)
	if err != nil {
		return nil, err
	}
	if b.Status == to {
		return nil, apperrors.InvalidState(msgBriefSameStatus)
	}

	next, hasNext := b.Status.Next()
	forward := hasNext && next == to

	switch {
	case s.guard.Can(actor, presets.ResourceBrief, presets.ActionManage):
	case s.guard.Can(actor, presets.ResourceBrief, presets.ActionApprove):
		if !forward {
			return nil, apperrors.InvalidState(msgBriefNotForward)
		}
	case s.guard.Can(actor, presets.ResourceBrief, presets.ActionSubmit) && b.Status == project.BriefDraft && to == project.BriefSubmitted:
	default:
		return nil, apperrors.Forbidden(msgBriefTransitionDenied)
	}

	moved, err := s.moveBrief(ctx, actor, b, to)
	if err != nil {
		return nil, err
	}
	if !forward {
		s.audit.Record(ctx, auditEvent(actor, audit.ResourceTypeBrief, b.ID, audit.ActionTransition, map[string]any{
			"from": string(b.Status),
			"to":   string(to),
		}))
	}
	return moved, nil
}

func (s *ProjectService) moveBrief(ctx context.Context, actor *account.Profile, b *project.Brief, to project.BriefStatus) (*project.Brief, error) {
	moved, err := s.projects.TransitionBrief(ctx, b.ID, b.Status, to)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"brief_id":   moved.ID.String(),
		"project_id": moved.ProjectID.String(),
		"from":       string(b.Status),
		"status":     string(moved.Status),
	}
	if to == project.BriefSubmitted {
		s.notifier.Publish(ctx, Fanout{
			ProjectID:  moved.ProjectID,
			Type:       notification.TypeBriefSubmitted,
			Payload:    payload,
			Exclude:    actor.ID,
			AlsoNotify: s.producerIDs(ctx),
		})
	} else {
		s.notifier.NotifyStakeholders(ctx, moved.ProjectID, notification.TypeBriefStatusChanged, payload, actor.ID)
	}
	return moved, nil
}

func (s *ProjectService) briefFor(ctx context.Context, actor *account.Profile, briefID uuid.UUID) (*project.Brief, error) {
	b, err := s.projects.GetBrief(ctx, briefID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Project(ctx, actor, b.ProjectID); err != nil {
		return nil, err
	}
	return b, nil
}
