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

	"github.com/google/uuid"
)

// SetProjectVisibility controls whether a project shows up in the public
// portfolio.
func (s *ProjectService) SetProjectVisibility(ctx context.Context, actor *account.Profile, id uuid.UUID, visibility project.Visibility) (*project.Project, error) {
	if err := s.guard.Authorize(actor, presets.ResourceProject, presets.ActionManage); err != nil {
		return nil, err
	}
	if err := visibility.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	p, err := s.projects.UpdateVisibility(ctx, id, visibility)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditEvent(actor, audit.ResourceTypeProject, p.ID, audit.ActionPublish, map[string]any{
		"visibility": string(visibility),
	}))
	return p, nil
}

type PublishUpdateRequest struct {
	ProjectID  uuid.UUID
	Title      string
	Body       string
	Visibility project.Visibility
}

func (s *ProjectService) PublishUpdate(ctx context.Context, actor *account.Profile, req PublishUpdateRequest) (*project.Update, error) {
	if err := s.guard.Authorize(actor, presets.ResourceUpdate, presets.ActionCreate); err != nil {
		return nil, err
	}

	if req.Visibility == "" {
		req.Visibility = project.VisibilityClient
	}
	if err := req.Visibility.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := validator.Title("title", req.Title); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := validator.Message("body", req.Body); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if _, err := s.guard.Project(ctx, actor, req.ProjectID); err != nil {
		return nil, err
	}

	u, err := s.projects.CreateUpdate(ctx, project.CreateUpdateInput{
		ProjectID:  req.ProjectID,
		AuthorID:   actor.ID,
		Title:      req.Title,
		Body:       req.Body,
		Visibility: req.Visibility,
	})
	if err != nil {
		return nil, err
	}

	audience := AudienceStakeholders
	if u.Visibility == project.VisibilityInternal {
		audience = AudienceTeam
	}
	s.notifier.Publish(ctx, Fanout{
		ProjectID: u.ProjectID,
		Type:      notification.TypeProjectUpdatePosted,
		Payload:   map[string]any{"update_id": u.ID.String(), "title": u.Title},
		Exclude:   actor.ID,
		Audience:  audience,
	})
	return u, nil
}

// ListUpdates filters by reader: outsiders see public updates of public
// projects, clients see public and client updates, the team sees all.
func (s *ProjectService) ListUpdates(ctx context.Context, actor *account.Profile, projectID uuid.UUID) ([]*project.Update, error) {
	if err := s.guard.Authorize(actor, presets.ResourceUpdate, presets.ActionRead); err != nil {
		return nil, err
	}
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	member, err := s.guard.IsMember(ctx, actor, p)
	if err != nil {
		return nil, err
	}
	if !member && p.Visibility != project.VisibilityPublic {
		return nil, apperrors.Forbidden(msgNoUpdatesVisible)
	}

	updates, err := s.projects.ListUpdates(ctx, projectID)
	if err != nil {
		return nil, err
	}

	visible := make([]*project.Update, 0, len(updates))
	for _, u := range updates {
		if updateVisibleTo(u.Visibility, member, actor.ProfileType) {
			visible = append(visible, u)
		}
	}
	return visible, nil
}

func updateVisibleTo(v project.Visibility, member bool, reader account.ProfileType) bool {
	switch v {
	case project.VisibilityPublic:
		return true
	case project.VisibilityClient:
		return member
	case project.VisibilityInternal:
		return member && reader != account.ProfileClient
	default:
		return false
	}
}

// ListPublicProjects backs the public portfolio and needs no identity.
func (s *ProjectService) ListPublicProjects(ctx context.Context) ([]*project.PublicProject, error) {
	projects, err := s.projects.ListByVisibility(ctx, project.VisibilityPublic)
	if err != nil {
		return nil, err
	}

	out := make([]*project.PublicProject, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Public())
	}
	return out, nil
}
