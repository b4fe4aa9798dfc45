package memory

import (
	"context"
	"maps"
	"studio-service/internal/domain/project"
	"studio-service/internal/repository"
	apperrors "studio-service/pkg/errors"
	"time"

	"github.com/google/uuid"
)

const (
	errProjectNotFound   = "project not found"
	errBriefNotFound     = "brief not found"
	errMilestoneNotFound = "milestone not found"
)

type ProjectRepository struct {
	s *Store
}

func NewProjectRepository(s *Store) *ProjectRepository {
	return &ProjectRepository{s: s}
}

func (r *ProjectRepository) CreateWithBrief(ctx context.Context, input project.CreateProjectInput) (*project.Project, *project.Brief, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	p := &project.Project{
		ID:              uuid.New(),
		Title:           input.Title,
		Status:          project.StatusDraft,
		Visibility:      project.VisibilityClient,
		ClientAccountID: input.ClientAccountID,
		CreatedBy:       input.CreatedBy,
		Metadata:        input.Metadata,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b := &project.Brief{
		ID:          uuid.New(),
		ProjectID:   p.ID,
		KeyMessages: []string{},
		Attachments: []string{},
		Status:      project.BriefDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.projects[p.ID] = cloneProject(p)
	r.s.briefs[b.ID] = cloneBrief(b)

	return cloneProject(p), cloneBrief(b), nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, apperrors.NotFound(errProjectNotFound)
	}
	return cloneProject(p), nil
}

func (r *ProjectRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*project.Project, error) {
	return r.filter(func(p *project.Project) bool { return p.ClientAccountID == accountID }), nil
}

func (r *ProjectRepository) ListByVisibility(ctx context.Context, visibility project.Visibility) ([]*project.Project, error) {
	return r.filter(func(p *project.Project) bool { return p.Visibility == visibility }), nil
}

func (r *ProjectRepository) filter(keep func(*project.Project) bool) []*project.Project {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var projects []*project.Project
	for _, p := range r.s.projects {
		if keep(p) {
			projects = append(projects, cloneProject(p))
		}
	}
	sortByCreated(projects,
		func(p *project.Project) time.Time { return p.CreatedAt },
		func(p *project.Project) uuid.UUID { return p.ID })
	return projects
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status project.Status) (*project.Project, error) {
	return r.mutate(id, func(p *project.Project) { p.Status = status })
}

func (r *ProjectRepository) UpdateVisibility(ctx context.Context, id uuid.UUID, visibility project.Visibility) (*project.Project, error) {
	return r.mutate(id, func(p *project.Project) { p.Visibility = visibility })
}

func (r *ProjectRepository) mutate(id uuid.UUID, apply func(*project.Project)) (*project.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, apperrors.NotFound(errProjectNotFound)
	}
	apply(p)
	p.UpdatedAt = r.s.now()

	return cloneProject(p), nil
}

func (r *ProjectRepository) GetBrief(ctx context.Context, id uuid.UUID) (*project.Brief, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.briefs[id]
	if !ok {
		return nil, apperrors.NotFound(errBriefNotFound)
	}
	return cloneBrief(b), nil
}

func (r *ProjectRepository) GetBriefByProject(ctx context.Context, projectID uuid.UUID) (*project.Brief, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, b := range r.s.briefs {
		if b.ProjectID == projectID {
			return cloneBrief(b), nil
		}
	}
	return nil, apperrors.NotFound(errBriefNotFound)
}

func (r *ProjectRepository) UpdateBrief(ctx context.Context, id uuid.UUID, input project.UpdateBriefInput) (*project.Brief, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.briefs[id]
	if !ok {
		return nil, apperrors.NotFound(errBriefNotFound)
	}
	if b.Status != project.BriefDraft {
		return nil, apperrors.InvalidState(repository.MsgBriefNotDraft)
	}

	if input.Objective != nil {
		b.Objective = *input.Objective
	}
	if input.Audience != nil {
		b.Audience = *input.Audience
	}
	if input.KeyMessages != nil {
		b.KeyMessages = append([]string(nil), input.KeyMessages...)
	}
	if input.BudgetRange != nil {
		b.BudgetRange = *input.BudgetRange
	}
	if input.DeadlineDate != nil {
		b.DeadlineDate = timePtr(*input.DeadlineDate)
	}
	if input.ReferencesPayload != nil {
		b.ReferencesPayload = maps.Clone(input.ReferencesPayload)
	}
	if input.Attachments != nil {
		b.Attachments = append([]string(nil), input.Attachments...)
	}
	b.UpdatedAt = r.s.now()

	return cloneBrief(b), nil
}

func (r *ProjectRepository) TransitionBrief(ctx context.Context, id uuid.UUID, from, to project.BriefStatus) (*project.Brief, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.briefs[id]
	if !ok {
		return nil, apperrors.NotFound(errBriefNotFound)
	}
	if b.Status != from {
		return nil, apperrors.InvalidState(repository.MsgBriefStatusChanged)
	}
	b.Status = to
	b.UpdatedAt = r.s.now()

	return cloneBrief(b), nil
}

func (r *ProjectRepository) CreateMilestone(ctx context.Context, input project.CreateMilestoneInput) (*project.Milestone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[input.ProjectID]; !ok {
		return nil, apperrors.NotFound(errProjectNotFound)
	}

	m := &project.Milestone{
		ID:          uuid.New(),
		ProjectID:   input.ProjectID,
		Name:        input.Name,
		Description: input.Description,
		DueAt:       input.DueAt,
		Status:      project.MilestonePending,
		CreatedAt:   r.s.now(),
	}
	r.s.milestones[m.ID] = cloneMilestone(m)

	return cloneMilestone(m), nil
}

func (r *ProjectRepository) GetMilestone(ctx context.Context, id uuid.UUID) (*project.Milestone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.milestones[id]
	if !ok {
		return nil, apperrors.NotFound(errMilestoneNotFound)
	}
	return cloneMilestone(m), nil
}

func (r *ProjectRepository) ListMilestones(ctx context.Context, projectID uuid.UUID) ([]*project.Milestone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var milestones []*project.Milestone
	for _, m := range r.s.milestones {
		if m.ProjectID == projectID {
			milestones = append(milestones, cloneMilestone(m))
		}
	}
	sortByCreated(milestones,
		func(m *project.Milestone) time.Time { return m.CreatedAt },
		func(m *project.Milestone) uuid.UUID { return m.ID })
	return milestones, nil
}

func (r *ProjectRepository) ApproveMilestone(ctx context.Context, id, approvedBy uuid.UUID) (*project.Milestone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.milestones[id]
	if !ok {
		return nil, apperrors.NotFound(errMilestoneNotFound)
	}
	if m.Status == project.MilestoneApproved {
		return nil, apperrors.InvalidState(repository.MsgMilestoneApproved)
	}
	m.Status = project.MilestoneApproved
	m.ApprovedAt = timePtr(r.s.now())
	m.ApprovedBy = uuidPtr(approvedBy)

	return cloneMilestone(m), nil
}

func (r *ProjectRepository) CreateUpdate(ctx context.Context, input project.CreateUpdateInput) (*project.Update, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[input.ProjectID]; !ok {
		return nil, apperrors.NotFound(errProjectNotFound)
	}

	u := &project.Update{
		ID:         uuid.New(),
		ProjectID:  input.ProjectID,
		AuthorID:   input.AuthorID,
		Title:      input.Title,
		Body:       input.Body,
		Visibility: input.Visibility,
		CreatedAt:  r.s.now(),
	}
	r.s.updates[u.ID] = cloneUpdate(u)

	return cloneUpdate(u), nil
}

func (r *ProjectRepository) ListUpdates(ctx context.Context, projectID uuid.UUID) ([]*project.Update, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var updates []*project.Update
	for _, u := range r.s.updates {
		if u.ProjectID == projectID {
			updates = append(updates, cloneUpdate(u))
		}
	}
	sortByCreated(updates,
		func(u *project.Update) time.Time { return u.CreatedAt },
		func(u *project.Update) uuid.UUID { return u.ID })
	return updates, nil
}
