package service

import (
	"context"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/assignment"
	"studio-service/internal/domain/project"
	"studio-service/internal/rbac"
	apperrors "studio-service/pkg/errors"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

type ProjectGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*project.Project, error)
}

type ActiveAssignmentGetter interface {
	GetActive(ctx context.Context, projectID, userID uuid.UUID) (*assignment.Assignment, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*assignment.Assignment, error)
}

// Guard combines the role capability matrix with project membership.
type Guard struct {
	checker     *rbac.Checker
	projects    ProjectGetter
	assignments ActiveAssignmentGetter
}

func NewGuard(checker *rbac.Checker, projects ProjectGetter, assignments ActiveAssignmentGetter) *Guard {
	return &Guard{checker: checker, projects: projects, assignments: assignments}
}

func roleOf(p *account.Profile) rbac.Role {
	return rbac.Role(p.ProfileType)
}

// Authorize fails with ErrForbidden unless the actor's role may perform
// action on resource.
func (g *Guard) Authorize(actor *account.Profile, resource rbac.Resource, action rbac.Action) error {
	if actor == nil {
		return apperrors.Unauthorized(msgMissingActor)
	}
	if err := g.checker.Authorize(roleOf(actor), resource, action); err != nil {
		return apperrors.Forbidden(err.Error())
	}
	return nil
}

func (g *Guard) Can(actor *account.Profile, resource rbac.Resource, action rbac.Action) bool {
	return actor != nil && g.checker.Can(roleOf(actor), resource, action)
}

// IsMember reports whether the actor may see the project: producers and
// admins always, clients of the owning account, and active assignees.
func (g *Guard) IsMember(ctx context.Context, actor *account.Profile, p *project.Project) (bool, error) {
	if actor.IsStaff() || actor.BelongsTo(p.ClientAccountID) {
		return true, nil
	}
	return g.IsAssigned(ctx, p.ID, actor.ID)
}

func (g *Guard) IsAssigned(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	_, err := g.assignments.GetActive(ctx, projectID, userID)
	if err == nil {
		return true, nil
	}
	if apperrors.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// SharesProject reports whether a and b are members of a common project.
// Staff belong to every project, so they share one with anybody who belongs
// to at least one.
func (g *Guard) SharesProject(ctx context.Context, a, b *account.Profile) (bool, error) {
	if a.IsStaff() && b.IsStaff() {
		return true, nil
	}
	if a.IsStaff() {
		a, b = b, a
	}

	left, err := g.memberProjects(ctx, a)
	if err != nil {
		return false, err
	}
	if b.IsStaff() {
		return left.Cardinality() > 0, nil
	}

	right, err := g.memberProjects(ctx, b)
	if err != nil {
		return false, err
	}
	return left.Intersect(right).Cardinality() > 0, nil
}

// memberProjects lists the projects a non-staff profile can see: its
// account's projects for clients, plus active assignments.
func (g *Guard) memberProjects(ctx context.Context, p *account.Profile) (mapset.Set[uuid.UUID], error) {
	ids := mapset.NewThreadUnsafeSet[uuid.UUID]()
	if p.ProfileType == account.ProfileClient && p.ClientAccountID != nil {
		projects, err := g.projects.ListByAccount(ctx, *p.ClientAccountID)
		if err != nil {
			return nil, err
		}
		for _, pr := range projects {
			ids.Add(pr.ID)
		}
	}

	assignments, err := g.assignments.ListActiveByUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		ids.Add(a.ProjectID)
	}
	return ids, nil
}

// Project loads a project and checks the actor may see it.
func (g *Guard) Project(ctx context.Context, actor *account.Profile, projectID uuid.UUID) (*project.Project, error) {
	if actor == nil {
		return nil, apperrors.Unauthorized(msgMissingActor)
	}
	p, err := g.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	ok, err := g.IsMember(ctx, actor, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Forbidden(msgNotProjectMember)
	}
	return p, nil
}

// SelfOrStaff lets users act on their own records and staff on anyone's.
func (g *Guard) SelfOrStaff(actor *account.Profile, userID uuid.UUID) error {
	if actor == nil {
		return apperrors.Unauthorized(msgMissingActor)
	}
	if actor.ID != userID && !actor.IsStaff() {
		return apperrors.Forbidden(msgNotSelf)
	}
	return nil
}

// AccountScope lets staff act on any account and clients only on their own.
func (g *Guard) AccountScope(actor *account.Profile, accountID uuid.UUID) error {
	if actor == nil {
		return apperrors.Unauthorized(msgMissingActor)
	}
	if actor.IsStaff() || actor.BelongsTo(accountID) {
		return nil
	}
	return apperrors.Forbidden(msgAccountMismatch)
}
