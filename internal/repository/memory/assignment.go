package memory

import (
	"context"
	"studio-service/internal/domain/assignment"
	"studio-service/internal/repository"
	apperrors "studio-service/pkg/errors"
	"time"

	"github.com/google/uuid"
)

const errAssignmentNotFound = "assignment not found"

type AssignmentRepository struct {
	s *Store
}

func NewAssignmentRepository(s *Store) *AssignmentRepository {
	return &AssignmentRepository{s: s}
}

// Create checks for an active pair and inserts under the same lock.
func (r *AssignmentRepository) Create(ctx context.Context, input assignment.CreateAssignmentInput) (*assignment.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.assignments {
		if a.ProjectID == input.ProjectID && a.UserID == input.UserID && a.IsActive() {
			return nil, apperrors.Conflict(repository.MsgAlreadyAssigned)
		}
	}

	now := r.s.now()
	a := &assignment.Assignment{
		ID:        uuid.New(),
		ProjectID: input.ProjectID,
		UserID:    input.UserID,
		Role:      input.Role,
		Stage:     input.Stage,
		Status:    assignment.StatusActive,
		Workload:  input.Workload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.assignments[a.ID] = cloneAssignment(a)

	return cloneAssignment(a), nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.assignments[id]
	if !ok {
		return nil, apperrors.NotFound(errAssignmentNotFound)
	}
	return cloneAssignment(a), nil
}

func (r *AssignmentRepository) GetActive(ctx context.Context, projectID, userID uuid.UUID) (*assignment.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.assignments {
		if a.ProjectID == projectID && a.UserID == userID && a.IsActive() {
			return cloneAssignment(a), nil
		}
	}
	return nil, apperrors.NotFound(errAssignmentNotFound)
}

func (r *AssignmentRepository) Deactivate(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.assignments[id]
	if !ok {
		return nil, apperrors.NotFound(errAssignmentNotFound)
	}
	a.Status = assignment.StatusInactive
	a.UpdatedAt = r.s.now()

	return cloneAssignment(a), nil
}

func (r *AssignmentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*assignment.Assignment, error) {
	return r.filter(func(a *assignment.Assignment) bool { return a.ProjectID == projectID }), nil
}

func (r *AssignmentRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*assignment.Assignment, error) {
	return r.filter(func(a *assignment.Assignment) bool { return a.UserID == userID && a.IsActive() }), nil
}

func (r *AssignmentRepository) filter(keep func(*assignment.Assignment) bool) []*assignment.Assignment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*assignment.Assignment
	for _, a := range r.s.assignments {
		if keep(a) {
			out = append(out, cloneAssignment(a))
		}
	}
	sortByCreated(out,
		func(a *assignment.Assignment) time.Time { return a.CreatedAt },
		func(a *assignment.Assignment) uuid.UUID { return a.ID })
	return out
}
