package postgres

import (
	"context"
	"studio-service/internal/domain/assignment"
	"studio-service/internal/repository"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
)

const assignmentColumns = `id, project_id, user_id, role, stage, status, workload, created_at, updated_at`

type AssignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func scanAssignment(row rowScanner) (*assignment.Assignment, error) {
	a := &assignment.Assignment{}
	err := row.Scan(&a.ID, &a.ProjectID, &a.UserID, &a.Role, &a.Stage, &a.Status, &a.Workload, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Create checks for an active pair first; the partial unique index on
// (project_id, user_id) WHERE status = 'active' closes the remaining race.
func (r *AssignmentRepository) Create(ctx context.Context, input assignment.CreateAssignmentInput) (*assignment.Assignment, error) {
	if _, err := r.GetActive(ctx, input.ProjectID, input.UserID); err == nil {
		return nil, apperrors.Conflict(repository.MsgAlreadyAssigned)
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	query := `
		INSERT INTO project_assignments (id, project_id, user_id, role, stage, status, workload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + assignmentColumns

	a, err := scanAssignment(r.db.Pool.QueryRow(ctx, query,
		uuid.New(), input.ProjectID, input.UserID, input.Role, input.Stage, assignment.StatusActive, input.Workload,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(repository.MsgAlreadyAssigned)
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errProjectNotFound)
		}
		return nil, errFailedCreateAssignment(err)
	}
	return a, nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM project_assignments WHERE id = $1`

	a, err := scanAssignment(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errAssignmentNotFound)
		}
		return nil, errFailedGetAssignment(err)
	}
	return a, nil
}

func (r *AssignmentRepository) GetActive(ctx context.Context, projectID, userID uuid.UUID) (*assignment.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + ` FROM project_assignments
		WHERE project_id = $1 AND user_id = $2 AND status = $3`

	a, err := scanAssignment(r.db.Pool.QueryRow(ctx, query, projectID, userID, assignment.StatusActive))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errAssignmentNotFound)
		}
		return nil, errFailedGetAssignment(err)
	}
	return a, nil
}

func (r *AssignmentRepository) Deactivate(ctx context.Context, id uuid.UUID) (*assignment.Assignment, error) {
	query := `
		UPDATE project_assignments SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + assignmentColumns

	a, err := scanAssignment(r.db.Pool.QueryRow(ctx, query, id, assignment.StatusInactive))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errAssignmentNotFound)
		}
		return nil, errFailedDeactivateAssignment(err)
	}
	return a, nil
}

func (r *AssignmentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*assignment.Assignment, error) {
	return r.list(ctx, `SELECT `+assignmentColumns+` FROM project_assignments WHERE project_id = $1 ORDER BY created_at`, projectID)
}

func (r *AssignmentRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*assignment.Assignment, error) {
	return r.list(ctx, `SELECT `+assignmentColumns+` FROM project_assignments WHERE user_id = $1 AND status = $2 ORDER BY created_at`,
		userID, assignment.StatusActive)
}

func (r *AssignmentRepository) list(ctx context.Context, query string, args ...any) ([]*assignment.Assignment, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListAssignments(err)
	}
	defer rows.Close()

	var assignments []*assignment.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, errFailedScanAssignment(err)
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}
