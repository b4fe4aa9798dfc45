package postgres

import (
	"context"
	"fmt"
	"studio-service/internal/domain/project"
	"studio-service/internal/repository"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	projectColumns   = `id, title, status, visibility, client_account_id, created_by, metadata, created_at, updated_at`
	briefColumns     = `id, project_id, objective, audience, key_messages, budget_range, deadline_date, references_payload, attachments, status, created_at, updated_at`
	milestoneColumns = `id, project_id, name, description, due_at, status, approved_at, approved_by, created_at`
	updateColumns    = `id, project_id, author_id, title, body, visibility, created_at`
)

type ProjectRepository struct {
	db *DB
}

func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func scanProject(row rowScanner) (*project.Project, error) {
	p := &project.Project{}
	err := row.Scan(&p.ID, &p.Title, &p.Status, &p.Visibility, &p.ClientAccountID, &p.CreatedBy, &p.Metadata, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanBrief(row rowScanner) (*project.Brief, error) {
	b := &project.Brief{}
	err := row.Scan(&b.ID, &b.ProjectID, &b.Objective, &b.Audience, &b.KeyMessages, &b.BudgetRange,
		&b.DeadlineDate, &b.ReferencesPayload, &b.Attachments, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func scanMilestone(row rowScanner) (*project.Milestone, error) {
	m := &project.Milestone{}
	err := row.Scan(&m.ID, &m.ProjectID, &m.Name, &m.Description, &m.DueAt, &m.Status, &m.ApprovedAt, &m.ApprovedBy, &m.CreatedAt)
	return m, err
}

func scanUpdate(row rowScanner) (*project.Update, error) {
	u := &project.Update{}
	err := row.Scan(&u.ID, &u.ProjectID, &u.AuthorID, &u.Title, &u.Body, &u.Visibility, &u.CreatedAt)
	return u, err
}

func (r *ProjectRepository) CreateWithBrief(ctx context.Context, input project.CreateProjectInput) (*project.Project, *project.Brief, error) {
	var (
		p *project.Project
		b *project.Brief
	)

	err := r.db.withTx(ctx, func(tx pgx.Tx) error {
		projectQuery := `
			INSERT INTO projects (id, title, status, visibility, client_account_id, created_by, metadata)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + projectColumns

		var err error
		p, err = scanProject(tx.QueryRow(ctx, projectQuery,
			uuid.New(), input.Title, project.StatusDraft, project.VisibilityClient,
			input.ClientAccountID, input.CreatedBy, jsonObject(input.Metadata),
		))
		if err != nil {
			if isForeignKeyViolation(err) {
				return apperrors.NotFound(errAccountNotFound)
			}
			return errFailedCreateProject(err)
		}

		briefQuery := `
			INSERT INTO project_briefs (id, project_id, status)
			VALUES ($1, $2, $3)
			RETURNING ` + briefColumns

		b, err = scanBrief(tx.QueryRow(ctx, briefQuery, uuid.New(), p.ID, project.BriefDraft))
		if err != nil {
			return errFailedCreateBrief(err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return p, b, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errProjectNotFound)
		}
		return nil, errFailedGetProject(err)
	}
	return p, nil
}

func (r *ProjectRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*project.Project, error) {
	return r.list(ctx, `SELECT `+projectColumns+` FROM projects WHERE client_account_id = $1 ORDER BY created_at`, accountID)
}

func (r *ProjectRepository) ListByVisibility(ctx context.Context, visibility project.Visibility) ([]*project.Project, error) {
	return r.list(ctx, `SELECT `+projectColumns+` FROM projects WHERE visibility = $1 ORDER BY created_at`, visibility)
}

func (r *ProjectRepository) list(ctx context.Context, query string, args ...any) ([]*project.Project, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListProjects(err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, errFailedScanProject(err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status project.Status) (*project.Project, error) {
	return r.updateColumn(ctx, id, "status", status)
}

func (r *ProjectRepository) UpdateVisibility(ctx context.Context, id uuid.UUID, visibility project.Visibility) (*project.Project, error) {
	return r.updateColumn(ctx, id, "visibility", visibility)
}

func (r *ProjectRepository) updateColumn(ctx context.Context, id uuid.UUID, column string, value any) (*project.Project, error) {
	query := fmt.Sprintf(`UPDATE projects SET %s = $2, updated_at = NOW() WHERE id = $1 RETURNING %s`, column, projectColumns)

	p, err := scanProject(r.db.Pool.QueryRow(ctx, query, id, value))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errProjectNotFound)
		}
		return nil, errFailedUpdateProject(err)
	}
	return p, nil
}

func (r *ProjectRepository) GetBrief(ctx context.Context, id uuid.UUID) (*project.Brief, error) {
	return r.getBrief(ctx, `SELECT `+briefColumns+` FROM project_briefs WHERE id = $1`, id)
}

func (r *ProjectRepository) GetBriefByProject(ctx context.Context, projectID uuid.UUID) (*project.Brief, error) {
	return r.getBrief(ctx, `SELECT `+briefColumns+` FROM project_briefs WHERE project_id = $1`, projectID)
}

func (r *ProjectRepository) getBrief(ctx context.Context, query string, arg uuid.UUID) (*project.Brief, error) {
	b, err := scanBrief(r.db.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errBriefNotFound)
		}
		return nil, errFailedGetBrief(err)
	}
	return b, nil
}

func (r *ProjectRepository) UpdateBrief(ctx context.Context, id uuid.UUID, input project.UpdateBriefInput) (*project.Brief, error) {
	query := "UPDATE project_briefs SET updated_at = NOW()"
	args := []interface{}{id, project.BriefDraft}
	argCount := 2

	set := func(column string, value any) {
		argCount++
		query += fmt.Sprintf(", %s = $%d", column, argCount)
		args = append(args, value)
	}

	if input.Objective != nil {
		set("objective", *input.Objective)
	}
	if input.Audience != nil {
		set("audience", *input.Audience)
	}
	if input.KeyMessages != nil {
		set("key_messages", input.KeyMessages)
	}
	if input.BudgetRange != nil {
		set("budget_range", *input.BudgetRange)
	}
	if input.DeadlineDate != nil {
		set("deadline_date", *input.DeadlineDate)
	}
	if input.ReferencesPayload != nil {
		set("references_payload", input.ReferencesPayload)
	}
	if input.Attachments != nil {
		set("attachments", input.Attachments)
	}

	query += " WHERE id = $1 AND status = $2 RETURNING " + briefColumns

	b, err := scanBrief(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			if _, getErr := r.GetBrief(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, apperrors.InvalidState(repository.MsgBriefNotDraft)
		}
		return nil, errFailedUpdateBrief(err)
	}
	return b, nil
}

func (r *ProjectRepository) TransitionBrief(ctx context.Context, id uuid.UUID, from, to project.BriefStatus) (*project.Brief, error) {
	query := `
		UPDATE project_briefs SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + briefColumns

	b, err := scanBrief(r.db.Pool.QueryRow(ctx, query, id, from, to))
	if err != nil {
		if isNoRows(err) {
			if _, getErr := r.GetBrief(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, apperrors.InvalidState(repository.MsgBriefStatusChanged)
		}
		return nil, errFailedTransitionBrief(err)
	}
	return b, nil
}

func (r *ProjectRepository) CreateMilestone(ctx context.Context, input project.CreateMilestoneInput) (*project.Milestone, error) {
	query := `
		INSERT INTO project_milestones (id, project_id, name, description, due_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + milestoneColumns

	m, err := scanMilestone(r.db.Pool.QueryRow(ctx, query,
		uuid.New(), input.ProjectID, input.Name, input.Description, input.DueAt, project.MilestonePending,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errProjectNotFound)
		}
		return nil, errFailedCreateMilestone(err)
	}
	return m, nil
}

func (r *ProjectRepository) GetMilestone(ctx context.Context, id uuid.UUID) (*project.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM project_milestones WHERE id = $1`

	m, err := scanMilestone(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errMilestoneNotFound)
		}
		return nil, errFailedGetMilestone(err)
	}
	return m, nil
}

func (r *ProjectRepository) ListMilestones(ctx context.Context, projectID uuid.UUID) ([]*project.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM project_milestones WHERE project_id = $1 ORDER BY created_at`

	rows, err := r.db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, errFailedListMilestones(err)
	}
	defer rows.Close()

	var milestones []*project.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, errFailedScanMilestone(err)
		}
		milestones = append(milestones, m)
	}

	return milestones, rows.Err()
}

func (r *ProjectRepository) ApproveMilestone(ctx context.Context, id, approvedBy uuid.UUID) (*project.Milestone, error) {
	query := `
		UPDATE project_milestones SET status = $2, approved_at = NOW(), approved_by = $3
		WHERE id = $1 AND status = $4
		RETURNING ` + milestoneColumns

	m, err := scanMilestone(r.db.Pool.QueryRow(ctx, query, id, project.MilestoneApproved, approvedBy, project.MilestonePending))
	if err != nil {
		if isNoRows(err) {
			if _, getErr := r.GetMilestone(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, apperrors.InvalidState(repository.MsgMilestoneApproved)
		}
		return nil, errFailedApproveMilestone(err)
	}
	return m, nil
}

func (r *ProjectRepository) CreateUpdate(ctx context.Context, input project.CreateUpdateInput) (*project.Update, error) {
	query := `
		INSERT INTO project_updates (id, project_id, author_id, title, body, visibility)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + updateColumns

	u, err := scanUpdate(r.db.Pool.QueryRow(ctx, query,
		uuid.New(), input.ProjectID, input.AuthorID, input.Title, input.Body, input.Visibility,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errProjectNotFound)
		}
		return nil, errFailedCreateUpdate(err)
	}
	return u, nil
}

func (r *ProjectRepository) ListUpdates(ctx context.Context, projectID uuid.UUID) ([]*project.Update, error) {
	query := `SELECT ` + updateColumns + ` FROM project_updates WHERE project_id = $1 ORDER BY created_at`

	rows, err := r.db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, errFailedListUpdates(err)
	}
	defer rows.Close()

	var updates []*project.Update
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, errFailedScanUpdate(err)
		}
		updates = append(updates, u)
	}

	return updates, rows.Err()
}
