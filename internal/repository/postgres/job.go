package postgres

import (
	"context"
	"fmt"
	"studio-service/internal/domain/job"
	"studio-service/internal/repository"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	jobColumns = `id, project_id, title, description, category, skills_required, budget_amount, budget_currency,
		estimated_hours, deadline_date, status, assigned_to, created_by, quality_score,
		assigned_at, started_at, submitted_at, reviewed_at, completed_at, created_at, updated_at`
	deliverableColumns = `id, job_id, submitted_by, version, file_url, file_type, file_size, notes, status, quality_review_id, created_at`
	reviewColumns      = `id, deliverable_id, quality_score, creativity_score, brief_alignment_score, timeliness_score,
		feedback, status, checklist, reviewed_by, created_at`
	paymentColumns = `id, job_id, creator_id, amount, currency, status, created_at, updated_at`
)

type JobRepository struct {
	db *DB
}

func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

func scanJob(row rowScanner) (*job.Job, error) {
	j := &job.Job{}
	err := row.Scan(&j.ID, &j.ProjectID, &j.Title, &j.Description, &j.Category, &j.SkillsRequired, &j.BudgetAmount, &j.BudgetCurrency,
		&j.EstimatedHours, &j.DeadlineDate, &j.Status, &j.AssignedTo, &j.CreatedBy, &j.QualityScore,
		&j.AssignedAt, &j.StartedAt, &j.SubmittedAt, &j.ReviewedAt, &j.CompletedAt, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

func scanDeliverable(row rowScanner) (*job.Deliverable, error) {
	d := &job.Deliverable{}
	err := row.Scan(&d.ID, &d.JobID, &d.SubmittedBy, &d.Version, &d.FileURL, &d.FileType, &d.FileSize, &d.Notes, &d.Status, &d.QualityReviewID, &d.CreatedAt)
	return d, err
}

func scanReview(row rowScanner) (*job.QualityReview, error) {
	q := &job.QualityReview{}
	err := row.Scan(&q.ID, &q.DeliverableID, &q.Scores.Quality, &q.Scores.Creativity, &q.Scores.BriefAlignment, &q.Scores.Timeliness,
		&q.Feedback, &q.Status, &q.Checklist, &q.ReviewedBy, &q.CreatedAt)
	return q, err
}

func scanPayment(row rowScanner) (*job.Payment, error) {
	p := &job.Payment{}
	err := row.Scan(&p.ID, &p.JobID, &p.CreatorID, &p.Amount, &p.Currency, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *JobRepository) Create(ctx context.Context, input job.CreateJobInput) (*job.Job, error) {
	query := `
		INSERT INTO creator_jobs (id, project_id, title, description, category, skills_required, budget_amount, budget_currency,
			estimated_hours, deadline_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + jobColumns

	j, err := scanJob(r.db.Pool.QueryRow(ctx, query,
		uuid.New(), input.ProjectID, input.Title, input.Description, input.Category, textArray(input.SkillsRequired),
		input.BudgetAmount, input.BudgetCurrency, input.EstimatedHours, input.DeadlineDate, input.CreatedBy,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errProjectNotFound)
		}
		return nil, errFailedCreateJob(err)
	}
	return j, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return r.getJob(ctx, r.db.Pool, id, false)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *JobRepository) getJob(ctx context.Context, q querier, id uuid.UUID, lock bool) (*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM creator_jobs WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	j, err := scanJob(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errJobNotFound)
		}
		return nil, errFailedGetJob(err)
	}
	return j, nil
}

func (r *JobRepository) ListByStatus(ctx context.Context, status job.Status) ([]*job.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM creator_jobs WHERE status = $1 ORDER BY created_at`, status)
}

func (r *JobRepository) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*job.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM creator_jobs WHERE assigned_to = $1 ORDER BY created_at`, userID)
}

func (r *JobRepository) list(ctx context.Context, query string, args ...any) ([]*job.Job, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListJobs(err)
	}
	defer rows.Close()

	var jobs []*job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, errFailedScanJob(err)
		}
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

// Claim is a single conditional UPDATE; of any number of concurrent callers
// exactly one sees a returned row.
func (r *JobRepository) Claim(ctx context.Context, id, userID uuid.UUID) (*job.Job, error) {
	query := `
		UPDATE creator_jobs
		SET status = 'assigned', assigned_to = $2, assigned_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'open'
		RETURNING ` + jobColumns

	j, err := scanJob(r.db.Pool.QueryRow(ctx, query, id, userID))
	if err == nil {
		return j, nil
	}
	if !isNoRows(err) {
		return nil, errFailedClaimJob(err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, apperrors.Conflict(repository.MsgJobNotOpen)
}

func (r *JobRepository) Start(ctx context.Context, id, userID uuid.UUID) (*job.Job, error) {
	query := `
		UPDATE creator_jobs
		SET status = 'in_progress', started_at = COALESCE(started_at, NOW()), updated_at = NOW()
		WHERE id = $1 AND assigned_to = $2 AND status IN ('assigned', 'in_progress')
		RETURNING ` + jobColumns

	j, err := scanJob(r.db.Pool.QueryRow(ctx, query, id, userID))
	if err == nil {
		return j, nil
	}
	if !isNoRows(err) {
		return nil, errFailedStartJob(err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := repository.CheckJobWorkable(current, userID); err != nil {
		return nil, err
	}
	return nil, apperrors.InvalidState(repository.MsgJobNotWorkable)
}

func (r *JobRepository) SubmitDeliverable(ctx context.Context, input job.SubmitDeliverableInput) (*job.Deliverable, *job.Job, error) {
	var (
		d *job.Deliverable
		j *job.Job
	)

	err := r.db.withTx(ctx, func(tx pgx.Tx) error {
		current, err := r.getJob(ctx, tx, input.JobID, true)
		if err != nil {
			return err
		}
		if err := repository.CheckJobWorkable(current, input.SubmittedBy); err != nil {
			return err
		}

		d, err = scanDeliverable(tx.QueryRow(ctx, `
			INSERT INTO creator_deliverables (id, job_id, submitted_by, version, file_url, file_type, file_size, notes)
			SELECT $1, $2, $3, COALESCE(MAX(version), 0) + 1, $4, $5, $6, $7
			FROM creator_deliverables WHERE job_id = $2
			RETURNING `+deliverableColumns,
			uuid.New(), input.JobID, input.SubmittedBy, input.FileURL, input.FileType, input.FileSize, input.Notes,
		))
		if err != nil {
			return errFailedSubmitDeliverable(err)
		}

		j, err = scanJob(tx.QueryRow(ctx, `
			UPDATE creator_jobs SET status = 'submitted', submitted_at = NOW(), updated_at = NOW()
			WHERE id = $1
			RETURNING `+jobColumns, input.JobID))
		if err != nil {
			return errFailedSubmitDeliverable(err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return d, j, nil
}

func (r *JobRepository) GetDeliverable(ctx context.Context, id uuid.UUID) (*job.Deliverable, error) {
	d, err := scanDeliverable(r.db.Pool.QueryRow(ctx, `SELECT `+deliverableColumns+` FROM creator_deliverables WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errDeliverableNotFound)
		}
		return nil, errFailedGetDeliverable(err)
	}
	return d, nil
}

func (r *JobRepository) ListDeliverables(ctx context.Context, jobID uuid.UUID) ([]*job.Deliverable, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+deliverableColumns+` FROM creator_deliverables WHERE job_id = $1 ORDER BY version`, jobID)
	if err != nil {
		return nil, errFailedListDeliverables(err)
	}
	defer rows.Close()

	var deliverables []*job.Deliverable
	for rows.Next() {
		d, err := scanDeliverable(rows)
		if err != nil {
			return nil, errFailedScanDeliverable(err)
		}
		deliverables = append(deliverables, d)
	}

	return deliverables, rows.Err()
}

// Review writes the review row, stamps the deliverable and moves the job in
// one transaction. The job row is locked before either state is checked.
func (r *JobRepository) Review(ctx context.Context, input job.ReviewInput) (*job.QualityReview, *job.Job, error) {
	var (
		review *job.QualityReview
		j      *job.Job
	)

	err := r.db.withTx(ctx, func(tx pgx.Tx) error {
		var jobID uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT job_id FROM creator_deliverables WHERE id = $1`, input.DeliverableID).Scan(&jobID); err != nil {
			if isNoRows(err) {
				return apperrors.NotFound(errDeliverableNotFound)
			}
			return errFailedReviewDeliverable(err)
		}

		current, err := r.getJob(ctx, tx, jobID, true)
		if err != nil {
			return err
		}

		var deliverableStatus job.DeliverableStatus
		if err := tx.QueryRow(ctx, `SELECT status FROM creator_deliverables WHERE id = $1`, input.DeliverableID).Scan(&deliverableStatus); err != nil {
			return errFailedReviewDeliverable(err)
		}
		if deliverableStatus != job.DeliverablePending {
			return apperrors.InvalidState(repository.MsgDeliverableNotPending)
		}
		if current.Status != job.StatusSubmitted {
			return apperrors.InvalidState(repository.MsgJobNotSubmitted)
		}

		review, err = scanReview(tx.QueryRow(ctx, `
			INSERT INTO creator_quality_reviews (id, deliverable_id, quality_score, creativity_score, brief_alignment_score,
				timeliness_score, feedback, status, checklist, reviewed_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING `+reviewColumns,
			uuid.New(), input.DeliverableID, input.Scores.Quality, input.Scores.Creativity, input.Scores.BriefAlignment,
			input.Scores.Timeliness, input.Feedback, input.Decision, jsonObject(input.Checklist), input.ReviewedBy,
		))
		if err != nil {
			return errFailedReviewDeliverable(err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE creator_deliverables SET status = $2, quality_review_id = $3 WHERE id = $1`,
			input.DeliverableID, input.Decision.DeliverableStatus(), review.ID,
		); err != nil {
			return errFailedReviewDeliverable(err)
		}

		jobQuery := `
			UPDATE creator_jobs SET status = 'in_progress', updated_at = NOW()
			WHERE id = $1
			RETURNING ` + jobColumns
		args := []any{jobID}
		if input.Decision == job.DecisionApproved {
			jobQuery = `
				UPDATE creator_jobs SET status = 'reviewed', quality_score = $2, reviewed_at = NOW(), updated_at = NOW()
				WHERE id = $1
				RETURNING ` + jobColumns
			args = append(args, input.Scores.Average())
		}

		j, err = scanJob(tx.QueryRow(ctx, jobQuery, args...))
		if err != nil {
			return errFailedReviewDeliverable(err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return review, j, nil
}

func (r *JobRepository) Complete(ctx context.Context, id uuid.UUID) (*job.Job, *job.Payment, error) {
	var (
		j *job.Job
		p *job.Payment
	)

	err := r.db.withTx(ctx, func(tx pgx.Tx) error {
		current, err := r.getJob(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if current.Status != job.StatusReviewed || current.AssignedTo == nil {
			return apperrors.InvalidState(repository.MsgJobNotReviewed)
		}

		j, err = scanJob(tx.QueryRow(ctx, `
			UPDATE creator_jobs SET status = 'completed', completed_at = NOW(), updated_at = NOW()
			WHERE id = $1
			RETURNING `+jobColumns, id))
		if err != nil {
			return errFailedCompleteJob(err)
		}

		p, err = scanPayment(tx.QueryRow(ctx, `
			INSERT INTO creator_payments (id, job_id, creator_id, amount, currency)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+paymentColumns,
			uuid.New(), id, *current.AssignedTo, current.BudgetAmount, current.BudgetCurrency,
		))
		if err != nil {
			return errFailedCompleteJob(err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return j, p, nil
}

func (r *JobRepository) GetPayment(ctx context.Context, id uuid.UUID) (*job.Payment, error) {
	p, err := scanPayment(r.db.Pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM creator_payments WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errPaymentNotFound)
		}
		return nil, errFailedGetPayment(err)
	}
	return p, nil
}

func (r *JobRepository) ListPaymentsByCreator(ctx context.Context, creatorID uuid.UUID) ([]*job.Payment, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+paymentColumns+` FROM creator_payments WHERE creator_id = $1 ORDER BY created_at`, creatorID)
	if err != nil {
		return nil, errFailedListPayments(err)
	}
	defer rows.Close()

	var payments []*job.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, errFailedScanPayment(err)
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func (r *JobRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to job.PaymentStatus) (*job.Payment, error) {
	query := `
		UPDATE creator_payments SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + paymentColumns

	p, err := scanPayment(r.db.Pool.QueryRow(ctx, query, id, from, to))
	if err == nil {
		return p, nil
	}
	if !isNoRows(err) {
		return nil, errFailedUpdatePayment(err)
	}

	current, err := r.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, apperrors.InvalidState(fmt.Sprintf(repository.MsgPaymentTransitionFmt, current.Status, to))
}
