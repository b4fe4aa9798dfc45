package memory

import (
	"context"
	"fmt"
	"sort"
	"studio-service/internal/domain/job"
	"studio-service/internal/repository"
	apperrors "studio-service/pkg/errors"
	"time"

	"github.com/google/uuid"
)

const (
	errJobNotFound         = "job not found"
	errDeliverableNotFound = "deliverable not found"
	errPaymentNotFound     = "payment not found"
)

type JobRepository struct {
	s *Store
}

func NewJobRepository(s *Store) *JobRepository {
	return &JobRepository{s: s}
}

func (r *JobRepository) Create(ctx context.Context, input job.CreateJobInput) (*job.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	skills := input.SkillsRequired
	if skills == nil {
		skills = []string{}
	}

	now := r.s.now()
	j := &job.Job{
		ID:             uuid.New(),
		ProjectID:      input.ProjectID,
		Title:          input.Title,
		Description:    input.Description,
		Category:       input.Category,
		SkillsRequired: skills,
		BudgetAmount:   input.BudgetAmount,
		BudgetCurrency: input.BudgetCurrency,
		EstimatedHours: input.EstimatedHours,
		DeadlineDate:   input.DeadlineDate,
		Status:         job.StatusOpen,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.s.jobs[j.ID] = cloneJob(j)

	return cloneJob(j), nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	j, ok := r.s.jobs[id]
	if !ok {
		return nil, apperrors.NotFound(errJobNotFound)
	}
	return cloneJob(j), nil
}

func (r *JobRepository) ListByStatus(ctx context.Context, status job.Status) ([]*job.Job, error) {
	return r.filter(func(j *job.Job) bool { return j.Status == status }), nil
}

func (r *JobRepository) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*job.Job, error) {
	return r.filter(func(j *job.Job) bool { return j.IsAssignedTo(userID) }), nil
}

func (r *JobRepository) filter(keep func(*job.Job) bool) []*job.Job {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var jobs []*job.Job
	for _, j := range r.s.jobs {
		if keep(j) {
			jobs = append(jobs, cloneJob(j))
		}
	}
	sortByCreated(jobs,
		func(j *job.Job) time.Time { return j.CreatedAt },
		func(j *job.Job) uuid.UUID { return j.ID })
	return jobs
}

func (r *JobRepository) Claim(ctx context.Context, id, userID uuid.UUID) (*job.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.jobs[id]
	if !ok {
		return nil, apperrors.NotFound(errJobNotFound)
	}
	if j.Status != job.StatusOpen {
		return nil, apperrors.Conflict(repository.MsgJobNotOpen)
	}

	now := r.s.now()
	j.Status = job.StatusAssigned
	j.AssignedTo = uuidPtr(userID)
	j.AssignedAt = timePtr(now)
	j.UpdatedAt = now

	return cloneJob(j), nil
}

func (r *JobRepository) Start(ctx context.Context, id, userID uuid.UUID) (*job.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.jobs[id]
	if !ok {
		return nil, apperrors.NotFound(errJobNotFound)
	}
	if err := repository.CheckJobWorkable(j, userID); err != nil {
		return nil, err
	}

	now := r.s.now()
	j.Status = job.StatusInProgress
	if j.StartedAt == nil {
		j.StartedAt = timePtr(now)
	}
	j.UpdatedAt = now

	return cloneJob(j), nil
}

func (r *JobRepository) SubmitDeliverable(ctx context.Context, input job.SubmitDeliverableInput) (*job.Deliverable, *job.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.jobs[input.JobID]
	if !ok {
		return nil, nil, apperrors.NotFound(errJobNotFound)
	}
	if err := repository.CheckJobWorkable(j, input.SubmittedBy); err != nil {
		return nil, nil, err
	}

	maxVersion := 0
	for _, d := range r.s.deliverables {
		if d.JobID == j.ID && d.Version > maxVersion {
			maxVersion = d.Version
		}
	}

	now := r.s.now()
	d := &job.Deliverable{
		ID:          uuid.New(),
		JobID:       j.ID,
		SubmittedBy: input.SubmittedBy,
		Version:     maxVersion + 1,
		FileURL:     input.FileURL,
		FileType:    input.FileType,
		FileSize:    input.FileSize,
		Notes:       input.Notes,
		Status:      job.DeliverablePending,
		CreatedAt:   now,
	}
	r.s.deliverables[d.ID] = cloneDeliverable(d)

	j.Status = job.StatusSubmitted
	j.SubmittedAt = timePtr(now)
	j.UpdatedAt = now

	return cloneDeliverable(d), cloneJob(j), nil
}

func (r *JobRepository) GetDeliverable(ctx context.Context, id uuid.UUID) (*job.Deliverable, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.deliverables[id]
	if !ok {
		return nil, apperrors.NotFound(errDeliverableNotFound)
	}
	return cloneDeliverable(d), nil
}

func (r *JobRepository) ListDeliverables(ctx context.Context, jobID uuid.UUID) ([]*job.Deliverable, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*job.Deliverable
	for _, d := range r.s.deliverables {
		if d.JobID == jobID {
			out = append(out, cloneDeliverable(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (r *JobRepository) Review(ctx context.Context, input job.ReviewInput) (*job.QualityReview, *job.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.deliverables[input.DeliverableID]
	if !ok {
		return nil, nil, apperrors.NotFound(errDeliverableNotFound)
	}
	if d.Status != job.DeliverablePending {
		return nil, nil, apperrors.InvalidState(repository.MsgDeliverableNotPending)
	}
	j, ok := r.s.jobs[d.JobID]
	if !ok {
		return nil, nil, apperrors.NotFound(errJobNotFound)
	}
	if j.Status != job.StatusSubmitted {
		return nil, nil, apperrors.InvalidState(repository.MsgJobNotSubmitted)
	}

	now := r.s.now()
	review := &job.QualityReview{
		ID:            uuid.New(),
		DeliverableID: d.ID,
		Scores:        input.Scores,
		Feedback:      input.Feedback,
		Status:        input.Decision,
		Checklist:     input.Checklist,
		ReviewedBy:    input.ReviewedBy,
		CreatedAt:     now,
	}
	r.s.reviews[review.ID] = cloneReview(review)

	d.Status = input.Decision.DeliverableStatus()
	d.QualityReviewID = uuidPtr(review.ID)

	if input.Decision == job.DecisionApproved {
		score := input.Scores.Average()
		j.Status = job.StatusReviewed
		j.QualityScore = &score
		j.ReviewedAt = timePtr(now)
	} else {
		j.Status = job.StatusInProgress
	}
	j.UpdatedAt = now

	return cloneReview(review), cloneJob(j), nil
}

func (r *JobRepository) Complete(ctx context.Context, id uuid.UUID) (*job.Job, *job.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	j, ok := r.s.jobs[id]
	if !ok {
		return nil, nil, apperrors.NotFound(errJobNotFound)
	}
	if j.Status != job.StatusReviewed || j.AssignedTo == nil {
		return nil, nil, apperrors.InvalidState(repository.MsgJobNotReviewed)
	}

	now := r.s.now()
	j.Status = job.StatusCompleted
	j.CompletedAt = timePtr(now)
	j.UpdatedAt = now

	p := &job.Payment{
		ID:        uuid.New(),
		JobID:     j.ID,
		CreatorID: *j.AssignedTo,
		Amount:    j.BudgetAmount,
		Currency:  j.BudgetCurrency,
		Status:    job.PaymentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.payments[p.ID] = clonePayment(p)

	return cloneJob(j), clonePayment(p), nil
}

func (r *JobRepository) GetPayment(ctx context.Context, id uuid.UUID) (*job.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.payments[id]
	if !ok {
		return nil, apperrors.NotFound(errPaymentNotFound)
	}
	return clonePayment(p), nil
}

func (r *JobRepository) ListPaymentsByCreator(ctx context.Context, creatorID uuid.UUID) ([]*job.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*job.Payment
	for _, p := range r.s.payments {
		if p.CreatorID == creatorID {
			out = append(out, clonePayment(p))
		}
	}
	sortByCreated(out,
		func(p *job.Payment) time.Time { return p.CreatedAt },
		func(p *job.Payment) uuid.UUID { return p.ID })
	return out, nil
}

func (r *JobRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to job.PaymentStatus) (*job.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.payments[id]
	if !ok {
		return nil, apperrors.NotFound(errPaymentNotFound)
	}
	if p.Status != from {
		return nil, apperrors.InvalidState(fmt.Sprintf(repository.MsgPaymentTransitionFmt, p.Status, to))
	}
	p.Status = to
	p.UpdatedAt = r.s.now()

	return clonePayment(p), nil
}
