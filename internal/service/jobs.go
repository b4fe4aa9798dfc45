package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/job"
	"studio-service/internal/domain/notification"
	"studio-service/internal/rbac/presets"
	"studio-service/internal/repository"
	"studio-service/internal/storage"
	apperrors "studio-service/pkg/errors"
	"studio-service/pkg/validator"
	"time"

	"github.com/google/uuid"
)

const defaultCurrency = "USD"

// JobService runs the creator marketplace: open jobs, claims, deliverables,
// reviews and payments.
type JobService struct {
	jobs          repository.JobRepository
	objects       storage.ObjectStore
	guard         *Guard
	notifier      *Notifier
	audit         Auditor
	log           *slog.Logger
	clock         func() time.Time
	maxUploadSize int64
}

func NewJobService(
	jobs repository.JobRepository,
	objects storage.ObjectStore,
	guard *Guard,
	notifier *Notifier,
	auditor Auditor,
	log *slog.Logger,
	maxUploadSize int64,
) *JobService {
	return &JobService{
		jobs:          jobs,
		objects:       objects,
		guard:         guard,
		notifier:      notifier,
		audit:         orNopAuditor(auditor),
		log:           orDefaultLogger(log),
		clock:         defaultClock,
		maxUploadSize: maxUploadSize,
	}
}

type CreateJobRequest struct {
	ProjectID      *uuid.UUID
	Title          string
	Description    string
	Category       string
	SkillsRequired []string
	BudgetAmount   float64
	BudgetCurrency string
	EstimatedHours *int
	DeadlineDate   *time.Time
}

func (s *JobService) CreateJob(ctx context.Context, actor *account.Profile, req CreateJobRequest) (*job.Job, error) {
	if err := s.guard.Authorize(actor, presets.ResourceJob, presets.ActionCreate); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validator.Title("title", req.Title); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := validator.NonNegative("budget_amount", req.BudgetAmount); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if req.BudgetCurrency == "" {
		req.BudgetCurrency = defaultCurrency
	}
	if err := validator.Currency(req.BudgetCurrency); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if req.EstimatedHours != nil {
		if err := validator.NonNegative("estimated_hours", float64(*req.EstimatedHours)); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
	}
	if req.ProjectID != nil {
		if _, err := s.guard.Project(ctx, actor, *req.ProjectID); err != nil {
			return nil, err
		}
	}

	return s.jobs.Create(ctx, job.CreateJobInput{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    strings.TrimSpace(req.Description),
		Category:       strings.TrimSpace(req.Category),
		SkillsRequired: req.SkillsRequired,
		BudgetAmount:   req.BudgetAmount,
		BudgetCurrency: req.BudgetCurrency,
		EstimatedHours: req.EstimatedHours,
		DeadlineDate:   req.DeadlineDate,
		CreatedBy:      actor.ID,
	})
}

func (s *JobService) ListOpenJobs(ctx context.Context, actor *account.Profile) ([]*job.Job, error) {
	if err := s.guard.Authorize(actor, presets.ResourceJob, presets.ActionRead); err != nil {
		return nil, err
	}
	return s.jobs.ListByStatus(ctx, job.StatusOpen)
}

func (s *JobService) ListMyJobs(ctx context.Context, actor *account.Profile) ([]*job.Job, error) {
	if err := s.guard.Authorize(actor, presets.ResourceJob, presets.ActionRead); err != nil {
		return nil, err
	}
	return s.jobs.ListByAssignee(ctx, actor.ID)
}

// ApplyToJob claims an open job. Only one applicant can win; later ones get
// ErrConflict and the job keeps its first assignee.
func (s *JobService) ApplyToJob(ctx context.Context, actor *account.Profile, jobID uuid.UUID) (*job.Job, error) {
	if err := s.guard.Authorize(actor, presets.ResourceJob, presets.ActionClaim); err != nil {
		return nil, err
	}

	j, err := s.jobs.Claim(ctx, jobID, actor.ID)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyUsers(ctx, []uuid.UUID{j.CreatedBy}, j.ProjectID, notification.TypeJobClaimed, map[string]any{
		"job_id":      j.ID.String(),
		"assigned_to": actor.ID.String(),
	}, actor.ID)
	return j, nil
}

func (s *JobService) StartJob(ctx context.Context, actor *account.Profile, jobID uuid.UUID) (*job.Job, error) {
	if err := s.guard.Authorize(actor, presets.ResourceJob, presets.ActionClaim); err != nil {
		return nil, err
	}
	return s.jobs.Start(ctx, jobID, actor.ID)
}

type SubmitDeliverableRequest struct {
	JobID uuid.UUID
	Notes string
	File  Upload
}

// SubmitDeliverable stores the file and records the job's next deliverable
// version; a failed write removes the stored object again.
func (s *JobService) SubmitDeliverable(ctx context.Context, actor *account.Profile, req SubmitDeliverableRequest) (*job.Deliverable, error) {
	if err := s.guard.Authorize(actor, presets.ResourceDeliverable, presets.ActionCreate); err != nil {
		return nil, err
	}
	if err := req.File.validate(s.maxUploadSize); err != nil {
		return nil, err
	}

	current, err := s.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if err := repository.CheckJobWorkable(current, actor.ID); err != nil {
		return nil, err
	}

	key := storage.JobKey(req.JobID, req.File.FileName, s.clock())
	url, err := s.objects.Put(ctx, key, req.File.Body, req.File.ContentType)
	if err != nil {
		return nil, apperrors.ExternalService(msgStorageUpload, err)
	}

	d, j, err := s.jobs.SubmitDeliverable(ctx, job.SubmitDeliverableInput{
		JobID:       req.JobID,
		SubmittedBy: actor.ID,
		FileURL:     url,
		FileType:    req.File.ContentType,
		FileSize:    int64(len(req.File.Body)),
		Notes:       strings.TrimSpace(req.Notes),
	})
	if err != nil {
		if delErr := s.objects.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.log.ErrorContext(ctx, logCompensationFailed,
				slog.String("key", key),
				slog.Any("error", delErr))
		}
		return nil, err
	}

	payload := map[string]any{
		"job_id":         j.ID.String(),
		"deliverable_id": d.ID.String(),
		"version":        d.Version,
	}
	if j.ProjectID != nil {
		s.notifier.Publish(ctx, Fanout{
			ProjectID:  *j.ProjectID,
			Type:       notification.TypeDeliverableSubmitted,
			Payload:    payload,
			Exclude:    actor.ID,
			Audience:   AudienceTeam,
			AlsoNotify: []uuid.UUID{j.CreatedBy},
		})
	} else {
		s.notifier.NotifyUsers(ctx, []uuid.UUID{j.CreatedBy}, nil, notification.TypeDeliverableSubmitted, payload, actor.ID)
	}
	return d, nil
}

// GetJobDetails shows open jobs to everyone; later stages only to the
// assignee and staff.
func (s *JobService) GetJobDetails(ctx context.Context, actor *account.Profile, jobID uuid.UUID) (*job.View, error) {
	if actor == nil {
		return nil, apperrors.Unauthorized(msgMissingActor)
	}
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	involved := j.IsAssignedTo(actor.ID) || actor.IsStaff()
	if j.Status != job.StatusOpen && !involved {
		return nil, apperrors.Forbidden(msgJobNotVisible)
	}

	view := &job.View{Job: j}
	if involved {
		if view.Deliverables, err = s.jobs.ListDeliverables(ctx, jobID); err != nil {
			return nil, err
		}
	}
	return view, nil
}

func (s *JobService) ListDeliverables(ctx context.Context, actor *account.Profile, jobID uuid.UUID) ([]*job.Deliverable, error) {
	if err := s.guard.Authorize(actor, presets.ResourceDeliverable, presets.ActionRead); err != nil {
		return nil, err
	}
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !j.IsAssignedTo(actor.ID) && !actor.IsStaff() {
		return nil, apperrors.Forbidden(msgJobNotVisible)
	}
	return s.jobs.ListDeliverables(ctx, jobID)
}

type ReviewRequest struct {
	DeliverableID uuid.UUID
	Scores        job.Scores
	Feedback      string
	Checklist     map[string]bool
	Decision      job.Decision
}

// ReviewDeliverable scores a pending deliverable. Approval moves the job to
// reviewed with the mean score; a revision request sends it back to work.
func (s *JobService) ReviewDeliverable(ctx context.Context, actor *account.Profile, req ReviewRequest) (*job.QualityReview, *job.Job, error) {
	if err := s.guard.Authorize(actor, presets.ResourceDeliverable, presets.ActionReview); err != nil {
		return nil, nil, err
	}
	if err := req.Decision.Validate(); err != nil {
		return nil, nil, apperrors.Validation(err.Error())
	}
	if !req.Scores.Valid() {
		return nil, nil, apperrors.Validation(msgInvalidScores)
	}

	review, j, err := s.jobs.Review(ctx, job.ReviewInput{
		DeliverableID: req.DeliverableID,
		Scores:        req.Scores,
		Feedback:      strings.TrimSpace(req.Feedback),
		Decision:      req.Decision,
		Checklist:     req.Checklist,
		ReviewedBy:    actor.ID,
	})
	if err != nil {
		return nil, nil, err
	}

	s.audit.Record(ctx, auditEvent(actor, audit.ResourceTypeJob, j.ID, audit.ActionReview, map[string]any{
		"deliverable_id": req.DeliverableID.String(),
		"decision":       string(review.Status),
	}))
	if j.AssignedTo != nil {
		s.notifier.NotifyUsers(ctx, []uuid.UUID{*j.AssignedTo}, j.ProjectID, notification.TypeDeliverableReviewed, map[string]any{
			"job_id":         j.ID.String(),
			"deliverable_id": req.DeliverableID.String(),
			"decision":       string(review.Status),
		}, actor.ID)
	}
	return review, j, nil
}

// CompleteJob closes a reviewed job and records the payment owed.
func (s *JobService) CompleteJob(ctx context.Context, actor *account.Profile, jobID uuid.UUID) (*job.Job, *job.Payment, error) {
	if err := s.guard.Authorize(actor, presets.ResourceJob, presets.ActionUpdate); err != nil {
		return nil, nil, err
	}

	j, payment, err := s.jobs.Complete(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}

	s.audit.Record(ctx, auditEvent(actor, audit.ResourceTypeJob, j.ID, audit.ActionComplete, map[string]any{
		"payment_id": payment.ID.String(),
		"amount":     payment.Amount,
		"currency":   payment.Currency,
	}))
	s.notifier.NotifyUsers(ctx, []uuid.UUID{payment.CreatorID}, j.ProjectID, notification.TypeJobCompleted, map[string]any{
		"job_id":     j.ID.String(),
		"payment_id": payment.ID.String(),
	}, actor.ID)
	return j, payment, nil
}

func (s *JobService) UpdatePaymentStatus(ctx context.Context, actor *account.Profile, paymentID uuid.UUID, to job.PaymentStatus) (*job.Payment, error) {
	if err := s.guard.Authorize(actor, presets.ResourcePayment, presets.ActionUpdate); err != nil {
		return nil, err
	}
	if err := to.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	current, err := s.jobs.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanMoveTo(to) {
		return nil, apperrors.InvalidState(fmt.Sprintf(msgPaymentTransitionFmt, current.Status, to))
	}

	payment, err := s.jobs.UpdatePaymentStatus(ctx, paymentID, current.Status, to)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditEvent(actor, audit.ResourceTypePayment, payment.ID, audit.ActionUpdate, map[string]any{
		"from": string(current.Status),
		"to":   string(payment.Status),
	}))
	s.notifier.NotifyUsers(ctx, []uuid.UUID{payment.CreatorID}, nil, notification.TypePaymentUpdated, map[string]any{
		"payment_id": payment.ID.String(),
		"status":     string(payment.Status),
	}, actor.ID)
	return payment, nil
}

func (s *JobService) ListPayments(ctx context.Context, actor *account.Profile, creatorID uuid.UUID) ([]*job.Payment, error) {
	if err := s.guard.Authorize(actor, presets.ResourcePayment, presets.ActionRead); err != nil {
		return nil, err
	}
	if err := s.guard.SelfOrStaff(actor, creatorID); err != nil {
		return nil, err
	}
	return s.jobs.ListPaymentsByCreator(ctx, creatorID)
}

// GetCreatorStats derives job counts and payment totals on every call.
func (s *JobService) GetCreatorStats(ctx context.Context, actor *account.Profile, creatorID uuid.UUID) (*job.Stats, error) {
	if err := s.guard.SelfOrStaff(actor, creatorID); err != nil {
		return nil, err
	}

	jobs, err := s.jobs.ListByAssignee(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	payments, err := s.jobs.ListPaymentsByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	stats := &job.Stats{
		CreatorID:        creatorID,
		JobsByStatus:     make(map[job.Status]int, len(job.AllStatuses)),
		PaymentsByStatus: make(map[job.PaymentStatus]float64),
	}
	for _, st := range job.AllStatuses {
		stats.JobsByStatus[st] = 0
	}

	var total float64
	var scored int
	for _, j := range jobs {
		stats.JobsByStatus[j.Status]++
		if j.QualityScore != nil {
			total += *j.QualityScore
			scored++
		}
	}
	if scored > 0 {
		avg := total / float64(scored)
		stats.AverageQuality = &avg
	}

	for _, p := range payments {
		stats.PaymentsByStatus[p.Status] += p.Amount
	}
	return stats, nil
}
