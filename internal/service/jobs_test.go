package service

import (
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/job"
	"studio-service/internal/domain/notification"
	"studio-service/internal/storage"
	apperrors "studio-service/pkg/errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var goodScores = job.Scores{Quality: 4, Creativity: 5, BriefAlignment: 4, Timeliness: 3}

func (f *fixture) openJob(t *testing.T, producer *account.Profile) *job.Job {
	t.Helper()
	j, err := f.jobs.CreateJob(f.ctx, producer, CreateJobRequest{
		Title:          "Cut a 30s teaser",
		Category:       "video",
		SkillsRequired: []string{"editing"},
		BudgetAmount:   400,
	})
	require.NoError(t, err)
	return j
}

func TestJobLifecycle(t *testing.T) {
	f := newFixture(t)
	producer := f.profile(t, account.ProfileProducer, nil)
	admin := f.profile(t, account.ProfileAdmin, nil)
	creative := f.profile(t, account.ProfileCreative, nil)

	j := f.openJob(t, producer)
	assert.Equal(t, job.StatusOpen, j.Status)
	assert.Equal(t, "USD", j.BudgetCurrency)

	open, err := f.jobs.ListOpenJobs(f.ctx, creative)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	claimed, err := f.jobs.ApplyToJob(f.ctx, creative, j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusAssigned, claimed.Status)
	assert.Contains(t, typesOf(f.inboxOf(t, producer.ID)), notification.TypeJobClaimed)

	started, err := f.jobs.StartJob(f.ctx, creative, j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusInProgress, started.Status)
	require.NotNil(t, started.StartedAt)

	d1, err := f.jobs.SubmitDeliverable(f.ctx, creative, SubmitDeliverableRequest{JobID: j.ID, File: file("teaser-v1.mp4")})
	require.NoError(t, err)
	assert.Equal(t, 1, d1.Version)
	assert.Equal(t, job.DeliverablePending, d1.Status)

	_, reworked, err := f.jobs.ReviewDeliverable(f.ctx, producer, ReviewRequest{
		DeliverableID: d1.ID,
		Scores:        goodScores,
		Feedback:      "trim the intro",
		Decision:      job.DecisionRevisionRequested,
	})
	require.NoError(t, err)
	assert.Equal(t, job.StatusInProgress, reworked.Status)
	assert.Nil(t, reworked.QualityScore)

	d2, err := f.jobs.SubmitDeliverable(f.ctx, creative, SubmitDeliverableRequest{JobID: j.ID, File: file("teaser-v2.mp4")})
	require.NoError(t, err)
	assert.Equal(t, 2, d2.Version)

	review, reviewed, err := f.jobs.ReviewDeliverable(f.ctx, producer, ReviewRequest{
		DeliverableID: d2.ID,
		Scores:        goodScores,
		Decision:      job.DecisionApproved,
		Checklist:     map[string]bool{"captions": true},
	})
	require.NoError(t, err)
	assert.Equal(t, job.DecisionApproved, review.Status)
	assert.Equal(t, job.StatusReviewed, reviewed.Status)
	require.NotNil(t, reviewed.QualityScore)
	assert.InDelta(t, 4.0, *reviewed.QualityScore, 0.001)

	_, _, err = f.jobs.ReviewDeliverable(f.ctx, producer, ReviewRequest{DeliverableID: d2.ID, Scores: goodScores, Decision: job.DecisionApproved})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	completed, payment, err := f.jobs.CompleteJob(f.ctx, producer, j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompleted, completed.Status)
	assert.Equal(t, job.PaymentPending, payment.Status)
	assert.Equal(t, creative.ID, payment.CreatorID)
	assert.InDelta(t, 400.0, payment.Amount, 0.001)

	_, err = f.jobs.UpdatePaymentStatus(f.ctx, producer, payment.ID, job.PaymentProcessing)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.jobs.UpdatePaymentStatus(f.ctx, admin, payment.ID, job.PaymentPaid)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	for _, next := range []job.PaymentStatus{job.PaymentProcessing, job.PaymentPaid} {
		p, err := f.jobs.UpdatePaymentStatus(f.ctx, admin, payment.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, p.Status)
	}
	_, err = f.jobs.UpdatePaymentStatus(f.ctx, admin, payment.ID, job.PaymentFailed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	stats, err := f.jobs.GetCreatorStats(f.ctx, creative, creative.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.JobsByStatus[job.StatusCompleted])
	assert.Equal(t, 0, stats.JobsByStatus[job.StatusOpen])
	assert.InDelta(t, 400.0, stats.PaymentsByStatus[job.PaymentPaid], 0.001)
	require.NotNil(t, stats.AverageQuality)
	assert.InDelta(t, 4.0, *stats.AverageQuality, 0.001)

	assert.Equal(t, []audit.Action{audit.ActionReview, audit.ActionReview, audit.ActionComplete}, f.auditor.actions(audit.ResourceTypeJob))
	assert.Len(t, f.auditor.actions(audit.ResourceTypePayment), 2)
}

func TestApplyToJob_SecondApplicantLoses(t *testing.T) {
	f := newFixture(t)
	producer := f.profile(t, account.ProfileProducer, nil)
	first := f.profile(t, account.ProfileCreative, nil)
	second := f.profile(t, account.ProfileCreative, nil)
	j := f.openJob(t, producer)

	_, err := f.jobs.ApplyToJob(f.ctx, first, j.ID)
	require.NoError(t, err)

	_, err = f.jobs.ApplyToJob(f.ctx, second, j.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	view, err := f.jobs.GetJobDetails(f.ctx, producer, j.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Job.AssignedTo)
	assert.Equal(t, first.ID, *view.Job.AssignedTo)
}

func TestApplyToJob_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	producer := f.profile(t, account.ProfileProducer, nil)
	j := f.openJob(t, producer)

	const applicants = 16
	creatives := make([]*account.Profile, applicants)
	for i := range creatives {
		creatives[i] = f.profile(t, account.ProfileCreative, nil)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []*account.Profile
		conflicts int
	)
	for _, c := range creatives {
		wg.Add(1)
		go func(c *account.Profile) {
			defer wg.Done()
			_, err := f.jobs.ApplyToJob(f.ctx, c, j.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners = append(winners, c)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrConflict)
			conflicts++
		}(c)
	}
	wg.Wait()

	require.Len(t, winners, 1)
	assert.Equal(t, applicants-1, conflicts)

	view, err := f.jobs.GetJobDetails(f.ctx, producer, j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusAssigned, view.Job.Status)
	require.NotNil(t, view.Job.AssignedTo)
	assert.Equal(t, winners[0].ID, *view.Job.AssignedTo)

	_, err = f.jobs.ApplyToJob(f.ctx, creatives[0], j.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	view, err = f.jobs.GetJobDetails(f.ctx, producer, j.ID)
	require.NoError(t, err)
	assert.Equal(t, winners[0].ID, *view.Job.AssignedTo)
}

func TestApplyToJob_ClientsCannotClaim(t *testing.T) {
	f := newFixture(t)
	producer := f.profile(t, account.ProfileProducer, nil)
	client := f.client(t, f.account(t))
	j := f.openJob(t, producer)

	_, err := f.jobs.ApplyToJob(f.ctx, client, j.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestGetJobDetails_Visibility(t *testing.T) {
	f := newFixture(t)
	producer := f.profile(t, account.ProfileProducer, nil)
	assignee := f.profile(t, account.ProfileCreative, nil)
	other := f.profile(t, account.ProfileCreative, nil)
	j := f.openJob(t, producer)

	view, err := f.jobs.GetJobDetails(f.ctx, other, j.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Deliverables)

	_, err = f.jobs.ApplyToJob(f.ctx, assignee, j.ID)
	require.NoError(t, err)

	_, err = f.jobs.GetJobDetails(f.ctx, other, j.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.jobs.GetJobDetails(f.ctx, assignee, j.ID)
	assert.NoError(t, err)

	_, err = f.jobs.ListDeliverables(f.ctx, other, j.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.jobs.GetJobDetails(f.ctx, other, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSubmitDeliverable_Guards(t *testing.T) {
	f := newFixture(t)
	producer := f.profile(t, account.ProfileProducer, nil)
	assignee := f.profile(t, account.ProfileCreative, nil)
	other := f.profile(t, account.ProfileCreative, nil)
	j := f.openJob(t, producer)

	_, err := f.jobs.SubmitDeliverable(f.ctx, assignee, SubmitDeliverableRequest{JobID: j.ID, File: file("a.mp4")})
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "open job has no assignee yet")

	_, err = f.jobs.ApplyToJob(f.ctx, assignee, j.ID)
	require.NoError(t, err)

	_, err = f.jobs.SubmitDeliverable(f.ctx, other, SubmitDeliverableRequest{JobID: j.ID, File: file("a.mp4")})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.jobs.SubmitDeliverable(f.ctx, assignee, SubmitDeliverableRequest{JobID: j.ID, File: file("a.mp4")})
	require.NoError(t, err)

	_, err = f.jobs.SubmitDeliverable(f.ctx, assignee, SubmitDeliverableRequest{JobID: j.ID, File: file("b.mp4")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState, "submitted job awaits review")

	keys, err := f.bucket.List(f.ctx, storage.JobPrefix(j.ID))
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestSubmitDeliverable_StorageFailure(t *testing.T) {
	f := newFixture(t, func(o *overrides) {
		o.objects = &flakyObjects{ObjectStore: o.objects, failPut: true}
	})
	producer := f.profile(t, account.ProfileProducer, nil)
	assignee := f.profile(t, account.ProfileCreative, nil)
	j := f.openJob(t, producer)
	_, err := f.jobs.ApplyToJob(f.ctx, assignee, j.ID)
	require.NoError(t, err)

	_, err = f.jobs.SubmitDeliverable(f.ctx, assignee, SubmitDeliverableRequest{JobID: j.ID, File: file("a.mp4")})
	assert.ErrorIs(t, err, apperrors.ErrExternalService)

	view, err := f.jobs.GetJobDetails(f.ctx, assignee, j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusAssigned, view.Job.Status)
}

func TestSubmitDeliverable_InsertFailureRemovesUpload(t *testing.T) {
	f := newFixture(t, func(o *overrides) {
		o.jobs = failingJobs{JobRepository: o.jobs}
	})
	producer := f.profile(t, account.ProfileProducer, nil)
	assignee := f.profile(t, account.ProfileCreative, nil)
	j := f.openJob(t, producer)
	_, err := f.jobs.ApplyToJob(f.ctx, assignee, j.ID)
	require.NoError(t, err)
	_, err = f.jobs.StartJob(f.ctx, assignee, j.ID)
	require.NoError(t, err)

	_, err = f.jobs.SubmitDeliverable(f.ctx, assignee, SubmitDeliverableRequest{JobID: j.ID, File: file("a.mp4")})
	assert.ErrorIs(t, err, errInjected)

	keys, err := f.bucket.List(f.ctx, storage.JobPrefix(j.ID))
	require.NoError(t, err)
	assert.Empty(t, keys)

	view, err := f.jobs.GetJobDetails(f.ctx, assignee, j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusInProgress, view.Job.Status)
	assert.Nil(t, view.Job.SubmittedAt)
	assert.Empty(t, view.Deliverables)
}

func TestReviewDeliverable_Validation(t *testing.T) {
	f := newFixture(t)
	producer := f.profile(t, account.ProfileProducer, nil)
	creative := f.profile(t, account.ProfileCreative, nil)

	_, _, err := f.jobs.ReviewDeliverable(f.ctx, creative, ReviewRequest{DeliverableID: uuid.New(), Scores: goodScores, Decision: job.DecisionApproved})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	bad := goodScores
	bad.Timeliness = 6
	_, _, err = f.jobs.ReviewDeliverable(f.ctx, producer, ReviewRequest{DeliverableID: uuid.New(), Scores: bad, Decision: job.DecisionApproved})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = f.jobs.ReviewDeliverable(f.ctx, producer, ReviewRequest{DeliverableID: uuid.New(), Scores: goodScores, Decision: "maybe"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = f.jobs.ReviewDeliverable(f.ctx, producer, ReviewRequest{DeliverableID: uuid.New(), Scores: goodScores, Decision: job.DecisionApproved})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateJob_Validation(t *testing.T) {
	f := newFixture(t)
	producer := f.profile(t, account.ProfileProducer, nil)
	creative := f.profile(t, account.ProfileCreative, nil)
	hours := -1

	tests := []struct {
		name  string
		actor *account.Profile
		req   CreateJobRequest
		want  error
	}{
		{"creative cannot post", creative, CreateJobRequest{Title: "x"}, apperrors.ErrForbidden},
		{"missing title", producer, CreateJobRequest{}, apperrors.ErrValidation},
		{"negative budget", producer, CreateJobRequest{Title: "x", BudgetAmount: -5}, apperrors.ErrValidation},
		{"bad currency", producer, CreateJobRequest{Title: "x", BudgetCurrency: "usd"}, apperrors.ErrValidation},
		{"negative hours", producer, CreateJobRequest{Title: "x", EstimatedHours: &hours}, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.jobs.CreateJob(f.ctx, tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
