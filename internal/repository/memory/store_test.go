package memory

import (
	"context"
	"sync"
	"testing"

	"studio-service/internal/domain/asset"
	"studio-service/internal/domain/assignment"
	"studio-service/internal/domain/job"
	"studio-service/internal/domain/project"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(t *testing.T, s *Store) *project.Project {
	t.Helper()
	p, _, err := NewProjectRepository(s).CreateWithBrief(context.Background(), project.CreateProjectInput{
		ClientAccountID: uuid.New(),
		Title:           "Launch film",
		CreatedBy:       uuid.New(),
	})
	require.NoError(t, err)
	return p
}

func TestAssetRepository_ConcurrentUploadsGetDistinctVersions(t *testing.T) {
	s := New()
	repo := NewAssetRepository(s)
	p := newProject(t, s)

	const uploads = 25
	var wg sync.WaitGroup
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateNextVersion(context.Background(), asset.CreateAssetInput{
				ProjectID: p.ID, UploadedBy: uuid.New(), Type: "image", FileURL: "memory://x",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assets, err := repo.ListByProject(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, assets, uploads)
	for i, a := range assets {
		assert.Equal(t, i+1, a.Version)
	}
}

func TestAssetRepository_MarkFinalKeepsOneFinal(t *testing.T) {
	s := New()
	repo := NewAssetRepository(s)
	p := newProject(t, s)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		a, err := repo.CreateNextVersion(ctx, asset.CreateAssetInput{ProjectID: p.ID, FileURL: "memory://x"})
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := repo.MarkFinal(ctx, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	assets, err := repo.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	finals := 0
	for _, a := range assets {
		if a.IsFinal {
			finals++
		}
	}
	assert.Equal(t, 1, finals)
}

func TestAssignmentRepository_ActivePairIsUnique(t *testing.T) {
	s := New()
	repo := NewAssignmentRepository(s)
	ctx := context.Background()
	in := assignment.CreateAssignmentInput{ProjectID: uuid.New(), UserID: uuid.New(), Role: "editor"}

	first, err := repo.Create(ctx, in)
	require.NoError(t, err)

	_, err = repo.Create(ctx, in)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = repo.Deactivate(ctx, first.ID)
	require.NoError(t, err)

	second, err := repo.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	all, err := repo.ListByProject(ctx, in.ProjectID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestJobRepository_OnlyOneClaimWins(t *testing.T) {
	s := New()
	repo := NewJobRepository(s)
	ctx := context.Background()

	j, err := repo.Create(ctx, job.CreateJobInput{Title: "Storyboard", BudgetAmount: 300, BudgetCurrency: "USD"})
	require.NoError(t, err)

	const applicants = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []uuid.UUID
	)
	for i := 0; i < applicants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user := uuid.New()
			if _, err := repo.Claim(ctx, j.ID, user); err == nil {
				mu.Lock()
				winners = append(winners, user)
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, apperrors.ErrConflict)
			}
		}()
	}
	wg.Wait()

	require.Len(t, winners, 1)
	stored, err := repo.GetByID(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, winners[0], *stored.AssignedTo)
	assert.Equal(t, job.StatusAssigned, stored.Status)
}

func TestJobRepository_ReviewRevisionReturnsJobToWork(t *testing.T) {
	s := New()
	repo := NewJobRepository(s)
	ctx := context.Background()
	creator := uuid.New()

	j, err := repo.Create(ctx, job.CreateJobInput{Title: "Edit", BudgetAmount: 100})
	require.NoError(t, err)
	_, err = repo.Claim(ctx, j.ID, creator)
	require.NoError(t, err)

	d, _, err := repo.SubmitDeliverable(ctx, job.SubmitDeliverableInput{JobID: j.ID, SubmittedBy: creator, FileURL: "memory://v1"})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Version)

	_, reviewed, err := repo.Review(ctx, job.ReviewInput{
		DeliverableID: d.ID,
		Scores:        job.Scores{Quality: 3, Creativity: 3, BriefAlignment: 3, Timeliness: 3},
		Decision:      job.DecisionRevisionRequested,
	})
	require.NoError(t, err)
	assert.Equal(t, job.StatusInProgress, reviewed.Status)

	d2, _, err := repo.SubmitDeliverable(ctx, job.SubmitDeliverableInput{JobID: j.ID, SubmittedBy: creator, FileURL: "memory://v2"})
	require.NoError(t, err)
	assert.Equal(t, 2, d2.Version)

	_, _, err = repo.Review(ctx, job.ReviewInput{DeliverableID: d.ID, Decision: job.DecisionApproved})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestStore_ReturnedRowsDoNotAliasState(t *testing.T) {
	s := New()
	ctx := context.Background()
	jobs := NewJobRepository(s)
	assets := NewAssetRepository(s)
	p := newProject(t, s)

	skills := []string{"motion"}
	j, err := jobs.Create(ctx, job.CreateJobInput{Title: "Cut", SkillsRequired: skills, BudgetAmount: 50})
	require.NoError(t, err)
	skills[0] = "changed by caller"
	j.SkillsRequired[0] = "changed by reader"

	meta := map[string]any{"width": 1920}
	a, err := assets.CreateNextVersion(ctx, asset.CreateAssetInput{ProjectID: p.ID, FileURL: "memory://x", Metadata: meta})
	require.NoError(t, err)
	meta["width"] = 1
	a.Metadata["height"] = 1080

	creator := uuid.New()
	_, err = jobs.Claim(ctx, j.ID, creator)
	require.NoError(t, err)
	d, _, err := jobs.SubmitDeliverable(ctx, job.SubmitDeliverableInput{JobID: j.ID, SubmittedBy: creator, FileURL: "memory://d"})
	require.NoError(t, err)
	checklist := map[string]bool{"brand": true}
	review, _, err := jobs.Review(ctx, job.ReviewInput{DeliverableID: d.ID, Decision: job.DecisionApproved, Checklist: checklist})
	require.NoError(t, err)
	checklist["brand"] = false
	review.Checklist["extra"] = true

	storedJob, err := jobs.GetByID(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"motion"}, storedJob.SkillsRequired)

	storedAsset, err := assets.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"width": 1920}, storedAsset.Metadata)

	assert.Equal(t, map[string]bool{"brand": true}, s.reviews[review.ID].Checklist)
}
