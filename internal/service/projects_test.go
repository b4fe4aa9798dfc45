package service

import (
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/project"
	apperrors "studio-service/pkg/errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	otherClient := f.client(t, f.account(t))
	creative := f.profile(t, account.ProfileCreative, nil)

	p, brief := f.project(t, client, acct)
	assert.Equal(t, project.StatusDraft, p.Status)
	assert.Equal(t, client.ID, p.CreatedBy)
	assert.Equal(t, p.ID, brief.ProjectID)
	assert.Equal(t, project.BriefDraft, brief.Status)

	_, _, err := f.projects.CreateProject(f.ctx, otherClient, CreateProjectRequest{ClientAccountID: acct.ID, Title: "x"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, _, err = f.projects.CreateProject(f.ctx, creative, CreateProjectRequest{ClientAccountID: acct.ID, Title: "x"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, _, err = f.projects.CreateProject(f.ctx, client, CreateProjectRequest{ClientAccountID: acct.ID, Title: ""})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateProject_SuspendedAccount(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	admin := f.profile(t, account.ProfileAdmin, nil)

	suspended := account.StatusSuspended
	_, err := f.accounts.UpdateClientAccount(f.ctx, admin, acct.ID, account.UpdateClientAccountInput{Status: &suspended})
	require.NoError(t, err)

	_, _, err = f.projects.CreateProject(f.ctx, admin, CreateProjectRequest{ClientAccountID: acct.ID, Title: "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestListProjectsForAccount(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	creative := f.profile(t, account.ProfileCreative, nil)

	p, _ := f.project(t, client, acct)
	f.project(t, client, acct)
	f.assign(t, producer, creative, p.ID)
	m, err := f.projects.CreateMilestone(f.ctx, producer, CreateMilestoneRequest{ProjectID: p.ID, Name: "Rough cut"})
	require.NoError(t, err)
	_, err = f.projects.CreateMilestone(f.ctx, producer, CreateMilestoneRequest{ProjectID: p.ID, Name: "Final cut"})
	require.NoError(t, err)
	_, err = f.projects.ApproveMilestone(f.ctx, producer, m.ID)
	require.NoError(t, err)

	summaries, err := f.projects.ListProjectsForAccount(f.ctx, client, acct.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	first := summaries[0]
	assert.Equal(t, p.ID, first.Project.ID)
	require.NotNil(t, first.Brief)
	assert.Equal(t, 1, first.ActiveAssignments)
	assert.Equal(t, 2, first.MilestoneCount)
	assert.Equal(t, 1, first.ApprovedMilestones)

	_, err = f.projects.ListProjectsForAccount(f.ctx, client, uuid.Nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.projects.ListProjectsForAccount(f.ctx, producer, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSubmitBrief_OnlyFromDraft(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	_, brief := f.project(t, client, acct)

	_, err := f.projects.SubmitBrief(f.ctx, client, brief.ID)
	require.NoError(t, err)

	_, err = f.projects.SubmitBrief(f.ctx, client, brief.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = f.projects.UpdateBrief(f.ctx, client, brief.ID, project.UpdateBriefInput{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestUpdateBrief_WhileDraft(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	_, brief := f.project(t, client, acct)

	objective := "  Launch the spring line "
	updated, err := f.projects.UpdateBrief(f.ctx, client, brief.ID, project.UpdateBriefInput{
		Objective:   &objective,
		KeyMessages: []string{"fresh", "bold"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Launch the spring line", updated.Objective)
	assert.Equal(t, []string{"fresh", "bold"}, updated.KeyMessages)
}

func TestTransitionBrief_Rules(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	admin := f.profile(t, account.ProfileAdmin, nil)
	_, brief := f.project(t, client, acct)

	_, err := f.projects.TransitionBrief(f.ctx, producer, brief.ID, project.BriefInReview)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState, "producers cannot skip a step")

	b, err := f.projects.TransitionBrief(f.ctx, client, brief.ID, project.BriefSubmitted)
	require.NoError(t, err)
	assert.Equal(t, project.BriefSubmitted, b.Status)

	_, err = f.projects.TransitionBrief(f.ctx, client, brief.ID, project.BriefInReview)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	b, err = f.projects.TransitionBrief(f.ctx, producer, brief.ID, project.BriefInReview)
	require.NoError(t, err)
	assert.Equal(t, project.BriefInReview, b.Status)

	_, err = f.projects.TransitionBrief(f.ctx, producer, brief.ID, project.BriefDraft)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	b, err = f.projects.TransitionBrief(f.ctx, admin, brief.ID, project.BriefDraft)
	require.NoError(t, err)
	assert.Equal(t, project.BriefDraft, b.Status)
	assert.Contains(t, f.auditor.actions(audit.ResourceTypeBrief), audit.ActionTransition)

	_, err = f.projects.TransitionBrief(f.ctx, admin, brief.ID, project.BriefDraft)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = f.projects.TransitionBrief(f.ctx, admin, brief.ID, "archived")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateProjectStatus(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	p, _ := f.project(t, client, acct)

	updated, err := f.projects.UpdateProjectStatus(f.ctx, producer, p.ID, project.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, project.StatusActive, updated.Status)

	_, err = f.projects.UpdateProjectStatus(f.ctx, client, p.ID, project.StatusCompleted)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.projects.UpdateProjectStatus(f.ctx, producer, p.ID, "paused")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestApproveMilestone_Once(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	p, _ := f.project(t, client, acct)

	m, err := f.projects.CreateMilestone(f.ctx, producer, CreateMilestoneRequest{ProjectID: p.ID, Name: "Storyboard"})
	require.NoError(t, err)
	assert.Equal(t, project.MilestonePending, m.Status)

	_, err = f.projects.ApproveMilestone(f.ctx, client, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	approved, err := f.projects.ApproveMilestone(f.ctx, producer, m.ID)
	require.NoError(t, err)
	assert.Equal(t, project.MilestoneApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, producer.ID, *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)

	_, err = f.projects.ApproveMilestone(f.ctx, producer, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	list, err := f.projects.ListMilestones(f.ctx, client, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPublishing(t *testing.T) {
	f := newFixture(t)
	acct := f.account(t)
	client := f.client(t, acct)
	producer := f.profile(t, account.ProfileProducer, nil)
	admin := f.profile(t, account.ProfileAdmin, nil)
	outsider := f.profile(t, account.ProfileCreative, nil)
	p, _ := f.project(t, client, acct)

	for _, v := range []project.Visibility{project.VisibilityPublic, project.VisibilityClient, project.VisibilityInternal} {
		_, err := f.projects.PublishUpdate(f.ctx, producer, PublishUpdateRequest{ProjectID: p.ID, Title: string(v) + " note", Body: "body", Visibility: v})
		require.NoError(t, err)
	}

	_, err := f.projects.ListUpdates(f.ctx, outsider, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.projects.SetProjectVisibility(f.ctx, producer, p.ID, project.VisibilityPublic)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = f.projects.SetProjectVisibility(f.ctx, admin, p.ID, project.VisibilityPublic)
	require.NoError(t, err)

	cases := []struct {
		name   string
		reader *account.Profile
		want   int
	}{
		{"outsider", outsider, 1},
		{"client", client, 2},
		{"producer", producer, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			updates, err := f.projects.ListUpdates(f.ctx, tc.reader, p.ID)
			require.NoError(t, err)
			assert.Len(t, updates, tc.want)
		})
	}

	public, err := f.projects.ListPublicProjects(f.ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, p.ID, public[0].ID)
	assert.Equal(t, p.Title, public[0].Title)
	assert.Contains(t, f.auditor.actions(audit.ResourceTypeProject), audit.ActionPublish)
}
