package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/asset"
	"studio-service/internal/domain/job"
	"studio-service/internal/domain/notification"
	"studio-service/internal/domain/project"
	"studio-service/internal/rbac"
	"studio-service/internal/rbac/presets"
	"studio-service/internal/repository"
	"studio-service/internal/repository/memory"
	"studio-service/internal/storage"
	storagemem "studio-service/internal/storage/memory"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testMaxUpload = 1 << 20

var errInjected = errors.New("injected failure")

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAuditor) Record(_ context.Context, ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingAuditor) actions(resource audit.ResourceType) []audit.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []audit.Action
	for _, ev := range r.events {
		if ev.ResourceType == resource {
			out = append(out, ev.Action)
		}
	}
	return out
}

// failingAssets fails every insert, as if the database rejected the row.
type failingAssets struct {
	repository.AssetRepository
}

func (failingAssets) CreateNextVersion(context.Context, asset.CreateAssetInput) (*asset.Asset, error) {
	return nil, errInjected
}

// failingJobs rejects every deliverable row after the upload succeeded.
type failingJobs struct {
	repository.JobRepository
}

func (failingJobs) SubmitDeliverable(context.Context, job.SubmitDeliverableInput) (*job.Deliverable, *job.Job, error) {
	return nil, nil, errInjected
}

type failingNotifications struct {
	repository.NotificationRepository
}

func (failingNotifications) CreateBatch(context.Context, []notification.CreateNotificationInput) error {
	return errInjected
}

// flakyObjects wraps a bucket and fails Put or Delete on demand.
type flakyObjects struct {
	storage.ObjectStore
	failPut    bool
	failDelete bool
}

func (f *flakyObjects) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if f.failPut {
		return "", errInjected
	}
	return f.ObjectStore.Put(ctx, key, body, contentType)
}

func (f *flakyObjects) Delete(ctx context.Context, key string) error {
	if f.failDelete {
		return errInjected
	}
	return f.ObjectStore.Delete(ctx, key)
}

type overrides struct {
	assets        repository.AssetRepository
	jobs          repository.JobRepository
	notifications repository.NotificationRepository
	objects       storage.ObjectStore
}

type fixture struct {
	ctx           context.Context
	store         *memory.Store
	bucket        *storagemem.Bucket
	accountsRepo  *memory.AccountRepository
	profilesRepo  *memory.ProfileRepository
	projectsRepo  *memory.ProjectRepository
	notifications *memory.NotificationRepository
	auditor       *recordingAuditor
	guard         *Guard
	notifier      *Notifier

	accounts    *AccountService
	projects    *ProjectService
	assignments *AssignmentService
	assets      *AssetService
	comments    *CommentService
	jobs        *JobService
	inbox       *InboxService
}

func newFixture(t *testing.T, opts ...func(*overrides)) *fixture {
	t.Helper()

	store := memory.New()
	bucket := storagemem.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	accounts := memory.NewAccountRepository(store)
	profiles := memory.NewProfileRepository(store)
	projects := memory.NewProjectRepository(store)
	assignments := memory.NewAssignmentRepository(store)
	comments := memory.NewCommentRepository(store)
	notifications := memory.NewNotificationRepository(store)
	o := overrides{
		assets:        memory.NewAssetRepository(store),
		jobs:          memory.NewJobRepository(store),
		notifications: notifications,
		objects:       bucket,
	}
	for _, opt := range opts {
		opt(&o)
	}

	checker, err := rbac.New(presets.Studio())
	require.NoError(t, err)

	auditor := &recordingAuditor{}
	guard := NewGuard(checker, projects, assignments)
	notifier := NewNotifier(projects, profiles, assignments, o.notifications, log)

	return &fixture{
		ctx:           context.Background(),
		store:         store,
		bucket:        bucket,
		accountsRepo:  accounts,
		profilesRepo:  profiles,
		projectsRepo:  projects,
		notifications: notifications,
		auditor:       auditor,
		guard:         guard,
		notifier:      notifier,

		accounts:    NewAccountService(accounts, profiles, guard, auditor),
		projects:    NewProjectService(projects, accounts, profiles, assignments, guard, notifier, auditor, log),
		assignments: NewAssignmentService(assignments, projects, profiles, o.assets, comments, guard, notifier, auditor),
		assets:      NewAssetService(o.assets, o.objects, guard, notifier, auditor, log, testMaxUpload),
		comments:    NewCommentService(comments, guard, notifier),
		jobs:        NewJobService(o.jobs, o.objects, guard, notifier, auditor, log, testMaxUpload),
		inbox:       NewInboxService(notifications, guard, 0),
	}
}

func (f *fixture) account(t *testing.T) *account.ClientAccount {
	t.Helper()
	acct, err := f.accountsRepo.Create(f.ctx, account.CreateClientAccountInput{
		CompanyName:  "Acme " + uuid.NewString()[:8],
		ContactEmail: "ops@acme.test",
	})
	require.NoError(t, err)
	return acct
}

func (f *fixture) profile(t *testing.T, typ account.ProfileType, accountID *uuid.UUID) *account.Profile {
	t.Helper()
	p, err := f.profilesRepo.Ensure(f.ctx, account.CreateProfileInput{
		ID:              uuid.New(),
		FullName:        string(typ) + " user",
		ProfileType:     typ,
		ClientAccountID: accountID,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) client(t *testing.T, acct *account.ClientAccount) *account.Profile {
	t.Helper()
	id := acct.ID
	return f.profile(t, account.ProfileClient, &id)
}

func (f *fixture) project(t *testing.T, creator *account.Profile, acct *account.ClientAccount) (*project.Project, *project.Brief) {
	t.Helper()
	p, b, err := f.projects.CreateProject(f.ctx, creator, CreateProjectRequest{
		ClientAccountID: acct.ID,
		Title:           "Spring campaign",
	})
	require.NoError(t, err)
	return p, b
}

func (f *fixture) assign(t *testing.T, producer, user *account.Profile, projectID uuid.UUID) {
	t.Helper()
	_, err := f.assignments.CreateAssignment(f.ctx, producer, CreateAssignmentRequest{
		ProjectID: projectID,
		UserID:    user.ID,
		Role:      "editor",
	})
	require.NoError(t, err)
}

func (f *fixture) inboxOf(t *testing.T, userID uuid.UUID) []*notification.Notification {
	t.Helper()
	list, err := f.notifications.ListByUser(f.ctx, userID, 0)
	require.NoError(t, err)
	return list
}

func typesOf(list []*notification.Notification) []notification.Type {
	out := make([]notification.Type, 0, len(list))
	for _, n := range list {
		out = append(out, n.Type)
	}
	return out
}

func file(name string) Upload {
	return Upload{FileName: name, ContentType: "image/png", Body: []byte("png-bytes-" + name)}
}
