//go:build integration

package postgres

import (
	"context"
	"os"
	"sort"
	"studio-service/internal/config"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/asset"
	"studio-service/internal/domain/job"
	"studio-service/internal/domain/project"
	apperrors "studio-service/pkg/errors"
	"sync"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: go test -tags integration ./internal/repository/postgres/...
// against a scratch database described by the usual DB_* variables.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set")
	}

	var cfg config.DatabaseConfig
	require.NoError(t, env.Parse(&cfg))
	require.NoError(t, Migrate(cfg.MigrationURL()))

	db, err := New(&cfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

type seed struct {
	account  *account.ClientAccount
	producer *account.Profile
	project  *project.Project
}

func seedProject(t *testing.T, ctx context.Context, db *DB) seed {
	t.Helper()
	acct, err := NewAccountRepository(db).Create(ctx, account.CreateClientAccountInput{
		CompanyName:  "Acme " + uuid.NewString()[:8],
		ContactEmail: "ops@acme.test",
	})
	require.NoError(t, err)

	producer := seedProfile(t, ctx, db, account.ProfileProducer)
	p, _, err := NewProjectRepository(db).CreateWithBrief(ctx, project.CreateProjectInput{
		ClientAccountID: acct.ID,
		Title:           "Spring campaign",
		CreatedBy:       producer.ID,
	})
	require.NoError(t, err)
	return seed{account: acct, producer: producer, project: p}
}

func seedProfile(t *testing.T, ctx context.Context, db *DB, typ account.ProfileType) *account.Profile {
	t.Helper()
	p, err := NewProfileRepository(db).Ensure(ctx, account.CreateProfileInput{
		ID:          uuid.New(),
		FullName:    string(typ) + " user",
		ProfileType: typ,
	})
	require.NoError(t, err)
	return p
}

func TestAssetRepository_RetriesAfterVersionCollision(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	s := seedProject(t, ctx, db)
	repo := NewAssetRepository(db)

	// Hold version 1 in an open transaction so the repository computes the
	// same number and blocks on the unique index until we commit.
	tx, err := db.Pool.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)
	_, err = tx.Exec(ctx,
		`INSERT INTO project_assets (id, project_id, uploaded_by, version, type, file_url) VALUES ($1, $2, $3, 1, 'image/png', 'memory://held')`,
		uuid.New(), s.project.ID, s.producer.ID)
	require.NoError(t, err)

	type result struct {
		a   *asset.Asset
		err error
	}
	done := make(chan result, 1)
	go func() {
		a, err := repo.CreateNextVersion(ctx, asset.CreateAssetInput{
			ProjectID: s.project.ID, UploadedBy: s.producer.ID, Type: "image/png", FileURL: "memory://racer",
		})
		done <- result{a, err}
	}()

	require.Eventually(t, func() bool {
		var waiting int
		err := db.Pool.QueryRow(ctx,
			`SELECT count(*) FROM pg_stat_activity WHERE datname = current_database() AND wait_event_type = 'Lock'`,
		).Scan(&waiting)
		return err == nil && waiting > 0
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, tx.Commit(ctx))

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, 2, res.a.Version)
}

func TestAssetRepository_ConcurrentUploadsGetContiguousVersions(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	s := seedProject(t, ctx, db)
	repo := NewAssetRepository(db)

	// Each round of collisions lets at least one insert through, so this many
	// writers always fit inside the retry budget.
	const uploads = maxVersionAttempts
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		versions []int
	)
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := repo.CreateNextVersion(ctx, asset.CreateAssetInput{
				ProjectID: s.project.ID, UploadedBy: s.producer.ID, Type: "image/png", FileURL: "memory://x",
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			versions = append(versions, a.Version)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Ints(versions)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, versions)
}

func TestJobRepository_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	producer := seedProfile(t, ctx, db, account.ProfileProducer)
	repo := NewJobRepository(db)

	j, err := repo.Create(ctx, job.CreateJobInput{
		Title:          "Storyboard",
		BudgetAmount:   300,
		BudgetCurrency: "USD",
		CreatedBy:      producer.ID,
	})
	require.NoError(t, err)

	const applicants = 10
	creatives := make([]*account.Profile, applicants)
	for i := range creatives {
		creatives[i] = seedProfile(t, ctx, db, account.ProfileCreative)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []uuid.UUID
		conflicts int
	)
	for _, c := range creatives {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := repo.Claim(ctx, j.ID, id)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners = append(winners, id)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrConflict)
			conflicts++
		}(c.ID)
	}
	wg.Wait()

	require.Len(t, winners, 1)
	assert.Equal(t, applicants-1, conflicts)

	stored, err := repo.GetByID(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusAssigned, stored.Status)
	require.NotNil(t, stored.AssignedTo)
	assert.Equal(t, winners[0], *stored.AssignedTo)
}
