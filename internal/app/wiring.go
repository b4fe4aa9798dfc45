package app

import (
	"context"
	"fmt"
	"log/slog"
	"studio-service/internal/audit"
	"studio-service/internal/auth"
	"studio-service/internal/config"
	"studio-service/internal/generation"
	"studio-service/internal/http"
	"studio-service/internal/rbac"
	"studio-service/internal/rbac/presets"
	"studio-service/internal/repository/memory"
	"studio-service/internal/repository/postgres"
	"studio-service/internal/service"
	storagemem "studio-service/internal/storage/memory"
	"studio-service/internal/storage/s3"
)

const (
	errFailedMigrateFmt      = "failed to run migrations: %w"
	errFailedConnectDBFmt    = "failed to connect to database: %w"
	errFailedCreateS3Fmt     = "failed to create S3 client: %w"
	errFailedEnsureBucketFmt = "failed to ensure bucket: %w"
	errFailedInitRBACFmt     = "failed to initialize RBAC: %w"
)

// OpenBackends picks the stores named by STORE_DRIVER.
func OpenBackends(ctx context.Context, cfg *config.Config) (*Backends, error) {
	if cfg.UsesPostgres() {
		return NewPostgresBackends(ctx, cfg)
	}
	return NewMemoryBackends(), nil
}

// NewMemoryBackends keeps everything in process. Nothing survives a restart.
func NewMemoryBackends() *Backends {
	store := memory.New()
	return &Backends{
		Accounts:      memory.NewAccountRepository(store),
		Profiles:      memory.NewProfileRepository(store),
		Projects:      memory.NewProjectRepository(store),
		Assignments:   memory.NewAssignmentRepository(store),
		Assets:        memory.NewAssetRepository(store),
		Comments:      memory.NewCommentRepository(store),
		Notifications: memory.NewNotificationRepository(store),
		Jobs:          memory.NewJobRepository(store),
		Objects:       storagemem.New(),
		AuditStore:    audit.NewMemoryStore(),
	}
}

// NewPostgresBackends migrates the schema, opens the pool and makes sure the
// asset bucket exists.
func NewPostgresBackends(ctx context.Context, cfg *config.Config) (*Backends, error) {
	if err := postgres.Migrate(cfg.Database.MigrationURL()); err != nil {
		return nil, fmt.Errorf(errFailedMigrateFmt, err)
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf(errFailedConnectDBFmt, err)
	}

	objects, err := s3.NewClient(&cfg.AWS)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf(errFailedCreateS3Fmt, err)
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf(errFailedEnsureBucketFmt, err)
	}

	return &Backends{
		Accounts:      postgres.NewAccountRepository(db),
		Profiles:      postgres.NewProfileRepository(db),
		Projects:      postgres.NewProjectRepository(db),
		Assignments:   postgres.NewAssignmentRepository(db),
		Assets:        postgres.NewAssetRepository(db),
		Comments:      postgres.NewCommentRepository(db),
		Notifications: postgres.NewNotificationRepository(db),
		Jobs:          postgres.NewJobRepository(db),
		Objects:       objects,
		AuditStore:    audit.NewPostgresStore(db.Pool),
		close:         db.Close,
	}, nil
}

// New wires services, middleware and the HTTP server over b.
func New(cfg *config.Config, b *Backends, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	checker, err := rbac.New(presets.Studio())
	if err != nil {
		return nil, fmt.Errorf(errFailedInitRBACFmt, err)
	}

	auditLogger := audit.NewLogger(b.AuditStore, log)
	guard := service.NewGuard(checker, b.Projects, b.Assignments)
	notifier := service.NewNotifier(b.Projects, b.Profiles, b.Assignments, b.Notifications, log)
	maxUpload := cfg.App.MaxUploadSize

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)

	server := http.NewServer(&http.ServerDependencies{
		Config:         cfg,
		Accounts:       service.NewAccountService(b.Accounts, b.Profiles, guard, auditLogger),
		Projects:       service.NewProjectService(b.Projects, b.Accounts, b.Profiles, b.Assignments, guard, notifier, auditLogger, log),
		Assignments:    service.NewAssignmentService(b.Assignments, b.Projects, b.Profiles, b.Assets, b.Comments, guard, notifier, auditLogger),
		Assets:         service.NewAssetService(b.Assets, b.Objects, guard, notifier, auditLogger, log, maxUpload),
		Comments:       service.NewCommentService(b.Comments, guard, notifier),
		Jobs:           service.NewJobService(b.Jobs, b.Objects, guard, notifier, auditLogger, log, maxUpload),
		Inbox:          service.NewInboxService(b.Notifications, guard, cfg.App.PageSize),
		Generation:     service.NewGenerationService(generation.NewClient(&cfg.Generation), guard),
		AuditEvents:    auditLogger,
		AuthMiddleware: auth.NewMiddleware(jwtService, b.Profiles),
		RBACMiddleware: auth.NewRBACMiddleware(checker),
	})

	return &App{
		config:   cfg,
		backends: b,
		audit:    auditLogger,
		server:   server,
	}, nil
}
