package app

import (
	"studio-service/internal/audit"
	"studio-service/internal/repository"
	"studio-service/internal/storage"
)

// Backends bundles the stores one deployment runs on: every repository, the
// object store and the audit sink.
type Backends struct {
	Accounts      repository.AccountRepository
	Profiles      repository.ProfileRepository
	Projects      repository.ProjectRepository
	Assignments   repository.AssignmentRepository
	Assets        repository.AssetRepository
	Comments      repository.CommentRepository
	Notifications repository.NotificationRepository
	Jobs          repository.JobRepository
	Objects       storage.ObjectStore
	AuditStore    audit.Store

	close func()
}

// Close releases connections held by the backends.
func (b *Backends) Close() {
	if b.close != nil {
		b.close()
	}
}
