package service

import (
	"context"
	"log/slog"
	"strings"
	"studio-service/internal/audit"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/asset"
	"studio-service/internal/domain/notification"
	"studio-service/internal/rbac/presets"
	"studio-service/internal/repository"
	"studio-service/internal/storage"
	apperrors "studio-service/pkg/errors"
	"studio-service/pkg/validator"
	"time"

	"github.com/google/uuid"
)

type AssetService struct {
	assets        repository.AssetRepository
	objects       storage.ObjectStore
	guard         *Guard
	notifier      *Notifier
	audit         Auditor
	log           *slog.Logger
	clock         func() time.Time
	maxUploadSize int64
}

func NewAssetService(
	assets repository.AssetRepository,
	objects storage.ObjectStore,
	guard *Guard,
	notifier *Notifier,
	auditor Auditor,
	log *slog.Logger,
	maxUploadSize int64,
) *AssetService {
	return &AssetService{
		assets:        assets,
		objects:       objects,
		guard:         guard,
		notifier:      notifier,
		audit:         orNopAuditor(auditor),
		log:           orDefaultLogger(log),
		clock:         defaultClock,
		maxUploadSize: maxUploadSize,
	}
}

// Upload is a file handed to the engine along with its descriptive fields.
type Upload struct {
	FileName    string
	ContentType string
	Body        []byte
}

func (u Upload) validate(maxSize int64) error {
	if err := validator.FileName(u.FileName); err != nil {
		return apperrors.Validation(err.Error())
	}
	if err := validator.FileSize(int64(len(u.Body)), maxSize); err != nil {
		return apperrors.Validation(err.Error())
	}
	if err := validator.ContentType(u.ContentType); err != nil {
		return apperrors.Validation(err.Error())
	}
	return nil
}

type UploadAssetRequest struct {
	ProjectID uuid.UUID
	Type      string
	Notes     string
	Metadata  map[string]any
	File      Upload
}

// UploadAsset stores the file, then records it as the project's next
// version. If the row cannot be written the stored object is removed again.
func (s *AssetService) UploadAsset(ctx context.Context, actor *account.Profile, req UploadAssetRequest) (*asset.Asset, error) {
	if err := s.guard.Authorize(actor, presets.ResourceAsset, presets.ActionCreate); err != nil {
		return nil, err
	}
	if err := req.File.validate(s.maxUploadSize); err != nil {
		return nil, err
	}
	if req.Type = strings.TrimSpace(req.Type); req.Type == "" {
		req.Type = req.File.ContentType
	}
	if _, err := s.guard.Project(ctx, actor, req.ProjectID); err != nil {
		return nil, err
	}

	key := storage.ProjectKey(req.ProjectID, req.File.FileName, s.clock())
	url, err := s.objects.Put(ctx, key, req.File.Body, req.File.ContentType)
	if err != nil {
		return nil, apperrors.ExternalService(msgStorageUpload, err)
	}

	a, err := s.assets.CreateNextVersion(ctx, asset.CreateAssetInput{
		ProjectID:  req.ProjectID,
		UploadedBy: actor.ID,
		Type:       req.Type,
		FileURL:    url,
		Notes:      strings.TrimSpace(req.Notes),
		Metadata:   req.Metadata,
	})
	if err != nil {
		s.compensate(ctx, key)
		return nil, err
	}

	s.notifier.NotifyStakeholders(ctx, a.ProjectID, notification.TypeAssetUploaded, map[string]any{
		"asset_id": a.ID.String(),
		"version":  a.Version,
	}, actor.ID)
	return a, nil
}

// compensate removes an object whose database row was never written. It
// runs detached from ctx so a cancelled request still cleans up.
func (s *AssetService) compensate(ctx context.Context, key string) {
	if err := s.objects.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.log.ErrorContext(ctx, logCompensationFailed,
			slog.String("key", key),
			slog.Any("error", err))
	}
}

// MarkAssetAsFinal makes the asset the project's only final version.
func (s *AssetService) MarkAssetAsFinal(ctx context.Context, actor *account.Profile, id uuid.UUID) (*asset.Asset, error) {
	if err := s.guard.Authorize(actor, presets.ResourceAsset, presets.ActionApprove); err != nil {
		return nil, err
	}
	current, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Project(ctx, actor, current.ProjectID); err != nil {
		return nil, err
	}

	final, err := s.assets.MarkFinal(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditEvent(actor, audit.ResourceTypeAsset, final.ID, audit.ActionFinalize, map[string]any{
		"project_id": final.ProjectID.String(),
		"version":    final.Version,
	}))
	s.notifier.NotifyStakeholders(ctx, final.ProjectID, notification.TypeAssetFinalized, map[string]any{
		"asset_id": final.ID.String(),
		"version":  final.Version,
	}, actor.ID)
	return final, nil
}

// DeleteAsset removes the stored object and then the row. A storage failure
// does not keep the row; the object is logged for manual cleanup.
func (s *AssetService) DeleteAsset(ctx context.Context, actor *account.Profile, id uuid.UUID) error {
	if err := s.guard.Authorize(actor, presets.ResourceAsset, presets.ActionDelete); err != nil {
		return err
	}
	a, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.guard.Project(ctx, actor, a.ProjectID); err != nil {
		return err
	}

	key, err := s.objects.KeyFromURL(a.FileURL)
	if err == nil {
		err = s.objects.Delete(ctx, key)
	}
	if err != nil {
		s.log.WarnContext(ctx, logOrphanedObject,
			slog.String("asset_id", a.ID.String()),
			slog.String("file_url", a.FileURL),
			slog.Any("error", err))
	}

	if err := s.assets.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, auditEvent(actor, audit.ResourceTypeAsset, a.ID, audit.ActionDelete, map[string]any{
		"project_id": a.ProjectID.String(),
		"version":    a.Version,
	}))
	return nil
}

func (s *AssetService) ListAssets(ctx context.Context, actor *account.Profile, projectID uuid.UUID) ([]*asset.Asset, error) {
	if err := s.guard.Authorize(actor, presets.ResourceAsset, presets.ActionRead); err != nil {
		return nil, err
	}
	if _, err := s.guard.Project(ctx, actor, projectID); err != nil {
		return nil, err
	}
	return s.assets.ListByProject(ctx, projectID)
}

func (s *AssetService) GetFinalAsset(ctx context.Context, actor *account.Profile, projectID uuid.UUID) (*asset.Asset, error) {
	assets, err := s.ListAssets(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	for _, a := range assets {
		if a.IsFinal {
			return a, nil
		}
	}
	return nil, apperrors.NotFound(msgNoFinalAsset)
}
