package memory

import (
	"context"
	"sort"
	"studio-service/internal/domain/asset"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
)

const errAssetNotFound = "asset not found"

type AssetRepository struct {
	s *Store
}

func NewAssetRepository(s *Store) *AssetRepository {
	return &AssetRepository{s: s}
}

func (r *AssetRepository) CreateNextVersion(ctx context.Context, input asset.CreateAssetInput) (*asset.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[input.ProjectID]; !ok {
		return nil, apperrors.NotFound(errProjectNotFound)
	}

	maxVersion := 0
	for _, a := range r.s.assets {
		if a.ProjectID == input.ProjectID && a.Version > maxVersion {
			maxVersion = a.Version
		}
	}

	a := &asset.Asset{
		ID:         uuid.New(),
		ProjectID:  input.ProjectID,
		UploadedBy: input.UploadedBy,
		Version:    maxVersion + 1,
		Type:       input.Type,
		FileURL:    input.FileURL,
		Notes:      input.Notes,
		Metadata:   input.Metadata,
		CreatedAt:  r.s.now(),
	}
	r.s.assets[a.ID] = cloneAsset(a)

	return cloneAsset(a), nil
}

func (r *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.assets[id]
	if !ok {
		return nil, apperrors.NotFound(errAssetNotFound)
	}
	return cloneAsset(a), nil
}

func (r *AssetRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*asset.Asset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var assets []*asset.Asset
	for _, a := range r.s.assets {
		if a.ProjectID == projectID {
			assets = append(assets, cloneAsset(a))
		}
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Version < assets[j].Version })
	return assets, nil
}

func (r *AssetRepository) MarkFinal(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	target, ok := r.s.assets[id]
	if !ok {
		return nil, apperrors.NotFound(errAssetNotFound)
	}
	for _, a := range r.s.assets {
		if a.ProjectID == target.ProjectID {
			a.IsFinal = false
		}
	}
	target.IsFinal = true

	return cloneAsset(target), nil
}

func (r *AssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.assets[id]; !ok {
		return apperrors.NotFound(errAssetNotFound)
	}
	delete(r.s.assets, id)
	return nil
}
