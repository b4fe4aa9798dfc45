package postgres

import (
	"context"
	"studio-service/internal/domain/asset"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const assetColumns = `id, project_id, uploaded_by, version, type, file_url, notes, is_final, metadata, created_at`

type AssetRepository struct {
	db *DB
}

func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func scanAsset(row rowScanner) (*asset.Asset, error) {
	a := &asset.Asset{}
	err := row.Scan(&a.ID, &a.ProjectID, &a.UploadedBy, &a.Version, &a.Type, &a.FileURL, &a.Notes, &a.IsFinal, &a.Metadata, &a.CreatedAt)
	return a, err
}

// CreateNextVersion computes and inserts max(version)+1 in one statement. Two
// concurrent uploads can still pick the same number; the loser trips the
// (project_id, version) unique constraint and retries.
func (r *AssetRepository) CreateNextVersion(ctx context.Context, input asset.CreateAssetInput) (*asset.Asset, error) {
	query := `
		INSERT INTO project_assets (id, project_id, uploaded_by, version, type, file_url, notes, metadata)
		SELECT $1, $2, $3, COALESCE(MAX(version), 0) + 1, $4, $5, $6, $7
		FROM project_assets WHERE project_id = $2
		RETURNING ` + assetColumns

	for attempt := 0; attempt < maxVersionAttempts; attempt++ {
		a, err := scanAsset(r.db.Pool.QueryRow(ctx, query,
			uuid.New(), input.ProjectID, input.UploadedBy, input.Type, input.FileURL, input.Notes, jsonObject(input.Metadata),
		))
		if err == nil {
			return a, nil
		}
		if isUniqueViolation(err) {
			continue
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errProjectNotFound)
		}
		return nil, errFailedCreateAsset(err)
	}

	return nil, apperrors.Conflict(errVersionContention)
}

func (r *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM project_assets WHERE id = $1`

	a, err := scanAsset(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errAssetNotFound)
		}
		return nil, errFailedGetAsset(err)
	}
	return a, nil
}

func (r *AssetRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*asset.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM project_assets WHERE project_id = $1 ORDER BY version`

	rows, err := r.db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, errFailedListAssets(err)
	}
	defer rows.Close()

	var assets []*asset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, errFailedScanAsset(err)
		}
		assets = append(assets, a)
	}

	return assets, rows.Err()
}

// MarkFinal locks the owning project row so concurrent swaps on the same
// project serialise, then demotes and promotes inside one transaction.
func (r *AssetRepository) MarkFinal(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	var promoted *asset.Asset

	err := r.db.withTx(ctx, func(tx pgx.Tx) error {
		var projectID uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT project_id FROM project_assets WHERE id = $1`, id).Scan(&projectID); err != nil {
			if isNoRows(err) {
				return apperrors.NotFound(errAssetNotFound)
			}
			return errFailedMarkFinal(err)
		}

		if _, err := tx.Exec(ctx, `SELECT id FROM projects WHERE id = $1 FOR UPDATE`, projectID); err != nil {
			return errFailedMarkFinal(err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE project_assets SET is_final = FALSE WHERE project_id = $1 AND is_final AND id <> $2`,
			projectID, id,
		); err != nil {
			return errFailedMarkFinal(err)
		}

		var err error
		promoted, err = scanAsset(tx.QueryRow(ctx,
			`UPDATE project_assets SET is_final = TRUE WHERE id = $1 RETURNING `+assetColumns, id,
		))
		if err != nil {
			if isNoRows(err) {
				return apperrors.NotFound(errAssetNotFound)
			}
			return errFailedMarkFinal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return promoted, nil
}

func (r *AssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM project_assets WHERE id = $1`, id)
	if err != nil {
		return errFailedDeleteAsset(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errAssetNotFound)
	}

	return nil
}
