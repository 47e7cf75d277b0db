package repo

import (
	"context"
	"fmt"

	"alttext/internal/domain"
	"alttext/internal/infra"
	"alttext/internal/sqlinline"
)

// AssetRepo implements domain.AssetStore against the host CMS's asset table.
type AssetRepo struct {
	sql infra.SQLExecutor
}

// NewAssetRepo constructs a new asset store adapter.
func NewAssetRepo(sql infra.SQLExecutor) *AssetRepo {
	return &AssetRepo{sql: sql}
}

// FindByID fetches one asset in the given site, or domain.ErrNotFound.
func (r *AssetRepo) FindByID(ctx context.Context, id, siteID int64) (*domain.Asset, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectAssetByID, id, siteID)
	var asset domain.Asset
	if err := scanAsset(row, &asset); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find asset %d: %w", id, err)
	}
	return &asset, nil
}

// FindImagesBySite returns one page of image assets for the site, optionally
// restricted to those missing alt text.
func (r *AssetRepo) FindImagesBySite(ctx context.Context, siteID int64, filter domain.AssetFilter, offset, limit int) ([]domain.Asset, error) {
	query := sqlinline.QSelectImagesBySite
	if filter == domain.FilterMissingAltOnly {
		query = sqlinline.QSelectImagesMissingAlt
	}
	rows, err := r.sql.Query(ctx, query, siteID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list images for site %d: %w", siteID, err)
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		var asset domain.Asset
		if err := scanAsset(rows, &asset); err != nil {
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

// CountImagesBySite counts the image assets the given filter would match.
func (r *AssetRepo) CountImagesBySite(ctx context.Context, siteID int64, filter domain.AssetFilter) (int, error) {
	query := sqlinline.QCountImagesBySite
	if filter == domain.FilterMissingAltOnly {
		query = sqlinline.QCountImagesMissingAlt
	}
	var count int
	if err := r.sql.QueryRow(ctx, query, siteID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count images for site %d: %w", siteID, err)
	}
	return count, nil
}

// SaveAltText persists the asset's alt attribute. The update is atomic: on
// failure the stored row keeps its pre-call state.
func (r *AssetRepo) SaveAltText(ctx context.Context, asset *domain.Asset) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateAssetAlt, asset.ID, asset.SiteID, asset.Alt)
	if err != nil {
		return fmt.Errorf("save alt text for asset %d: %w", asset.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(src scanner, asset *domain.Asset) error {
	return src.Scan(
		&asset.ID,
		&asset.SiteID,
		&asset.Filename,
		&asset.Kind,
		&asset.Alt,
		&asset.MimeType,
		&asset.Path,
		&asset.TransformSourcePath,
		&asset.URL,
		&asset.VolumeUID,
		&asset.DateCreated,
	)
}

var _ domain.AssetStore = (*AssetRepo)(nil)
