package repo

import (
	"context"
	"fmt"

	"alttext/internal/domain"
	"alttext/internal/infra"
	"alttext/internal/sqlinline"
)

// SiteRepo implements domain.SiteRegistry.
type SiteRepo struct {
	sql infra.SQLExecutor
}

// NewSiteRepo constructs a new site registry adapter.
func NewSiteRepo(sql infra.SQLExecutor) *SiteRepo {
	return &SiteRepo{sql: sql}
}

// ListSites returns all enabled sites in id order.
func (r *SiteRepo) ListSites(ctx context.Context) ([]domain.Site, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectAllSites)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var sites []domain.Site
	for rows.Next() {
		var site domain.Site
		if err := rows.Scan(&site.ID, &site.Name, &site.BaseURL, &site.Enabled); err != nil {
			return nil, fmt.Errorf("scan site row: %w", err)
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sites, nil
}

// GetSite fetches one site by id, or domain.ErrNotFound.
func (r *SiteRepo) GetSite(ctx context.Context, id int64) (*domain.Site, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectSiteByID, id)
	var site domain.Site
	if err := row.Scan(&site.ID, &site.Name, &site.BaseURL, &site.Enabled); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get site %d: %w", id, err)
	}
	return &site, nil
}

var _ domain.SiteRegistry = (*SiteRepo)(nil)
