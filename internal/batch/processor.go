package batch

import (
	"context"
	"errors"
	"fmt"

	"alttext/internal/domain"
	"alttext/internal/infra"
)

// Scope restricts a batch run to a single site. A nil SiteID targets every
// configured site.
type Scope struct {
	SiteID *int64
}

type taskDispatcher interface {
	DispatchDeferred(ctx context.Context, task domain.GenerationTask) error
}

// Processor paginates over image-asset collections and hands each candidate to
// the dispatcher. Per-asset failures are logged and never abort the run; only
// scope resolution can fail a batch.
type Processor struct {
	assets     domain.AssetStore
	sites      domain.SiteRegistry
	dispatcher taskDispatcher
	pageSize   int
	logger     infra.Logger
}

// NewProcessor wires a batch processor with the given page size.
func NewProcessor(assets domain.AssetStore, sites domain.SiteRegistry, dispatcher taskDispatcher, pageSize int, logger infra.Logger) *Processor {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Processor{assets: assets, sites: sites, dispatcher: dispatcher, pageSize: pageSize, logger: logger}
}

// Run executes one batch: resolve the target sites, count candidates for
// reporting, then page through each site's assets dispatching deferred tasks.
// Peak memory is bounded by the page size regardless of collection size.
func (p *Processor) Run(ctx context.Context, scope Scope, filter domain.AssetFilter, force bool) (*domain.BatchRunResult, error) {
	sites, err := p.resolveSites(ctx, scope)
	if err != nil {
		return nil, err
	}

	result := domain.NewBatchRunResult()

	// Count phase. The totals feed user-facing progress reporting only; the
	// page loop below re-checks every asset individually.
	for _, site := range sites {
		breakdown, err := p.countSite(ctx, site.ID)
		if err != nil {
			return nil, err
		}
		result.PerSite[site.ID] = breakdown
		if filter == domain.FilterMissingAltOnly {
			result.TotalCandidates += breakdown.WithoutAlt
		} else {
			result.TotalCandidates += breakdown.Total
		}
	}
	p.logger.Info().Int("total_candidates", result.TotalCandidates).
		Str("filter", string(filter)).Msg("batch: starting run")

	for _, site := range sites {
		if err := p.processSite(ctx, site, filter, force, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (p *Processor) resolveSites(ctx context.Context, scope Scope) ([]domain.Site, error) {
	if scope.SiteID != nil {
		site, err := p.sites.GetSite(ctx, *scope.SiteID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: %d", domain.ErrInvalidSite, *scope.SiteID)
			}
			return nil, err
		}
		return []domain.Site{*site}, nil
	}
	sites, err := p.sites.ListSites(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve sites: %w", err)
	}
	return sites, nil
}

func (p *Processor) countSite(ctx context.Context, siteID int64) (domain.SiteBreakdown, error) {
	total, err := p.assets.CountImagesBySite(ctx, siteID, domain.FilterAllAssets)
	if err != nil {
		return domain.SiteBreakdown{}, fmt.Errorf("count images for site %d: %w", siteID, err)
	}
	missing, err := p.assets.CountImagesBySite(ctx, siteID, domain.FilterMissingAltOnly)
	if err != nil {
		return domain.SiteBreakdown{}, fmt.Errorf("count images for site %d: %w", siteID, err)
	}
	return domain.SiteBreakdown{Total: total, WithAlt: total - missing, WithoutAlt: missing}, nil
}

func (p *Processor) processSite(ctx context.Context, site domain.Site, filter domain.AssetFilter, force bool, result *domain.BatchRunResult) error {
	p.logger.Info().Int64("site_id", site.ID).Str("site", site.Name).Msg("batch: processing site")

	offset := 0
	for {
		page, err := p.assets.FindImagesBySite(ctx, site.ID, filter, offset, p.pageSize)
		if err != nil {
			return fmt.Errorf("fetch page for site %d: %w", site.ID, err)
		}
		if len(page) == 0 {
			return nil
		}
		result.ProcessedCount += len(page)
		p.logger.Debug().Int64("site_id", site.ID).Int("batch_size", len(page)).
			Int("offset", offset).Msg("batch: processing page")

		for i := range page {
			asset := &page[i]
			// Re-check right before dispatch: the asset may have gained alt
			// text between the count phase and this page fetch.
			if filter == domain.FilterMissingAltOnly && asset.HasAltText() {
				p.logger.Debug().Int64("asset_id", asset.ID).Msg("batch: asset gained alt text, skipping")
				continue
			}
			task := domain.GenerationTask{AssetID: asset.ID, SiteID: site.ID, Force: force}
			if err := p.dispatcher.DispatchDeferred(ctx, task); err != nil {
				// One bad asset must not block the remaining ones.
				p.logger.Error().Err(err).Int64("asset_id", asset.ID).
					Msg("batch: failed to queue generation task")
				continue
			}
			result.QueuedCount++
		}

		if len(page) < p.pageSize {
			return nil
		}
		offset += p.pageSize
	}
}
