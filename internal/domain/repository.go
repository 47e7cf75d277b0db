package domain

import "context"

// AssetStore defines the asset-store capabilities this service consumes from
// the host. Saves are limited to the alt attribute; everything else about an
// asset is owned elsewhere.
type AssetStore interface {
	FindByID(ctx context.Context, id, siteID int64) (*Asset, error)
	FindImagesBySite(ctx context.Context, siteID int64, filter AssetFilter, offset, limit int) ([]Asset, error)
	CountImagesBySite(ctx context.Context, siteID int64, filter AssetFilter) (int, error)
	SaveAltText(ctx context.Context, asset *Asset) error
}

// SiteRegistry exposes the configured sites.
type SiteRegistry interface {
	ListSites(ctx context.Context) ([]Site, error)
	GetSite(ctx context.Context, id int64) (*Site, error)
}

// TaskQueue hands generation tasks to the asynchronous execution facility.
type TaskQueue interface {
	Enqueue(ctx context.Context, task *GenerationTask) error
}

// SettingsStore persists the single service configuration record.
type SettingsStore interface {
	Load(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}
