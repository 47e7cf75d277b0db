package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"alttext/internal/domain"
	"alttext/internal/infra"
)

type pagingAssetStore struct {
	assets      map[int64][]domain.Asset
	pageFetches int
}

func (s *pagingAssetStore) FindByID(ctx context.Context, id, siteID int64) (*domain.Asset, error) {
	return nil, domain.ErrNotFound
}

func (s *pagingAssetStore) FindImagesBySite(ctx context.Context, siteID int64, filter domain.AssetFilter, offset, limit int) ([]domain.Asset, error) {
	s.pageFetches++
	all := s.filtered(siteID, filter)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *pagingAssetStore) CountImagesBySite(ctx context.Context, siteID int64, filter domain.AssetFilter) (int, error) {
	return len(s.filtered(siteID, filter)), nil
}

func (s *pagingAssetStore) SaveAltText(ctx context.Context, asset *domain.Asset) error {
	return nil
}

func (s *pagingAssetStore) filtered(siteID int64, filter domain.AssetFilter) []domain.Asset {
	var out []domain.Asset
	for _, a := range s.assets[siteID] {
		if filter == domain.FilterMissingAltOnly && a.HasAltText() {
			continue
		}
		out = append(out, a)
	}
	return out
}

type stubSiteRegistry struct {
	sites []domain.Site
}

func (s *stubSiteRegistry) ListSites(ctx context.Context) ([]domain.Site, error) {
	return s.sites, nil
}

func (s *stubSiteRegistry) GetSite(ctx context.Context, id int64) (*domain.Site, error) {
	for i := range s.sites {
		if s.sites[i].ID == id {
			return &s.sites[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

type recordingDispatcher struct {
	tasks   []domain.GenerationTask
	failIDs map[int64]bool
}

func (d *recordingDispatcher) DispatchDeferred(ctx context.Context, task domain.GenerationTask) error {
	if d.failIDs[task.AssetID] {
		return errors.New("queue unavailable")
	}
	d.tasks = append(d.tasks, task)
	return nil
}

func discardLogger() infra.Logger {
	return zerolog.New(io.Discard)
}

func makeAssets(siteID int64, n int) []domain.Asset {
	assets := make([]domain.Asset, n)
	for i := range assets {
		assets[i] = domain.Asset{
			ID:       int64(i + 1),
			SiteID:   siteID,
			Filename: fmt.Sprintf("img-%d.jpg", i+1),
			Kind:     domain.AssetKindImage,
		}
	}
	return assets
}

func TestRunPaginates(t *testing.T) {
	store := &pagingAssetStore{assets: map[int64][]domain.Asset{1: makeAssets(1, 250)}}
	dispatcher := &recordingDispatcher{}
	sites := &stubSiteRegistry{sites: []domain.Site{{ID: 1, Name: "Main"}}}
	p := NewProcessor(store, sites, dispatcher, 100, discardLogger())

	result, err := p.Run(context.Background(), Scope{}, domain.FilterMissingAltOnly, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if store.pageFetches != 3 {
		t.Errorf("page fetches = %d, want 3 for 250 assets at page size 100", store.pageFetches)
	}
	if result.TotalCandidates != 250 {
		t.Errorf("total candidates = %d", result.TotalCandidates)
	}
	if result.ProcessedCount != 250 || result.QueuedCount != 250 {
		t.Errorf("processed = %d, queued = %d", result.ProcessedCount, result.QueuedCount)
	}
	if len(dispatcher.tasks) != 250 {
		t.Errorf("dispatched %d tasks", len(dispatcher.tasks))
	}
}

func TestRunExactPageBoundary(t *testing.T) {
	store := &pagingAssetStore{assets: map[int64][]domain.Asset{1: makeAssets(1, 200)}}
	dispatcher := &recordingDispatcher{}
	sites := &stubSiteRegistry{sites: []domain.Site{{ID: 1}}}
	p := NewProcessor(store, sites, dispatcher, 100, discardLogger())

	result, err := p.Run(context.Background(), Scope{}, domain.FilterAllAssets, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Two full pages, then one empty fetch to detect the end.
	if store.pageFetches != 3 {
		t.Errorf("page fetches = %d, want 3", store.pageFetches)
	}
	if result.QueuedCount != 200 {
		t.Errorf("queued = %d", result.QueuedCount)
	}
	for _, task := range dispatcher.tasks {
		if !task.Force {
			t.Fatal("force flag must propagate into tasks")
		}
	}
}

func TestRunSkipsAssetsWithAltUnderMissingFilter(t *testing.T) {
	assets := makeAssets(1, 5)
	assets[1].Alt = "described"
	assets[3].Alt = "also described"
	store := &pagingAssetStore{assets: map[int64][]domain.Asset{1: assets}}
	dispatcher := &recordingDispatcher{}
	sites := &stubSiteRegistry{sites: []domain.Site{{ID: 1}}}
	p := NewProcessor(store, sites, dispatcher, 100, discardLogger())

	result, err := p.Run(context.Background(), Scope{}, domain.FilterMissingAltOnly, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.QueuedCount != 3 {
		t.Errorf("queued = %d, want 3", result.QueuedCount)
	}
	for _, task := range dispatcher.tasks {
		if task.AssetID == 2 || task.AssetID == 4 {
			t.Errorf("asset %d with alt text was queued", task.AssetID)
		}
	}
}

func TestRunDispatchFailureDoesNotAbort(t *testing.T) {
	store := &pagingAssetStore{assets: map[int64][]domain.Asset{1: makeAssets(1, 4)}}
	dispatcher := &recordingDispatcher{failIDs: map[int64]bool{2: true}}
	sites := &stubSiteRegistry{sites: []domain.Site{{ID: 1}}}
	p := NewProcessor(store, sites, dispatcher, 100, discardLogger())

	result, err := p.Run(context.Background(), Scope{}, domain.FilterAllAssets, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.QueuedCount != 3 {
		t.Errorf("queued = %d, want 3", result.QueuedCount)
	}
	if result.ProcessedCount != 4 {
		t.Errorf("processed = %d, want 4", result.ProcessedCount)
	}
}

func TestRunMultiSite(t *testing.T) {
	assets2 := makeAssets(2, 2)
	assets2[0].ID = 101
	assets2[1].ID = 102
	store := &pagingAssetStore{assets: map[int64][]domain.Asset{
		1: makeAssets(1, 3),
		2: assets2,
	}}
	dispatcher := &recordingDispatcher{}
	sites := &stubSiteRegistry{sites: []domain.Site{{ID: 1, Name: "Main"}, {ID: 2, Name: "Blog"}}}
	p := NewProcessor(store, sites, dispatcher, 100, discardLogger())

	result, err := p.Run(context.Background(), Scope{}, domain.FilterAllAssets, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.TotalCandidates != 5 {
		t.Errorf("total candidates = %d", result.TotalCandidates)
	}
	if got := result.PerSite[1].Total; got != 3 {
		t.Errorf("site 1 total = %d", got)
	}
	if got := result.PerSite[2].Total; got != 2 {
		t.Errorf("site 2 total = %d", got)
	}
	for _, task := range dispatcher.tasks {
		if task.SiteID != 1 && task.SiteID != 2 {
			t.Errorf("task with unexpected site %d", task.SiteID)
		}
	}
}

func TestRunInvalidSiteScope(t *testing.T) {
	store := &pagingAssetStore{assets: map[int64][]domain.Asset{}}
	sites := &stubSiteRegistry{sites: []domain.Site{{ID: 1}}}
	p := NewProcessor(store, sites, &recordingDispatcher{}, 100, discardLogger())

	siteID := int64(99)
	_, err := p.Run(context.Background(), Scope{SiteID: &siteID}, domain.FilterAllAssets, false)
	if !errors.Is(err, domain.ErrInvalidSite) {
		t.Errorf("err = %v, want ErrInvalidSite", err)
	}
}
