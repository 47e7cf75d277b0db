package settings

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/text/language"

	"alttext/internal/domain"
	"alttext/internal/infra"
	"alttext/internal/sqlinline"
)

const (
	cacheKey = "settings"
	cacheTTL = gocache.DefaultExpiration
)

// Store loads and saves the service configuration record. Reads are cached
// with a short TTL: every deferred task loads settings, and the record changes
// only when an editor saves the settings page.
type Store struct {
	sql   infra.SQLExecutor
	cache *gocache.Cache
}

// NewStore constructs a settings store with the given cache TTL.
func NewStore(sql infra.SQLExecutor, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Store{
		sql:   sql,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Load returns the current settings. A missing row yields zero-value settings
// (no API key, default language), which downstream components treat as
// "generation disabled".
func (s *Store) Load(ctx context.Context) (*domain.Settings, error) {
	if cached, ok := s.cache.Get(cacheKey); ok {
		if settings, ok := cached.(*domain.Settings); ok {
			return settings, nil
		}
	}

	row := s.sql.QueryRow(ctx, sqlinline.QSelectSettings)
	var settings domain.Settings
	if err := row.Scan(&settings.APIKey, &settings.Language, &settings.GenerateForNewAssets, &settings.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			settings = domain.Settings{Language: domain.DefaultLanguage}
		} else {
			return nil, fmt.Errorf("load settings: %w", err)
		}
	}
	s.cache.Set(cacheKey, &settings, cacheTTL)
	return &settings, nil
}

// Save upserts the settings row and invalidates the cache. The language is
// normalized to a base BCP-47 code before persisting.
func (s *Store) Save(ctx context.Context, settings *domain.Settings) error {
	settings.APIKey = strings.TrimSpace(settings.APIKey)
	settings.Language = NormalizeLanguage(settings.Language)
	if _, err := s.sql.Exec(ctx, sqlinline.QUpsertSettings, settings.APIKey, settings.Language, settings.GenerateForNewAssets); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.cache.Delete(cacheKey)
	return nil
}

// NormalizeLanguage reduces a user-supplied language code to its base BCP-47
// form ("en-US" -> "en"). Unparseable input falls back to the default.
func NormalizeLanguage(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.DefaultLanguage
	}
	tag, err := language.Parse(code)
	if err != nil {
		return domain.DefaultLanguage
	}
	base, _ := tag.Base()
	return base.String()
}
